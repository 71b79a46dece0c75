// Package app wires the calculator task to a HAL.
package app

import (
	"errors"
	"runtime/debug"

	"retrocalc/calc/task"
	"retrocalc/hal"
	"retrocalc/internal/buildinfo"

	"github.com/go-logr/logr"
)

// Config controls a calculator instance.
type Config struct {
	Task task.Config

	// Script is pressed one button per step, by value or action name.
	Script []string

	// ExitAfterScript stops the runner once the script has run and no
	// timed work is left.
	ExitAfterScript bool
}

type calculator struct {
	h   hal.HAL
	cfg Config
	log logr.Logger

	fb   hal.Framebuffer
	task *task.Task

	ticks   <-chan uint64
	keys    <-chan hal.KeyEvent
	pointer <-chan hal.PointerEvent

	now    uint64
	next   int
	failed error
}

// New builds the calculator on h and returns the step the runner calls once
// per frame.
func New(h hal.HAL, cfg Config, log logr.Logger) func() error {
	c, err := newCalculator(h, cfg, log)
	if err != nil {
		log.Error(err, "calculator unavailable")
		return func() error { return err }
	}
	return c.step
}

func newCalculator(h hal.HAL, cfg Config, log logr.Logger) (*calculator, error) {
	c := &calculator{h: h, cfg: cfg, log: log}

	if d := h.Display(); d != nil {
		c.fb = d.Framebuffer()
	}
	if c.fb == nil {
		return nil, hal.ErrNotImplemented
	}
	if in := h.Input(); in != nil {
		if kbd := in.Keyboard(); kbd != nil {
			c.keys = kbd.Events()
		}
		if ptr := in.Pointer(); ptr != nil {
			c.pointer = ptr.Events()
		}
	}
	if t := h.Time(); t != nil {
		c.ticks = t.Ticks()
	}

	c.task = task.New(c.fb, cfg.Task, log.WithName("calc"))
	log.Info("retrocalc starting",
		"build", buildinfo.String(),
		"size", [2]int{c.fb.Width(), c.fb.Height()},
		"locale", cfg.Task.Locale.String(),
		"script", len(cfg.Script))
	return c, nil
}

func (c *calculator) step() (err error) {
	if c.failed != nil {
		return c.failed
	}
	defer func() {
		if r := recover(); r != nil {
			err = c.panicked(r, debug.Stack())
		}
	}()

	c.drainTicks()
	c.task.Tick(c.now)

	if stop := c.drainKeys(); stop {
		c.log.Info("stop requested")
		return hal.ErrStop
	}
	c.drainPointer()
	c.runScript()

	if c.task.Dirty() {
		if err := c.task.Render(); err != nil && !errors.Is(err, hal.ErrNotImplemented) {
			return err
		}
	}

	if c.cfg.ExitAfterScript && c.next >= len(c.cfg.Script) && !c.task.Busy() {
		scr := c.task.Screen()
		c.log.Info("script done", "primary", scr.Primary, "secondary", scr.Secondary)
		return hal.ErrStop
	}
	return nil
}

func (c *calculator) drainTicks() {
	for {
		select {
		case seq, ok := <-c.ticks:
			if !ok {
				c.ticks = nil
				return
			}
			if seq > c.now {
				c.now = seq
			}
		default:
			return
		}
	}
}

func (c *calculator) drainKeys() bool {
	for {
		select {
		case ev, ok := <-c.keys:
			if !ok {
				c.keys = nil
				return false
			}
			if ev.Press && ev.Code == hal.KeyEscape {
				return true
			}
		default:
			return false
		}
	}
}

func (c *calculator) drainPointer() {
	for {
		select {
		case ev, ok := <-c.pointer:
			if !ok {
				c.pointer = nil
				return
			}
			c.task.Pointer(ev)
		default:
			return
		}
	}
}

func (c *calculator) runScript() {
	if c.next >= len(c.cfg.Script) {
		return
	}
	tok := c.cfg.Script[c.next]
	c.next++

	err := c.task.PressValue(tok)
	scr := c.task.Screen()
	kv := []any{"step", c.next, "press", tok, "primary", scr.Primary, "secondary", scr.Secondary}
	if err != nil {
		kv = append(kv, "notice", err.Error())
	}
	c.log.Info("script", kv...)
}
