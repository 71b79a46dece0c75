package app

import (
	"fmt"
	"image/color"
	"strings"
	"unicode/utf8"

	"retrocalc/hal"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// PanicError is returned by the step after it recovered from a panic.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("retrocalc panic: %v", e.Value)
}

func (c *calculator) panicked(v any, stack []byte) error {
	pe := &PanicError{Value: v, Stack: stack}
	c.failed = pe

	c.log.Error(pe, "step panicked")
	if l := c.h.Logger(); l != nil {
		for _, line := range strings.Split(string(stack), "\n") {
			if line == "" {
				continue
			}
			l.WriteLineString(line)
		}
	}
	paintPanic(c.fb, pe)
	return pe
}

var panicFont tinyfont.Fonter = &proggy.TinySZ8pt7b

const (
	panicLineHeight = 10
	panicBaseline   = 8
)

func paintPanic(fb hal.Framebuffer, pe *PanicError) {
	if fb == nil || fb.Format() != hal.PixelFormatRGB565 || fb.Buffer() == nil {
		return
	}
	fb.ClearRGB(255, 255, 255)

	_, outboxWidth := tinyfont.LineWidth(panicFont, "0")
	fontWidth := int(outboxWidth)
	if fontWidth <= 0 {
		_ = fb.Present()
		return
	}
	cols := fb.Width() / fontWidth
	if cols <= 0 {
		cols = 1
	}

	lines := []string{"Panic:", fmt.Sprintf("%v", pe.Value)}
	if len(pe.Stack) > 0 {
		lines = append(lines, "stack:")
		for _, line := range strings.Split(string(pe.Stack), "\n") {
			if line != "" {
				lines = append(lines, strings.TrimSpace(line))
			}
		}
	} else {
		lines = append(lines, "stack: unavailable")
	}

	d := panicDisplay{fb: fb}
	fg := color.RGBA{A: 255}
	y := 0
	for _, line := range lines {
		for len(line) > 0 {
			if y+panicLineHeight > fb.Height() {
				_ = fb.Present()
				return
			}
			chunk, rest := takeRunes(line, cols)
			tinyfont.WriteLine(d, panicFont, 0, int16(y+panicBaseline), chunk, fg)
			y += panicLineHeight
			line = strings.TrimLeft(rest, " ")
		}
	}
	_ = fb.Present()
}

type panicDisplay struct {
	fb hal.Framebuffer
}

func (d panicDisplay) Size() (x, y int16) {
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d panicDisplay) SetPixel(x, y int16, c color.RGBA) {
	buf := d.fb.Buffer()
	ix, iy := int(x), int(y)
	if ix < 0 || ix >= d.fb.Width() || iy < 0 || iy >= d.fb.Height() {
		return
	}
	pixel := hal.RGB565FromColor(c)
	off := iy*d.fb.StrideBytes() + ix*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (d panicDisplay) Display() error { return nil }

func takeRunes(s string, n int) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if len(s) <= n {
		return s, ""
	}
	i, count := 0, 0
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	return s[:i], s[i:]
}
