// Package notice shows short messages in place of the primary display.
package notice

import (
	"time"

	"retrocalc/calc/sched"
)

// DefaultDuration is how long a message stays before it reverts.
const DefaultDuration = 2 * time.Second

// Config controls a Board.
type Config struct {
	Duration time.Duration

	// CancelOnInput cancels a pending revert when Interrupt is called.
	// When false the revert fires on schedule even if newer content has
	// been drawn since, and puts the old text back until the next input.
	CancelOnInput bool
}

// Board holds at most one overlay line.
type Board struct {
	s   *sched.Scheduler
	cfg Config

	text   string
	active bool

	pending []sched.Handle

	// OnChange is called whenever the overlay changes outside Show/Interrupt.
	OnChange func()
}

// New returns a board driven by s.
func New(s *sched.Scheduler, cfg Config) *Board {
	if cfg.Duration <= 0 {
		cfg.Duration = DefaultDuration
	}
	return &Board{s: s, cfg: cfg}
}

// Show overlays msg. After the configured duration the overlay is replaced by
// restore, the text that was visible when msg appeared.
func (b *Board) Show(msg, restore string) {
	b.text = msg
	b.active = true

	var h sched.Handle
	h = b.s.After(b.cfg.Duration, func() {
		b.forget(h)
		b.text = restore
		b.active = true
		if b.OnChange != nil {
			b.OnChange()
		}
	})
	b.pending = append(b.pending, h)
}

// Interrupt drops the overlay because newer content is about to be drawn.
func (b *Board) Interrupt() {
	b.active = false
	b.text = ""
	if !b.cfg.CancelOnInput {
		return
	}
	for _, h := range b.pending {
		b.s.Cancel(h)
	}
	b.pending = b.pending[:0]
}

// Text returns the overlay, if one is showing.
func (b *Board) Text() (string, bool) {
	return b.text, b.active
}

// Pending reports how many reverts are still scheduled.
func (b *Board) Pending() int { return len(b.pending) }

func (b *Board) forget(h sched.Handle) {
	for i, p := range b.pending {
		if p == h {
			b.pending = append(b.pending[:i], b.pending[i+1:]...)
			return
		}
	}
}
