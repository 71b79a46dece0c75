// Package sched runs delayed callbacks against a millisecond tick counter.
//
// Nothing here starts goroutines or timers: the owner feeds the current tick
// via Advance from its own loop, and callbacks run inside that call.
package sched

import "time"

// TickDuration is the length of one tick.
const TickDuration = time.Millisecond

// Handle identifies a scheduled callback. The zero Handle is never issued.
type Handle uint64

type entry struct {
	h   Handle
	due uint64
	fn  func()
}

// Scheduler is a single-owner queue of delayed callbacks.
type Scheduler struct {
	now     uint64
	next    Handle
	entries []entry
}

// New returns a scheduler whose clock starts at now.
func New(now uint64) *Scheduler {
	return &Scheduler{now: now}
}

// Now returns the last tick passed to Advance.
func (s *Scheduler) Now() uint64 { return s.now }

// After schedules fn to run once d has elapsed.
func (s *Scheduler) After(d time.Duration, fn func()) Handle {
	s.next++
	ticks := uint64(0)
	if d > 0 {
		ticks = uint64((d + TickDuration - 1) / TickDuration)
	}
	s.entries = append(s.entries, entry{h: s.next, due: s.now + ticks, fn: fn})
	return s.next
}

// Cancel removes a pending callback. It reports whether h was still pending.
func (s *Scheduler) Cancel(h Handle) bool {
	for i := range s.entries {
		if s.entries[i].h != h {
			continue
		}
		s.entries = append(s.entries[:i], s.entries[i+1:]...)
		return true
	}
	return false
}

// Pending returns the number of callbacks not yet run.
func (s *Scheduler) Pending() int { return len(s.entries) }

// Advance moves the clock to now and runs every due callback, earliest first.
// Callbacks sharing a due tick run in the order they were scheduled.
func (s *Scheduler) Advance(now uint64) {
	if now > s.now {
		s.now = now
	}
	for {
		idx := -1
		for i := range s.entries {
			e := s.entries[i]
			if e.due > s.now {
				continue
			}
			if idx < 0 || e.due < s.entries[idx].due {
				idx = i
			}
		}
		if idx < 0 {
			return
		}
		e := s.entries[idx]
		s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
		if e.fn != nil {
			e.fn()
		}
	}
}
