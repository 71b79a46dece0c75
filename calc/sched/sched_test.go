package sched

import (
	"testing"
	"time"
)

func TestSchedulerRunsWhenDue(t *testing.T) {
	s := New(100)
	ran := 0
	s.After(2*time.Second, func() { ran++ })

	s.Advance(2099)
	if ran != 0 {
		t.Fatalf("ran = %d before due, want 0", ran)
	}
	s.Advance(2100)
	if ran != 1 {
		t.Fatalf("ran = %d at due, want 1", ran)
	}
	s.Advance(5000)
	if ran != 1 {
		t.Fatalf("ran = %d after due, want 1", ran)
	}
	if got := s.Pending(); got != 0 {
		t.Fatalf("Pending() = %d, want 0", got)
	}
}

func TestSchedulerOrder(t *testing.T) {
	s := New(0)
	var order []string
	s.After(30*time.Millisecond, func() { order = append(order, "c") })
	s.After(10*time.Millisecond, func() { order = append(order, "a") })
	s.After(10*time.Millisecond, func() { order = append(order, "b") })

	s.Advance(50)
	if got := len(order); got != 3 {
		t.Fatalf("len(order) = %d, want 3", got)
	}
	for i, want := range []string{"a", "b", "c"} {
		if order[i] != want {
			t.Fatalf("order[%d] = %q, want %q", i, order[i], want)
		}
	}
}

func TestSchedulerCancel(t *testing.T) {
	s := New(0)
	ran := false
	h := s.After(time.Millisecond, func() { ran = true })
	if h == 0 {
		t.Fatalf("After() returned zero handle")
	}
	if !s.Cancel(h) {
		t.Fatalf("Cancel() = false, want true")
	}
	if s.Cancel(h) {
		t.Fatalf("second Cancel() = true, want false")
	}
	s.Advance(10)
	if ran {
		t.Fatalf("cancelled callback ran")
	}
}

func TestSchedulerClockNeverGoesBack(t *testing.T) {
	s := New(50)
	s.Advance(10)
	if got := s.Now(); got != 50 {
		t.Fatalf("Now() = %d, want 50", got)
	}
}

func TestSchedulerRescheduleFromCallback(t *testing.T) {
	s := New(0)
	hits := 0
	var tick func()
	tick = func() {
		hits++
		if hits < 3 {
			s.After(5*time.Millisecond, tick)
		}
	}
	s.After(5*time.Millisecond, tick)

	s.Advance(5)
	if hits != 1 {
		t.Fatalf("hits = %d at 5ms, want 1", hits)
	}
	s.Advance(15)
	if hits != 2 {
		t.Fatalf("hits = %d at 15ms, want 2", hits)
	}
	s.Advance(20)
	if hits != 3 {
		t.Fatalf("hits = %d at 20ms, want 3", hits)
	}
}
