package testing

import (
	"sort"
	"sync"
	"time"
)

// FakeClock provides controllable time for deterministic timer-hook
// tests. It implements runtime.Clock; Advance fires due AfterFunc
// callbacks synchronously on the calling goroutine, in firing order.
// All methods are safe for concurrent use.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Time
	seq     int
	fn      func()
	stopped bool
}

// NewFakeClock returns a FakeClock starting at a fixed epoch.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc registers fn to fire when the clock reaches now+d.
func (c *FakeClock) AfterFunc(d time.Duration, fn func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{at: c.now.Add(d), seq: c.seq, fn: fn}
	c.seq++
	c.timers = append(c.timers, t)
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		t.stopped = true
	}
}

// Advance moves the clock forward by d and fires every timer that came
// due, in (time, registration) order. Callbacks run without the lock
// held so they may register new timers; those are relative to the
// advanced clock and fire on a later Advance.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
	for {
		t := c.popDue()
		if t == nil {
			return
		}
		t.fn()
	}
}

// Set sets the clock to an exact time without firing timers.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// popDue removes and returns the earliest due live timer, or nil.
func (c *FakeClock) popDue() *fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	live := c.timers[:0]
	var due []*fakeTimer
	for _, t := range c.timers {
		if t.stopped {
			continue
		}
		if !t.at.After(c.now) {
			due = append(due, t)
		} else {
			live = append(live, t)
		}
	}
	if len(due) == 0 {
		c.timers = live
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at.Equal(due[j].at) {
			return due[i].seq < due[j].seq
		}
		return due[i].at.Before(due[j].at)
	})
	c.timers = append(live, due[1:]...)
	return due[0]
}
