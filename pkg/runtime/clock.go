package runtime

import "time"

// Clock abstracts time for the runtime so timer hooks can be driven by a
// fake clock in tests. AfterFunc callbacks may fire on any goroutine;
// anything touching loop-owned state must go back through the inbox
// (Control.Dispatch does that).
type Clock interface {
	// Now returns the current time.
	Now() time.Time
	// AfterFunc schedules fn to run once after d. The returned cancel
	// function stops a pending timer; calling it after the timer fired
	// is a no-op.
	AfterFunc(d time.Duration, fn func()) (cancel func())
}

// systemClock is the default wall-clock implementation.
type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) AfterFunc(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// SystemClock returns the wall-clock Clock used by default.
func SystemClock() Clock {
	return systemClock{}
}
