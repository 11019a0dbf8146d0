// Package testing provides a harness for driving a runtime in unit
// tests: a fake clock, an in-memory backend, and a tester that pumps
// the loop synchronously so assertions run against settled state.
package testing

import (
	"errors"
	"testing"
	"time"

	"github.com/go-tern/tern/pkg/backend"
	"github.com/go-tern/tern/pkg/runtime"
	"github.com/go-tern/tern/pkg/vdom"
)

// ErrSettleTimeout is returned by PumpAndSettle when the app does not
// quiesce within the deadline.
var ErrSettleTimeout = errors.New("PumpAndSettle timed out")

// RuntimeTester drives a runtime.App from a test without running the
// event loop goroutine. Build the app with PumpNode, then step it with
// Pump, PumpAndSettle, SendEvent and Advance.
type RuntimeTester struct {
	t     *testing.T
	clock *FakeClock
	be    *backend.Memory
	app   *runtime.App
}

// NewTester returns a tester bound to t. The app is shut down via
// t.Cleanup when the test ends.
func NewTester(t *testing.T) *RuntimeTester {
	t.Helper()
	rt := &RuntimeTester{
		t:     t,
		clock: NewFakeClock(),
		be:    backend.NewMemory(80, 24),
	}
	t.Cleanup(func() {
		if rt.app != nil {
			rt.app.Shutdown()
		}
	})
	return rt
}

// PumpNode mounts root in a fresh app and runs the initial render pass.
func (rt *RuntimeTester) PumpNode(root vdom.Node, opts ...runtime.Option) {
	rt.t.Helper()
	if rt.app != nil {
		rt.app.Shutdown()
		rt.be = backend.NewMemory(80, 24)
	}
	opts = append(opts, runtime.WithClock(rt.clock))
	rt.app = runtime.New(rt.be, root, opts...)
	if err := rt.app.Flush(); err != nil {
		rt.t.Fatalf("initial pump failed: %v", err)
	}
}

// Pump processes queued messages and renders once if anything is dirty.
func (rt *RuntimeTester) Pump() {
	rt.t.Helper()
	if err := rt.app.Flush(); err != nil {
		rt.t.Fatalf("pump failed: %v", err)
	}
}

// PumpAndSettle pumps repeatedly until the app is idle: no queued
// messages, no dirty components, no in-flight tasks. Use it after
// triggering async effects.
func (rt *RuntimeTester) PumpAndSettle(timeout time.Duration) error {
	rt.t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		if err := rt.app.Flush(); err != nil {
			return err
		}
		if rt.app.Idle() {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrSettleTimeout
		}
		time.Sleep(time.Millisecond)
	}
}

// SendEvent delivers a backend event and pumps.
func (rt *RuntimeTester) SendEvent(ev backend.Event) {
	rt.t.Helper()
	rt.app.DeliverEvent(ev)
	rt.Pump()
}

// Advance moves the fake clock forward, fires due timers, and pumps.
func (rt *RuntimeTester) Advance(d time.Duration) {
	rt.t.Helper()
	rt.clock.Advance(d)
	rt.Pump()
}

// Clock returns the fake clock driving timer hooks.
func (rt *RuntimeTester) Clock() *FakeClock { return rt.clock }

// Backend returns the in-memory backend recording drawn frames.
func (rt *RuntimeTester) Backend() *backend.Memory { return rt.be }

// App returns the app under test.
func (rt *RuntimeTester) App() *runtime.App { return rt.app }

// LastFrame returns the most recently drawn frame. It fails the test
// when nothing has been drawn yet.
func (rt *RuntimeTester) LastFrame() vdom.Node {
	rt.t.Helper()
	f, ok := rt.be.LastFrame()
	if !ok {
		rt.t.Fatal("no frame drawn")
	}
	return f
}
