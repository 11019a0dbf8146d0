package runtime

import (
	"time"

	"github.com/go-tern/tern/pkg/backend"
)

// EventBus fans external backend events out to subscribed components.
// Subscription happens from effect bodies and delivery happens before the
// render pass that reflects the handlers' state updates; both run on the
// loop goroutine, so the bus needs no locking.
type EventBus struct {
	subs   map[int]func(backend.Event)
	order  []int
	nextID int
	width  int
	height int
}

func newEventBus(width, height int) *EventBus {
	return &EventBus{subs: make(map[int]func(backend.Event)), width: width, height: height}
}

// Subscribe registers a handler for every external event. The returned
// cancel removes it; handlers are invoked in subscription order. Call
// only from render effects or loop dispatches.
func (b *EventBus) Subscribe(fn func(backend.Event)) (cancel func()) {
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.order = append(b.order, id)
	return func() {
		delete(b.subs, id)
		// Copy rather than shift in place: a handler may unsubscribe
		// during dispatch, which is still ranging over the old slice.
		order := make([]int, 0, len(b.order))
		for _, v := range b.order {
			if v != id {
				order = append(order, v)
			}
		}
		b.order = order
	}
}

// Size reports the most recent terminal dimensions, tracking resize
// events as they are dispatched.
func (b *EventBus) Size() (int, int) {
	return b.width, b.height
}

// dispatch delivers one event to every live subscriber in order.
func (b *EventBus) dispatch(ev backend.Event) {
	if r, ok := ev.(backend.ResizeEvent); ok {
		b.width, b.height = r.Width, r.Height
	}
	for _, id := range b.order {
		if fn, ok := b.subs[id]; ok {
			fn(ev)
		}
	}
}

// Control is the application handle components reach through context:
// requesting exit and marshalling work onto the loop goroutine.
type Control struct {
	app *App
}

// Exit asks the render loop to stop after the current quiescence point.
func (c *Control) Exit() {
	c.app.Stop()
}

// Dispatch runs fn on the loop goroutine. This is the only supported way
// for timers and other external callbacks to touch component state.
func (c *Control) Dispatch(fn func()) {
	c.app.inbox.post(dispatchMsg{fn: fn})
}

// Clock returns the application clock, so derived timer hooks stay
// drivable by a fake clock in tests.
func (c *Control) Clock() Clock {
	return c.app.clock
}

// FrameInfo carries per-commit frame metadata. The pointer provided
// through context is stable for the app's lifetime; the loop updates the
// fields at each commit, and components read them during render.
type FrameInfo struct {
	// Count is the number of completed commits.
	Count uint64
	// Delta is the time elapsed between the two most recent commits.
	Delta time.Duration
	// Time is when the most recent commit finished.
	Time time.Time
}

// Built-in contexts provided by the App around the user root. Derived
// hook libraries build on these plus the core hook primitives; nothing
// else in the runtime is an extension point.
var (
	// EventBusContext exposes the app's event bus.
	EventBusContext = NewContext[*EventBus]("tern.bus")
	// ControlContext exposes exit and loop dispatch.
	ControlContext = NewContext[*Control]("tern.control")
	// FrameContext exposes frame metadata.
	FrameContext = NewContext[*FrameInfo]("tern.frame")
)
