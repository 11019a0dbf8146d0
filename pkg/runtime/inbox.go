package runtime

import (
	"context"
	"sync"

	"github.com/go-tern/tern/pkg/backend"
)

// message is the closed union of everything that can cross into the loop
// goroutine. The inbox is the sole synchronization point of the runtime:
// event readers, timers, async effect completions, and state setters all
// enqueue here and nothing else they do touches loop-owned state.
type message interface {
	isMessage()
}

// eventMsg delivers an external backend event.
type eventMsg struct {
	ev backend.Event
}

// updateMsg queues a state update for one hook slot. apply transforms the
// slot's current value; replace+value enable the equal-value skip for
// plain setters.
type updateMsg struct {
	node    NodeID
	serial  uint64
	slot    int
	apply   func(any) any
	replace bool
	value   any
}

// taskMsg delivers an async effect completion tagged with the generation
// that spawned it.
type taskMsg struct {
	node   NodeID
	serial uint64
	slot   int
	gen    uint64
	value  any
	err    error
}

// dispatchMsg runs an arbitrary closure on the loop goroutine.
type dispatchMsg struct {
	fn func()
}

// stopMsg asks the loop to exit cleanly.
type stopMsg struct{}

// failMsg carries a fatal backend error into the loop.
type failMsg struct {
	err error
}

func (eventMsg) isMessage()    {}
func (updateMsg) isMessage()   {}
func (taskMsg) isMessage()     {}
func (dispatchMsg) isMessage() {}
func (stopMsg) isMessage()     {}
func (failMsg) isMessage()     {}

// inbox is a mutex-guarded FIFO with a wake channel. Enqueue order is
// preserved exactly; the wake channel only signals non-emptiness, so a
// receiver drains the queue in batches and naturally coalesces renders.
type inbox struct {
	mu    sync.Mutex
	queue []message
	wake  chan struct{}
}

func newInbox() *inbox {
	return &inbox{wake: make(chan struct{}, 1)}
}

// post appends a message and wakes the consumer.
func (in *inbox) post(m message) {
	in.mu.Lock()
	in.queue = append(in.queue, m)
	in.mu.Unlock()
	select {
	case in.wake <- struct{}{}:
	default:
	}
}

// empty reports whether nothing is queued.
func (in *inbox) empty() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.queue) == 0
}

// drain takes every queued message without blocking.
func (in *inbox) drain() []message {
	in.mu.Lock()
	msgs := in.queue
	in.queue = nil
	in.mu.Unlock()
	return msgs
}

// wait blocks until at least one message is queued or ctx is done, then
// drains. Returns nil when ctx ended first.
func (in *inbox) wait(ctx context.Context) []message {
	for {
		if msgs := in.drain(); len(msgs) > 0 {
			return msgs
		}
		select {
		case <-in.wake:
		case <-ctx.Done():
			return nil
		}
	}
}
