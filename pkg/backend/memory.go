package backend

import (
	"errors"
	"sync"

	"github.com/go-tern/tern/pkg/vdom"
)

// ErrClosed is returned by PollEvent after the backend has been closed.
var ErrClosed = errors.New("backend closed")

// Memory is an in-process Backend used headless: it records drawn frames
// and delivers events injected via Send. It is the backend the test
// harness runs against and the reference for implementing real terminals.
type Memory struct {
	mu     sync.Mutex
	frames []vdom.Node
	width  int
	height int
	closed bool

	events chan Event
	done   chan struct{}
}

// NewMemory creates a memory backend with the given initial size.
func NewMemory(width, height int) *Memory {
	return &Memory{
		width:  width,
		height: height,
		events: make(chan Event, 128),
		done:   make(chan struct{}),
	}
}

// Draw records a copy of the frame.
func (m *Memory) Draw(frame *vdom.Node) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if frame == nil {
		m.frames = append(m.frames, vdom.Empty())
	} else {
		m.frames = append(m.frames, *frame)
	}
	return nil
}

// PollEvent blocks until an event is sent or the backend is closed.
func (m *Memory) PollEvent() (Event, error) {
	select {
	case ev := <-m.events:
		return ev, nil
	case <-m.done:
		// Drain events queued before Close so none are lost.
		select {
		case ev := <-m.events:
			return ev, nil
		default:
			return nil, ErrClosed
		}
	}
}

// Size reports the current dimensions.
func (m *Memory) Size() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.width, m.height
}

// Close marks the backend closed and unblocks PollEvent.
// Close is idempotent.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	close(m.done)
	return nil
}

// Send injects an event for PollEvent to deliver. A ResizeEvent also
// updates the reported Size. Send on a closed backend is a no-op.
func (m *Memory) Send(ev Event) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	if r, ok := ev.(ResizeEvent); ok {
		m.width, m.height = r.Width, r.Height
	}
	m.mu.Unlock()

	select {
	case m.events <- ev:
	case <-m.done:
	}
}

// Frames returns a copy of all recorded frames in draw order.
func (m *Memory) Frames() []vdom.Node {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]vdom.Node, len(m.frames))
	copy(out, m.frames)
	return out
}

// LastFrame returns the most recently drawn frame, or false if none.
func (m *Memory) LastFrame() (vdom.Node, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.frames) == 0 {
		return vdom.Node{}, false
	}
	return m.frames[len(m.frames)-1], true
}

// Closed reports whether Close has been called.
func (m *Memory) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
