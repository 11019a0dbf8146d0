// Package backend defines the terminal backend boundary: the interface the
// render loop draws through and receives events from. The runtime never
// touches terminal I/O directly; a backend turns the committed host tree
// into glyphs and feeds external events back in.
package backend

import "github.com/go-tern/tern/pkg/vdom"

// Backend is the terminal collaborator consumed by the render loop.
//
// Draw and Size are called only from the loop goroutine. PollEvent is
// called from a dedicated reader goroutine and must block until an event
// is available or the backend is closed. Close must be safe to call once
// from any goroutine; after Close, PollEvent returns ErrClosed.
type Backend interface {
	// Draw renders the committed host tree. The node is owned by the
	// runtime and must not be retained past the call; implementations
	// that keep frames must copy.
	Draw(frame *vdom.Node) error

	// PollEvent blocks until the next external event arrives. It returns
	// ErrClosed once the backend has been closed.
	PollEvent() (Event, error)

	// Size reports the current drawable dimensions in cells.
	Size() (width, height int)

	// Close tears down backend-owned terminal state. The render loop
	// guarantees Close is called on every exit path, including panics.
	Close() error
}
