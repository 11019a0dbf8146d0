package backend

import "fmt"

// Event is the closed union of external events a backend can deliver:
// KeyEvent, MouseEvent, or ResizeEvent.
type Event interface {
	isEvent()
}

// KeyAction distinguishes key press from key release.
type KeyAction int

const (
	KeyPress KeyAction = iota
	KeyRelease
)

func (a KeyAction) String() string {
	if a == KeyRelease {
		return "release"
	}
	return "press"
}

// KeyEvent is a keyboard event.
type KeyEvent struct {
	Action KeyAction
	// Rune is the character produced, or 0 for non-printing keys.
	Rune rune
	// Name identifies non-printing keys ("enter", "esc", "up", ...).
	// Empty for plain character keys.
	Name string
}

func (KeyEvent) isEvent() {}

func (e KeyEvent) String() string {
	if e.Name != "" {
		return fmt.Sprintf("key %s %s", e.Action, e.Name)
	}
	return fmt.Sprintf("key %s %q", e.Action, e.Rune)
}

// MouseAction distinguishes mouse event types.
type MouseAction int

const (
	MouseDown MouseAction = iota
	MouseUp
	MouseDrag
)

func (a MouseAction) String() string {
	switch a {
	case MouseUp:
		return "up"
	case MouseDrag:
		return "drag"
	default:
		return "down"
	}
}

// MouseEvent is a pointer event at a cell position.
type MouseEvent struct {
	Action MouseAction
	X, Y   int
}

func (MouseEvent) isEvent() {}

func (e MouseEvent) String() string {
	return fmt.Sprintf("mouse %s at (%d,%d)", e.Action, e.X, e.Y)
}

// ResizeEvent reports a new terminal size in cells.
type ResizeEvent struct {
	Width, Height int
}

func (ResizeEvent) isEvent() {}

func (e ResizeEvent) String() string {
	return fmt.Sprintf("resize to %dx%d", e.Width, e.Height)
}
