// Package errors provides structured error handling for the Tern runtime.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindHook indicates a hook-order consistency violation.
	KindHook
	// KindDiff indicates a reconciliation error (e.g. duplicate keys).
	KindDiff
	// KindBackend indicates a terminal backend I/O failure.
	KindBackend
	// KindConfig indicates a project configuration error.
	KindConfig
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindHook:
		return "hook"
	case KindDiff:
		return "diff"
	case KindBackend:
		return "backend"
	case KindConfig:
		return "config"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// RuntimeError represents a structured error in the Tern runtime.
type RuntimeError struct {
	// Op is the operation that failed (e.g., "runtime.App.Run").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// HookOrderError reports a hook call whose slot kind or count does not
// match what a prior render of the same instance recorded. This is a
// programming error in the component (typically a hook call inside a
// conditional); the instance's render is aborted rather than reusing the
// mismatched slot's stored value.
type HookOrderError struct {
	// Component is the component's registered name.
	Component string
	// Path locates the instance in the committed tree (root-to-instance
	// child indexes rendered as "0/2/1").
	Path string
	// Slot is the hook-call ordinal at which the mismatch was observed.
	Slot int
	// Got is the hook kind called on this render.
	Got string
	// Want is the hook kind recorded at this slot by a prior render,
	// or "end of hooks" when this render called more hooks than before.
	Want string
}

func (e *HookOrderError) Error() string {
	return fmt.Sprintf("hook order violation in %s at %s: slot %d is %s, previous render recorded %s",
		e.Component, e.Path, e.Slot, e.Got, e.Want)
}

// DuplicateKeyError reports two siblings carrying the same explicit key.
// Keyed identity would be ambiguous, so reconciliation fails instead of
// silently picking one.
type DuplicateKeyError struct {
	// Parent is the type name of the node owning the sibling list.
	Parent string
	// Key is the duplicated key value.
	Key any
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %v in children of %s", e.Key, e.Parent)
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "runtime.renderInstance").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives errors reported by the Tern runtime.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *RuntimeError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
