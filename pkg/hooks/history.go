package hooks

import "github.com/go-tern/tern/pkg/runtime"

type historyState[T any] struct {
	current T
	past    []T
	future  []T
}

type historyOp int

const (
	historyPush historyOp = iota
	historyUndo
	historyRedo
)

type historyAction[T any] struct {
	op    historyOp
	value T
}

// History is an undo/redo handle over a value. Push records a new state,
// Undo and Redo walk the recorded timeline; a Push after Undo discards
// the redo branch.
type History[T any] struct {
	state    historyState[T]
	dispatch func(historyAction[T])
}

// Current returns the present value.
func (h *History[T]) Current() T {
	return h.state.current
}

// CanUndo reports whether any past state exists.
func (h *History[T]) CanUndo() bool {
	return len(h.state.past) > 0
}

// CanRedo reports whether any undone state can be restored.
func (h *History[T]) CanRedo() bool {
	return len(h.state.future) > 0
}

// Push records a new current value.
func (h *History[T]) Push(value T) {
	h.dispatch(historyAction[T]{op: historyPush, value: value})
}

// Undo steps back one state. No-op at the start of history.
func (h *History[T]) Undo() {
	h.dispatch(historyAction[T]{op: historyUndo})
}

// Redo restores the most recently undone state. No-op when nothing was
// undone.
func (h *History[T]) Redo() {
	h.dispatch(historyAction[T]{op: historyRedo})
}

// UseHistory tracks a value with undo/redo over at most limit past
// entries (oldest entries fall off the front). A limit of zero or less
// keeps unbounded history.
func UseHistory[T any](ctx *runtime.Ctx, initial T, limit int) *History[T] {
	st, dispatch := runtime.UseReducer(ctx,
		func(s historyState[T], a historyAction[T]) historyState[T] {
			switch a.op {
			case historyPush:
				past := append(append([]T(nil), s.past...), s.current)
				if limit > 0 && len(past) > limit {
					past = past[len(past)-limit:]
				}
				return historyState[T]{current: a.value, past: past}
			case historyUndo:
				if len(s.past) == 0 {
					return s
				}
				prev := s.past[len(s.past)-1]
				return historyState[T]{
					current: prev,
					past:    append([]T(nil), s.past[:len(s.past)-1]...),
					future:  append([]T{s.current}, s.future...),
				}
			case historyRedo:
				if len(s.future) == 0 {
					return s
				}
				next := s.future[0]
				return historyState[T]{
					current: next,
					past:    append(append([]T(nil), s.past...), s.current),
					future:  append([]T(nil), s.future[1:]...),
				}
			}
			return s
		},
		historyState[T]{current: initial})
	return &History[T]{state: st, dispatch: dispatch}
}
