package hooks

import (
	"context"

	"github.com/go-tern/tern/pkg/runtime"
)

// Status describes where an async hook's work stands.
type Status int

const (
	// StatusLoading means the task is in flight (including a restart
	// after deps changed).
	StatusLoading Status = iota
	// StatusDone means the task completed and Value is set.
	StatusDone
	// StatusFailed means the task returned an error.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusDone:
		return "done"
	case StatusFailed:
		return "failed"
	default:
		return "loading"
	}
}

// AsyncState is the observable result of UseAsync.
type AsyncState[T any] struct {
	Status Status
	Value  T
	Err    error
}

// UseAsync runs fn on its own goroutine after mount and again whenever
// deps change, exposing the latest result as state. The task context is
// canceled when a newer run supersedes it or the component unmounts, and
// a superseded run's completion is discarded rather than applied, so the
// state never regresses to a stale result.
func UseAsync[T any](ctx *runtime.Ctx, fn func(context.Context) (T, error), deps []any) AsyncState[T] {
	st, setState := runtime.UseState(ctx, AsyncState[T]{Status: StatusLoading})

	// Flip back to loading when deps change after the first run.
	started := runtime.UseRef(ctx, false)
	runtime.UseEffect(ctx, func() runtime.Cleanup {
		if !started.Current {
			started.Current = true
			return nil
		}
		setState(AsyncState[T]{Status: StatusLoading})
		return nil
	}, deps)

	runtime.UseEffectAsync(ctx, fn, func(v T, err error) {
		if err != nil {
			setState(AsyncState[T]{Status: StatusFailed, Err: err})
			return
		}
		setState(AsyncState[T]{Status: StatusDone, Value: v})
	}, deps)

	return st
}
