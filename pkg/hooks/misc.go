package hooks

import (
	"github.com/google/uuid"

	"github.com/go-tern/tern/pkg/runtime"
)

// UseID returns an identifier generated once per component instance and
// stable across its re-renders. A remount at the same position gets a
// fresh one.
func UseID(ctx *runtime.Ctx) string {
	return runtime.UseMemo(ctx, uuid.NewString, []any{})
}

type previous[T any] struct {
	value T
	ok    bool
}

// UsePrevious returns the value this hook was given on the previous
// committed render, with ok false on the first render.
func UsePrevious[T any](ctx *runtime.Ctx, value T) (T, bool) {
	ref := runtime.UseRef(ctx, previous[T]{})
	out := ref.Current
	runtime.UseEffect(ctx, func() runtime.Cleanup {
		ref.Current = previous[T]{value: value, ok: true}
		return nil
	}, nil)
	return out.value, out.ok
}

// UseAppExit returns a stable function that asks the render loop to stop.
func UseAppExit(ctx *runtime.Ctx) func() {
	ctl, _ := runtime.UseContext(ctx, runtime.ControlContext)
	return runtime.UseCallback(ctx, func() {
		if ctl != nil {
			ctl.Exit()
		}
	}, []any{})
}

// UseFrameInfo returns the metadata of the most recent commit: frame
// count, inter-frame delta, and commit time.
func UseFrameInfo(ctx *runtime.Ctx) runtime.FrameInfo {
	fi, ok := runtime.UseContext(ctx, runtime.FrameContext)
	if !ok || fi == nil {
		return runtime.FrameInfo{}
	}
	return *fi
}
