package hooks

import (
	"reflect"

	"github.com/go-tern/tern/pkg/runtime"
)

// UseEffectEvent returns a handle with stable identity across renders
// that always invokes the most recent fn. Use it to hand callbacks to
// subscriptions or timers registered once on mount without re-registering
// on every render and without calling a stale closure.
//
// F must be a function type; anything else panics on first render.
func UseEffectEvent[F any](ctx *runtime.Ctx, fn F) F {
	ref := runtime.UseRef(ctx, fn)
	ref.Current = fn
	return runtime.UseMemo(ctx, func() F {
		t := reflect.TypeOf(fn)
		if t == nil || t.Kind() != reflect.Func {
			panic("hooks: UseEffectEvent requires a function value")
		}
		stable := reflect.MakeFunc(t, func(args []reflect.Value) []reflect.Value {
			return reflect.ValueOf(ref.Current).Call(args)
		})
		return stable.Interface().(F)
	}, []any{})
}
