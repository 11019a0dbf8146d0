package hooks

import (
	"time"

	"github.com/go-tern/tern/pkg/runtime"
)

// UseTimeout schedules fn to run once on the loop goroutine after d,
// starting when the component mounts or when deps change. A pending
// timeout is canceled when deps change again or the component unmounts.
// Pass an empty (non-nil) deps slice for a mount-only timeout.
func UseTimeout(ctx *runtime.Ctx, fn func(), d time.Duration, deps []any) {
	ctl, _ := runtime.UseContext(ctx, runtime.ControlContext)
	latest := UseEffectEvent(ctx, fn)
	runtime.UseEffect(ctx, func() runtime.Cleanup {
		if ctl == nil {
			return nil
		}
		cancel := ctl.Clock().AfterFunc(d, func() {
			ctl.Dispatch(latest)
		})
		return runtime.Cleanup(cancel)
	}, deps)
}

// UseInterval runs fn on the loop goroutine every d for the component's
// mounted lifetime (or until deps change). The next tick is armed only
// after the previous one ran, so a slow loop never accumulates a
// backlog.
func UseInterval(ctx *runtime.Ctx, fn func(), d time.Duration, deps []any) {
	ctl, _ := runtime.UseContext(ctx, runtime.ControlContext)
	latest := UseEffectEvent(ctx, fn)
	runtime.UseEffect(ctx, func() runtime.Cleanup {
		if ctl == nil || d <= 0 {
			return nil
		}
		stopped := false
		var cancel func()
		var arm func()
		arm = func() {
			cancel = ctl.Clock().AfterFunc(d, func() {
				ctl.Dispatch(func() {
					if stopped {
						return
					}
					latest()
					if !stopped {
						arm()
					}
				})
			})
		}
		arm()
		return func() {
			stopped = true
			if cancel != nil {
				cancel()
			}
		}
	}, deps)
}
