package hooks

import (
	"github.com/go-tern/tern/pkg/backend"
	"github.com/go-tern/tern/pkg/runtime"
)

// UseEvent subscribes the component to every external backend event for
// its mounted lifetime. The handler always sees the latest closure from
// the most recent render, and runs on the loop goroutine before the
// render pass that reflects its state updates.
func UseEvent(ctx *runtime.Ctx, handler func(backend.Event)) {
	latest := UseEffectEvent(ctx, handler)
	bus, _ := runtime.UseContext(ctx, runtime.EventBusContext)
	runtime.UseEffect(ctx, func() runtime.Cleanup {
		if bus == nil {
			return nil
		}
		return runtime.Cleanup(bus.Subscribe(latest))
	}, []any{})
}

// UseKeyboard delivers keyboard events only.
func UseKeyboard(ctx *runtime.Ctx, handler func(backend.KeyEvent)) {
	UseEvent(ctx, func(ev backend.Event) {
		if k, ok := ev.(backend.KeyEvent); ok {
			handler(k)
		}
	})
}

// UseMouse delivers mouse events only.
func UseMouse(ctx *runtime.Ctx, handler func(backend.MouseEvent)) {
	UseEvent(ctx, func(ev backend.Event) {
		if m, ok := ev.(backend.MouseEvent); ok {
			handler(m)
		}
	})
}

// UseResize delivers terminal resizes only.
func UseResize(ctx *runtime.Ctx, handler func(width, height int)) {
	UseEvent(ctx, func(ev backend.Event) {
		if r, ok := ev.(backend.ResizeEvent); ok {
			handler(r.Width, r.Height)
		}
	})
}

type termSize struct {
	w, h int
}

// UseSize returns the current terminal dimensions, re-rendering the
// component when they change.
func UseSize(ctx *runtime.Ctx) (width, height int) {
	bus, _ := runtime.UseContext(ctx, runtime.EventBusContext)
	var init termSize
	if bus != nil {
		init.w, init.h = bus.Size()
	}
	s, setSize := runtime.UseState(ctx, init)
	UseResize(ctx, func(w, h int) {
		setSize(termSize{w: w, h: h})
	})
	return s.w, s.h
}
