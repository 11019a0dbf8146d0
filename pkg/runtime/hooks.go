package runtime

import "context"

// Ref is a mutable cell that persists across renders without scheduling
// re-renders when written. Read and write it only from render bodies or
// effect callbacks; it is loop-owned state.
type Ref[T any] struct {
	Current T
}

// UseState declares a state slot holding initial on first render. The
// setter schedules a re-render of the owning instance; the new value
// becomes visible on the next render pass, never mid-render. Setting a
// value equal to the current one (by value equality) skips scheduling
// when no other update is already queued for the slot.
func UseState[T any](ctx *Ctx, initial T) (T, func(T)) {
	return UseStateFunc(ctx, func() T { return initial })
}

// UseStateFunc is UseState with a lazy initializer: init runs only on the
// first render of the instance.
func UseStateFunc[T any](ctx *Ctx, init func() T) (T, func(T)) {
	s, first := ctx.nextSlot(slotState)
	if first {
		s.value = init()
	}
	app, node, idx := ctx.app, ctx.node, ctx.cursor-1
	serial := app.tree.get(node).serial
	set := func(v T) {
		app.postUpdate(updateMsg{
			node:    node,
			serial:  serial,
			slot:    idx,
			replace: true,
			value:   v,
			apply:   func(any) any { return v },
		})
	}
	return s.value.(T), set
}

// UseStateUpdater is UseState returning a functional updater instead of a
// plain setter: each queued update sees the value produced by the one
// before it, so updates never overwrite each other.
func UseStateUpdater[T any](ctx *Ctx, initial T) (T, func(func(T) T)) {
	s, first := ctx.nextSlot(slotState)
	if first {
		s.value = initial
	}
	app, node, idx := ctx.app, ctx.node, ctx.cursor-1
	serial := app.tree.get(node).serial
	update := func(f func(T) T) {
		app.postUpdate(updateMsg{
			node:   node,
			serial: serial,
			slot:   idx,
			apply:  func(old any) any { return f(old.(T)) },
		})
	}
	return s.value.(T), update
}

// UseReducer declares a reducer slot. Dispatch schedules a re-render; the
// next pass observes reducer applied to every action dispatched since the
// last pass, in dispatch order, with no coalescing.
func UseReducer[S, A any](ctx *Ctx, reducer func(S, A) S, init S) (S, func(A)) {
	s, first := ctx.nextSlot(slotReducer)
	if first {
		s.value = init
	}
	app, node, idx := ctx.app, ctx.node, ctx.cursor-1
	serial := app.tree.get(node).serial
	dispatch := func(action A) {
		app.postUpdate(updateMsg{
			node:   node,
			serial: serial,
			slot:   idx,
			apply:  func(old any) any { return reducer(old.(S), action) },
		})
	}
	return s.value.(S), dispatch
}

// UseRef declares a ref cell initialized on first render. Mutating
// Current never schedules a re-render.
func UseRef[T any](ctx *Ctx, initial T) *Ref[T] {
	s, first := ctx.nextSlot(slotRef)
	if first {
		s.ref = &Ref[T]{Current: initial}
	}
	return s.ref.(*Ref[T])
}

// UseEffect declares an effect that runs after commit when deps differ
// from the previous render's fingerprint. A nil deps slice means the
// effect runs after every commit; an empty non-nil slice means it runs
// once on mount. The returned cleanup runs before the next body run and
// unconditionally on unmount.
func UseEffect(ctx *Ctx, fn func() Cleanup, deps []any) {
	s, first := ctx.nextSlot(slotEffect)
	s.body = fn
	due := first || !s.hasDeps || !depsEqual(s.deps, deps)
	s.hasDeps = deps != nil
	s.deps = deps
	if due {
		s.dirty = true
	}
}

// UseEffectAsync declares an effect whose body runs on its own goroutine.
// When deps change (same contract as UseEffect), the scheduler cancels
// the previous task's context, bumps the slot generation, and spawns run.
// The result re-enters the loop through the inbox; apply runs on the loop
// goroutine only if the generation still matches and the instance is
// still mounted, so stale completions are discarded, never applied.
func UseEffectAsync[T any](ctx *Ctx, run func(context.Context) (T, error), apply func(T, error), deps []any) {
	s, first := ctx.nextSlot(slotEffect)
	s.async = true
	s.asyncRun = func(tctx context.Context) (any, error) {
		return run(tctx)
	}
	s.asyncApply = func(v any, err error) {
		var t T
		if v != nil {
			t = v.(T)
		}
		apply(t, err)
	}
	due := first || !s.hasDeps || !depsEqual(s.deps, deps)
	s.hasDeps = deps != nil
	s.deps = deps
	if due {
		s.dirty = true
	}
}

// UseMemo caches compute's result, recomputing only when deps change.
// Deps follow the UseEffect convention: nil recomputes on every render,
// an empty non-nil slice computes only on first render.
func UseMemo[T any](ctx *Ctx, compute func() T, deps []any) T {
	s, first := ctx.nextSlot(slotMemo)
	if first || deps == nil || !depsEqual(s.deps, deps) {
		s.memo = compute()
		s.deps = deps
	}
	return s.memo.(T)
}

// UseCallback returns a referentially stable handle for fn across renders
// while deps are unchanged, so memoized children comparing props by value
// do not observe a change. Deps follow the UseEffect convention: nil
// returns the fresh fn every render, an empty non-nil slice pins the
// first render's fn.
func UseCallback[F any](ctx *Ctx, fn F, deps []any) F {
	s, first := ctx.nextSlot(slotCallback)
	if first || deps == nil || !depsEqual(s.deps, deps) {
		s.memo = fn
		s.deps = deps
	}
	return s.memo.(F)
}
