package a

type Ctx struct{}

type Node struct{}

func UseState(ctx *Ctx, initial int) (int, func(int)) { return initial, nil }

func UseEffect(ctx *Ctx, fn func() func(), deps []any) {}

func UseMemo(ctx *Ctx, compute func() int, deps []any) int { return compute() }

func Straight(ctx *Ctx) Node {
	n, set := UseState(ctx, 0)
	UseEffect(ctx, func() func() {
		set(n + 1)
		return nil
	}, nil)
	return Node{}
}

func Conditional(ctx *Ctx, ready bool) Node {
	if ready {
		UseState(ctx, 1) // want `hook UseState called inside if; hooks must run unconditionally on every render`
	} else {
		UseMemo(ctx, func() int { return 2 }, nil) // want `hook UseMemo called inside if; hooks must run unconditionally on every render`
	}
	return Node{}
}

func Looped(ctx *Ctx, items []int) Node {
	for range items {
		UseState(ctx, 0) // want `hook UseState called inside range; hooks must run unconditionally on every render`
	}
	for i := 0; i < 3; i++ {
		UseState(ctx, i) // want `hook UseState called inside for; hooks must run unconditionally on every render`
	}
	return Node{}
}

func Switched(ctx *Ctx, mode int) Node {
	switch mode {
	case 0:
		UseState(ctx, 0) // want `hook UseState called inside switch; hooks must run unconditionally on every render`
	}
	return Node{}
}

func InCallback(ctx *Ctx) Node {
	fn := func() {
		UseState(ctx, 0) // want `hook UseState called inside function literal; hooks must run unconditionally on every render`
	}
	fn()
	return Node{}
}

func EarlyReturnOK(ctx *Ctx, done bool) Node {
	n, _ := UseState(ctx, 0)
	if done {
		return Node{}
	}
	_ = n
	return Node{}
}

// notAComponent has no Ctx parameter; conditional Use* calls here are
// someone else's naming convention, not hooks.
func notAComponent(usable bool) {
	if usable {
		UseState(nil, 0)
	}
}
