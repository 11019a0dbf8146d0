package runtime

import (
	"fmt"
	"testing"

	"github.com/go-tern/tern/pkg/vdom"
)

func TestUseContextReadsNearestProvider(t *testing.T) {
	theme := NewContext[string]("theme")
	var seen []string
	reader := Component("reader", func(ctx *Ctx, _ struct{}) vdom.Node {
		v, ok := UseContext(ctx, theme)
		if !ok {
			t.Error("expected provided value")
		}
		seen = append(seen, v)
		return vdom.Text(v)
	})
	root := Component("root", func(ctx *Ctx, _ struct{}) vdom.Node {
		return theme.Provide("dark",
			vdom.Element("box", nil,
				reader(struct{}{}),
				theme.Provide("light", reader(struct{}{})),
			),
		)
	})
	newTestApp(t, root(struct{}{}))

	// Outer reader sees the outer value, the shadowed one the inner.
	if len(seen) != 2 || seen[0] != "dark" || seen[1] != "light" {
		t.Errorf("expected [dark light], got %v", seen)
	}
}

func TestUseContextWithoutProvider(t *testing.T) {
	count := NewContext[int]("count")
	reader := Component("orphan", func(ctx *Ctx, _ struct{}) vdom.Node {
		v, ok := UseContext(ctx, count)
		if ok {
			t.Error("expected ok=false without a provider")
		}
		if v != 0 {
			t.Errorf("expected zero value, got %d", v)
		}
		return vdom.Empty()
	})
	newTestApp(t, reader(struct{}{}))
}

func TestProviderValueChangeRerendersReaders(t *testing.T) {
	theme := NewContext[string]("theme")
	readerRenders := 0
	var last string
	reader := Component("reader", func(ctx *Ctx, _ struct{}) vdom.Node {
		v, _ := UseContext(ctx, theme)
		readerRenders++
		last = v
		return vdom.Text(v)
	})
	// An intermediate component with stable props, so the reader is only
	// reached through the subscription, not a parent re-render.
	middle := Component("middle", func(ctx *Ctx, _ struct{}) vdom.Node {
		return vdom.Element("box", nil, reader(struct{}{}))
	})
	var setTheme func(string)
	root := Component("root", func(ctx *Ctx, _ struct{}) vdom.Node {
		v, set := UseState(ctx, "dark")
		setTheme = set
		return theme.Provide(v, middle(struct{}{}))
	})
	a, _ := newTestApp(t, root(struct{}{}))
	if readerRenders != 1 {
		t.Fatalf("expected 1 reader render, got %d", readerRenders)
	}

	setTheme("light")
	flush(t, a)

	if readerRenders != 2 {
		t.Errorf("expected reader re-render on provider change, got %d", readerRenders)
	}
	if last != "light" {
		t.Errorf("expected reader to observe light, got %q", last)
	}
}

func TestShadowedReaderIgnoresOuterChange(t *testing.T) {
	theme := NewContext[string]("theme")
	innerRenders := 0
	inner := Component("innerReader", func(ctx *Ctx, _ struct{}) vdom.Node {
		v, _ := UseContext(ctx, theme)
		innerRenders++
		return vdom.Text(v)
	})
	shadow := Component("shadow", func(ctx *Ctx, _ struct{}) vdom.Node {
		return theme.Provide("fixed", inner(struct{}{}))
	})
	var setTheme func(string)
	root := Component("root", func(ctx *Ctx, _ struct{}) vdom.Node {
		v, set := UseState(ctx, "a")
		setTheme = set
		return theme.Provide(v, shadow(struct{}{}))
	})
	a, _ := newTestApp(t, root(struct{}{}))

	setTheme("b")
	flush(t, a)

	if innerRenders != 1 {
		t.Errorf("expected shadowed reader untouched by outer change, got %d renders", innerRenders)
	}
}

func TestDistinctContextsWithSameName(t *testing.T) {
	a1 := NewContext[int]("n")
	a2 := NewContext[int]("n")
	var got1, got2 int
	reader := Component("reader", func(ctx *Ctx, _ struct{}) vdom.Node {
		got1, _ = UseContext(ctx, a1)
		got2, _ = UseContext(ctx, a2)
		return vdom.Empty()
	})
	root := Component("root", func(ctx *Ctx, _ struct{}) vdom.Node {
		return a1.Provide(1, a2.Provide(2, reader(struct{}{})))
	})
	newTestApp(t, root(struct{}{}))

	if got1 != 1 || got2 != 2 {
		t.Errorf("expected identity keyed contexts 1 and 2, got %d and %d", got1, got2)
	}
}

func TestContextValueVisibleToDeepDirtyRerender(t *testing.T) {
	depthCtx := NewContext[int]("depth")
	var bump func(func(int) int)
	var observed []int
	leaf := Component("leaf", func(ctx *Ctx, _ struct{}) vdom.Node {
		n, update := UseStateUpdater(ctx, 0)
		bump = update
		d, _ := UseContext(ctx, depthCtx)
		observed = append(observed, d)
		return vdom.Text(fmt.Sprintf("%d/%d", d, n))
	})
	root := Component("root", func(ctx *Ctx, _ struct{}) vdom.Node {
		return depthCtx.Provide(7,
			vdom.Element("box", nil, vdom.Element("box", nil, leaf(struct{}{}))),
		)
	})
	a, _ := newTestApp(t, root(struct{}{}))

	// A dirty-only descent must re-push provider frames on the way down.
	bump(func(n int) int { return n + 1 })
	flush(t, a)

	if len(observed) != 2 || observed[1] != 7 {
		t.Errorf("expected provider value visible during dirty descent, got %v", observed)
	}
}
