package hooks_test

import (
	"fmt"
	"testing"

	"github.com/go-tern/tern/pkg/hooks"
	"github.com/go-tern/tern/pkg/runtime"
	terntest "github.com/go-tern/tern/pkg/testing"
	"github.com/go-tern/tern/pkg/vdom"
)

func TestUseIDStableAcrossRenders(t *testing.T) {
	var ids []string
	var bump func(int)
	comp := runtime.Component("tagged", func(ctx *runtime.Ctx, _ struct{}) vdom.Node {
		_, set := runtime.UseState(ctx, 0)
		bump = set
		ids = append(ids, hooks.UseID(ctx))
		return vdom.Empty()
	})
	rt := terntest.NewTester(t)
	rt.PumpNode(comp(struct{}{}))

	bump(1)
	rt.Pump()

	if len(ids) != 2 {
		t.Fatalf("expected 2 renders, got %d", len(ids))
	}
	if ids[0] == "" {
		t.Fatal("expected a non-empty id")
	}
	if ids[0] != ids[1] {
		t.Errorf("expected id stable across renders, got %q then %q", ids[0], ids[1])
	}
}

func TestUseIDUniquePerInstance(t *testing.T) {
	ids := map[int]string{}
	child := runtime.Component("tagged", func(ctx *runtime.Ctx, slot int) vdom.Node {
		ids[slot] = hooks.UseID(ctx)
		return vdom.Empty()
	})
	parent := runtime.Component("host", func(ctx *runtime.Ctx, _ struct{}) vdom.Node {
		return vdom.Element("box", nil, child(0), child(1))
	})
	rt := terntest.NewTester(t)
	rt.PumpNode(parent(struct{}{}))

	if ids[0] == "" || ids[1] == "" {
		t.Fatalf("expected both instances to get ids, got %v", ids)
	}
	if ids[0] == ids[1] {
		t.Errorf("expected distinct ids per instance, got %q twice", ids[0])
	}
}

func TestUsePreviousTracksLastRender(t *testing.T) {
	var set func(int)
	comp := runtime.Component("tracker", func(ctx *runtime.Ctx, _ struct{}) vdom.Node {
		n, s := runtime.UseState(ctx, 0)
		set = s
		prev, ok := hooks.UsePrevious(ctx, n)
		return vdom.Text(fmt.Sprintf("now=%d prev=%d ok=%v", n, prev, ok))
	})
	rt := terntest.NewTester(t)
	rt.PumpNode(comp(struct{}{}))
	assertFrameText(t, rt, "now=0 prev=0 ok=false")

	set(1)
	rt.Pump()
	assertFrameText(t, rt, "now=1 prev=0 ok=true")

	set(2)
	rt.Pump()
	assertFrameText(t, rt, "now=2 prev=1 ok=true")
}

func TestUseFrameInfoAdvances(t *testing.T) {
	var counts []uint64
	var bump func(int)
	comp := runtime.Component("framed", func(ctx *runtime.Ctx, _ struct{}) vdom.Node {
		_, set := runtime.UseState(ctx, 0)
		bump = set
		counts = append(counts, hooks.UseFrameInfo(ctx).Count)
		return vdom.Empty()
	})
	rt := terntest.NewTester(t)
	rt.PumpNode(comp(struct{}{}))

	bump(1)
	rt.Pump()

	if len(counts) != 2 {
		t.Fatalf("expected 2 renders, got %d", len(counts))
	}
	// The first render happens before any commit; the second sees the
	// first commit counted.
	if counts[0] != 0 || counts[1] != 1 {
		t.Errorf("expected frame counts [0 1], got %v", counts)
	}
}
