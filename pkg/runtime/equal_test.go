package runtime

import (
	"fmt"
	"testing"
	"time"

	"github.com/go-tern/tern/pkg/vdom"
)

func TestEqualScalars(t *testing.T) {
	tests := []struct {
		a, b any
		want bool
	}{
		{1, 1, true},
		{1, 2, false},
		{"x", "x", true},
		{1, "1", false},
		{nil, nil, true},
		{1, nil, false},
		{[]int{1, 2}, []int{1, 2}, true},
		{[]int{1, 2}, []int{2, 1}, false},
		{map[string]int{"a": 1}, map[string]int{"a": 1}, true},
		{map[string]int{"a": 1}, map[string]int{"a": 2}, false},
	}
	for _, tc := range tests {
		if got := Equal(tc.a, tc.b); got != tc.want {
			t.Errorf("Equal(%v, %v): expected %v, got %v", tc.a, tc.b, tc.want, got)
		}
	}
}

func TestEqualFuncsByCodePointer(t *testing.T) {
	f := func() {}
	g := func() {}
	if !Equal(f, f) {
		t.Error("expected a func equal to itself")
	}
	if Equal(f, g) {
		t.Error("expected distinct funcs unequal")
	}
}

func TestEqualStructsWithUnexportedFields(t *testing.T) {
	// time.Time keeps its state in unexported fields; comparing it must
	// not panic and must follow value semantics.
	if !Equal(time.Unix(100, 0), time.Unix(100, 0)) {
		t.Error("expected identical times equal")
	}
	if Equal(time.Unix(100, 0), time.Unix(101, 0)) {
		t.Error("expected different times unequal")
	}

	type wrapped struct {
		At   time.Time
		Name string
	}
	a := wrapped{At: time.Unix(100, 0), Name: "x"}
	b := wrapped{At: time.Unix(100, 0), Name: "x"}
	if !Equal(a, b) {
		t.Error("expected wrapped times equal")
	}
	if !Equal([]any{time.Unix(100, 0)}, []any{time.Unix(100, 0)}) {
		t.Error("expected times equal inside slices")
	}
}

func TestEffectDepsWithTimeValues(t *testing.T) {
	at := time.Unix(100, 0)
	runs := 0
	var bump func(func(int) int)
	comp := Component("timed", func(ctx *Ctx, _ struct{}) vdom.Node {
		n, update := UseStateUpdater(ctx, 0)
		bump = update
		UseEffect(ctx, func() Cleanup {
			runs++
			return nil
		}, []any{at})
		return vdom.Text(fmt.Sprintf("%d", n))
	})
	a, _ := newTestApp(t, comp(struct{}{}))

	bump(func(n int) int { return n + 1 })
	flush(t, a)

	if runs != 1 {
		t.Errorf("expected effect run once across re-renders, got %d", runs)
	}
}

func TestPropDiffWithTimeValues(t *testing.T) {
	var bump func(func(int) int)
	comp := Component("timed", func(ctx *Ctx, _ struct{}) vdom.Node {
		n, update := UseStateUpdater(ctx, 0)
		bump = update
		return vdom.Element("box", vdom.Props{"at": time.Unix(100, 0)},
			vdom.Text(fmt.Sprintf("%d", n)))
	})
	a, _ := newTestApp(t, comp(struct{}{}))

	bump(func(n int) int { return n + 1 })
	flush(t, a)

	if got := countPatches(a.LastPatches(), OpUpdateProps); got != 0 {
		t.Errorf("expected no prop patch for unchanged time value, got %d", got)
	}
}
