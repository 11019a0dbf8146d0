package showcase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-tern/tern/pkg/backend"
	"github.com/go-tern/tern/pkg/runtime"
	terntest "github.com/go-tern/tern/pkg/testing"
	"github.com/go-tern/tern/pkg/vdom"
)

// collectTexts flattens every text node in a frame, in order.
func collectTexts(n vdom.Node) []string {
	var out []string
	var walk func(vdom.Node)
	walk = func(n vdom.Node) {
		if n.Kind == vdom.KindText {
			out = append(out, n.Text)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(n)
	return out
}

func frameContains(t *testing.T, rt *terntest.RuntimeTester, want string) {
	t.Helper()
	texts := collectTexts(rt.LastFrame())
	for _, s := range texts {
		if strings.Contains(s, want) {
			return
		}
	}
	t.Errorf("expected frame to contain %q, got %v", want, texts)
}

func key(name string) backend.KeyEvent {
	return backend.KeyEvent{Action: backend.KeyPress, Name: name}
}

func TestCounter(t *testing.T) {
	rt := terntest.NewTester(t)
	rt.PumpNode(Counter(CounterProps{}))
	frameContains(t, rt, "count: 0")

	rt.SendEvent(key("up"))
	frameContains(t, rt, "count: 1")

	rt.SendEvent(key("up"))
	rt.SendEvent(key("down"))
	frameContains(t, rt, "count: 1")
}

func TestCounterStep(t *testing.T) {
	rt := terntest.NewTester(t)
	rt.PumpNode(Counter(CounterProps{Step: 5}))
	rt.SendEvent(key("up"))
	frameContains(t, rt, "count: 5")
}

func TestTodoListReorder(t *testing.T) {
	rt := terntest.NewTester(t)
	items := []TodoItem{
		{ID: 1, Title: "first"},
		{ID: 2, Title: "second", Done: true},
		{ID: 3, Title: "third"},
	}
	rt.PumpNode(TodoList(TodoListProps{Items: items}))

	texts := collectTexts(rt.LastFrame())
	if len(texts) != 3 || !strings.Contains(texts[0], "first") {
		t.Fatalf("unexpected initial frame: %v", texts)
	}

	rt.PumpNode(TodoList(TodoListProps{Items: items, DoneFirst: true}))
	texts = collectTexts(rt.LastFrame())
	if !strings.Contains(texts[0], "second") {
		t.Errorf("expected done item first, got %v", texts)
	}
}

func TestTodoListReorderEmitsMoves(t *testing.T) {
	rt := terntest.NewTester(t)
	items := []TodoItem{
		{ID: 1, Title: "first"},
		{ID: 2, Title: "second", Done: true},
		{ID: 3, Title: "third"},
	}

	var sorted bool
	var setSorted func(bool)
	wrapper := runtime.Component("wrapper", func(ctx *runtime.Ctx, _ struct{}) vdom.Node {
		sorted, setSorted = runtime.UseState(ctx, false)
		return TodoList(TodoListProps{Items: items, DoneFirst: sorted})
	})

	rt.PumpNode(wrapper(struct{}{}))
	setSorted(true)
	rt.Pump()

	var sawReorder, sawReplace bool
	for _, p := range rt.App().LastPatches() {
		switch p.Op {
		case runtime.OpReorder:
			sawReorder = true
		case runtime.OpReplace, runtime.OpInsert, runtime.OpRemove:
			sawReplace = true
		}
	}
	if !sawReorder {
		t.Error("expected a reorder patch for keyed permutation")
	}
	if sawReplace {
		t.Error("expected no structural patches for keyed permutation")
	}
}

func TestStopwatch(t *testing.T) {
	rt := terntest.NewTester(t)
	rt.PumpNode(Stopwatch(StopwatchProps{Tick: 100 * time.Millisecond}))
	frameContains(t, rt, "elapsed: 0s")

	// Not running yet: time passing does nothing.
	rt.Advance(time.Second)
	frameContains(t, rt, "elapsed: 0s")

	// The next tick is armed only after the previous one is processed,
	// so advance one tick at a time.
	rt.SendEvent(backend.KeyEvent{Action: backend.KeyPress, Rune: ' '})
	for i := 0; i < 3; i++ {
		rt.Advance(100 * time.Millisecond)
	}
	frameContains(t, rt, "elapsed: 300ms")

	// Pause, record a lap, undo it.
	rt.SendEvent(backend.KeyEvent{Action: backend.KeyPress, Rune: ' '})
	rt.Advance(time.Second)
	frameContains(t, rt, "elapsed: 300ms")

	rt.SendEvent(backend.KeyEvent{Action: backend.KeyPress, Rune: 'l'})
	frameContains(t, rt, "lap 1: 300ms")

	rt.SendEvent(backend.KeyEvent{Action: backend.KeyPress, Rune: 'u'})
	for _, s := range collectTexts(rt.LastFrame()) {
		if strings.Contains(s, "lap") {
			t.Errorf("expected no laps after undo, got %q", s)
		}
	}
}

func TestFetcher(t *testing.T) {
	rt := terntest.NewTester(t)
	fetch := func(_ context.Context, url string) (string, error) {
		if url == "bad" {
			return "", errors.New("boom")
		}
		return "body of " + url, nil
	}

	rt.PumpNode(Fetcher(FetcherProps{URL: "a", Fetch: fetch}))
	frameContains(t, rt, "loading a")

	if err := rt.PumpAndSettle(time.Second); err != nil {
		t.Fatalf("settle failed: %v", err)
	}
	frameContains(t, rt, "body of a")

	rt.PumpNode(Fetcher(FetcherProps{URL: "bad", Fetch: fetch}))
	if err := rt.PumpAndSettle(time.Second); err != nil {
		t.Fatalf("settle failed: %v", err)
	}
	frameContains(t, rt, "fetch failed: boom")
}
