package inspector_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/go-tern/tern/pkg/inspector"
	"github.com/go-tern/tern/pkg/runtime"
	terntest "github.com/go-tern/tern/pkg/testing"
	"github.com/go-tern/tern/pkg/vdom"
)

func TestDumpNil(t *testing.T) {
	if got := inspector.Dump(nil); got != "(empty)" {
		t.Errorf("expected %q, got %q", "(empty)", got)
	}
}

func TestDumpRendersLabels(t *testing.T) {
	snap := &runtime.TreeSnapshot{
		Kind: "host",
		Type: "box",
		Children: []*runtime.TreeSnapshot{
			{Kind: "text", Text: "hi"},
			{Kind: "host", Type: "list", Key: "k"},
		},
	}
	out := inspector.Dump(snap)
	for _, want := range []string{"<box>", `"hi"`, "<list key=k>"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected dump to contain %q, got:\n%s", want, out)
		}
	}
}

func TestDumpShowsSlotCount(t *testing.T) {
	snap := &runtime.TreeSnapshot{
		Kind:  "component",
		Type:  "counter",
		Slots: []string{"state", "effect"},
	}
	if out := inspector.Dump(snap); !strings.Contains(out, "counter#0 (2 slots)") {
		t.Errorf("expected slot count in dump, got:\n%s", out)
	}
}

func TestServerEndpoints(t *testing.T) {
	comp := runtime.Component("widget", func(ctx *runtime.Ctx, _ struct{}) vdom.Node {
		runtime.UseState(ctx, 0)
		return vdom.Element("box", nil, vdom.Text("served"))
	})
	rt := terntest.NewTester(t)
	rt.PumpNode(comp(struct{}{}), runtime.WithInspection())

	srv := inspector.NewServer(rt.App())
	port, err := srv.Start(0)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer srv.Stop()

	get := func(path string) (int, string) {
		t.Helper()
		resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d%s", port, path))
		if err != nil {
			t.Fatalf("GET %s failed: %v", path, err)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, string(body)
	}

	if code, _ := get("/health"); code != http.StatusOK {
		t.Errorf("expected health 200, got %d", code)
	}

	code, body := get("/tree")
	if code != http.StatusOK {
		t.Fatalf("expected tree 200, got %d", code)
	}
	var snap runtime.TreeSnapshot
	if err := json.Unmarshal([]byte(body), &snap); err != nil {
		t.Fatalf("tree response is not valid json: %v", err)
	}
	if !strings.Contains(body, `"widget"`) {
		t.Errorf("expected tree json to mention the component, got:\n%s", body)
	}

	if code, body := get("/dump"); code != http.StatusOK || !strings.Contains(body, "<box>") {
		t.Errorf("expected dump with <box>, got %d:\n%s", code, body)
	}

	if code, body := get("/stats"); code != http.StatusOK || !strings.Contains(body, "passes") {
		t.Errorf("expected stats with passes, got %d:\n%s", code, body)
	}
}

func TestServerStartIdempotent(t *testing.T) {
	rt := terntest.NewTester(t)
	rt.PumpNode(vdom.Text("x"), runtime.WithInspection())

	srv := inspector.NewServer(rt.App())
	p1, err := srv.Start(0)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer srv.Stop()
	p2, err := srv.Start(0)
	if err != nil {
		t.Fatalf("second start failed: %v", err)
	}
	if p1 != p2 {
		t.Errorf("expected same port, got %d then %d", p1, p2)
	}
}
