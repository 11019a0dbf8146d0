package runtime

import (
	"testing"
	"time"

	"github.com/go-tern/tern/pkg/backend"
	"github.com/go-tern/tern/pkg/vdom"
)

// newTestApp mounts root against a memory backend and runs the first
// pass.
func newTestApp(t *testing.T, root vdom.Node, opts ...Option) (*App, *backend.Memory) {
	t.Helper()
	a, be := newUnflushedApp(t, root, opts...)
	if err := a.Flush(); err != nil {
		t.Fatalf("initial flush failed: %v", err)
	}
	return a, be
}

func newUnflushedApp(t *testing.T, root vdom.Node, opts ...Option) (*App, *backend.Memory) {
	t.Helper()
	be := backend.NewMemory(80, 24)
	a := New(be, root, opts...)
	t.Cleanup(func() { a.Shutdown() })
	return a, be
}

func flush(t *testing.T, a *App) {
	t.Helper()
	if err := a.Flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
}

// settle flushes until the loop is idle, waiting out async tasks.
func settle(t *testing.T, a *App) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		flush(t, a)
		if a.Idle() {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("app did not settle")
		}
		time.Sleep(time.Millisecond)
	}
}

// findHost locates the committed node for the first host element of the
// given type, depth first.
func findHost(a *App, typ string) *treeNode {
	var find func(id NodeID) *treeNode
	find = func(id NodeID) *treeNode {
		n := a.tree.get(id)
		if n == nil {
			return nil
		}
		if n.kind == vdom.KindHost && n.typ == typ {
			return n
		}
		for _, c := range n.children {
			if found := find(c); found != nil {
				return found
			}
		}
		return nil
	}
	return find(a.tree.root)
}

func countPatches(patches []Patch, op PatchOp) int {
	n := 0
	for _, p := range patches {
		if p.Op == op {
			n++
		}
	}
	return n
}
