package runtime

import (
	"fmt"

	"github.com/go-tern/tern/pkg/vdom"
)

// TreeSnapshot is a read-only view of a committed subtree for inspection
// tooling: node shape plus a one-line summary per hook slot.
type TreeSnapshot struct {
	Kind     string          `json:"kind"`
	Type     string          `json:"type,omitempty"`
	Key      any             `json:"key,omitempty"`
	Text     string          `json:"text,omitempty"`
	Instance NodeID          `json:"instance,omitempty"`
	Slots    []string        `json:"slots,omitempty"`
	Children []*TreeSnapshot `json:"children,omitempty"`
}

// Label renders the node heading used by tree dumps.
func (s *TreeSnapshot) Label() string {
	switch s.Kind {
	case "text":
		return fmt.Sprintf("%q", s.Text)
	case "host":
		if s.Key != nil {
			return fmt.Sprintf("<%s key=%v>", s.Type, s.Key)
		}
		return "<" + s.Type + ">"
	case "component":
		if s.Key != nil {
			return fmt.Sprintf("%s#%d key=%v", s.Type, s.Instance, s.Key)
		}
		return fmt.Sprintf("%s#%d", s.Type, s.Instance)
	default:
		return s.Kind
	}
}

// Snapshot captures the committed tree. Loop-owned: call it from the
// driving goroutine (or a Dispatch closure). Other goroutines should use
// LastSnapshot with the WithInspection option.
func (a *App) Snapshot() *TreeSnapshot {
	if a.tree.root == NilNode {
		return nil
	}
	return a.snapshotNode(a.tree.root)
}

func (a *App) snapshotNode(id NodeID) *TreeSnapshot {
	n := a.tree.get(id)
	if n == nil {
		return nil
	}
	s := &TreeSnapshot{Kind: n.kind.String(), Key: n.key}
	switch n.kind {
	case vdom.KindText:
		s.Text = n.text
	case vdom.KindHost:
		s.Type = n.typ
	case vdom.KindComponent:
		s.Type = n.typeName()
		s.Instance = n.id
		for i := range n.slots {
			s.Slots = append(s.Slots, summarizeSlot(&n.slots[i], i))
		}
	}
	for _, c := range n.children {
		if cs := a.snapshotNode(c); cs != nil {
			s.Children = append(s.Children, cs)
		}
	}
	return s
}

func summarizeSlot(s *slot, idx int) string {
	switch s.kind {
	case slotState, slotReducer:
		return fmt.Sprintf("%d:%s=%v", idx, s.kind, s.value)
	case slotEffect:
		mode := "sync"
		if s.async {
			mode = fmt.Sprintf("async gen=%d", s.gen)
		}
		return fmt.Sprintf("%d:effect %s deps=%d", idx, mode, len(s.deps))
	case slotContext:
		return fmt.Sprintf("%d:context %s", idx, s.ctxID.name)
	default:
		return fmt.Sprintf("%d:%s", idx, s.kind)
	}
}

// storeSnapshot publishes the post-commit snapshot for cross-goroutine
// readers.
func (a *App) storeSnapshot() {
	snap := a.Snapshot()
	a.snapMu.Lock()
	a.snapshot = snap
	a.snapMu.Unlock()
}

// LastSnapshot returns the snapshot stored at the most recent commit, or
// nil when inspection is disabled or nothing has committed. Safe from any
// goroutine.
func (a *App) LastSnapshot() *TreeSnapshot {
	a.snapMu.Lock()
	defer a.snapMu.Unlock()
	return a.snapshot
}
