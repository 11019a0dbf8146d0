package runtime

import (
	"strconv"
	"strings"

	"github.com/go-tern/tern/pkg/vdom"
)

// NodeID is a stable integer handle addressing a node in the committed
// tree arena. Handles are how children reference parents without owning
// them; the arena owns every node.
type NodeID int

// NilNode is the null handle.
const NilNode NodeID = -1

// treeNode is one committed tree entry: the last reconciled version of a
// virtual node, plus the live instance state when it is a component.
type treeNode struct {
	id     NodeID
	parent NodeID
	depth  int

	// serial distinguishes successive occupants of a recycled arena slot
	// so stale setter and task messages never touch a new instance.
	serial uint64

	kind vdom.Kind
	key  any

	// Host fields.
	typ   string
	props vdom.Props

	// Text content.
	text string

	// Ordered children. A component always has exactly one entry: the
	// committed root of its render output.
	children []NodeID

	// Component instance state.
	ctype        *vdom.ComponentType
	cprops       any
	cchildren    []vdom.Node
	slots        []slot
	renderedOnce bool

	// Dirty flags maintained by the scheduler: dirty means this instance
	// has pending state to re-render; childDirty means some descendant
	// does.
	dirty      bool
	childDirty bool

	mounted bool
}

// isProvider reports whether this component instance is a context
// provider.
func (n *treeNode) isProvider() (providerProps, bool) {
	pp, ok := n.cprops.(providerProps)
	return pp, ok
}

// tree is the arena owning all committed nodes. Only the loop goroutine
// touches it.
type tree struct {
	nodes      []*treeNode
	free       []NodeID
	root       NodeID
	nextSerial uint64
}

func newTree() *tree {
	return &tree{root: NilNode}
}

// get returns the node for a handle, or nil if the handle is stale.
func (t *tree) get(id NodeID) *treeNode {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return t.nodes[id]
}

// alive reports whether the handle refers to a mounted node.
func (t *tree) alive(id NodeID) bool {
	n := t.get(id)
	return n != nil && n.mounted
}

func (t *tree) alloc() *treeNode {
	t.nextSerial++
	if len(t.free) > 0 {
		id := t.free[len(t.free)-1]
		t.free = t.free[:len(t.free)-1]
		n := &treeNode{id: id, parent: NilNode, serial: t.nextSerial}
		t.nodes[id] = n
		return n
	}
	n := &treeNode{id: NodeID(len(t.nodes)), parent: NilNode, serial: t.nextSerial}
	t.nodes = append(t.nodes, n)
	return n
}

// release frees a node's arena entry. The handle may be reused by a later
// mount; stale references are guarded by the mounted flag checks at every
// cross-pass boundary.
func (t *tree) release(id NodeID) {
	n := t.get(id)
	if n == nil {
		return
	}
	t.nodes[id] = nil
	t.free = append(t.free, id)
}

// path renders a node's root-to-node child-index path ("0/2/1") for error
// messages and inspection.
func (t *tree) path(id NodeID) string {
	var idx []int
	for id != NilNode {
		n := t.get(id)
		if n == nil || n.parent == NilNode {
			break
		}
		p := t.get(n.parent)
		for i, c := range p.children {
			if c == id {
				idx = append(idx, i)
				break
			}
		}
		id = n.parent
	}
	if len(idx) == 0 {
		return "/"
	}
	var sb strings.Builder
	for i := len(idx) - 1; i >= 0; i-- {
		sb.WriteByte('/')
		sb.WriteString(strconv.Itoa(idx[i]))
	}
	return sb.String()
}

// materialize rebuilds the committed subtree as a vdom.Node for the
// backend: components collapse to their render output, everything else
// keeps its shape.
func (t *tree) materialize(id NodeID) vdom.Node {
	n := t.get(id)
	if n == nil {
		return vdom.Empty()
	}
	switch n.kind {
	case vdom.KindText:
		return vdom.Node{Kind: vdom.KindText, Text: n.text, Key: n.key}
	case vdom.KindEmpty:
		return vdom.Node{Kind: vdom.KindEmpty, Key: n.key}
	case vdom.KindComponent:
		if len(n.children) == 0 {
			return vdom.Empty()
		}
		return t.materialize(n.children[0])
	case vdom.KindFragment:
		out := vdom.Node{Kind: vdom.KindFragment, Key: n.key}
		for _, c := range n.children {
			out.Children = append(out.Children, t.materialize(c))
		}
		return out
	default: // KindHost
		out := vdom.Node{Kind: vdom.KindHost, Type: n.typ, Key: n.key}
		if n.props != nil {
			props := make(vdom.Props, len(n.props))
			for k, v := range n.props {
				props[k] = v
			}
			out.Props = props
		}
		for _, c := range n.children {
			out.Children = append(out.Children, t.materialize(c))
		}
		return out
	}
}

// typeName names a node for errors and lifecycle reports.
func (n *treeNode) typeName() string {
	switch n.kind {
	case vdom.KindHost:
		return n.typ
	case vdom.KindComponent:
		if n.ctype != nil {
			return n.ctype.Name
		}
		return "component(nil)"
	default:
		return n.kind.String()
	}
}
