package runtime

import (
	"fmt"
	"strings"

	"github.com/go-tern/tern/pkg/vdom"
)

// Path addresses a position in the committed tree as a sequence of child
// indexes from the root. Component nodes are transparent (they contribute
// no segment, since they collapse to their render output); host and
// fragment nodes contribute one segment per child.
type Path []int

func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	var sb strings.Builder
	for _, i := range p {
		fmt.Fprintf(&sb, "/%d", i)
	}
	return sb.String()
}

func (p Path) clone() Path {
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// PatchOp identifies a structural operation in a patch list.
type PatchOp int

const (
	// OpInsert adds a new subtree at Path.
	OpInsert PatchOp = iota
	// OpRemove deletes the subtree at Path (pre-patch position).
	OpRemove
	// OpReplace swaps the subtree at Path for a new one.
	OpReplace
	// OpUpdateProps changes host element props at Path.
	OpUpdateProps
	// OpUpdateText changes text content at Path.
	OpUpdateText
	// OpReorder moves keyed children of the node at Path.
	OpReorder
)

func (op PatchOp) String() string {
	switch op {
	case OpInsert:
		return "insert"
	case OpRemove:
		return "remove"
	case OpReplace:
		return "replace"
	case OpUpdateProps:
		return "update-props"
	case OpUpdateText:
		return "update-text"
	case OpReorder:
		return "reorder"
	default:
		return fmt.Sprintf("op(%d)", int(op))
	}
}

// PropDiff records host prop changes: Set holds new or changed values,
// Clear lists props present before but absent now.
type PropDiff struct {
	Set   vdom.Props
	Clear []string
}

// Empty reports whether the diff changes nothing.
func (d PropDiff) Empty() bool {
	return len(d.Set) == 0 && len(d.Clear) == 0
}

// Move relocates the child at pre-reorder index From to index To.
type Move struct {
	From, To int
}

// Patch is one structural operation against the previously committed
// tree. Remove paths reference pre-patch positions; Insert and Reorder
// reference the post-patch sibling order.
type Patch struct {
	Op    PatchOp
	Path  Path
	Node  *vdom.Node // Insert, Replace
	Props PropDiff   // UpdateProps
	Text  string     // UpdateText
	Moves []Move     // Reorder
}

func (p Patch) String() string {
	switch p.Op {
	case OpUpdateText:
		return fmt.Sprintf("%s %s %q", p.Op, p.Path, p.Text)
	case OpReorder:
		return fmt.Sprintf("%s %s %v", p.Op, p.Path, p.Moves)
	default:
		return fmt.Sprintf("%s %s", p.Op, p.Path)
	}
}

// LifecycleKind classifies an instance transition during one pass.
type LifecycleKind int

const (
	// Mounted marks a freshly created instance.
	Mounted LifecycleKind = iota
	// Updated marks an instance that re-rendered with its arena intact.
	Updated
	// Unmounted marks a torn-down instance whose arena was freed.
	Unmounted
)

func (k LifecycleKind) String() string {
	switch k {
	case Mounted:
		return "mounted"
	case Updated:
		return "updated"
	case Unmounted:
		return "unmounted"
	default:
		return fmt.Sprintf("lifecycle(%d)", int(k))
	}
}

// Lifecycle is one entry in the instance lifecycle report produced
// alongside a patch list.
type Lifecycle struct {
	Kind      LifecycleKind
	Instance  NodeID
	Component string
}

func (l Lifecycle) String() string {
	return fmt.Sprintf("%s %s#%d", l.Kind, l.Component, l.Instance)
}
