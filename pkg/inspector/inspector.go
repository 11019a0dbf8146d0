// Package inspector renders committed-tree snapshots for debugging:
// an ASCII tree dump for terminals and an HTTP server exposing the
// snapshot as JSON.
package inspector

import (
	"fmt"

	"github.com/m1gwings/treedrawer/tree"

	"github.com/go-tern/tern/pkg/runtime"
)

// Dump renders a snapshot as a box-drawn tree. A nil snapshot renders
// as "(empty)".
func Dump(snap *runtime.TreeSnapshot) string {
	if snap == nil {
		return "(empty)"
	}
	t := tree.NewTree(tree.NodeString(nodeLabel(snap)))
	addChildren(t, snap)
	return t.String()
}

func addChildren(t *tree.Tree, snap *runtime.TreeSnapshot) {
	// Children are appended in order, so snapshot index i is also the
	// treedrawer child index.
	for i, c := range snap.Children {
		t.AddChild(tree.NodeString(nodeLabel(c)))
		ct, err := t.Child(i)
		if err != nil {
			continue
		}
		addChildren(ct, c)
	}
}

func nodeLabel(s *runtime.TreeSnapshot) string {
	label := s.Label()
	if len(s.Slots) > 0 {
		label = fmt.Sprintf("%s (%d slots)", label, len(s.Slots))
	}
	return label
}
