// Package vdom defines the virtual node tree: the immutable, per-render
// description of UI structure that the runtime diffs against the previous
// committed tree.
//
// Nodes are plain values constructed fresh on every render pass and never
// mutated afterwards. The runtime owns the committed tree; vdom only
// describes shape.
package vdom

import "fmt"

// Kind discriminates the closed set of node variants.
type Kind int

const (
	// KindEmpty renders nothing. The zero Node is an empty node.
	KindEmpty Kind = iota
	// KindText is a leaf text node.
	KindText
	// KindHost is a backend-drawn element identified by a string type.
	KindHost
	// KindFragment groups children without introducing a host element.
	KindFragment
	// KindComponent is a user component function with its own hook state.
	KindComponent
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindText:
		return "text"
	case KindHost:
		return "host"
	case KindFragment:
		return "fragment"
	case KindComponent:
		return "component"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Props maps prop names to values for a host element. Keys are unique by
// construction (it is a map); values are compared by value equality during
// diffing.
type Props map[string]any

// RenderContext is the runtime's render context, opaque to this package.
// Component render functions receive it so hook calls can find their
// instance's slot arena; vdom never inspects it.
type RenderContext any

// ComponentType identifies a registered component function. Pointer
// identity is the element-type identifier used by reconciliation: two
// component nodes match only if they carry the same *ComponentType.
type ComponentType struct {
	// Name is the developer-facing component name used in errors and
	// inspection output.
	Name string
	// Render invokes the component function with the runtime's render
	// context and the node's props value.
	Render func(rc RenderContext, props any) Node
}

// Node is one virtual tree node. Which fields are meaningful depends on
// Kind; constructors below populate them consistently.
type Node struct {
	Kind Kind

	// Key is the optional explicit sibling identity (string or int) used
	// by keyed list diffing. Nil means positional identity.
	Key any

	// Type is the host element type identifier (KindHost only).
	Type string
	// Props holds host element props (KindHost only).
	Props Props

	// Component identifies the component function (KindComponent only).
	Component *ComponentType
	// CompProps is the component's props value (KindComponent only).
	// Compared by value equality to decide whether a matched component
	// must re-render.
	CompProps any

	// Text is the text content (KindText only).
	Text string

	// Children are the ordered child nodes (KindHost, KindFragment, and
	// the pass-through children of KindComponent).
	Children []Node
}

// Element constructs a host node of the given type.
func Element(typ string, props Props, children ...Node) Node {
	return Node{Kind: KindHost, Type: typ, Props: props, Children: children}
}

// Fragment groups children without a host wrapper.
func Fragment(children ...Node) Node {
	return Node{Kind: KindFragment, Children: children}
}

// Text constructs a leaf text node.
func Text(value string) Node {
	return Node{Kind: KindText, Text: value}
}

// Empty constructs a node that renders nothing. Useful for conditional
// branches that contribute no UI.
func Empty() Node {
	return Node{Kind: KindEmpty}
}

// Component constructs a component node. The runtime's Component helper
// wraps user functions into a *ComponentType; markup desugaring calls
// this directly.
func Component(ct *ComponentType, props any, children ...Node) Node {
	return Node{Kind: KindComponent, Component: ct, CompProps: props, Children: children}
}

// WithKey returns a copy of the node carrying an explicit sibling key.
// Key must be a string or an int; other types panic, since a silently
// ignored key would break list identity in a way that is very hard to
// debug.
func (n Node) WithKey(key any) Node {
	switch key.(type) {
	case string, int:
	default:
		panic(fmt.Sprintf("vdom: key must be string or int, got %T", key))
	}
	n.Key = key
	return n
}

// TypeName returns the element-type identifier for errors and inspection:
// the host type string, the component name, or the kind name.
func (n Node) TypeName() string {
	switch n.Kind {
	case KindHost:
		return n.Type
	case KindComponent:
		if n.Component != nil {
			return n.Component.Name
		}
		return "component(nil)"
	default:
		return n.Kind.String()
	}
}
