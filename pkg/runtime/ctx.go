package runtime

import (
	"log/slog"

	"github.com/go-tern/tern/pkg/errors"
	"github.com/go-tern/tern/pkg/vdom"
)

// Ctx is the render context passed explicitly to every component render
// function. It identifies the instance being rendered so hook calls can be
// mapped to arena slots by call order, and it carries the context frame
// stack for the current pass.
//
// A Ctx is only valid for the duration of one render of one instance.
// Hook primitives must not be called outside a render body.
type Ctx struct {
	app    *App
	pass   *pass
	node   NodeID
	cursor int
	first  bool
}

// Children returns the child nodes passed to this component element.
// They are typically spliced into the render output.
func (c *Ctx) Children() []vdom.Node {
	n := c.app.tree.get(c.node)
	if n == nil {
		return nil
	}
	return n.cchildren
}

// Logger returns the application logger.
func (c *Ctx) Logger() *slog.Logger {
	return c.app.logger
}

// nextSlot advances the hook cursor and returns the slot for this call,
// enforcing the rules-of-hooks invariant: on every render after the first,
// slot i must hold the same kind it held before. Violations panic with a
// *errors.HookOrderError which the reconciler converts into a fatal render
// error for the pass.
func (c *Ctx) nextSlot(kind slotKind) (*slot, bool) {
	n := c.app.tree.get(c.node)
	idx := c.cursor
	c.cursor++
	if c.first {
		n.slots = append(n.slots, slot{kind: kind})
		return &n.slots[idx], true
	}
	if idx >= len(n.slots) {
		panic(&errors.HookOrderError{
			Component: n.typeName(),
			Path:      c.app.tree.path(c.node),
			Slot:      idx,
			Got:       kind.String(),
			Want:      "end of hooks",
		})
	}
	s := &n.slots[idx]
	if s.kind != kind {
		panic(&errors.HookOrderError{
			Component: n.typeName(),
			Path:      c.app.tree.path(c.node),
			Slot:      idx,
			Got:       kind.String(),
			Want:      s.kind.String(),
		})
	}
	return s, false
}

// finishRender verifies that this render consumed exactly the slots a
// prior render recorded; stopping early is as much an order violation as
// calling an extra hook.
func (c *Ctx) finishRender() {
	n := c.app.tree.get(c.node)
	if !c.first && c.cursor != len(n.slots) {
		panic(&errors.HookOrderError{
			Component: n.typeName(),
			Path:      c.app.tree.path(c.node),
			Slot:      c.cursor,
			Got:       "end of hooks",
			Want:      n.slots[c.cursor].kind.String(),
		})
	}
}

// Component registers a component function under a name and returns its
// element constructor. The returned constructor is what markup desugaring
// calls; pointer identity of the underlying type is the element-type
// identifier reconciliation matches on, so register each component once at
// package init, not per render.
func Component[P any](name string, fn func(ctx *Ctx, props P) vdom.Node) func(props P, children ...vdom.Node) vdom.Node {
	ct := &vdom.ComponentType{
		Name: name,
		Render: func(rc vdom.RenderContext, props any) vdom.Node {
			var p P
			if props != nil {
				p = props.(P)
			}
			return fn(rc.(*Ctx), p)
		},
	}
	return func(props P, children ...vdom.Node) vdom.Node {
		return vdom.Component(ct, props, children...)
	}
}
