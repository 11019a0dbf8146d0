package runtime

import "github.com/go-tern/tern/pkg/vdom"

// contextID is the process-unique identity of a context. Pointer identity
// is what the frame stack and subscription tables key on.
type contextID struct {
	name string
}

// providerProps is the props value carried by provider component nodes.
// The reconciler recognizes providers by this type.
type providerProps struct {
	id    *contextID
	value any
}

// ctxFrame is one entry on the pass's context frame stack, pushed while
// the owning provider's subtree reconciles and popped on the way back up.
type ctxFrame struct {
	id    *contextID
	value any
	owner NodeID
}

// ContextKey identifies a typed context: ambient value propagation from a
// Provide node to any descendant reader without prop threading.
type ContextKey[T any] struct {
	id       *contextID
	provider *vdom.ComponentType
}

// NewContext creates a context key. The name appears in inspection output
// and errors; identity is the key value itself, so two contexts with the
// same name are still distinct.
func NewContext[T any](name string) *ContextKey[T] {
	k := &ContextKey[T]{id: &contextID{name: name}}
	k.provider = &vdom.ComponentType{
		Name: "Provide(" + name + ")",
		Render: func(rc vdom.RenderContext, _ any) vdom.Node {
			return vdom.Fragment(rc.(*Ctx).Children()...)
		},
	}
	return k
}

// Provide wraps children in a provider node. Descendants reading this key
// during their render observe value; readers are re-rendered when a later
// commit provides a different value (by value equality).
func (k *ContextKey[T]) Provide(value T, children ...vdom.Node) vdom.Node {
	return vdom.Component(k.provider, providerProps{id: k.id, value: value}, children...)
}

// UseContext reads the nearest enclosing provided value for key. The
// second result is false when no ancestor provides the context, in which
// case the value is T's zero.
func UseContext[T any](ctx *Ctx, key *ContextKey[T]) (T, bool) {
	s, _ := ctx.nextSlot(slotContext)
	s.ctxID = key.id
	value, ok := ctx.pass.lookupContext(key.id)
	s.observed = value
	ctx.app.subscribeContext(key.id, ctx.node)
	if !ok {
		var zero T
		return zero, false
	}
	return value.(T), true
}

// lookupContext returns the topmost frame value for id on the current
// root-to-instance path.
func (p *pass) lookupContext(id *contextID) (any, bool) {
	for i := len(p.ctxStack) - 1; i >= 0; i-- {
		if p.ctxStack[i].id == id {
			return p.ctxStack[i].value, true
		}
	}
	return nil, false
}

// subscribeContext registers an instance as a reader of a context so
// provider value changes can schedule its re-render.
func (a *App) subscribeContext(id *contextID, node NodeID) {
	subs := a.ctxSubs[id]
	if subs == nil {
		subs = make(map[NodeID]struct{})
		a.ctxSubs[id] = subs
	}
	subs[node] = struct{}{}
}

// unsubscribeContext drops all of an instance's context subscriptions.
// Called on unmount.
func (a *App) unsubscribeContext(node NodeID) {
	for _, subs := range a.ctxSubs {
		delete(subs, node)
	}
}

// nearestProvider walks up from a subscriber to find the provider
// instance currently supplying id, so an outer provider's change does not
// re-render readers shadowed by an inner provider.
func (a *App) nearestProvider(from NodeID, id *contextID) NodeID {
	n := a.tree.get(from)
	if n == nil {
		return NilNode
	}
	for cur := n.parent; cur != NilNode; {
		p := a.tree.get(cur)
		if p == nil {
			return NilNode
		}
		if pp, ok := p.isProvider(); ok && pp.id == id {
			return cur
		}
		cur = p.parent
	}
	return NilNode
}
