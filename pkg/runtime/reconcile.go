package runtime

import (
	terrors "github.com/go-tern/tern/pkg/errors"
	"github.com/go-tern/tern/pkg/vdom"
)

// effectRef addresses one due effect slot, recorded in reconciliation
// visit order.
type effectRef struct {
	node NodeID
	slot int
}

// pass accumulates the products of one render pass: the patch list, the
// instance lifecycle report, due effects and cleanups, and the context
// frame stack for the traversal in progress.
type pass struct {
	app       *App
	patches   []Patch
	lifecycle []Lifecycle
	effects   []effectRef
	cleanups  []Cleanup
	ctxStack  []ctxFrame
	path      Path
}

func newPass(a *App) *pass {
	return &pass{app: a}
}

func (p *pass) emit(patch Patch) {
	p.patches = append(p.patches, patch)
}

// run reconciles the whole tree: the initial pass mounts the root, later
// passes descend only into subtrees holding dirty instances.
func (p *pass) run() error {
	t := p.app.tree
	if t.root == NilNode {
		root, err := p.mount(p.app.root, NilNode)
		if err != nil {
			return err
		}
		t.root = root
		frame := t.materialize(root)
		p.emit(Patch{Op: OpInsert, Path: Path{}, Node: &frame})
		return nil
	}
	return p.descend(t.root)
}

// mount creates committed nodes for a fresh virtual subtree, rendering
// every component in it for the first time.
func (p *pass) mount(v vdom.Node, parent NodeID) (NodeID, error) {
	t := p.app.tree
	n := t.alloc()
	n.parent = parent
	n.kind = v.Kind
	n.key = v.Key
	n.mounted = true
	if pn := t.get(parent); pn != nil {
		n.depth = pn.depth + 1
	}

	switch v.Kind {
	case vdom.KindText:
		n.text = v.Text
	case vdom.KindEmpty:
	case vdom.KindHost, vdom.KindFragment:
		n.typ = v.Type
		n.props = cloneProps(v.Props)
		if err := checkKeys(v.TypeName(), v.Children); err != nil {
			return NilNode, err
		}
		for _, child := range v.Children {
			id, err := p.mount(child, n.id)
			if err != nil {
				return NilNode, err
			}
			n.children = append(n.children, id)
		}
	case vdom.KindComponent:
		n.ctype = v.Component
		n.cprops = v.CompProps
		n.cchildren = v.Children
		p.lifecycle = append(p.lifecycle, Lifecycle{Kind: Mounted, Instance: n.id, Component: n.typeName()})
		pop := p.pushProvider(n)
		out, err := p.renderComponent(n)
		if err != nil {
			pop()
			return NilNode, err
		}
		p.collectEffects(n)
		child, err := p.mount(out, n.id)
		pop()
		if err != nil {
			return NilNode, err
		}
		n.children = []NodeID{child}
	}
	return n.id, nil
}

// descend walks a committed subtree that received no fresh virtual node,
// re-rendering only instances flagged dirty. Provider frames are
// re-pushed on the way down so context lookup works for mid-tree
// re-renders.
func (p *pass) descend(id NodeID) error {
	t := p.app.tree
	n := t.get(id)
	if n == nil {
		return nil
	}
	if n.kind == vdom.KindComponent {
		if n.dirty {
			return p.rerender(n)
		}
		if !n.childDirty {
			return nil
		}
		n.childDirty = false
		pop := p.pushProvider(n)
		var err error
		if len(n.children) > 0 {
			err = p.descend(n.children[0])
		}
		pop()
		return err
	}
	if !n.childDirty {
		return nil
	}
	n.childDirty = false
	for i, c := range n.children {
		cn := t.get(c)
		if cn == nil || (!cn.dirty && !cn.childDirty) {
			continue
		}
		p.path = append(p.path, i)
		err := p.descend(c)
		p.path = p.path[:len(p.path)-1]
		if err != nil {
			return err
		}
	}
	return nil
}

// rerender re-runs a dirty component with its committed props and its
// existing hook arena, then diffs the fresh output against the committed
// render output.
func (p *pass) rerender(n *treeNode) error {
	n.dirty = false
	n.childDirty = false
	p.lifecycle = append(p.lifecycle, Lifecycle{Kind: Updated, Instance: n.id, Component: n.typeName()})
	pop := p.pushProvider(n)
	defer pop()
	out, err := p.renderComponent(n)
	if err != nil {
		return err
	}
	p.collectEffects(n)
	child, err := p.diffNode(n.children[0], out)
	if err != nil {
		return err
	}
	n.children[0] = child
	return nil
}

// diffNode reconciles one committed node against the fresh virtual node
// occupying the same position. A type or key mismatch tears the old
// subtree down and mounts the new one; matches update in place and
// recurse.
func (p *pass) diffNode(oldID NodeID, v vdom.Node) (NodeID, error) {
	t := p.app.tree
	old := t.get(oldID)
	if old == nil {
		return p.mount(v, NilNode)
	}

	if !sameIdentity(old, v) {
		parent := old.parent
		p.unmount(oldID)
		id, err := p.mount(v, parent)
		if err != nil {
			return NilNode, err
		}
		frame := t.materialize(id)
		p.emit(Patch{Op: OpReplace, Path: p.path.clone(), Node: &frame})
		return id, nil
	}

	switch v.Kind {
	case vdom.KindEmpty:
	case vdom.KindText:
		if old.text != v.Text {
			old.text = v.Text
			p.emit(Patch{Op: OpUpdateText, Path: p.path.clone(), Text: v.Text})
		}
	case vdom.KindHost:
		if diff := diffProps(old.props, v.Props); !diff.Empty() {
			old.props = cloneProps(v.Props)
			p.emit(Patch{Op: OpUpdateProps, Path: p.path.clone(), Props: diff})
		}
		if err := p.diffChildren(old, v.Children); err != nil {
			return NilNode, err
		}
	case vdom.KindFragment:
		if err := p.diffChildren(old, v.Children); err != nil {
			return NilNode, err
		}
	case vdom.KindComponent:
		return oldID, p.diffComponent(old, v)
	}
	return oldID, nil
}

// diffComponent handles a matched component element: unchanged props and
// no pending state lets the whole subtree bail out; otherwise the render
// function re-runs with its arena intact.
func (p *pass) diffComponent(old *treeNode, v vdom.Node) error {
	propsChanged := !Equal(old.cprops, v.CompProps) || !Equal(old.cchildren, v.Children)

	if pp, ok := v.CompProps.(providerProps); ok && propsChanged {
		if opp, wasProvider := old.isProvider(); wasProvider && !Equal(opp.value, pp.value) {
			p.app.markContextReaders(old.id, pp.id)
		}
	}
	old.cprops = v.CompProps
	old.cchildren = v.Children

	if !propsChanged && !old.dirty {
		// Referentially stable props, no pending state: reuse the
		// committed subtree, visiting only dirty descendants.
		if old.childDirty {
			old.childDirty = false
			pop := p.pushProvider(old)
			var err error
			if len(old.children) > 0 {
				err = p.descend(old.children[0])
			}
			pop()
			return err
		}
		return nil
	}
	return p.rerender(old)
}

// diffChildren reconciles a committed child list against fresh virtual
// children: keyed matching first for stable identity across reorders,
// positional matching for unkeyed runs, then removals, moves, updates,
// and insertions.
func (p *pass) diffChildren(parent *treeNode, newKids []vdom.Node) error {
	t := p.app.tree

	if err := checkKeys(parent.typeName(), newKids); err != nil {
		return err
	}

	type oldEntry struct {
		id      NodeID
		idx     int
		matched bool
	}
	entries := make([]oldEntry, len(parent.children))
	keyed := make(map[any]*oldEntry)
	var unkeyed []*oldEntry
	for i, cid := range parent.children {
		entries[i] = oldEntry{id: cid, idx: i}
		e := &entries[i]
		if cn := t.get(cid); cn != nil && cn.key != nil {
			keyed[cn.key] = e
		} else {
			unkeyed = append(unkeyed, e)
		}
	}

	// Match pass: explicit keys bind identity across positions; unkeyed
	// children pair up positionally among themselves. Type mismatches are
	// left to diffNode, which replaces in place.
	matches := make([]*oldEntry, len(newKids))
	next := 0
	for j, nk := range newKids {
		if nk.Key != nil {
			if e, ok := keyed[nk.Key]; ok {
				e.matched = true
				matches[j] = e
			}
		} else if next < len(unkeyed) {
			e := unkeyed[next]
			next++
			e.matched = true
			matches[j] = e
		}
	}

	// Removals reference pre-patch positions.
	for i := range entries {
		if !entries[i].matched {
			p.emit(Patch{Op: OpRemove, Path: append(p.path.clone(), entries[i].idx)})
			p.unmount(entries[i].id)
		}
	}

	// Moves: emitted only when the matched children's relative order
	// changed, so pure removals and insertions never produce a Reorder.
	var moves []Move
	lastOld := -1
	ordered := true
	for _, e := range matches {
		if e == nil {
			continue
		}
		if e.idx < lastOld {
			ordered = false
		}
		lastOld = e.idx
	}
	if !ordered {
		for j, e := range matches {
			if e != nil && e.idx != j {
				moves = append(moves, Move{From: e.idx, To: j})
			}
		}
	}
	if len(moves) > 0 {
		p.emit(Patch{Op: OpReorder, Path: p.path.clone(), Moves: moves})
	}

	// Update matched pairs and mount the rest, in new-child order.
	committed := make([]NodeID, len(newKids))
	for j, nk := range newKids {
		p.path = append(p.path, j)
		var err error
		if matches[j] == nil {
			var id NodeID
			id, err = p.mount(nk, parent.id)
			if err == nil {
				frame := t.materialize(id)
				p.emit(Patch{Op: OpInsert, Path: p.path.clone(), Node: &frame})
				committed[j] = id
			}
		} else {
			committed[j], err = p.diffNode(matches[j].id, nk)
		}
		p.path = p.path[:len(p.path)-1]
		if err != nil {
			return err
		}
	}
	parent.children = committed
	return nil
}

// unmount tears a committed subtree down: lifecycle report, live effect
// cleanups collected exactly once, in-flight async tasks canceled,
// context subscriptions dropped, arena entries released.
func (p *pass) unmount(id NodeID) {
	t := p.app.tree
	n := t.get(id)
	if n == nil {
		return
	}
	if n.kind == vdom.KindComponent {
		p.lifecycle = append(p.lifecycle, Lifecycle{Kind: Unmounted, Instance: n.id, Component: n.typeName()})
		for i := range n.slots {
			s := &n.slots[i]
			if s.kind != slotEffect {
				continue
			}
			if s.cancel != nil {
				s.cancel()
				s.cancel = nil
			}
			s.gen++
			if s.cleanup != nil {
				p.cleanups = append(p.cleanups, s.cleanup)
				s.cleanup = nil
			}
		}
		p.app.unsubscribeContext(id)
	}
	for _, c := range n.children {
		p.unmount(c)
	}
	n.mounted = false
	t.release(id)
}

// renderComponent runs a component's render function with a fresh cursor
// over its existing arena. Hook-order violations surface as errors; other
// panics propagate to the loop's teardown path.
func (p *pass) renderComponent(n *treeNode) (out vdom.Node, err error) {
	ctx := &Ctx{app: p.app, pass: p, node: n.id, first: !n.renderedOnce}
	defer func() {
		if r := recover(); r != nil {
			if he, ok := r.(*terrors.HookOrderError); ok {
				err = he
				return
			}
			panic(r)
		}
	}()
	out = n.ctype.Render(ctx, n.cprops)
	ctx.finishRender()
	n.renderedOnce = true
	return out, nil
}

// collectEffects records an instance's due effects in visit order and
// queues the cleanups of runs being superseded.
func (p *pass) collectEffects(n *treeNode) {
	for i := range n.slots {
		s := &n.slots[i]
		if s.kind != slotEffect || !s.dirty {
			continue
		}
		if s.cleanup != nil {
			p.cleanups = append(p.cleanups, s.cleanup)
			s.cleanup = nil
		}
		p.effects = append(p.effects, effectRef{node: n.id, slot: i})
	}
}

// pushProvider pushes a provider instance's context frame for the
// duration of its subtree's traversal. The returned func pops it; for
// non-providers both are no-ops.
func (p *pass) pushProvider(n *treeNode) func() {
	pp, ok := n.isProvider()
	if !ok {
		return func() {}
	}
	p.ctxStack = append(p.ctxStack, ctxFrame{id: pp.id, value: pp.value, owner: n.id})
	return func() {
		p.ctxStack = p.ctxStack[:len(p.ctxStack)-1]
	}
}

// markContextReaders schedules a re-render for every subscriber whose
// nearest provider for the context is the given instance. Called while
// diffing a provider whose value changed, before its subtree is visited,
// so the marks are honored in the same pass.
func (a *App) markContextReaders(provider NodeID, id *contextID) {
	for sub := range a.ctxSubs[id] {
		if a.nearestProvider(sub, id) == provider {
			a.markDirty(sub)
		}
	}
}

func sameIdentity(old *treeNode, v vdom.Node) bool {
	if old.kind != v.Kind || !keysEqual(old.key, v.Key) {
		return false
	}
	switch v.Kind {
	case vdom.KindHost:
		return old.typ == v.Type
	case vdom.KindComponent:
		return old.ctype == v.Component
	default:
		return true
	}
}

func keysEqual(a, b any) bool {
	return a == b
}

// checkKeys rejects duplicate explicit keys within one sibling list.
// Keyed identity would be ambiguous, so this is a hard error, never a
// silent first-wins.
func checkKeys(parent string, kids []vdom.Node) error {
	var seen map[any]struct{}
	for _, k := range kids {
		if k.Key == nil {
			continue
		}
		if seen == nil {
			seen = make(map[any]struct{})
		}
		if _, dup := seen[k.Key]; dup {
			return &terrors.DuplicateKeyError{Parent: parent, Key: k.Key}
		}
		seen[k.Key] = struct{}{}
	}
	return nil
}

// diffProps computes the key-by-key host prop diff: changed or added
// props go to Set, props present only before go to Clear.
func diffProps(old, new vdom.Props) PropDiff {
	var diff PropDiff
	for k, nv := range new {
		ov, ok := old[k]
		if !ok || !Equal(ov, nv) {
			if diff.Set == nil {
				diff.Set = make(vdom.Props)
			}
			diff.Set[k] = nv
		}
	}
	for k := range old {
		if _, ok := new[k]; !ok {
			diff.Clear = append(diff.Clear, k)
		}
	}
	return diff
}

func cloneProps(p vdom.Props) vdom.Props {
	if p == nil {
		return nil
	}
	out := make(vdom.Props, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
