package runtime

import "context"

// slotKind tags the variant stored in a hook slot. The sequence of kinds
// recorded across a component's slots is the instance's hook fingerprint;
// any divergence on a later render is a hook-order violation.
type slotKind int

const (
	slotState slotKind = iota
	slotReducer
	slotRef
	slotEffect
	slotMemo
	slotCallback
	slotContext
)

func (k slotKind) String() string {
	switch k {
	case slotState:
		return "state"
	case slotReducer:
		return "reducer"
	case slotRef:
		return "ref"
	case slotEffect:
		return "effect"
	case slotMemo:
		return "memo"
	case slotCallback:
		return "callback"
	case slotContext:
		return "context"
	default:
		return "unknown"
	}
}

// Cleanup is an effect's teardown closure. A nil Cleanup means nothing to
// tear down.
type Cleanup func()

// slot is one entry in an instance's hook arena. Fields beyond kind are
// populated per variant; the type-erased values are re-typed by the
// generic hook wrappers.
type slot struct {
	kind slotKind

	// State and reducer: current value plus the ordered queue of pending
	// updates applied at the start of the next pass.
	value any
	queue []func(any) any

	// Ref: the *Ref[T] cell, type-erased.
	ref any

	// Effect bookkeeping. deps is the last-run dependency fingerprint;
	// hasDeps distinguishes "no deps argument" (run every commit) from an
	// empty list (mount only). dirty is set during render when the
	// fingerprint changes and cleared once the scheduler runs the body.
	deps    []any
	hasDeps bool
	dirty   bool
	cleanup Cleanup
	body    func() Cleanup

	// Async effect state. gen is bumped on every (re)run and on unmount
	// so stale completions arriving through the inbox are discarded.
	async      bool
	asyncRun   func(context.Context) (any, error)
	asyncApply func(any, error)
	gen        uint64
	cancel     context.CancelFunc

	// Memo and callback cache.
	memo any

	// Context subscription: which context this slot reads and the value
	// observed at last render.
	ctxID    *contextID
	observed any
}
