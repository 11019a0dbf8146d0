// Package runtime implements the reactive core: the committed instance
// tree, the hook slot arena, the reconciler, the effect scheduler, and the
// render/event loop that ties them to a terminal backend.
//
// The model is a single logical loop goroutine that exclusively owns the
// committed tree, every instance's hook arena, and the context frame
// stack. External event sources (the backend reader, timers, async effect
// completions) never touch loop-owned state; they enqueue messages into
// one ordered inbox that the loop drains. State setters work the same way,
// so they are safe to call from any goroutine.
//
// A render pass diffs freshly produced virtual nodes against the committed
// tree, producing a patch list and an instance lifecycle report. Matched
// component instances keep their hook arena; a type or key mismatch
// unmounts the old subtree and mounts the new one with fresh state. After
// the patch is committed to the backend, due effect cleanups run, then due
// effect bodies, in reconciliation visit order. Updates queued while
// effects run are coalesced into the next pass.
package runtime
