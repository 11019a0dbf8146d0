package runtime

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-tern/tern/pkg/backend"
	terrors "github.com/go-tern/tern/pkg/errors"
	"github.com/go-tern/tern/pkg/vdom"
)

// Phase is the render loop's state machine position.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRendering
	PhaseCommitting
	PhaseRunningEffects
)

func (p Phase) String() string {
	switch p {
	case PhaseRendering:
		return "rendering"
	case PhaseCommitting:
		return "committing"
	case PhaseRunningEffects:
		return "running-effects"
	default:
		return "idle"
	}
}

// App is the render/event loop driving a component tree against a
// backend. All tree and arena state is owned by the goroutine calling Run
// (or Flush, for harness-driven apps); everything else communicates
// through the inbox.
type App struct {
	be    backend.Backend
	root  vdom.Node
	tree  *tree
	inbox *inbox
	clock Clock

	logger  *slog.Logger
	bus     *EventBus
	control *Control
	frame   *FrameInfo

	ctxSubs map[*contextID]map[NodeID]struct{}
	pending []updateMsg

	phase      Phase
	stopping   bool
	needsFrame bool
	passes     uint64
	tasks      atomic.Int64

	lastPatches   []Patch
	lastLifecycle []Lifecycle

	inspect  bool
	snapMu   sync.Mutex
	snapshot *TreeSnapshot
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the application logger. The default discards records,
// since stderr belongs to the terminal while the app runs.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithClock replaces the wall clock, letting tests drive timer hooks
// deterministically.
func WithClock(c Clock) Option {
	return func(a *App) {
		if c != nil {
			a.clock = c
		}
	}
}

// WithInspection stores an inspection snapshot of the committed tree
// after every commit, readable from other goroutines via LastSnapshot.
func WithInspection() Option {
	return func(a *App) {
		a.inspect = true
	}
}

// New creates an app for the given backend and root node. The root is
// wrapped in the built-in event bus, control, and frame contexts so
// derived hooks can reach them from anywhere in the tree.
func New(be backend.Backend, root vdom.Node, opts ...Option) *App {
	a := &App{
		be:      be,
		tree:    newTree(),
		inbox:   newInbox(),
		clock:   systemClock{},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		ctxSubs: make(map[*contextID]map[NodeID]struct{}),
	}
	w, h := be.Size()
	a.bus = newEventBus(w, h)
	a.control = &Control{app: a}
	a.frame = &FrameInfo{}
	for _, opt := range opts {
		opt(a)
	}
	a.root = EventBusContext.Provide(a.bus,
		ControlContext.Provide(a.control,
			FrameContext.Provide(a.frame, root)))
	return a
}

// Run drives the loop until Stop is called, the backend closes or fails,
// or ctx is canceled. Whatever the exit path — error, cancellation, or a
// panic out of user code — the backend's teardown hook runs before Run
// returns; panics are reported and rethrown after teardown.
func (a *App) Run(ctx context.Context) (err error) {
	defer func() {
		r := recover()
		cerr := a.be.Close()
		if r != nil {
			terrors.ReportPanic(&terrors.PanicError{
				Op:         "runtime.App.Run",
				Value:      r,
				StackTrace: terrors.CaptureStack(),
				Timestamp:  time.Now(),
			})
			panic(r)
		}
		if err == nil {
			err = cerr
		}
		if err != nil && !stderrors.Is(err, context.Canceled) {
			terrors.Report(&terrors.RuntimeError{
				Op:   "runtime.App.Run",
				Kind: errorKind(err),
				Err:  err,
			})
		}
	}()

	go a.pollEvents()

	if err = a.Flush(); err != nil {
		return err
	}
	for {
		msgs := a.inbox.wait(ctx)
		if msgs == nil {
			return ctx.Err()
		}
		if err = a.process(msgs); err != nil {
			return err
		}
		if a.stopping {
			return nil
		}
	}
}

// Flush processes everything already queued and renders until quiescent,
// without waiting for new input. It is the single-step driver used for
// the initial mount and by the test harness; it must be called from the
// goroutine that owns the loop.
func (a *App) Flush() error {
	return a.process(nil)
}

// process handles a batch of messages, then alternates draining and
// rendering until no work remains. Draining fully before each pass is
// what coalesces any number of queued updates into one render per
// quiescence point; updates posted by effect bodies land in the inbox and
// send the next iteration straight back to rendering.
func (a *App) process(msgs []message) error {
	for {
		for _, m := range msgs {
			if err := a.handle(m); err != nil {
				return err
			}
		}
		if a.stopping {
			return nil
		}
		msgs = a.inbox.drain()
		if len(msgs) > 0 {
			continue
		}
		if !a.needsRender() {
			return nil
		}
		if err := a.renderPass(); err != nil {
			return err
		}
		msgs = a.inbox.drain()
		if len(msgs) == 0 && !a.needsRender() {
			return nil
		}
	}
}

// handle applies one inbox message on the loop goroutine.
func (a *App) handle(m message) error {
	switch m := m.(type) {
	case eventMsg:
		a.bus.dispatch(m.ev)
	case updateMsg:
		a.pending = append(a.pending, m)
	case taskMsg:
		a.tasks.Add(-1)
		a.applyTask(m)
	case dispatchMsg:
		if m.fn != nil {
			m.fn()
		}
	case stopMsg:
		a.stopping = true
	case failMsg:
		return m.err
	}
	return nil
}

// applyTask delivers an async effect completion, or discards it when the
// spawning run has been superseded or the instance unmounted.
func (a *App) applyTask(m taskMsg) {
	n := a.tree.get(m.node)
	if n == nil || !n.mounted || n.serial != m.serial || m.slot >= len(n.slots) {
		return
	}
	s := &n.slots[m.slot]
	if s.kind != slotEffect || s.gen != m.gen || s.asyncApply == nil {
		return
	}
	s.asyncApply(m.value, m.err)
}

func (a *App) needsRender() bool {
	return a.tree.root == NilNode || len(a.pending) > 0 || a.needsFrame
}

// renderPass runs one Rendering → Committing → RunningEffects cycle.
func (a *App) renderPass() error {
	a.phase = PhaseRendering
	a.applyPending()
	p := newPass(a)
	if err := p.run(); err != nil {
		terrors.Report(&terrors.RuntimeError{
			Op:   "runtime.App.renderPass",
			Kind: errorKind(err),
			Err:  err,
		})
		return err
	}
	a.lastPatches = p.patches
	a.lastLifecycle = p.lifecycle

	a.phase = PhaseCommitting
	frame := a.tree.materialize(a.tree.root)
	if err := a.be.Draw(&frame); err != nil {
		return &terrors.RuntimeError{Op: "runtime.App.renderPass", Kind: terrors.KindBackend, Err: err}
	}
	now := a.clock.Now()
	if a.frame.Count > 0 {
		a.frame.Delta = now.Sub(a.frame.Time)
	}
	a.frame.Count++
	a.frame.Time = now
	a.passes++

	a.phase = PhaseRunningEffects
	a.runEffects(p)
	a.phase = PhaseIdle
	a.needsFrame = false

	if a.inspect {
		a.storeSnapshot()
	}
	return nil
}

// applyPending folds every queued state update into its slot, in enqueue
// order, and schedules the owning instances. A plain set that leaves the
// value unchanged schedules nothing.
func (a *App) applyPending() {
	pending := a.pending
	a.pending = nil
	for _, m := range pending {
		n := a.tree.get(m.node)
		if n == nil || !n.mounted || n.serial != m.serial || m.slot >= len(n.slots) {
			continue
		}
		s := &n.slots[m.slot]
		if s.kind != slotState && s.kind != slotReducer {
			continue
		}
		old := s.value
		s.value = m.apply(old)
		if m.replace && Equal(old, s.value) {
			continue
		}
		a.markDirty(n.id)
	}
}

// markDirty flags an instance for re-render and its ancestors for
// descent.
func (a *App) markDirty(id NodeID) {
	n := a.tree.get(id)
	if n == nil || !n.mounted || n.dirty {
		return
	}
	n.dirty = true
	a.needsFrame = true
	for cur := n.parent; cur != NilNode; {
		pn := a.tree.get(cur)
		if pn == nil || pn.childDirty {
			break
		}
		pn.childDirty = true
		cur = pn.parent
	}
}

// runEffects executes this commit's due cleanups, then due bodies, in
// reconciliation visit order. Async bodies are spawned as tasks that
// re-enter through the inbox tagged with the slot's new generation.
func (a *App) runEffects(p *pass) {
	for _, c := range p.cleanups {
		c()
	}
	for _, ref := range p.effects {
		n := a.tree.get(ref.node)
		if n == nil || !n.mounted || ref.slot >= len(n.slots) {
			continue
		}
		s := &n.slots[ref.slot]
		if s.kind != slotEffect || !s.dirty {
			continue
		}
		s.dirty = false
		if s.async {
			if s.cancel != nil {
				s.cancel()
			}
			s.gen++
			gen := s.gen
			tctx, cancel := context.WithCancel(context.Background())
			s.cancel = cancel
			run := s.asyncRun
			node, serial, slotIdx := n.id, n.serial, ref.slot
			a.tasks.Add(1)
			go func() {
				v, err := run(tctx)
				a.inbox.post(taskMsg{node: node, serial: serial, slot: slotIdx, gen: gen, value: v, err: err})
			}()
		} else if s.body != nil {
			s.cleanup = s.body()
		}
	}
}

// pollEvents is the backend reader goroutine: the only caller of
// PollEvent. It owns no loop state; everything goes through the inbox.
func (a *App) pollEvents() {
	for {
		ev, err := a.be.PollEvent()
		if err != nil {
			if stderrors.Is(err, backend.ErrClosed) {
				a.inbox.post(stopMsg{})
			} else {
				a.inbox.post(failMsg{err: &terrors.RuntimeError{
					Op:   "runtime.App.pollEvents",
					Kind: terrors.KindBackend,
					Err:  err,
				}})
			}
			return
		}
		a.inbox.post(eventMsg{ev: ev})
	}
}

// Idle reports whether the loop has nothing to do: no queued messages,
// no pending render, and no async effect task in flight. Meaningful from
// the driving goroutine between Flush calls.
func (a *App) Idle() bool {
	return a.inbox.empty() && !a.needsRender() && a.tasks.Load() == 0
}

// Shutdown unmounts the committed tree — running every live effect
// cleanup exactly once — and closes the backend. Call from the driving
// goroutine after the loop has stopped; Run-managed apps only need this
// when the tree should be torn down explicitly before exit.
func (a *App) Shutdown() error {
	if a.tree.root != NilNode {
		p := newPass(a)
		p.unmount(a.tree.root)
		a.tree.root = NilNode
		a.lastLifecycle = p.lifecycle
		a.lastPatches = []Patch{{Op: OpRemove, Path: Path{}}}
		for _, c := range p.cleanups {
			c()
		}
	}
	return a.be.Close()
}

// Stop requests a clean exit at the next quiescence point. Safe from any
// goroutine.
func (a *App) Stop() {
	a.inbox.post(stopMsg{})
}

// DeliverEvent injects an external event as if the backend produced it.
// Safe from any goroutine; the test harness uses it for deterministic
// event injection.
func (a *App) DeliverEvent(ev backend.Event) {
	a.inbox.post(eventMsg{ev: ev})
}

// Dispatch schedules fn on the loop goroutine.
func (a *App) Dispatch(fn func()) {
	a.inbox.post(dispatchMsg{fn: fn})
}

// postUpdate is the setters' entry point into the inbox.
func (a *App) postUpdate(m updateMsg) {
	a.inbox.post(m)
}

// Phase reports the loop's current state machine position. Loop-owned;
// meaningful only from the driving goroutine.
func (a *App) Phase() Phase {
	return a.phase
}

// Passes returns how many render passes have committed.
func (a *App) Passes() uint64 {
	return a.passes
}

// LastPatches returns the patch list produced by the most recent pass.
func (a *App) LastPatches() []Patch {
	return a.lastPatches
}

// LastLifecycle returns the instance lifecycle report of the most recent
// pass.
func (a *App) LastLifecycle() []Lifecycle {
	return a.lastLifecycle
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// errorKind maps structured runtime errors onto report categories.
func errorKind(err error) terrors.ErrorKind {
	var hook *terrors.HookOrderError
	var dup *terrors.DuplicateKeyError
	var rt *terrors.RuntimeError
	switch {
	case stderrors.As(err, &hook):
		return terrors.KindHook
	case stderrors.As(err, &dup):
		return terrors.KindDiff
	case stderrors.As(err, &rt):
		return rt.Kind
	default:
		return terrors.KindUnknown
	}
}
