package reactive

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// maxEffectReruns bounds how many times an effect re-runs because it
// invalidated itself while running. An effect that writes a signal it reads
// would otherwise loop forever.
const maxEffectReruns = 100

// Effect represents a reactive side effect that runs when its dependencies change.
//
// Effects run immediately when created and re-run synchronously whenever any
// signal or memo they read during execution changes. They can return a
// Cleanup function that is called before the effect re-runs or when the
// effect is disposed.
//
// An effect created under an Owner is disposed with it.
type Effect struct {
	id uint64

	// fn is the effect body.
	fn func() Cleanup

	// cleanup is the Cleanup returned by the latest run, if any.
	cleanup Cleanup

	// sources are the signals/memos this effect depends on.
	sources   []*signalBase
	sourcesMu sync.Mutex

	// owner is the Owner the effect was created under, or nil.
	owner *Owner

	// running is set while fn executes; a change observed during the run
	// sets pending so the effect runs again once the current run returns.
	running  atomic.Bool
	pending  atomic.Bool
	disposed atomic.Bool

	// runs counts executions of fn.
	runs atomic.Int64
}

// MarkDirty re-runs the effect. Implements the Listener interface.
// When the effect is already running, the re-run is deferred until the
// current run returns.
func (e *Effect) MarkDirty() {
	if e.disposed.Load() {
		return
	}
	if e.running.Load() {
		e.pending.Store(true)
		return
	}
	e.run()
}

// ID returns the unique identifier for this effect.
// Implements the Listener interface.
func (e *Effect) ID() uint64 {
	return e.id
}

// Runs returns how many times the effect body has executed.
func (e *Effect) Runs() int64 {
	return e.runs.Load()
}

// Dispose stops the effect, runs its last cleanup and unsubscribes it from
// all sources. It is safe to call more than once.
func (e *Effect) Dispose() {
	if e.disposed.Swap(true) {
		return
	}

	if e.cleanup != nil {
		c := e.cleanup
		e.cleanup = nil
		c()
	}
	e.clearSources()
}

// IsDisposed returns true once Dispose has been called.
func (e *Effect) IsDisposed() bool {
	return e.disposed.Load()
}

// run executes the effect, then again for as long as a run invalidated it,
// up to maxEffectReruns times.
func (e *Effect) run() {
	for i := 0; i < maxEffectReruns; i++ {
		if e.disposed.Load() {
			return
		}
		e.pending.Store(false)
		e.execute()
		if !e.pending.Load() {
			return
		}
	}
	slog.Default().Warn("reactive: effect keeps invalidating itself, giving up",
		slog.Uint64("effect", e.id),
		slog.Int("reruns", maxEffectReruns))
}

// execute performs a single run: previous cleanup, resubscription, body.
func (e *Effect) execute() {
	e.running.Store(true)
	defer e.running.Store(false)

	if e.cleanup != nil {
		c := e.cleanup
		e.cleanup = nil
		c()
	}
	e.clearSources()

	old := setCurrentListener(e)
	defer setCurrentListener(old)

	e.runs.Add(1)
	e.cleanup = e.fn()
}

// clearSources unsubscribes the effect from everything it read.
// Dependencies are re-collected on every run.
func (e *Effect) clearSources() {
	e.sourcesMu.Lock()
	sources := e.sources
	e.sources = nil
	e.sourcesMu.Unlock()

	for _, source := range sources {
		source.unsubscribe(e)
	}
}

// addSource records a dependency. Called when a signal or memo is read
// while the effect is the current listener.
func (e *Effect) addSource(source *signalBase) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()

	for _, s := range e.sources {
		if s == source {
			return
		}
	}
	e.sources = append(e.sources, source)
}

// CreateEffect creates and runs a new effect within the current owner context.
// The effect function runs immediately and re-runs when any signal or memo
// it reads changes. If the function returns a Cleanup, it is called before
// the effect re-runs and when the effect is disposed.
//
// Example:
//
//	CreateEffect(func() Cleanup {
//	    fmt.Println("Count is:", count.Get())
//	    return func() { fmt.Println("Cleanup") }
//	})
func CreateEffect(fn func() Cleanup) *Effect {
	owner := getCurrentOwner()

	e := &Effect{
		id:    nextID(),
		fn:    fn,
		owner: owner,
	}
	if owner != nil {
		owner.registerEffect(e)
	}

	e.run()
	return e
}

// OnCleanup registers fn with the current owner. It is a no-op outside an
// owner scope.
func OnCleanup(fn func()) {
	if owner := getCurrentOwner(); owner != nil {
		owner.OnCleanup(fn)
	}
}
