package runtime

import (
	"sync"

	loomerrors "github.com/vango-dev/loom/internal/errors"
)

// Scope owns disposers recorded by the primitives. Disposing a scope runs
// them in reverse registration order.
type Scope struct {
	rt     *Runtime
	parent *Scope

	mu        sync.Mutex
	disposers []func()
	disposed  bool
}

// NewScope creates a scope. A nil parent attaches the scope to the scope of
// the region evaluation or component mount in progress, if any, so nested
// renders are torn down with their enclosing region.
func (rt *Runtime) NewScope(parent *Scope) *Scope {
	if parent == nil {
		parent = rt.current
	}
	s := &Scope{rt: rt, parent: parent}
	if parent != nil {
		parent.OnDispose(s.Dispose)
	}
	return s
}

// detachedScope creates a scope its owner disposes explicitly.
func (rt *Runtime) detachedScope(parent *Scope) *Scope {
	return &Scope{rt: rt, parent: parent}
}

// Parent returns the enclosing scope, or nil.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// OnDispose records fn. On a disposed scope fn runs immediately.
func (s *Scope) OnDispose(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		s.rt.safeCleanup(fn)
		return
	}
	s.disposers = append(s.disposers, fn)
	s.mu.Unlock()
}

// Disposed reports whether Dispose has run.
func (s *Scope) Disposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

// Dispose runs every recorded disposer, last first. A panicking disposer is
// logged and the rest still run. It is safe to call more than once.
func (s *Scope) Dispose() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	disposers := s.disposers
	s.disposers = nil
	s.mu.Unlock()

	for i := len(disposers) - 1; i >= 0; i-- {
		s.rt.safeCleanup(disposers[i])
	}
}

// safeCleanup runs fn, recovering and logging a panic.
func (rt *Runtime) safeCleanup(fn func()) {
	if err := guard(fn); err != nil {
		rt.metrics.CleanupFailed()
		rt.logger.Error("cleanup failed",
			"code", loomerrors.CodeCleanupFailed,
			"error", err,
			"stack", string(err.(*panicError).stack))
	}
}
