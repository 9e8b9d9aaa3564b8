package runtime

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/vango-dev/loom/pkg/dom"
	"github.com/vango-dev/loom/pkg/metrics"
	"github.com/vango-dev/loom/pkg/reactive"
	"github.com/vango-dev/loom/pkg/registry"
)

// Signals is the reactive system the runtime relies on.
//
// CreateEffect must run fn immediately and re-run it synchronously whenever
// a reactive value it read through Get changes.
type Signals interface {
	IsRawSignal(v any) bool
	Get(v any) any
	CreateEffect(fn func()) (dispose func())
}

// untracker is implemented by Signals that can suspend dependency tracking.
type untracker interface {
	Untracked(fn func())
}

// Runtime holds the collaborators the primitives consult.
type Runtime struct {
	signals     Signals
	registry    *registry.Registry
	logger      *slog.Logger
	metrics     *metrics.Metrics
	debug       func() bool
	placeholder func(name string) *dom.Node

	// current is the scope work is attributed to while a region evaluates
	// or a component mounts.
	current *Scope
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithSignals sets the reactive system. Default: reactive.Adapter.
func WithSignals(s Signals) Option {
	return func(rt *Runtime) { rt.signals = s }
}

// WithRegistry sets the component registry.
func WithRegistry(r *registry.Registry) Option {
	return func(rt *Runtime) { rt.registry = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(rt *Runtime) { rt.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(rt *Runtime) { rt.metrics = m }
}

// WithDebug fixes the debug flag.
func WithDebug(enabled bool) Option {
	return func(rt *Runtime) { rt.debug = func() bool { return enabled } }
}

// WithDebugSwitch reads the debug flag from fn on every diagnostic.
func WithDebugSwitch(fn func() bool) Option {
	return func(rt *Runtime) { rt.debug = fn }
}

// WithPlaceholder sets the node substituted for a missing component.
func WithPlaceholder(fn func(name string) *dom.Node) Option {
	return func(rt *Runtime) { rt.placeholder = fn }
}

// New creates a Runtime.
func New(opts ...Option) *Runtime {
	rt := &Runtime{}
	for _, opt := range opts {
		opt(rt)
	}
	if rt.signals == nil {
		rt.signals = reactive.Adapter{}
	}
	if rt.registry == nil {
		rt.registry = registry.New()
	}
	if rt.logger == nil {
		rt.logger = slog.Default()
	}
	if rt.debug == nil {
		rt.debug = func() bool { return false }
	}
	if rt.placeholder == nil {
		rt.placeholder = DefaultPlaceholder
	}
	return rt
}

// DefaultPlaceholder renders <span data-loom-missing="Name">.
func DefaultPlaceholder(name string) *dom.Node {
	n := dom.NewElement("span")
	n.SetAttr("data-loom-missing", name)
	n.AppendChild(dom.NewText("[" + name + "]"))
	return n
}

// Registry returns the component registry.
func (rt *Runtime) Registry() *registry.Registry {
	return rt.registry
}

// Signals returns the reactive system.
func (rt *Runtime) Signals() Signals {
	return rt.signals
}

// Logger returns the runtime's logger.
func (rt *Runtime) Logger() *slog.Logger {
	return rt.logger
}

// Debug reports whether diagnostics are enabled.
func (rt *Runtime) Debug() bool {
	return rt.debug()
}

// CurrentScope returns the scope of the region evaluation or component
// mount in progress, or nil.
func (rt *Runtime) CurrentScope() *Scope {
	return rt.current
}

func (rt *Runtime) withScope(s *Scope, fn func()) {
	prev := rt.current
	rt.current = s
	defer func() { rt.current = prev }()
	fn()
}

func (rt *Runtime) untracked(fn func()) {
	if u, ok := rt.signals.(untracker); ok {
		u.Untracked(fn)
		return
	}
	fn()
}

// guard runs fn, converting a panic into an error.
func guard(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{value: r, stack: debug.Stack()}
		}
	}()
	fn()
	return nil
}

type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}
