package loom

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/loom/internal/config"
	"github.com/vango-dev/loom/pkg/compiler"
	"github.com/vango-dev/loom/pkg/dom"
	"github.com/vango-dev/loom/pkg/metrics"
	"github.com/vango-dev/loom/pkg/registry"
	"github.com/vango-dev/loom/pkg/render"
	"github.com/vango-dev/loom/pkg/runtime"
	"github.com/vango-dev/loom/pkg/template"
)

// TracerName is the instrumentation name spans are recorded under.
const TracerName = "github.com/vango-dev/loom"

type (
	// Template is a fragment list with a stable identity.
	Template = template.Template

	// Result is an executed template.
	Result = runtime.Result

	// Props are the values a component receives.
	Props = registry.Props

	// Constructor builds a component from its props.
	Constructor = registry.Constructor
)

// T creates a template from its literal fragments.
func T(fragments ...string) *Template {
	return template.New(fragments...)
}

// Named creates a template whose diagnostics carry name.
func Named(name string, fragments ...string) *Template {
	return template.Named(name, fragments...)
}

var debugMode atomic.Bool

// SetDebug toggles diagnostics for every environment that does not fix
// its own debug flag.
func SetDebug(on bool) {
	debugMode.Store(on)
}

// Debug reports the process-wide diagnostics flag.
func Debug() bool {
	return debugMode.Load()
}

// Environment owns the collaborators a render needs.
//
// The registry and the template cache are safe for concurrent use. Render,
// Mount and RenderHTML are not: the runtime tracks the scope being built,
// so callers serving several goroutines must serialize them. Components
// may call Mount on the same environment from their own Mount.
type Environment struct {
	registry *registry.Registry
	cache    *template.Cache
	runtime  *runtime.Runtime
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	renderer render.RendererConfig
	debug    *bool

	signals     runtime.Signals
	placeholder func(string) *dom.Node
}

// Option configures an Environment.
type Option func(*Environment)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Environment) { e.logger = l }
}

// WithRegistry shares a component registry between environments.
func WithRegistry(r *registry.Registry) Option {
	return func(e *Environment) { e.registry = r }
}

// WithMetrics enables prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Environment) { e.metrics = m }
}

// WithTracer sets the tracer. Default: the global provider's tracer.
func WithTracer(t trace.Tracer) Option {
	return func(e *Environment) { e.tracer = t }
}

// WithDebug fixes the environment's diagnostics flag, ignoring SetDebug.
func WithDebug(on bool) Option {
	return func(e *Environment) { e.debug = &on }
}

// WithRenderer configures RenderHTML output.
func WithRenderer(c render.RendererConfig) Option {
	return func(e *Environment) { e.renderer = c }
}

// WithSignals replaces the reactive system.
func WithSignals(s runtime.Signals) Option {
	return func(e *Environment) { e.signals = s }
}

// WithPlaceholder sets the node rendered for an unknown component.
func WithPlaceholder(fn func(name string) *dom.Node) Option {
	return func(e *Environment) { e.placeholder = fn }
}

// New creates an Environment.
func New(opts ...Option) *Environment {
	e := &Environment{}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = registry.New()
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.tracer == nil {
		e.tracer = otel.Tracer(TracerName)
	}

	e.cache = template.NewCache(e.compile, template.WithMetrics(e.metrics))

	rtOpts := []runtime.Option{
		runtime.WithRegistry(e.registry),
		runtime.WithLogger(e.logger),
		runtime.WithMetrics(e.metrics),
		runtime.WithDebugSwitch(e.Debug),
	}
	if e.signals != nil {
		rtOpts = append(rtOpts, runtime.WithSignals(e.signals))
	}
	if e.placeholder != nil {
		rtOpts = append(rtOpts, runtime.WithPlaceholder(e.placeholder))
	}
	e.runtime = runtime.New(rtOpts...)
	return e
}

// FromConfig creates an Environment from project settings. Options
// are applied after the ones derived from cfg.
func FromConfig(cfg *config.Config, opts ...Option) *Environment {
	base := []Option{
		WithDebug(cfg.Debug),
		WithRenderer(render.RendererConfig{
			Pretty:      cfg.Render.Pretty,
			OmitAnchors: cfg.Render.OmitAnchors,
		}),
	}
	if cfg.Metrics.Enabled {
		base = append(base, WithMetrics(metrics.New(metrics.WithNamespace(cfg.Metrics.Namespace))))
	}
	return New(append(base, opts...)...)
}

func (e *Environment) compile(key string, fragments []string) (*compiler.Program, error) {
	_, span := e.tracer.Start(context.Background(), "loom.compile",
		trace.WithAttributes(
			attribute.String("loom.template", key),
			attribute.Int("loom.fragments", len(fragments)),
		),
	)
	defer span.End()

	prog, err := compiler.Compile(key, fragments,
		compiler.WithDebug(e.Debug()),
		compiler.WithLogger(e.logger),
		compiler.WithComponents(e.registry),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "compile failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("loom.slots", prog.Slots))
	return prog, nil
}

// Debug reports whether diagnostics are on for this environment.
func (e *Environment) Debug() bool {
	if e.debug != nil {
		return *e.debug
	}
	return Debug()
}

// Registry returns the component registry.
func (e *Environment) Registry() *registry.Registry { return e.registry }

// Runtime returns the runtime executing programs.
func (e *Environment) Runtime() *runtime.Runtime { return e.runtime }

// Metrics returns the metrics sink, or nil.
func (e *Environment) Metrics() *metrics.Metrics { return e.metrics }

// Logger returns the environment's logger.
func (e *Environment) Logger() *slog.Logger { return e.logger }

// CacheStats reports template cache activity.
func (e *Environment) CacheStats() template.Stats { return e.cache.Stats() }

// Register adds a component. A later registration under the same name
// replaces the earlier one.
func (e *Environment) Register(name string, ctor Constructor) {
	e.registry.Register(name, ctor)
}

// RegisterAll adds every component in m.
func (e *Environment) RegisterAll(m map[string]Constructor) {
	e.registry.RegisterAll(m)
}

// Compile returns t's program, compiling it on first use.
func (e *Environment) Compile(t *Template) (*compiler.Program, error) {
	return e.cache.Load(t)
}

// Render builds t with values into a new fragment.
func (e *Environment) Render(t *Template, values ...any) (*Result, error) {
	return e.RenderContext(context.Background(), t, values...)
}

// RenderContext is Render with a trace span parented on ctx.
func (e *Environment) RenderContext(ctx context.Context, t *Template, values ...any) (*Result, error) {
	return e.mount(ctx, nil, t, values)
}

// Mount builds t with values and appends the result to container.
func (e *Environment) Mount(container *dom.Node, t *Template, values ...any) (*Result, error) {
	return e.mount(context.Background(), container, t, values)
}

func (e *Environment) mount(ctx context.Context, container *dom.Node, t *Template, values []any) (*Result, error) {
	_, span := e.tracer.Start(ctx, "loom.render",
		trace.WithAttributes(
			attribute.String("loom.template", t.Key()),
			attribute.Int("loom.slots", t.Slots()),
			attribute.Int("loom.values", len(values)),
		),
	)
	defer span.End()

	prog, err := e.Compile(t)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "compile failed")
		return nil, err
	}

	res, err := e.runtime.Execute(nil, prog, values, container)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "execute failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("loom.roots", len(res.Roots)))
	span.SetStatus(codes.Ok, "")
	return res, nil
}

// RenderHTML renders t to HTML. Bindings are disposed once serialized.
func (e *Environment) RenderHTML(t *Template, values ...any) (string, error) {
	res, err := e.Render(t, values...)
	if err != nil {
		return "", err
	}
	defer res.Dispose()
	return render.NewRenderer(e.renderer).RenderToString(res.Container)
}

// RenderDocument renders t as the body of a complete HTML document.
func (e *Environment) RenderDocument(w io.Writer, title string, t *Template, values ...any) error {
	res, err := e.Render(t, values...)
	if err != nil {
		return err
	}
	defer res.Dispose()
	return render.NewRenderer(e.renderer).RenderPage(w, render.PageData{
		Title: title,
		Body:  []*dom.Node{res.Container},
	})
}
