package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures the collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "loom").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are added to every metric.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry receives the collectors. Default: a new private registry.
	Registry prometheus.Registerer
}

// Option configures Metrics.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

// Metrics holds the collectors.
type Metrics struct {
	gatherer prometheus.Gatherer

	compilesTotal     *prometheus.CounterVec
	compileDuration   prometheus.Histogram
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	renderDuration    prometheus.Histogram
	regionRecomputes  prometheus.Counter
	regionFailures    prometheus.Counter
	cleanupFailures   prometheus.Counter
	componentsMounted prometheus.Counter
	missingComponents *prometheus.CounterVec
}

// New creates and registers the collectors.
func New(opts ...Option) *Metrics {
	config := Config{
		Namespace: "loom",
		Buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(&config)
	}

	m := &Metrics{}
	if config.Registry == nil {
		reg := prometheus.NewRegistry()
		config.Registry = reg
		m.gatherer = reg
	} else if g, ok := config.Registry.(prometheus.Gatherer); ok {
		m.gatherer = g
	}

	factory := promauto.With(config.Registry)
	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		})
	}
	histogram := func(name, help string) prometheus.Histogram {
		return factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		})
	}

	m.compilesTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace:   config.Namespace,
		Subsystem:   config.Subsystem,
		Name:        "compiles_total",
		Help:        "Total number of template compilations",
		ConstLabels: config.ConstLabels,
	}, []string{"result"})
	m.compileDuration = histogram("compile_duration_seconds", "Template compilation duration in seconds")
	m.cacheHits = counter("cache_hits_total", "Template cache lookups served from the cache")
	m.cacheMisses = counter("cache_misses_total", "Template cache lookups that compiled")
	m.renderDuration = histogram("render_duration_seconds", "Program execution duration in seconds")
	m.regionRecomputes = counter("region_recomputes_total", "Dynamic region re-evaluations")
	m.regionFailures = counter("region_failures_total", "Dynamic region re-evaluations that panicked")
	m.cleanupFailures = counter("cleanup_failures_total", "Cleanup callbacks that panicked")
	m.componentsMounted = counter("components_mounted_total", "Components instantiated and mounted")
	m.missingComponents = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace:   config.Namespace,
		Subsystem:   config.Subsystem,
		Name:        "missing_components_total",
		Help:        "Component lookups that missed the registry",
		ConstLabels: config.ConstLabels,
	}, []string{"component"})
	return m
}

// Gatherer returns the registry the collectors were registered on, or nil
// when the caller supplied a Registerer that cannot gather.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m == nil {
		return nil
	}
	return m.gatherer
}

// CompileDone records one compilation.
func (m *Metrics) CompileDone(d time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.compilesTotal.WithLabelValues(result).Inc()
	m.compileDuration.Observe(d.Seconds())
}

// CacheHit records a cache lookup served without compiling.
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

// CacheMiss records a cache lookup that compiled.
func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

// RenderDone records one program execution.
func (m *Metrics) RenderDone(d time.Duration) {
	if m == nil {
		return
	}
	m.renderDuration.Observe(d.Seconds())
}

// RegionRecomputed records a region evaluation after the first.
func (m *Metrics) RegionRecomputed() {
	if m == nil {
		return
	}
	m.regionRecomputes.Inc()
}

// RegionFailed records a recovered recomputation panic.
func (m *Metrics) RegionFailed() {
	if m == nil {
		return
	}
	m.regionFailures.Inc()
}

// CleanupFailed records a recovered cleanup panic.
func (m *Metrics) CleanupFailed() {
	if m == nil {
		return
	}
	m.cleanupFailures.Inc()
}

// ComponentMounted records a successful component instantiation.
func (m *Metrics) ComponentMounted() {
	if m == nil {
		return
	}
	m.componentsMounted.Inc()
}

// MissingComponent records a registry miss for name.
func (m *Metrics) MissingComponent(name string) {
	if m == nil {
		return
	}
	m.missingComponents.WithLabelValues(name).Inc()
}
