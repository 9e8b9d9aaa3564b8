package template

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/vango-dev/loom/pkg/compiler"
	"github.com/vango-dev/loom/pkg/metrics"
)

// CompileFunc compiles a template's fragments.
type CompileFunc func(key string, fragments []string) (*compiler.Program, error)

// Stats reports cache activity.
type Stats struct {
	Hits   uint64
	Misses uint64
	Size   int
}

// Cache maps template identity to its compiled program. Entries are never
// evicted. Each template compiles at most once, even under concurrent
// Loads; a compile error is cached like a program.
type Cache struct {
	compile CompileFunc
	metrics *metrics.Metrics

	mu      sync.RWMutex
	entries map[*Template]*entry

	hits   atomic.Uint64
	misses atomic.Uint64
}

type entry struct {
	once sync.Once
	prog *compiler.Program
	err  error
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithMetrics records hits, misses and compile times.
func WithMetrics(m *metrics.Metrics) CacheOption {
	return func(c *Cache) { c.metrics = m }
}

// NewCache creates a Cache compiling with compile. A nil compile uses
// compiler.Compile with default options.
func NewCache(compile CompileFunc, opts ...CacheOption) *Cache {
	if compile == nil {
		compile = func(key string, fragments []string) (*compiler.Program, error) {
			return compiler.Compile(key, fragments)
		}
	}
	c := &Cache{
		compile: compile,
		entries: make(map[*Template]*entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load returns the program for t, compiling it on first use.
func (c *Cache) Load(t *Template) (*compiler.Program, error) {
	c.mu.RLock()
	e, ok := c.entries[t]
	c.mu.RUnlock()

	if !ok {
		c.mu.Lock()
		e, ok = c.entries[t]
		if !ok {
			e = &entry{}
			c.entries[t] = e
		}
		c.mu.Unlock()
	}

	compiled := false
	e.once.Do(func() {
		compiled = true
		start := time.Now()
		e.prog, e.err = c.compile(t.Key(), t.fragments)
		c.metrics.CompileDone(time.Since(start), e.err)
	})

	if compiled {
		c.misses.Add(1)
		c.metrics.CacheMiss()
	} else {
		c.hits.Add(1)
		c.metrics.CacheHit()
	}
	return e.prog, e.err
}

// Stats returns a snapshot of cache activity.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	size := len(c.entries)
	c.mu.RUnlock()
	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Size:   size,
	}
}
