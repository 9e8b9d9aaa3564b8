package registry

import (
	"sort"
	"sync"
)

// Registry maps tag names to component constructors.
// It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	components map[string]Constructor
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{components: make(map[string]Constructor)}
}

// Register binds name to ctor, replacing any earlier binding.
// A nil constructor removes the binding.
func (r *Registry) Register(name string, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ctor == nil {
		delete(r.components, name)
		return
	}
	r.components[name] = ctor
}

// RegisterAll registers every entry of m.
func (r *Registry) RegisterAll(m map[string]Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, ctor := range m {
		if ctor == nil {
			delete(r.components, name)
			continue
		}
		r.components[name] = ctor
	}
}

// Lookup returns the constructor registered under name.
func (r *Registry) Lookup(name string) (Constructor, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	ctor, ok := r.components[name]
	r.mu.RUnlock()
	return ctor, ok
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Len returns the number of registered components.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.components)
}
