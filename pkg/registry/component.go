package registry

import (
	"fmt"

	"github.com/vango-dev/loom/pkg/dom"
)

// ChildrenKey is the prop name under which a component receives its
// lowered children.
const ChildrenKey = "children"

// Props holds the named values a component is constructed from.
type Props map[string]any

// Get returns the raw prop value for key.
func (p Props) Get(key string) any {
	return p[key]
}

// String returns the prop formatted as a string, or "" when absent.
// Accessors of type func() any are called.
func (p Props) String(key string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return ""
	}
	if fn, ok := v.(func() any); ok {
		v = fn()
	}
	switch s := v.(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}

// Children materializes the children accessor. The runtime always
// normalizes the children prop to a func() any before construction.
func (p Props) Children() any {
	switch c := p[ChildrenKey].(type) {
	case nil:
		return nil
	case func() any:
		return c()
	default:
		return c
	}
}

// Component is an instantiated component.
// Mount must synchronously populate container.
type Component interface {
	Mount(container *dom.Node)
}

// Unmounter is implemented by components that own resources outside the
// nodes they mounted. Unmount runs when the owning region is torn down.
type Unmounter interface {
	Unmount()
}

// Constructor builds a component from its props.
type Constructor func(Props) Component

// MountFunc adapts a plain function to Component.
type MountFunc func(container *dom.Node)

// Mount implements Component.
func (f MountFunc) Mount(container *dom.Node) {
	f(container)
}

// Func builds a Constructor from a function of props and container.
func Func(fn func(p Props, container *dom.Node)) Constructor {
	return func(p Props) Component {
		return MountFunc(func(container *dom.Node) {
			fn(p, container)
		})
	}
}
