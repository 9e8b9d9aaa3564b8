package runtime

import (
	loomerrors "github.com/vango-dev/loom/internal/errors"
	"github.com/vango-dev/loom/pkg/dom"
	"github.com/vango-dev/loom/pkg/registry"
)

// CreateComponent instantiates the component registered as name, mounts it
// into a scratch fragment and returns the nodes it produced, detached and
// ready to splice.
//
// A missing or panicking component yields a single placeholder node. The
// children prop is always a func() any when the component sees it. If the
// component implements registry.Unmounter, Unmount runs when scope is
// disposed.
func (rt *Runtime) CreateComponent(scope *Scope, name string, props registry.Props) []*dom.Node {
	ctor, ok := rt.registry.Lookup(name)
	if !ok {
		rt.metrics.MissingComponent(name)
		if rt.debug() {
			rt.logger.Warn("component is not registered",
				"code", loomerrors.CodeMissingComponent,
				"component", name,
				"registered", rt.registry.Names())
		}
		return []*dom.Node{rt.placeholder(name)}
	}

	if props == nil {
		props = registry.Props{}
	}
	props[registry.ChildrenKey] = childrenAccessor(props[registry.ChildrenKey])

	if scope == nil {
		scope = rt.current
	}
	cs := rt.detachedScope(scope)
	if scope != nil {
		scope.OnDispose(cs.Dispose)
	}

	if rt.debug() {
		rt.logger.Debug("mounting component", "component", name, "props", len(props))
	}

	frag := dom.NewFragment()
	var comp registry.Component
	err := guard(func() {
		rt.withScope(cs, func() {
			rt.untracked(func() {
				comp = ctor(props)
				if comp != nil {
					comp.Mount(frag)
				}
			})
		})
	})
	if err != nil {
		cs.Dispose()
		rt.logger.Error("component failed to mount",
			"code", loomerrors.CodeComponentFailed,
			"component", name,
			"error", err)
		return []*dom.Node{rt.placeholder(name)}
	}

	if u, ok := comp.(registry.Unmounter); ok {
		cs.OnDispose(u.Unmount)
	}
	rt.metrics.ComponentMounted()

	nodes := frag.Children()
	for _, n := range nodes {
		frag.RemoveChild(n)
	}
	return nodes
}

// childrenAccessor normalizes a children prop to a zero-argument accessor.
func childrenAccessor(v any) func() any {
	switch c := v.(type) {
	case func() any:
		return c
	case nil:
		return func() any { return nil }
	default:
		return func() any { return c }
	}
}
