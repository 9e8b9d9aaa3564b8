package runtime

import (
	loomerrors "github.com/vango-dev/loom/internal/errors"
	"github.com/vango-dev/loom/pkg/dom"
)

// bind applies value once, or on every change when it is reactive.
// Classification only detects reactivity: a static value reaches apply as
// the reactive path would deliver it, so "" stays a value and is not
// treated as Empty.
func (rt *Runtime) bind(scope *Scope, node *dom.Node, name string, value any, apply func(any)) {
	v := rt.Classify(value)
	re, ok := v.(Reactive)
	if !ok {
		if s, isString := value.(string); isString {
			apply(s)
			return
		}
		apply(resolve(v))
		return
	}

	stop := rt.signals.CreateEffect(func() {
		var result any
		if err := guard(func() { result = re.Fn() }); err != nil {
			rt.metrics.RegionFailed()
			rt.logger.Error("binding recomputation failed",
				"code", loomerrors.CodeRegionFailed,
				"tag", node.Tag,
				"name", name,
				"error", err)
			return
		}
		rt.untracked(func() { apply(result) })
	})
	if scope == nil {
		scope = rt.current
	}
	if scope != nil {
		scope.OnDispose(stop)
	}
}

// resolve unwraps a non-reactive Value.
func resolve(v Value) any {
	switch v := v.(type) {
	case Static:
		return v.V
	case NodeValue:
		return v.Node
	case NodeList:
		out := make([]any, len(v.Items))
		for i, item := range v.Items {
			out[i] = resolve(item)
		}
		return out
	case DirectiveValue:
		return v.Directive
	case Reactive:
		return v.Fn()
	}
	return nil
}

// SetAttribute binds an attribute. true sets it present and empty, false
// and nil remove it, anything else is stringified. A reactive value is
// re-applied on every change.
func (rt *Runtime) SetAttribute(scope *Scope, node *dom.Node, name string, value any) {
	rt.bind(scope, node, name, value, func(v any) {
		switch x := v.(type) {
		case nil:
			node.RemoveAttr(name)
		case bool:
			if x {
				node.SetAttr(name, "")
			} else {
				node.RemoveAttr(name)
			}
		default:
			node.SetAttr(name, Stringify(x))
		}
	})
}

// SetBoolAttribute binds the presence of an attribute to the truthiness of
// value.
func (rt *Runtime) SetBoolAttribute(scope *Scope, node *dom.Node, name string, value any) {
	rt.bind(scope, node, name, value, func(v any) {
		if Truthy(v) {
			node.SetAttr(name, "")
		} else {
			node.RemoveAttr(name)
		}
	})
}

// SetProperty binds an in-memory node property.
func (rt *Runtime) SetProperty(scope *Scope, node *dom.Node, name string, value any) {
	rt.bind(scope, node, name, value, func(v any) {
		node.SetProp(name, v)
	})
}

// AddEventListener registers handler for event on node. The handler is
// fixed for the node's lifetime. Accepted handlers are dom.Handler,
// func(*dom.Event) and func(); nil registers nothing.
func (rt *Runtime) AddEventListener(node *dom.Node, event string, handler any) error {
	switch h := handler.(type) {
	case nil:
		return nil
	case dom.Handler:
		node.AddEventListener(event, h)
	case func(*dom.Event):
		node.AddEventListener(event, h)
	case func():
		node.AddEventListener(event, func(*dom.Event) { h() })
	default:
		return loomerrors.New(loomerrors.CodeInvalidHandler).
			WithDetailf("@%s on <%s> received %T", event, node.Tag, handler).
			WithSuggestion("pass a func(*dom.Event) or a func()")
	}
	return nil
}

// NodeSetter is implemented by refs that hold a node, such as
// *reactive.Ref[*dom.Node].
type NodeSetter interface {
	Set(*dom.Node)
}

// SetRef hands node to ref: a callback is invoked, a NodeSetter or a
// **dom.Node is populated. No cleanup is recorded.
func (rt *Runtime) SetRef(node *dom.Node, ref any) error {
	switch r := ref.(type) {
	case nil:
	case func(*dom.Node):
		r(node)
	case NodeSetter:
		r.Set(node)
	case **dom.Node:
		*r = node
	default:
		return loomerrors.New(loomerrors.CodeInvalidRef).
			WithDetailf("ref on <%s> received %T", node.Tag, ref).
			WithSuggestion("pass a func(*dom.Node), a *reactive.Ref[*dom.Node] or a **dom.Node")
	}
	return nil
}
