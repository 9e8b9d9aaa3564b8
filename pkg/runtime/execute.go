package runtime

import (
	"time"

	loomerrors "github.com/vango-dev/loom/internal/errors"
	"github.com/vango-dev/loom/pkg/compiler"
	"github.com/vango-dev/loom/pkg/dom"
	"github.com/vango-dev/loom/pkg/registry"
)

// Result is an executed program.
type Result struct {
	// Container holds the top-level nodes.
	Container *dom.Node

	// Roots holds one entry per top-level result: a *dom.Node, or a *Region
	// for a top-level value. A top-level component contributes one
	// *dom.Node per node it produced.
	Roots []any

	scope   *Scope
	anchors []*dom.Node
}

// Nodes returns the container's children.
func (r *Result) Nodes() []*dom.Node {
	return r.Container.Children()
}

// Single returns the only top-level node, or nil when the result is empty
// or holds several nodes.
func (r *Result) Single() *dom.Node {
	if len(r.Roots) != 1 {
		return nil
	}
	switch root := r.Roots[0].(type) {
	case *dom.Node:
		return root
	case *Region:
		if nodes := root.Nodes(); len(nodes) == 1 {
			return nodes[0]
		}
	}
	return nil
}

// Value returns the single root, or all roots when there are several.
func (r *Result) Value() any {
	if len(r.Roots) == 1 {
		return r.Roots[0]
	}
	return r.Roots
}

// Scope returns the scope the result's bindings are recorded in.
func (r *Result) Scope() *Scope {
	return r.scope
}

// Dispose tears down every binding and region and detaches the top-level
// nodes from the container.
func (r *Result) Dispose() {
	r.scope.Dispose()
	for _, root := range r.Roots {
		if n, ok := root.(*dom.Node); ok {
			n.Remove()
		}
	}
	for _, a := range r.anchors {
		a.Remove()
	}
}

// Execute runs prog against values, appending the top-level nodes to
// container, or to a new fragment when container is nil. Bindings are
// recorded in scope; a nil scope creates one with NewScope.
func (rt *Runtime) Execute(scope *Scope, prog *compiler.Program, values []any, container *dom.Node) (*Result, error) {
	if len(values) != prog.Slots {
		return nil, loomerrors.New(loomerrors.CodeSlotMismatch).
			WithDetailf("template %s expects %d values, got %d", prog.Key, prog.Slots, len(values)).
			WithSuggestion("every ${...} in the template needs exactly one value")
	}
	if scope == nil {
		scope = rt.NewScope(nil)
	}
	if container == nil {
		container = dom.NewFragment()
	}

	start := time.Now()
	defer func() { rt.metrics.RenderDone(time.Since(start)) }()

	x := &executor{rt: rt, scope: scope, key: prog.Key, values: values}
	roots := x.run(prog.Root)

	res := &Result{Container: container, scope: scope}
	dynamic := make([]bool, len(roots))
	for i, root := range roots {
		dynamic[i] = root.expr
	}
	for i, root := range roots {
		if !root.expr {
			for _, n := range root.nodes {
				container.AppendChild(n)
				res.Roots = append(res.Roots, n)
			}
			continue
		}
		var anchor *dom.Node
		if compiler.NeedsAnchor(dynamic, i) {
			anchor = dom.NewComment("")
			container.AppendChild(anchor)
			res.anchors = append(res.anchors, anchor)
		}
		res.Roots = append(res.Roots, rt.Insert(scope, container, root.value, anchor))
	}
	return res, nil
}

type executor struct {
	rt     *Runtime
	scope  *Scope
	key    string
	values []any
}

// rootValue is a block root: nodes, or a value when expr is set.
type rootValue struct {
	nodes []*dom.Node
	value any
	expr  bool
}

func (x *executor) eval(e compiler.Expr) any {
	switch e := e.(type) {
	case *compiler.Slot:
		return x.values[e.Index]
	case *compiler.Literal:
		return e.Value
	case *compiler.Concat:
		parts := make([]any, len(e.Parts))
		for i, p := range e.Parts {
			parts[i] = x.eval(p)
		}
		return x.rt.concat(parts)
	}
	return nil
}

func (x *executor) run(b *compiler.Block) []rootValue {
	regs := make([]*dom.Node, b.Regs)
	for _, op := range b.Ops {
		x.step(regs, op)
	}

	roots := make([]rootValue, len(b.Roots))
	for i, r := range b.Roots {
		if r.IsExpr() {
			roots[i] = rootValue{value: x.eval(r.Expr), expr: true}
			continue
		}
		n := regs[r.Reg]
		if n.Kind == dom.KindFragment {
			roots[i] = rootValue{nodes: n.Children()}
		} else {
			roots[i] = rootValue{nodes: []*dom.Node{n}}
		}
	}
	return roots
}

func (x *executor) step(regs []*dom.Node, op compiler.Op) {
	rt := x.rt
	switch op := op.(type) {
	case *compiler.CreateElement:
		regs[op.Dst] = dom.NewElement(op.Tag)
	case *compiler.CreateText:
		regs[op.Dst] = dom.NewText(op.Text)
	case *compiler.AppendText:
		regs[op.Parent].AppendChild(dom.NewText(op.Text))
	case *compiler.AppendChild:
		regs[op.Parent].AppendChild(regs[op.Child])
	case *compiler.CreateAnchor:
		a := dom.NewComment("")
		regs[op.Parent].AppendChild(a)
		regs[op.Dst] = a
	case *compiler.Insert:
		var anchor *dom.Node
		if op.Anchor != compiler.NoReg {
			anchor = regs[op.Anchor]
		}
		rt.Insert(x.scope, regs[op.Parent], x.eval(op.Value), anchor)
	case *compiler.SetStaticAttr:
		regs[op.Node].SetAttr(op.Name, op.Value)
	case *compiler.SetAttr:
		rt.SetAttribute(x.scope, regs[op.Node], op.Name, x.eval(op.Value))
	case *compiler.SetBoolAttr:
		rt.SetBoolAttribute(x.scope, regs[op.Node], op.Name, x.eval(op.Value))
	case *compiler.SetProp:
		rt.SetProperty(x.scope, regs[op.Node], op.Name, x.eval(op.Value))
	case *compiler.AddListener:
		if err := rt.AddEventListener(regs[op.Node], op.Event, x.eval(op.Handler)); err != nil {
			rt.logger.Warn("listener not registered", "template", x.key, "error", err)
		}
	case *compiler.SetRef:
		if err := rt.SetRef(regs[op.Node], x.eval(op.Ref)); err != nil {
			rt.logger.Warn("ref not set", "template", x.key, "error", err)
		}
	case *compiler.CreateComponent:
		props := make(registry.Props, len(op.Props)+1)
		for _, p := range op.Props {
			props[p.Name] = x.eval(p.Value)
		}
		if op.Children != nil {
			children := op.Children
			props[registry.ChildrenKey] = func() any { return x.children(children) }
		}
		frag := dom.NewFragment()
		for _, n := range rt.CreateComponent(x.scope, op.Name, props) {
			frag.AppendChild(n)
		}
		regs[op.Dst] = frag
	}
}

// children materializes a component's children block. Bindings go to the
// scope of the mount in progress when there is one.
func (x *executor) children(b *compiler.Block) any {
	scope := x.rt.current
	if scope == nil {
		scope = x.scope
	}
	sub := &executor{rt: x.rt, scope: scope, key: x.key, values: x.values}
	roots := sub.run(b)

	out := make([]any, 0, len(roots))
	for _, r := range roots {
		if r.expr {
			out = append(out, r.value)
			continue
		}
		for _, n := range r.nodes {
			out = append(out, n)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

// concat joins interpolated parts. Scalars join into one string; a reactive
// part makes the result reactive; a node part turns the result into a list.
func (rt *Runtime) concat(parts []any) any {
	values := make([]Value, len(parts))
	live := false
	for i, p := range parts {
		values[i] = rt.Classify(p)
		switch values[i].(type) {
		case Reactive:
			live = true
		case Empty, Static:
		default:
			return parts
		}
	}

	join := func(resolved []any) any {
		var s string
		for _, v := range resolved {
			if !isScalar(rt.Classify(v)) {
				return resolved
			}
			s += Stringify(v)
		}
		return s
	}

	if !live {
		resolved := make([]any, len(values))
		for i, v := range values {
			resolved[i] = resolve(v)
		}
		return join(resolved)
	}
	return func() any {
		resolved := make([]any, len(values))
		for i, v := range values {
			resolved[i] = resolve(v)
		}
		return join(resolved)
	}
}
