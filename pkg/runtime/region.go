package runtime

import (
	loomerrors "github.com/vango-dev/loom/internal/errors"
	"github.com/vango-dev/loom/pkg/dom"
)

// Region is the content produced by one insertion point: the nodes and
// cleanups of its latest evaluation.
type Region struct {
	rt     *Runtime
	parent *dom.Node
	anchor *dom.Node

	entries []entry
	// scope owns nested regions and renders of the latest evaluation.
	scope *Scope

	stop     func()
	evals    int
	disposed bool
}

type entry struct {
	node    *dom.Node
	cleanup func()
}

// Insert inserts value into parent before anchor, or at the end when anchor
// is nil, and returns the region holding the result. A reactive value is
// re-evaluated on every change: the previous content is torn down and the
// new content inserted at the same position. Strings that are empty and nil
// values insert nothing.
//
// The region is disposed with scope. A nil scope falls back to the current
// scope; without one the caller must dispose the region.
func (rt *Runtime) Insert(scope *Scope, parent *dom.Node, value any, anchor *dom.Node) *Region {
	if scope == nil {
		scope = rt.current
	}
	r := &Region{rt: rt, parent: parent, anchor: anchor}
	if scope != nil {
		scope.OnDispose(r.Dispose)
	}

	v := rt.Classify(value)
	if re, ok := v.(Reactive); ok {
		r.stop = rt.signals.CreateEffect(func() { r.evaluate(re.Fn) })
		return r
	}

	r.evals = 1
	r.scope = rt.detachedScope(scope)
	err := guard(func() {
		rt.withScope(r.scope, func() {
			r.materialize(v, r.insertionRef())
		})
	})
	if err != nil {
		rt.regionFailed("dynamic region insertion failed", err)
	}
	return r
}

// evaluate runs one recomputation. fn runs tracked; teardown and insertion
// run untracked so that only fn's reads subscribe the region.
func (r *Region) evaluate(fn func() any) {
	if r.disposed {
		return
	}
	r.evals++
	if r.evals > 1 {
		r.rt.metrics.RegionRecomputed()
	}

	next := r.rt.detachedScope(r.scope)
	var result any
	err := guard(func() {
		r.rt.withScope(next, func() { result = fn() })
	})
	if err != nil {
		next.Dispose()
		r.rt.regionFailed("dynamic region recomputation failed", err)
		return
	}

	// The old content is gone once teardown starts; a failure past this
	// point leaves whatever was materialized before it.
	err = guard(func() {
		r.rt.untracked(func() {
			ref := r.insertionRef()
			r.teardown()
			r.scope = next
			r.rt.withScope(next, func() {
				r.materialize(r.rt.Classify(result), ref)
			})
		})
	})
	if err != nil {
		r.rt.regionFailed("dynamic region rebuild failed", err)
	}
}

// regionFailed logs and counts a contained region failure.
func (rt *Runtime) regionFailed(msg string, err error) {
	rt.metrics.RegionFailed()
	attrs := []any{"code", loomerrors.CodeRegionFailed, "error", err}
	if pe, ok := err.(*panicError); ok {
		attrs = append(attrs, "stack", string(pe.stack))
	}
	rt.logger.Error(msg, attrs...)
}

// host returns the node the region currently lives in. Anchors and content
// move with their parent when a fragment is spliced elsewhere.
func (r *Region) host() *dom.Node {
	if r.anchor != nil && r.anchor.Parent != nil {
		r.parent = r.anchor.Parent
		return r.parent
	}
	for _, e := range r.entries {
		if e.node.Parent != nil {
			r.parent = e.node.Parent
			break
		}
	}
	return r.parent
}

// insertionRef returns the node new content goes before: the anchor, or the
// sibling after the current content.
func (r *Region) insertionRef() *dom.Node {
	if r.anchor != nil {
		return r.anchor
	}
	host := r.host()
	for i := len(r.entries) - 1; i >= 0; i-- {
		if n := r.entries[i].node; n.Parent == host {
			next := n.NextSibling
			for next != nil && r.owns(next) {
				next = next.NextSibling
			}
			return next
		}
	}
	return nil
}

func (r *Region) owns(n *dom.Node) bool {
	for _, e := range r.entries {
		if e.node == n {
			return true
		}
	}
	return false
}

// teardown runs cleanups last first, disposes nested work and detaches the
// region's nodes.
func (r *Region) teardown() {
	entries := r.entries
	r.entries = nil

	for i := len(entries) - 1; i >= 0; i-- {
		if c := entries[i].cleanup; c != nil {
			r.rt.safeCleanup(c)
		}
	}
	if r.scope != nil {
		r.scope.Dispose()
		r.scope = nil
	}
	for _, e := range entries {
		e.node.Remove()
	}
}

func (r *Region) add(n *dom.Node, ref *dom.Node, cleanup func()) {
	host := r.host()
	if ref != nil && ref.Parent != host {
		ref = nil
	}
	host.InsertBefore(n, ref)
	r.entries = append(r.entries, entry{node: n, cleanup: cleanup})
}

// materialize inserts v before ref, recording every node it inserts.
func (r *Region) materialize(v Value, ref *dom.Node) {
	switch v := v.(type) {
	case Empty:
	case Static:
		s := Stringify(v.V)
		if s == "" {
			return
		}
		r.add(dom.NewText(s), ref, nil)
	case NodeValue:
		if v.Node.Kind == dom.KindFragment {
			for _, c := range v.Node.Children() {
				r.add(c, ref, nil)
			}
			return
		}
		r.add(v.Node, ref, nil)
	case NodeList:
		for _, item := range v.Items {
			r.materialize(item, ref)
		}
	case DirectiveValue:
		d := v.Directive
		n := d.Node()
		if n != nil {
			r.add(n, ref, nil)
		}
		if err := guard(func() { r.rt.untracked(d.Mount) }); err != nil {
			// Unmount is only owed for a completed Mount.
			if n != nil {
				r.entries = r.entries[:len(r.entries)-1]
				n.Remove()
			}
			r.rt.regionFailed("directive mount failed", err)
			return
		}
		if n != nil {
			r.entries[len(r.entries)-1].cleanup = d.Unmount
		} else {
			r.scope.OnDispose(d.Unmount)
		}
	case Reactive:
		// A nested reactive value gets its own region behind an anchor.
		anchor := dom.NewComment("")
		r.add(anchor, ref, nil)
		r.rt.Insert(r.scope, r.host(), v, anchor)
	}
}

// Nodes returns the nodes the region currently holds, in order.
func (r *Region) Nodes() []*dom.Node {
	out := make([]*dom.Node, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.node
	}
	return out
}

// Evaluations returns how many times the region's value was evaluated.
func (r *Region) Evaluations() int {
	return r.evals
}

// Dispose stops the region's subscription and tears down its content.
func (r *Region) Dispose() {
	if r.disposed {
		return
	}
	r.disposed = true
	if r.stop != nil {
		r.stop()
	}
	r.teardown()
}
