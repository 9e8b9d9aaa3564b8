package runtime

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/vango-dev/loom/pkg/dom"
)

// Value is a classified call-time value.
type Value interface {
	value()
}

// Empty renders nothing.
type Empty struct{}

// Static is a scalar rendered as text.
type Static struct {
	V any
}

// Reactive is recomputed whenever a reactive input read by Fn changes.
type Reactive struct {
	Fn func() any
}

// NodeValue is a DOM node inserted as is. A fragment contributes its
// children.
type NodeValue struct {
	Node *dom.Node
}

// NodeList is an ordered list of values inserted in turn.
type NodeList struct {
	Items []Value
}

// DirectiveValue wraps a value with its own mount lifecycle.
type DirectiveValue struct {
	Directive Directive
}

func (Empty) value()          {}
func (Static) value()         {}
func (Reactive) value()       {}
func (NodeValue) value()      {}
func (NodeList) value()       {}
func (DirectiveValue) value() {}

// Directive is an opaque renderable. Its node is inserted, then Mount runs;
// Unmount runs when the owning region is torn down.
type Directive interface {
	Node() *dom.Node
	Mount()
	Unmount()
}

// NodeSource is implemented by values that render to a node list, such as
// an executed Result.
type NodeSource interface {
	Nodes() []*dom.Node
}

// Classify converts v without consulting a signal system. Raw signals are
// only recognized by Runtime.Classify.
func Classify(v any) Value {
	return classify(v, nil)
}

// Classify converts v into a Value.
func (rt *Runtime) Classify(v any) Value {
	return classify(v, rt.signals)
}

func classify(v any, signals Signals) Value {
	switch x := v.(type) {
	case nil:
		return Empty{}
	case Value:
		return x
	case string:
		if x == "" {
			return Empty{}
		}
		return Static{V: x}
	case *dom.Node:
		if x == nil {
			return Empty{}
		}
		return NodeValue{Node: x}
	case Directive:
		return DirectiveValue{Directive: x}
	case func() any:
		if x == nil {
			return Empty{}
		}
		return Reactive{Fn: x}
	case NodeSource:
		nodes := x.Nodes()
		items := make([]Value, len(nodes))
		for i, n := range nodes {
			items[i] = NodeValue{Node: n}
		}
		return NodeList{Items: items}
	case []byte:
		return Static{V: string(x)}
	}

	if signals != nil && signals.IsRawSignal(v) {
		return Reactive{Fn: func() any { return signals.Get(v) }}
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Func:
		if rv.IsNil() {
			return Empty{}
		}
		t := rv.Type()
		if t.NumIn() == 0 && t.NumOut() == 1 {
			return Reactive{Fn: func() any { return rv.Call(nil)[0].Interface() }}
		}
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Empty{}
		}
		items := make([]Value, rv.Len())
		for i := range items {
			items[i] = classify(rv.Index(i).Interface(), signals)
		}
		return NodeList{Items: items}
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Chan:
		if rv.IsNil() {
			return Empty{}
		}
	}
	return Static{V: v}
}

// isScalar reports whether v renders as plain text.
func isScalar(v Value) bool {
	switch v.(type) {
	case Empty, Static:
		return true
	}
	return false
}

// Stringify converts a scalar to its text form.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case fmt.Stringer:
		return x.String()
	case error:
		return x.Error()
	case Static:
		return Stringify(x.V)
	case Empty:
		return ""
	case *dom.Node:
		if x == nil {
			return ""
		}
		return x.TextContent()
	case []any:
		var s string
		for _, p := range x {
			s += Stringify(p)
		}
		return s
	}
	return fmt.Sprint(v)
}

// Truthy reports whether v counts as set for a boolean attribute.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case Empty:
		return false
	case Static:
		return Truthy(x.V)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	}
	return true
}
