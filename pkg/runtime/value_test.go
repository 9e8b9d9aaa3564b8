package runtime

import (
	"errors"
	"testing"

	"github.com/vango-dev/loom/pkg/dom"
	"github.com/vango-dev/loom/pkg/reactive"
)

func TestClassify(t *testing.T) {
	rt := New()
	var nilNode *dom.Node
	sig := reactive.NewSignal(1)

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "runtime.Empty"},
		{"empty string", "", "runtime.Empty"},
		{"nil node", nilNode, "runtime.Empty"},
		{"string", "x", "runtime.Static"},
		{"int", 3, "runtime.Static"},
		{"bool", false, "runtime.Static"},
		{"node", dom.NewText("t"), "runtime.NodeValue"},
		{"func any", func() any { return 1 }, "runtime.Reactive"},
		{"func string", func() string { return "s" }, "runtime.Reactive"},
		{"signal", sig, "runtime.Reactive"},
		{"slice", []any{"a", dom.NewText("b")}, "runtime.NodeList"},
		{"node slice", []*dom.Node{dom.NewText("a")}, "runtime.NodeList"},
		{"nil slice", []string(nil), "runtime.Empty"},
		{"directive", newDirective("d", new([]string)), "runtime.DirectiveValue"},
		{"value", Static{V: 1}, "runtime.Static"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := typeName(rt.Classify(tt.in))
			if got != tt.want {
				t.Errorf("Classify(%#v) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func typeName(v Value) string {
	switch v.(type) {
	case Empty:
		return "runtime.Empty"
	case Static:
		return "runtime.Static"
	case Reactive:
		return "runtime.Reactive"
	case NodeValue:
		return "runtime.NodeValue"
	case NodeList:
		return "runtime.NodeList"
	case DirectiveValue:
		return "runtime.DirectiveValue"
	}
	return "?"
}

func TestClassifyWithoutSignalsTreatsSignalAsStatic(t *testing.T) {
	if _, ok := Classify(reactive.NewSignal(1)).(Static); !ok {
		t.Error("package-level Classify has no signal system and should not unwrap signals")
	}
}

func TestReflectedFuncIsCalled(t *testing.T) {
	v := Classify(func() int { return 42 }).(Reactive)
	if v.Fn() != 42 {
		t.Errorf("Fn() = %v", v.Fn())
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"s", "s"},
		{7, "7"},
		{2.5, "2.5"},
		{true, "true"},
		{errors.New("bad"), "bad"},
		{[]any{"a", 1}, "a1"},
		{uint8(3), "3"},
	}
	for _, tt := range tests {
		if got := Stringify(tt.in); got != tt.want {
			t.Errorf("Stringify(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruthy(t *testing.T) {
	var nilPtr *int
	for in, want := range map[any]bool{
		true: true, false: false, "": false, "x": true, 0: false, 1: true, 0.0: false,
	} {
		if got := Truthy(in); got != want {
			t.Errorf("Truthy(%#v) = %v, want %v", in, got, want)
		}
	}
	if Truthy(nil) || Truthy(nilPtr) {
		t.Error("nil values are falsy")
	}
}
