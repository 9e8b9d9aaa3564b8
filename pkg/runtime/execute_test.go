package runtime

import (
	"strings"
	"testing"

	loomerrors "github.com/vango-dev/loom/internal/errors"
	"github.com/vango-dev/loom/pkg/dom"
	"github.com/vango-dev/loom/pkg/reactive"
	"github.com/vango-dev/loom/pkg/registry"
)

func TestHelloWorldSingleTextChild(t *testing.T) {
	rt, _ := newTestRuntime(t)
	res := execute(t, rt, compile(t, "<b>Hello ", "</b>"), "World")

	b := res.Single()
	if b == nil || b.Tag != "b" {
		t.Fatalf("Single() = %+v", b)
	}
	children := b.Children()
	if len(children) != 1 {
		t.Fatalf("b has %d children, want 1", len(children))
	}
	if children[0].Kind != dom.KindText || children[0].Data != "Hello World" {
		t.Errorf("child = %v %q", children[0].Kind, children[0].Data)
	}
}

func TestSlotsBindInOrder(t *testing.T) {
	rt, _ := newTestRuntime(t)
	res := execute(t, rt, compile(t, "<a>", "</a><b>", "</b>"), 1, 2)
	if got := html(t, res.Container); got != "<a>1</a><b>2</b>" {
		t.Errorf("got %s", got)
	}
	if len(res.Roots) != 2 || res.Single() != nil {
		t.Errorf("two roots expected, got %d", len(res.Roots))
	}
}

func TestSlotMismatchFails(t *testing.T) {
	rt, _ := newTestRuntime(t)
	prog := compile(t, "<a>", "</a>")
	_, err := rt.Execute(nil, prog, nil, nil)
	if !loomerrors.HasCode(err, loomerrors.CodeSlotMismatch) {
		t.Fatalf("error = %v, want %s", err, loomerrors.CodeSlotMismatch)
	}
	if !strings.Contains(err.Error(), "expects 1 values, got 0") {
		t.Errorf("error should carry the counts: %v", err)
	}
}

func TestZeroHoleTemplateIsStructurallyStable(t *testing.T) {
	rt, _ := newTestRuntime(t)
	prog := compile(t, `<ul class="list"><li>a</li><li>b</li></ul>`)
	first := html(t, execute(t, rt, prog).Container)
	second := html(t, execute(t, rt, prog).Container)
	if first != second || first != `<ul class="list"><li>a</li><li>b</li></ul>` {
		t.Errorf("renders differ:\n%s\n%s", first, second)
	}
}

func TestStaticAttributeSetOnce(t *testing.T) {
	rt, _ := newTestRuntime(t)
	data := map[string]string{"title": "first"}
	res := execute(t, rt, compile(t, `<a title=`, `>x</a>`), data["title"])

	data["title"] = "second"
	if v, _ := res.Single().Attr("title"); v != "first" {
		t.Errorf("title = %q, want first", v)
	}
}

func TestReactiveBooleanAttributeKeepsNode(t *testing.T) {
	rt, _ := newTestRuntime(t)
	disabled := reactive.NewSignal(true)
	res := execute(t, rt, compile(t, `<input ?disabled=`, `>`), disabled)

	input := res.Single()
	if v, ok := input.Attr("disabled"); !ok || v != "" {
		t.Fatalf("disabled should be present and empty, got %q %v", v, ok)
	}
	disabled.Set(false)
	if input.HasAttr("disabled") {
		t.Error("disabled should be removed")
	}
	disabled.Set(true)
	if !input.HasAttr("disabled") {
		t.Error("disabled should be present again")
	}
	if res.Single() != input || input.Parent != res.Container {
		t.Error("node must not be recreated")
	}
}

func TestAdjacentRegionsAreIndependent(t *testing.T) {
	rt, _ := newTestRuntime(t)
	a := reactive.NewSignal("a1")
	b := reactive.NewSignal("b1")
	res := execute(t, rt, compile(t, "<p>", "", "</p>"), a, b)

	p := res.Single()
	secondText := func() *dom.Node {
		for _, c := range p.Children() {
			if c.Kind == dom.KindText && strings.HasPrefix(c.Data, "b") {
				return c
			}
		}
		return nil
	}
	before := secondText()
	order := func() string {
		var kinds []string
		for _, c := range p.Children() {
			kinds = append(kinds, c.Kind.String())
		}
		return strings.Join(kinds, ",")
	}
	layout := order()

	a.Set("a2")
	if secondText() != before {
		t.Error("second region's node was recreated")
	}
	if order() != layout {
		t.Errorf("layout changed from %s to %s", layout, order())
	}
	if p.TextContent() != "a2b1" {
		t.Errorf("text = %q", p.TextContent())
	}
}

func TestInterpolatedAttribute(t *testing.T) {
	rt, _ := newTestRuntime(t)
	id := reactive.NewSignal(7)
	res := execute(t, rt, compile(t, `<a href="/u/`, `?tab=`, `">x</a>`), id, "posts")

	a := res.Single()
	if v, _ := a.Attr("href"); v != "/u/7?tab=posts" {
		t.Fatalf("href = %q", v)
	}
	id.Set(8)
	if v, _ := a.Attr("href"); v != "/u/8?tab=posts" {
		t.Errorf("href after update = %q", v)
	}
}

func TestDynamicAttributeBooleanConvention(t *testing.T) {
	rt, _ := newTestRuntime(t)
	v := reactive.NewSignal[any]("x")
	res := execute(t, rt, compile(t, `<div data-state=`, `></div>`), v)
	div := res.Single()

	v.Set(true)
	if got, ok := div.Attr("data-state"); !ok || got != "" {
		t.Errorf("true should set an empty attribute, got %q %v", got, ok)
	}
	v.Set(false)
	if div.HasAttr("data-state") {
		t.Error("false should remove the attribute")
	}
	v.Set(12)
	if got, _ := div.Attr("data-state"); got != "12" {
		t.Errorf("number should be stringified, got %q", got)
	}
	v.Set(nil)
	if div.HasAttr("data-state") {
		t.Error("nil should remove the attribute")
	}
}

func TestEmptyStringAttributeStaysPresent(t *testing.T) {
	rt, _ := newTestRuntime(t)

	static := execute(t, rt, compile(t, `<input value="`, `">`), "").Single()
	if got, ok := static.Attr("value"); !ok || got != "" {
		t.Errorf("static empty string: got %q present=%v, want present and empty", got, ok)
	}
	if got := html(t, static); got != "<input value>" {
		t.Errorf("html = %s", got)
	}

	v := reactive.NewSignal("x")
	live := execute(t, rt, compile(t, `<input value="`, `">`), v).Single()
	v.Set("")
	if got, ok := live.Attr("value"); !ok || got != "" {
		t.Errorf("reactive empty string: got %q present=%v, want present and empty", got, ok)
	}
}

func TestEmptyStringProperty(t *testing.T) {
	rt, _ := newTestRuntime(t)

	static := execute(t, rt, compile(t, `<input .value=`, `>`), "").Single()
	if v, ok := static.Prop("value"); !ok || v != "" {
		t.Errorf("static: prop = %#v present=%v, want \"\"", v, ok)
	}

	s := reactive.NewSignal("draft")
	live := execute(t, rt, compile(t, `<input .value=`, `>`), s).Single()
	s.Set("")
	if v, ok := live.Prop("value"); !ok || v != "" {
		t.Errorf("reactive: prop = %#v present=%v, want \"\"", v, ok)
	}
}

func TestPropertyBinding(t *testing.T) {
	rt, _ := newTestRuntime(t)
	value := reactive.NewSignal("draft")
	res := execute(t, rt, compile(t, `<input .value=`, `>`), value)
	input := res.Single()

	if v, _ := input.Prop("value"); v != "draft" {
		t.Fatalf("value = %v", v)
	}
	value.Set("sent")
	if v, _ := input.Prop("value"); v != "sent" {
		t.Errorf("value = %v", v)
	}
	if input.HasAttr("value") {
		t.Error("properties must not become attributes")
	}
}

func TestListenerAndRef(t *testing.T) {
	rt, _ := newTestRuntime(t)
	clicks := 0
	ref := reactive.NewRef[*dom.Node](nil)

	res := execute(t, rt, compile(t, `<button @click=`, ` ref=`, `>go</button>`),
		func() { clicks++ }, ref)

	btn := res.Single()
	if ref.Current() != btn {
		t.Error("ref should hold the button")
	}
	btn.Dispatch("click", nil)
	btn.Dispatch("click", nil)
	if clicks != 2 {
		t.Errorf("clicks = %d", clicks)
	}
}

func TestInvalidHandlerIsLoggedNotFatal(t *testing.T) {
	rt, logs := newTestRuntime(t)
	res := execute(t, rt, compile(t, `<button @click=`, `>go</button>`), 42)
	if res.Single().ListenerCount("click") != 0 {
		t.Error("no listener should be registered")
	}
	if !strings.Contains(logs.String(), "E204") {
		t.Errorf("expected E204 in log:\n%s", logs)
	}
}

func TestRefForms(t *testing.T) {
	rt, _ := newTestRuntime(t)
	n := dom.NewElement("div")

	var viaPtr *dom.Node
	if err := rt.SetRef(n, &viaPtr); err != nil || viaPtr != n {
		t.Errorf("**dom.Node ref: %v", err)
	}
	var viaFunc *dom.Node
	if err := rt.SetRef(n, func(x *dom.Node) { viaFunc = x }); err != nil || viaFunc != n {
		t.Errorf("callback ref: %v", err)
	}
	if err := rt.SetRef(n, "nope"); !loomerrors.HasCode(err, loomerrors.CodeInvalidRef) {
		t.Errorf("error = %v, want %s", err, loomerrors.CodeInvalidRef)
	}
}

func TestRootExpressionsAreAnchored(t *testing.T) {
	rt, _ := newTestRuntime(t)
	res := execute(t, rt, compile(t, "", "<hr>", ""), "a", "b")
	if got := html(t, res.Container); got != "a<!----><hr>b<!---->" {
		t.Errorf("got %s", got)
	}
	if len(res.Roots) != 3 {
		t.Errorf("roots = %d", len(res.Roots))
	}
	if _, ok := res.Roots[0].(*Region); !ok {
		t.Errorf("first root should be a region, got %T", res.Roots[0])
	}
}

func TestSingleRootExpression(t *testing.T) {
	rt, _ := newTestRuntime(t)
	res := execute(t, rt, compile(t, "", ""), dom.NewElement("hr"))
	if n := res.Single(); n == nil || n.Tag != "hr" {
		t.Errorf("Single() = %+v", n)
	}
	if _, ok := res.Value().(*Region); !ok {
		t.Errorf("Value() = %T", res.Value())
	}
}

func TestDisposeDetachesAndStops(t *testing.T) {
	rt, _ := newTestRuntime(t)
	s := reactive.NewSignal("x")
	container := dom.NewElement("main")
	res, err := rt.Execute(nil, compile(t, "<p>", "</p>", ""), []any{s, s}, container)
	if err != nil {
		t.Fatal(err)
	}
	if s.Subscribers() != 2 {
		t.Fatalf("subscribers = %d", s.Subscribers())
	}

	res.Dispose()
	if container.ChildCount() != 0 {
		t.Errorf("container should be empty, has %d children", container.ChildCount())
	}
	if s.Subscribers() != 0 {
		t.Errorf("subscribers after dispose = %d", s.Subscribers())
	}
}

func TestMissingComponentPlaceholder(t *testing.T) {
	rt, logs := newTestRuntime(t)
	var res *Result
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("missing component panicked: %v", r)
			}
		}()
		res = execute(t, rt, compile(t, `<div><Missing title="x"/></div>`))
	}()

	div := res.Single()
	if div.ChildCount() != 1 {
		t.Fatalf("expected exactly one placeholder, got %d nodes", div.ChildCount())
	}
	ph := div.FirstChild
	if v, _ := ph.Attr("data-loom-missing"); v != "Missing" {
		t.Errorf("placeholder = %s", html(t, ph))
	}
	if strings.Contains(logs.String(), "not registered") {
		t.Error("missing component warning is a debug diagnostic")
	}
}

func TestMissingComponentWarnsInDebug(t *testing.T) {
	rt, logs := newTestRuntime(t, WithDebug(true))
	execute(t, rt, compile(t, `<Missing/>`))
	if !strings.Contains(logs.String(), "component=Missing") {
		t.Errorf("expected a warning:\n%s", logs)
	}
}

type card struct {
	rt        *Runtime
	props     registry.Props
	unmounted *int
}

func (c *card) Mount(container *dom.Node) {
	box := dom.NewElement("section")
	box.SetAttr("title", c.props.String("title"))
	container.AppendChild(box)
	c.rt.Insert(nil, box, c.props.Children(), nil)
}

func (c *card) Unmount() { *c.unmounted++ }

func TestComponentLifecycle(t *testing.T) {
	rt, _ := newTestRuntime(t)
	unmounted := 0
	rt.Registry().Register("Card", func(p registry.Props) registry.Component {
		return &card{rt: rt, props: p, unmounted: &unmounted}
	})

	name := reactive.NewSignal("Ada")
	res, err := rt.Execute(nil, compile(t, `<div><Card title="Hi">Hello `, `<b>!</b></Card></div>`), []any{name}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if got := html(t, res.Container); got != `<div><section title="Hi">Hello Ada<!----><b>!</b></section></div>` {
		t.Fatalf("got %s", got)
	}
	name.Set("Grace")
	if got := res.Single().TextContent(); got != "Hello Grace!" {
		t.Errorf("after update: %q", got)
	}

	res.Dispose()
	if unmounted != 1 {
		t.Errorf("Unmount called %d times, want 1", unmounted)
	}
	if name.Subscribers() != 0 {
		t.Errorf("children bindings should be disposed with the component, %d left", name.Subscribers())
	}
}

func TestComponentChildrenNormalized(t *testing.T) {
	rt, _ := newTestRuntime(t)
	var seen any
	rt.Registry().Register("Probe", func(p registry.Props) registry.Component {
		seen = p[registry.ChildrenKey]
		return registry.MountFunc(func(*dom.Node) {})
	})

	execute(t, rt, compile(t, `<Probe/>`))
	fn, ok := seen.(func() any)
	if !ok {
		t.Fatalf("children = %T, want func() any", seen)
	}
	if fn() != nil {
		t.Errorf("empty children accessor returned %v", fn())
	}
}

func TestPanickingComponentIsReplaced(t *testing.T) {
	rt, logs := newTestRuntime(t)
	rt.Registry().Register("Bad", func(registry.Props) registry.Component {
		panic("bad component")
	})
	res := execute(t, rt, compile(t, `<div><Bad/><i>ok</i></div>`))
	if got := html(t, res.Container); !strings.Contains(got, `data-loom-missing="Bad"`) || !strings.Contains(got, "<i>ok</i>") {
		t.Errorf("got %s", got)
	}
	if !strings.Contains(logs.String(), "E206") {
		t.Errorf("expected E206 in log:\n%s", logs)
	}
}

func TestCustomPlaceholder(t *testing.T) {
	rt, _ := newTestRuntime(t, WithPlaceholder(func(name string) *dom.Node {
		return dom.NewComment("missing " + name)
	}))
	res := execute(t, rt, compile(t, `<X/>`))
	if n := res.Single(); n == nil || n.Kind != dom.KindComment {
		t.Errorf("Single() = %+v", n)
	}
}

func TestRootComponentNodes(t *testing.T) {
	rt, _ := newTestRuntime(t)
	rt.Registry().Register("Pair", registry.Func(func(_ registry.Props, c *dom.Node) {
		c.AppendChild(dom.NewElement("dt"))
		c.AppendChild(dom.NewElement("dd"))
	}))
	res := execute(t, rt, compile(t, `<Pair/>`))
	if len(res.Roots) != 2 || html(t, res.Container) != "<dt></dt><dd></dd>" {
		t.Errorf("roots = %d, html = %s", len(res.Roots), html(t, res.Container))
	}
}
