package runtime

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/vango-dev/loom/pkg/compiler"
	"github.com/vango-dev/loom/pkg/dom"
	"github.com/vango-dev/loom/pkg/render"
)

func newTestRuntime(t *testing.T, opts ...Option) (*Runtime, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(append([]Option{WithLogger(logger)}, opts...)...), &buf
}

func compile(t *testing.T, fragments ...string) *compiler.Program {
	t.Helper()
	p, err := compiler.Compile(t.Name(), fragments)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return p
}

func execute(t *testing.T, rt *Runtime, prog *compiler.Program, values ...any) *Result {
	t.Helper()
	res, err := rt.Execute(nil, prog, values, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	t.Cleanup(res.Dispose)
	return res
}

func html(t *testing.T, nodes ...*dom.Node) string {
	t.Helper()
	s, err := render.NewRenderer(render.RendererConfig{}).RenderToString(nodes...)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return s
}

type testDirective struct {
	name    string
	node    *dom.Node
	log     *[]string
	explode bool
	// failMount makes Mount panic after logging.
	failMount bool
}

func (d *testDirective) Node() *dom.Node { return d.node }
func (d *testDirective) Mount() {
	*d.log = append(*d.log, "mount "+d.name)
	if d.failMount {
		panic("mount " + d.name)
	}
}
func (d *testDirective) Unmount() {
	*d.log = append(*d.log, "unmount "+d.name)
	if d.explode {
		panic("unmount " + d.name)
	}
}

func newDirective(name string, log *[]string) *testDirective {
	n := dom.NewElement("i")
	n.AppendChild(dom.NewText(name))
	return &testDirective{name: name, node: n, log: log}
}
