package loomtest

import (
	"strings"
	"testing"

	"github.com/vango-dev/loom"
	"github.com/vango-dev/loom/pkg/dom"
	"github.com/vango-dev/loom/pkg/render"
)

// Render renders tpl on env, failing the test on error. The result is
// disposed at cleanup.
func Render(t testing.TB, env *loom.Environment, tpl *loom.Template, values ...any) *loom.Result {
	t.Helper()
	res, err := env.Render(tpl, values...)
	if err != nil {
		t.Fatalf("render %s: %v", tpl.Key(), err)
	}
	t.Cleanup(res.Dispose)
	return res
}

// RenderToString serializes nodes without anchor comments. Errors yield "".
func RenderToString(nodes ...*dom.Node) string {
	r := render.NewRenderer(render.RendererConfig{OmitAnchors: true})
	html, err := r.RenderToString(nodes...)
	if err != nil {
		return ""
	}
	return html
}

// Find returns the first element named tag in document order, or nil.
func Find(root *dom.Node, tag string) *dom.Node {
	if root == nil {
		return nil
	}
	if root.Kind == dom.KindElement && root.Tag == tag {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if n := Find(c, tag); n != nil {
			return n
		}
	}
	return nil
}

// ExpectHTML asserts that node serializes to exactly want.
func ExpectHTML(t testing.TB, node *dom.Node, want string) {
	t.Helper()
	if got := RenderToString(node); got != want {
		t.Errorf("rendered output mismatch\n got: %s\nwant: %s", truncate(got, 500), want)
	}
}

// ExpectContains asserts that rendered output contains expected.
func ExpectContains(t testing.TB, node *dom.Node, expected string) {
	t.Helper()
	html := RenderToString(node)
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that rendered output does not contain unexpected.
func ExpectNotContains(t testing.TB, node *dom.Node, unexpected string) {
	t.Helper()
	html := RenderToString(node)
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectElement asserts that node or a descendant is a tag element.
func ExpectElement(t testing.TB, node *dom.Node, tag string) {
	t.Helper()
	if Find(node, tag) == nil {
		t.Errorf("expected a <%s> element, got:\n%s", tag, truncate(RenderToString(node), 500))
	}
}

// ExpectAttribute asserts that rendered output carries attr="value".
func ExpectAttribute(t testing.TB, node *dom.Node, attr, value string) {
	t.Helper()
	html := RenderToString(node)
	needle := attr + `="` + value + `"`
	if !strings.Contains(html, needle) {
		t.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(html, 500))
	}
}

// Click dispatches a click on the first element named tag under root.
func Click(t testing.TB, root *dom.Node, tag string) {
	t.Helper()
	n := Find(root, tag)
	if n == nil {
		t.Fatalf("no <%s> to click in:\n%s", tag, truncate(RenderToString(root), 500))
	}
	n.Dispatch("click", nil)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
