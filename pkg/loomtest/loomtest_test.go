package loomtest

import (
	"io"
	"log/slog"
	"testing"

	"github.com/vango-dev/loom"
	"github.com/vango-dev/loom/pkg/dom"
	"github.com/vango-dev/loom/pkg/reactive"
)

func TestRenderAndAssert(t *testing.T) {
	env := loom.New(loom.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	count := reactive.NewSignal(0)
	inc := func() { count.Update(func(n int) int { return n + 1 }) }

	res := Render(t, env, loom.T(`<div class="counter"><span>`, `</span> <button @click=`, `>+</button></div>`), count, inc)

	ExpectElement(t, res.Container, "button")
	ExpectAttribute(t, res.Container, "class", "counter")
	ExpectHTML(t, res.Container, `<div class="counter"><span>0</span><button>+</button></div>`)

	Click(t, res.Container, "button")
	Click(t, res.Container, "button")
	ExpectContains(t, res.Container, "<span>2</span>")
	ExpectNotContains(t, res.Container, "<span>0</span>")
}

func TestFind(t *testing.T) {
	root := dom.NewElement("ul")
	li := dom.NewElement("li")
	root.AppendChild(dom.NewText("x"))
	root.AppendChild(li)

	if Find(root, "li") != li {
		t.Error("Find should return the li")
	}
	if Find(root, "table") != nil {
		t.Error("Find should return nil for a missing tag")
	}
	if Find(nil, "li") != nil {
		t.Error("Find(nil) should be nil")
	}
}

func TestTruncate(t *testing.T) {
	if truncate("abc", 5) != "abc" {
		t.Error("short strings are unchanged")
	}
	if truncate("abcdef", 3) != "abc..." {
		t.Error("long strings are cut")
	}
}
