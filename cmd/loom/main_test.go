package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	loomerrors "github.com/vango-dev/loom/internal/errors"
)

// project writes files into a temp dir with a quiet config and returns
// path joining helpers.
func project(t *testing.T, files map[string]string) (string, func(string) string) {
	t.Helper()
	dir := t.TempDir()
	files["loom.yaml"] = "log:\n  level: error\n"
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
	}
	return dir, func(name string) string { return filepath.Join(dir, name) }
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSplitTemplate(t *testing.T) {
	fragments, names := splitTemplate(`<p>${ name }</p><a href="${user.url}">go</a>`)
	assert.Equal(t, []string{"<p>", `</p><a href="`, `">go</a>`}, fragments)
	assert.Equal(t, []string{"name", "user.url"}, names)

	fragments, names = splitTemplate("<p>plain $ text {x}</p>")
	assert.Equal(t, []string{"<p>plain $ text {x}</p>"}, fragments)
	assert.Empty(t, names)
}

func TestLookup(t *testing.T) {
	data := map[string]any{
		"title": "Home",
		"user":  map[string]any{"name": "Ada"},
	}
	v, ok := lookup(data, "user.name")
	assert.True(t, ok)
	assert.Equal(t, "Ada", v)

	_, ok = lookup(data, "user.email")
	assert.False(t, ok)
	_, ok = lookup(data, "title.length")
	assert.False(t, ok)
}

func TestSourceReusesTemplate(t *testing.T) {
	_, path := project(t, map[string]string{"page.html": "<p>${x}</p>"})
	src := newSource(path("page.html"), "")

	first, _, err := src.template()
	require.NoError(t, err)
	again, _, err := src.template()
	require.NoError(t, err)
	assert.Same(t, first, again, "unchanged text keeps its identity")

	require.NoError(t, os.WriteFile(path("page.html"), []byte("<b>${x}</b>"), 0644))
	changed, _, err := src.template()
	require.NoError(t, err)
	assert.NotSame(t, first, changed)
}

func TestRenderCommand(t *testing.T) {
	_, path := project(t, map[string]string{
		"page.html": `<ul><li>${first}</li><li>${stats.count}</li></ul><p>${tags}</p>`,
		"page.yaml": "first: a\nstats:\n  count: 2\ntags: [x, y]\n",
	})

	out, err := run(t, "--config", path("loom.yaml"), "render", path("page.html"), "--data", path("page.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "<ul><li>a</li><li>2</li></ul><p>xy</p>\n", out)
}

func TestRenderJSONData(t *testing.T) {
	_, path := project(t, map[string]string{
		"page.html": `<h1 title="${title}">${title}</h1>`,
		"page.json": `{"title": "Welcome"}`,
	})

	out, err := run(t, "--config", path("loom.yaml"), "render", path("page.html"), "-d", path("page.json"))
	require.NoError(t, err)
	assert.Equal(t, `<h1 title="Welcome">Welcome</h1>`+"\n", out)
}

func TestRenderMissingValue(t *testing.T) {
	_, path := project(t, map[string]string{"page.html": "<p>${missing}</p>"})

	_, err := run(t, "--config", path("loom.yaml"), "render", path("page.html"))
	assert.True(t, loomerrors.HasCode(err, loomerrors.CodeDataFile), "got %v", err)
}

func TestDataFileLocation(t *testing.T) {
	_, path := project(t, map[string]string{
		"page.html": "<p>${a}</p>",
		"page.yaml": "a: 1\nb: c: d\n",
	})

	_, err := run(t, "--config", path("loom.yaml"), "--no-color", "render", path("page.html"), "-d", path("page.yaml"))
	t.Cleanup(loomerrors.EnableColors)

	var le *loomerrors.LoomError
	require.True(t, errors.As(err, &le), "got %v", err)
	assert.Equal(t, loomerrors.CodeDataFile, le.Code)
	require.NotNil(t, le.Location)
	assert.Equal(t, path("page.yaml"), le.Location.File)
	assert.Equal(t, 2, le.Location.Line)
	assert.Contains(t, le.Context, "b: c: d")
	assert.NotContains(t, le.Format(), "\033[")
}

func TestRenderMissingTemplate(t *testing.T) {
	_, path := project(t, map[string]string{})

	_, err := run(t, "--config", path("loom.yaml"), "render", path("nope.html"))
	assert.True(t, loomerrors.HasCode(err, loomerrors.CodeTemplateFile), "got %v", err)
}

func TestCompileCommand(t *testing.T) {
	_, path := project(t, map[string]string{"page.html": `<a href="${url}">link</a>`})

	out, err := run(t, "--config", path("loom.yaml"), "compile", path("page.html"))
	require.NoError(t, err)
	assert.Contains(t, out, "slots=1")
	assert.Contains(t, out, "attr")

	out, err = run(t, "--config", path("loom.yaml"), "compile", path("page.html"), "-f", "msgpack")
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, msgpack.Unmarshal([]byte(out), &decoded))
	assert.EqualValues(t, 1, decoded["slots"])

	_, err = run(t, "--config", path("loom.yaml"), "compile", path("page.html"), "-f", "xml")
	assert.Error(t, err)
}

func TestCompileErrorCarriesCode(t *testing.T) {
	_, path := project(t, map[string]string{"page.html": `<button @click="go">x</button>`})

	_, err := run(t, "--config", path("loom.yaml"), "compile", path("page.html"))
	assert.True(t, loomerrors.HasCode(err, loomerrors.CodeSigilNeedsHole), "got %v", err)
}

func TestExportCommand(t *testing.T) {
	dir, path := project(t, map[string]string{
		"page.html": "<p>${msg}</p>",
		"page.yaml": "msg: hi\n",
	})
	dist := filepath.Join(dir, "dist")

	_, err := run(t, "--config", path("loom.yaml"), "export", path("page.html"),
		"--data", path("page.yaml"), "--out", dist, "--program")
	require.NoError(t, err)

	html, err := os.ReadFile(filepath.Join(dist, "page.html"))
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", string(html))

	listing, err := os.ReadFile(filepath.Join(dist, "page.program.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(listing), "slots=1")
}

func TestExportDocument(t *testing.T) {
	dir, path := project(t, map[string]string{
		"page.html": "<p>${msg}</p>",
		"page.yaml": "msg: hi\n",
	})
	dist := filepath.Join(dir, "dist")

	_, err := run(t, "--config", path("loom.yaml"), "export", path("page.html"),
		"--data", path("page.yaml"), "--out", dist, "--title", "Hi & bye")
	require.NoError(t, err)

	html, err := os.ReadFile(filepath.Join(dist, "page.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "<!DOCTYPE html>")
	assert.Contains(t, string(html), "<title>Hi &amp; bye</title>")
	assert.Contains(t, string(html), "<body>\n<p>hi</p>\n</body>")
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, version+"\n", out)
}
