package main

import (
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/loom"
	loomerrors "github.com/vango-dev/loom/internal/errors"
	"github.com/vango-dev/loom/internal/dev"
)

var (
	placeholderRE = regexp.MustCompile(`\$\{\s*([A-Za-z_][A-Za-z0-9_.-]*)\s*\}`)

	// yaml.v3 reports positions as "line N" inside its messages.
	yamlLineRE = regexp.MustCompile(`line (\d+)`)
)

// splitTemplate cuts src at every ${name} placeholder.
func splitTemplate(src string) (fragments, names []string) {
	last := 0
	for _, m := range placeholderRE.FindAllStringSubmatchIndex(src, -1) {
		fragments = append(fragments, src[last:m[0]])
		names = append(names, src[m[2]:m[3]])
		last = m[1]
	}
	return append(fragments, src[last:]), names
}

// loadData reads a YAML or JSON file into a map. An empty path yields an
// empty map.
func loadData(path string) (map[string]any, error) {
	data := map[string]any{}
	if path == "" {
		return data, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, loomerrors.New(loomerrors.CodeDataFile).Wrap(err).WithDetail(path)
	}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		e := loomerrors.New(loomerrors.CodeDataFile).
			WithDetail(path).
			WithSuggestion("data files are YAML or JSON objects").
			Wrap(err)
		if m := yamlLineRE.FindStringSubmatch(err.Error()); m != nil {
			line, _ := strconv.Atoi(m[1])
			e = e.WithLocation(path, line, 0)
		}
		return nil, e
	}
	return data, nil
}

// lookup resolves a dotted name through nested maps.
func lookup(data map[string]any, name string) (any, bool) {
	var cur any = data
	for _, part := range strings.Split(name, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// source loads a template file and its data. Unchanged template text keeps
// its template identity so the compiled program is reused.
type source struct {
	templatePath string
	dataPath     string

	mu        sync.Mutex
	templates map[string]*loom.Template
}

func newSource(templatePath, dataPath string) *source {
	return &source{
		templatePath: templatePath,
		dataPath:     dataPath,
		templates:    make(map[string]*loom.Template),
	}
}

// template returns the template for the file's current contents and the
// placeholder names in slot order.
func (s *source) template() (*loom.Template, []string, error) {
	raw, err := os.ReadFile(s.templatePath)
	if err != nil {
		return nil, nil, loomerrors.New(loomerrors.CodeTemplateFile).Wrap(err).WithDetail(s.templatePath)
	}
	fragments, names := splitTemplate(string(raw))

	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.templates[string(raw)]
	if !ok {
		t = loom.Named(s.templatePath, fragments...)
		s.templates[string(raw)] = t
	}
	return t, names, nil
}

// load implements dev.Loader.
func (s *source) load() (*dev.Page, error) {
	t, names, err := s.template()
	if err != nil {
		return nil, err
	}
	data, err := loadData(s.dataPath)
	if err != nil {
		return nil, err
	}
	values := make([]any, len(names))
	for i, name := range names {
		v, ok := lookup(data, name)
		if !ok {
			return nil, loomerrors.New(loomerrors.CodeDataFile).
				WithDetailf("no value for ${%s} in %q", name, s.dataPath).
				WithSuggestion("add the key to the data file or pass one with --data")
		}
		values[i] = v
	}
	return &dev.Page{Template: t, Values: values}, nil
}

// watchPaths lists the files a preview reloads on.
func (s *source) watchPaths(extra []string) []string {
	paths := []string{s.templatePath}
	if s.dataPath != "" {
		paths = append(paths, s.dataPath)
	}
	return append(paths, extra...)
}
