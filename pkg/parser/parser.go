package parser

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html"

	loomerrors "github.com/vango-dev/loom/internal/errors"
)

// voidElements never have an end tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// Parse parses template source into an ordered forest.
func Parse(src string) ([]Node, error) {
	p := &treeBuilder{
		z:    html.NewTokenizer(strings.NewReader(src)),
		line: 1,
	}
	return p.build()
}

type treeBuilder struct {
	z     *html.Tokenizer
	roots []Node
	stack []*Tag
	line  int
}

func (p *treeBuilder) build() ([]Node, error) {
	for {
		tt := p.z.Next()
		// Raw must be copied before TagName/TagAttr, which lowercase the
		// tokenizer buffer in place.
		raw := append([]byte(nil), p.z.Raw()...)
		line := p.line
		p.line += bytes.Count(raw, []byte{'\n'})

		switch tt {
		case html.ErrorToken:
			if err := p.z.Err(); err != io.EOF {
				return nil, err
			}
			return p.roots, nil

		case html.TextToken:
			p.append(&Text{Data: string(p.z.Text()), Line: line})

		case html.CommentToken:
			p.append(&Comment{Data: string(p.z.Text()), Line: line})

		case html.StartTagToken, html.SelfClosingTagToken:
			tag, err := p.readTag(raw, line)
			if err != nil {
				return nil, err
			}
			tag.SelfClosing = tt == html.SelfClosingTagToken
			p.append(tag)
			if !tag.SelfClosing && !voidElements[strings.ToLower(tag.Name)] {
				p.stack = append(p.stack, tag)
			}

		case html.EndTagToken:
			name, _ := p.z.TagName()
			p.close(string(name))

		case html.DoctypeToken:
			// Templates are fragments; a doctype carries no structure.
		}
	}
}

// append adds n to the innermost open tag, or to the roots.
func (p *treeBuilder) append(n Node) {
	if len(p.stack) == 0 {
		p.roots = append(p.roots, n)
		return
	}
	top := p.stack[len(p.stack)-1]
	top.Children = append(top.Children, n)
}

// close pops open tags up to and including the nearest one named name.
// An end tag with no matching open tag is ignored.
func (p *treeBuilder) close(name string) {
	for i := len(p.stack) - 1; i >= 0; i-- {
		if strings.EqualFold(p.stack[i].Name, name) {
			p.stack = p.stack[:i]
			return
		}
	}
}

func (p *treeBuilder) readTag(raw []byte, line int) (*Tag, error) {
	name := rawTagName(raw)
	if strings.Contains(name, Marker) {
		return nil, loomerrors.New(loomerrors.CodeMarkerInName).
			WithDetailf("tag name %q on line %d contains a value slot", name, line).
			WithSuggestion("tag names must be literal; pick the element with a slot value instead")
	}

	tag := &Tag{Name: name, Line: line}
	rawNames := rawAttrNames(raw)

	var attrs []Attr
	for {
		key, val, more := p.z.TagAttr()
		if len(key) == 0 && !more {
			break
		}
		attrs = append(attrs, Attr{Name: string(key), Value: string(val)})
		if !more {
			break
		}
	}

	// Prefer the source-case names when the raw scan agrees with the
	// tokenizer on the attribute count.
	if len(rawNames) == len(attrs) {
		for i := range attrs {
			attrs[i].Name = rawNames[i].name
			attrs[i].HasValue = rawNames[i].hasValue
		}
	} else {
		for i := range attrs {
			attrs[i].HasValue = attrs[i].Value != ""
		}
	}

	for _, a := range attrs {
		if strings.Contains(a.Name, Marker) {
			return nil, loomerrors.New(loomerrors.CodeMarkerInName).
				WithDetailf("attribute name on <%s> (line %d) contains a value slot", name, line).
				WithSuggestion("attribute names must be literal; bind the value instead: name=${value}")
		}
	}
	tag.Attrs = attrs
	return tag, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t' || c == '\f'
}

// rawTagName extracts the tag name, in source case, from a raw start tag.
func rawTagName(raw []byte) string {
	i := 1
	for i < len(raw) && !isSpace(raw[i]) && raw[i] != '/' && raw[i] != '>' {
		i++
	}
	return string(raw[1:i])
}

type rawAttr struct {
	name     string
	hasValue bool
}

// rawAttrNames scans a raw start tag for attribute names in source case,
// following the same boundaries as the tokenizer.
func rawAttrNames(raw []byte) []rawAttr {
	i := 1
	for i < len(raw) && !isSpace(raw[i]) && raw[i] != '/' && raw[i] != '>' {
		i++
	}

	var out []rawAttr
	for i < len(raw) {
		for i < len(raw) && (isSpace(raw[i]) || raw[i] == '/') {
			i++
		}
		if i >= len(raw) || raw[i] == '>' {
			break
		}

		start := i
		i++ // a leading '=' belongs to the name
		for i < len(raw) && !isSpace(raw[i]) && raw[i] != '/' && raw[i] != '>' && raw[i] != '=' {
			i++
		}
		attr := rawAttr{name: string(raw[start:i])}

		j := i
		for j < len(raw) && isSpace(raw[j]) {
			j++
		}
		if j < len(raw) && raw[j] == '=' {
			attr.hasValue = true
			i = j + 1
			for i < len(raw) && isSpace(raw[i]) {
				i++
			}
			if i < len(raw) && (raw[i] == '"' || raw[i] == '\'') {
				quote := raw[i]
				i++
				for i < len(raw) && raw[i] != quote {
					i++
				}
				i++
			} else {
				for i < len(raw) && !isSpace(raw[i]) && raw[i] != '>' {
					i++
				}
			}
		}
		out = append(out, attr)
	}
	return out
}
