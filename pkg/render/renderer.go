package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/vango-dev/loom/pkg/dom"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables pretty-printed HTML output with indentation.
	// Should only be used in development as it changes whitespace.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string

	// OmitAnchors skips empty comment nodes used as insertion anchors.
	OmitAnchors bool
}

// Renderer serializes DOM trees to HTML.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// RenderToString renders the nodes, in order, to an HTML string.
func (r *Renderer) RenderToString(nodes ...*dom.Node) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, nodes...); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams the nodes, in order, to the given writer.
func (r *Renderer) RenderToWriter(w io.Writer, nodes ...*dom.Node) error {
	for _, n := range nodes {
		if err := r.renderNode(w, n, 0, false); err != nil {
			return err
		}
	}
	return nil
}

// renderNode dispatches rendering based on node kind.
func (r *Renderer) renderNode(w io.Writer, node *dom.Node, depth int, raw bool) error {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case dom.KindElement:
		return r.renderElement(w, node, depth)
	case dom.KindText:
		text := node.Data
		if !raw {
			text = escapeHTML(text)
		}
		_, err := io.WriteString(w, text)
		return err
	case dom.KindComment:
		if r.config.OmitAnchors && node.IsAnchor() {
			return nil
		}
		_, err := fmt.Fprintf(w, "<!--%s-->", escapeComment(node.Data))
		return err
	case dom.KindFragment:
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if err := r.renderNode(w, c, depth, raw); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown node kind: %d", node.Kind)
	}
}

// renderElement renders an HTML element with its attributes and children.
func (r *Renderer) renderElement(w io.Writer, node *dom.Node, depth int) error {
	tag := node.Tag

	if r.config.Pretty && depth > 0 {
		r.writeIndent(w, depth)
	}

	if _, err := io.WriteString(w, "<"+tag); err != nil {
		return err
	}
	for _, a := range node.Attrs {
		var err error
		if a.Value == "" {
			_, err = fmt.Fprintf(w, " %s", a.Key)
		} else {
			_, err = fmt.Fprintf(w, ` %s="%s"`, a.Key, escapeAttr(a.Value))
		}
		if err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}

	if dom.IsVoidElement(tag) {
		if r.config.Pretty {
			io.WriteString(w, "\n")
		}
		return nil
	}

	hasBlockChildren := node.FirstChild != nil && !isInlineElement(tag)
	if r.config.Pretty && hasBlockChildren {
		io.WriteString(w, "\n")
	}

	raw := rawTextElements[tag]
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		if err := r.renderNode(w, c, depth+1, raw); err != nil {
			return err
		}
	}

	if r.config.Pretty && hasBlockChildren {
		r.writeIndent(w, depth)
	}
	if _, err := fmt.Fprintf(w, "</%s>", tag); err != nil {
		return err
	}
	if r.config.Pretty {
		io.WriteString(w, "\n")
	}
	return nil
}

// writeIndent writes indentation for pretty printing.
func (r *Renderer) writeIndent(w io.Writer, depth int) {
	for i := 0; i < depth; i++ {
		io.WriteString(w, r.config.Indent)
	}
}
