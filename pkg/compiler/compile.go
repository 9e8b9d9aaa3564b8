package compiler

import (
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	loomerrors "github.com/vango-dev/loom/internal/errors"
	"github.com/vango-dev/loom/pkg/parser"
)

// Compile lowers fragments into a Program. key identifies the template in
// errors and diagnostics.
func Compile(key string, fragments []string, opts ...Option) (*Program, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	if len(fragments) == 0 {
		return nil, loomerrors.New(loomerrors.CodeEmptyTemplate).
			WithDetailf("template %s", key)
	}

	nodes, err := parser.Parse(parser.Join(fragments))
	if err != nil {
		return nil, loomerrors.FromError(err, loomerrors.CodeParseFailed)
	}

	c := &compiler{key: key, opts: o}
	root, err := c.lowerBlock(nodes)
	if err != nil {
		return nil, err
	}

	expected := len(fragments) - 1
	if c.slots != expected {
		return nil, loomerrors.New(loomerrors.CodeHoleMismatch).
			WithDetailf("template %s: found %d value slots, expected %d", key, c.slots, expected).
			WithSuggestion("slots inside HTML comments or raw text are not bound; move the value into an element or attribute")
	}

	prog := &Program{Key: key, Slots: c.slots, Root: root}
	if o.debug {
		o.logger.Debug("compiled template", "key", key, "slots", prog.Slots, "program", prog.String())
	}
	return prog, nil
}

type compiler struct {
	key   string
	opts  options
	slots int
}

func (c *compiler) nextSlot() *Slot {
	s := &Slot{Index: c.slots}
	c.slots++
	return s
}

// blockBuilder accumulates the ops of one Block.
type blockBuilder struct {
	block *Block
}

func (b *blockBuilder) reg() Reg {
	r := Reg(b.block.Regs)
	b.block.Regs++
	return r
}

func (b *blockBuilder) emit(op Op) {
	b.block.Ops = append(b.block.Ops, op)
}

// child is a parsed child after whitespace dropping and text splitting.
type child struct {
	text  string      // static text, when tag is nil and !dynamic
	tag   *parser.Tag // element or component
	parts []segment   // dynamic value, when dynamic
	dyn   bool
}

// segment is a literal run or a hole inside text.
type segment struct {
	lit  string
	hole bool
}

// splitSegments splits s at markers.
func splitSegments(s string) []segment {
	var out []segment
	for {
		i := strings.Index(s, parser.Marker)
		if i < 0 {
			break
		}
		if i > 0 {
			out = append(out, segment{lit: s[:i]})
		}
		out = append(out, segment{hole: true})
		s = s[i+len(parser.Marker):]
	}
	if s != "" {
		out = append(out, segment{lit: s})
	}
	return out
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// flatten turns parsed siblings into the children a parent receives.
//
// Whitespace-only text is dropped. Text holding a single hole becomes one
// dynamic child, an interpolation when literal text surrounds the hole.
// Text holding several holes is split so that every hole gets its own
// region; the literal runs between them stay static.
func flatten(nodes []parser.Node) []child {
	var out []child
	for _, n := range nodes {
		switch n := n.(type) {
		case *parser.Text:
			if !strings.Contains(n.Data, parser.Marker) {
				if !isBlank(n.Data) {
					out = append(out, child{text: n.Data})
				}
				continue
			}
			segs := trimBlankEdges(splitSegments(n.Data))
			holes := 0
			for _, s := range segs {
				if s.hole {
					holes++
				}
			}
			if holes == 1 {
				out = append(out, child{parts: segs, dyn: true})
				continue
			}
			for _, s := range segs {
				if s.hole {
					out = append(out, child{parts: []segment{s}, dyn: true})
				} else {
					out = append(out, child{text: s.lit})
				}
			}

		case *parser.Comment:
			if n.IsPlaceholder() {
				out = append(out, child{parts: []segment{{hole: true}}, dyn: true})
			}

		case *parser.Tag:
			out = append(out, child{tag: n})
		}
	}
	return out
}

// trimBlankEdges drops whitespace-only literal runs at either end.
func trimBlankEdges(segs []segment) []segment {
	for len(segs) > 0 && !segs[0].hole && isBlank(segs[0].lit) {
		segs = segs[1:]
	}
	for len(segs) > 0 && !segs[len(segs)-1].hole && isBlank(segs[len(segs)-1].lit) {
		segs = segs[:len(segs)-1]
	}
	return segs
}

// textExpr builds the expression for a dynamic text child, consuming slots.
func (c *compiler) textExpr(segs []segment) Expr {
	if len(segs) == 1 && segs[0].hole {
		return c.nextSlot()
	}
	cat := &Concat{}
	for _, s := range segs {
		if s.hole {
			cat.Parts = append(cat.Parts, c.nextSlot())
		} else {
			cat.Parts = append(cat.Parts, &Literal{Value: s.lit})
		}
	}
	return cat
}

// valueExpr builds the expression for an attribute or prop value.
func (c *compiler) valueExpr(value string) Expr {
	segs := splitSegments(value)
	switch {
	case len(segs) == 0:
		return &Literal{Value: ""}
	case len(segs) == 1 && !segs[0].hole:
		return &Literal{Value: segs[0].lit}
	}
	return c.textExpr(segs)
}

// lowerBlock lowers a top-level forest into a new Block.
func (c *compiler) lowerBlock(nodes []parser.Node) (*Block, error) {
	b := &blockBuilder{block: &Block{}}
	for _, ch := range flatten(nodes) {
		switch {
		case ch.dyn:
			b.block.Roots = append(b.block.Roots, Root{Reg: NoReg, Expr: c.textExpr(ch.parts)})
		case ch.tag != nil:
			r, err := c.lowerTag(b, ch.tag)
			if err != nil {
				return nil, err
			}
			b.block.Roots = append(b.block.Roots, Root{Reg: r})
		default:
			r := b.reg()
			b.emit(&CreateText{Dst: r, Text: ch.text})
			b.block.Roots = append(b.block.Roots, Root{Reg: r})
		}
	}
	return b.block, nil
}

// IsComponentName reports whether a tag names a component: its leading
// rune is upper case.
func IsComponentName(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

func (c *compiler) lowerTag(b *blockBuilder, tag *parser.Tag) (Reg, error) {
	if IsComponentName(tag.Name) {
		return c.lowerComponent(b, tag)
	}

	r := b.reg()
	b.emit(&CreateElement{Dst: r, Tag: tag.Name})
	for _, a := range tag.Attrs {
		if err := c.lowerAttr(b, r, tag, a); err != nil {
			return NoReg, err
		}
	}
	if err := c.lowerChildren(b, r, tag.Children); err != nil {
		return NoReg, err
	}
	return r, nil
}

func (c *compiler) lowerChildren(b *blockBuilder, parent Reg, nodes []parser.Node) error {
	children := flatten(nodes)
	dynamic := make([]bool, len(children))
	for i, ch := range children {
		dynamic[i] = ch.dyn
	}

	for i, ch := range children {
		switch {
		case ch.dyn:
			anchor := NoReg
			if NeedsAnchor(dynamic, i) {
				anchor = b.reg()
				b.emit(&CreateAnchor{Dst: anchor, Parent: parent})
			}
			b.emit(&Insert{Parent: parent, Anchor: anchor, Value: c.textExpr(ch.parts)})
		case ch.tag != nil:
			r, err := c.lowerTag(b, ch.tag)
			if err != nil {
				return err
			}
			b.emit(&AppendChild{Parent: parent, Child: r})
		default:
			b.emit(&AppendText{Parent: parent, Text: ch.text})
		}
	}
	return nil
}

func (c *compiler) lowerComponent(b *blockBuilder, tag *parser.Tag) (Reg, error) {
	if c.opts.debug && c.opts.components != nil && !c.opts.components.Has(tag.Name) {
		c.opts.logger.Warn("component is not registered",
			"component", tag.Name,
			"template", c.key,
			"line", tag.Line)
	}

	op := &CreateComponent{Name: tag.Name}
	for _, a := range tag.Attrs {
		var v Expr = &Literal{Value: true}
		if a.HasValue {
			v = c.valueExpr(a.Value)
		}
		op.Props = append(op.Props, Prop{Name: a.Name, Value: v})
	}

	children, err := c.lowerBlock(tag.Children)
	if err != nil {
		return NoReg, err
	}
	if len(children.Roots) > 0 {
		op.Children = children
	}

	op.Dst = b.reg()
	b.emit(op)
	return op.Dst, nil
}

func (c *compiler) lowerAttr(b *blockBuilder, node Reg, tag *parser.Tag, a parser.Attr) error {
	holes := parser.CountMarkers(a.Value)
	lone := a.Value == parser.Marker

	switch {
	case strings.HasPrefix(a.Name, "@"):
		if !lone {
			return c.sigilError(tag, a)
		}
		b.emit(&AddListener{Node: node, Event: a.Name[1:], Handler: c.nextSlot()})

	case strings.HasPrefix(a.Name, "."):
		b.emit(&SetProp{Node: node, Name: a.Name[1:], Value: c.valueExpr(a.Value)})

	case strings.HasPrefix(a.Name, "?"):
		name := a.Name[1:]
		switch {
		case lone:
			b.emit(&SetBoolAttr{Node: node, Name: name, Value: c.nextSlot()})
		case holes > 0:
			return c.sigilError(tag, a)
		case a.Value != "false":
			b.emit(&SetStaticAttr{Node: node, Name: name, Value: ""})
		}

	case a.Name == "ref" && holes > 0:
		if !lone {
			return c.sigilError(tag, a)
		}
		b.emit(&SetRef{Node: node, Ref: c.nextSlot()})

	case holes > 0:
		b.emit(&SetAttr{Node: node, Name: a.Name, Value: c.valueExpr(a.Value)})

	default:
		b.emit(&SetStaticAttr{Node: node, Name: a.Name, Value: a.Value})
	}
	return nil
}

func (c *compiler) sigilError(tag *parser.Tag, a parser.Attr) error {
	return loomerrors.New(loomerrors.CodeSigilNeedsHole).
		WithDetailf("template %s: <%s %s> on line %d must be bound to exactly one value", c.key, tag.Name, a.Name, tag.Line).
		WithSuggestion("write the attribute as " + a.Name + "=${value} with nothing around the value")
}
