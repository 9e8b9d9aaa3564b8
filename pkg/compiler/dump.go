package compiler

import (
	"fmt"
	"strconv"
	"strings"
)

// String renders the program as a readable listing.
//
//	program "page.html" slots=2
//	  r0 = <a>
//	  insert r0 $0
//	  r1 = <b>
//	  insert r1 $1
//	  root r0
//	  root r1
func (p *Program) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "program %q slots=%d\n", p.Key, p.Slots)
	writeBlock(&sb, p.Root, 1)
	return sb.String()
}

func writeBlock(sb *strings.Builder, b *Block, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, op := range b.Ops {
		sb.WriteString(indent)
		sb.WriteString(FormatOp(op))
		sb.WriteByte('\n')
		if cc, ok := op.(*CreateComponent); ok && cc.Children != nil {
			fmt.Fprintf(sb, "%schildren:\n", indent)
			writeBlock(sb, cc.Children, depth+1)
		}
	}
	for _, r := range b.Roots {
		sb.WriteString(indent)
		if r.IsExpr() {
			sb.WriteString("root " + FormatExpr(r.Expr))
		} else {
			sb.WriteString("root " + r.Reg.String())
		}
		sb.WriteByte('\n')
	}
}

func (r Reg) String() string {
	if r == NoReg {
		return "-"
	}
	return "r" + strconv.Itoa(int(r))
}

// FormatOp renders a single instruction.
func FormatOp(op Op) string {
	switch op := op.(type) {
	case *CreateElement:
		return fmt.Sprintf("%s = <%s>", op.Dst, op.Tag)
	case *CreateText:
		return fmt.Sprintf("%s = text %q", op.Dst, op.Text)
	case *AppendText:
		return fmt.Sprintf("text %s %q", op.Parent, op.Text)
	case *AppendChild:
		return fmt.Sprintf("append %s %s", op.Parent, op.Child)
	case *CreateAnchor:
		return fmt.Sprintf("%s = anchor %s", op.Dst, op.Parent)
	case *Insert:
		if op.Anchor == NoReg {
			return fmt.Sprintf("insert %s %s", op.Parent, FormatExpr(op.Value))
		}
		return fmt.Sprintf("insert %s %s before %s", op.Parent, FormatExpr(op.Value), op.Anchor)
	case *SetStaticAttr:
		return fmt.Sprintf("attr %s %s=%q", op.Node, op.Name, op.Value)
	case *SetAttr:
		return fmt.Sprintf("attr %s %s=%s", op.Node, op.Name, FormatExpr(op.Value))
	case *SetBoolAttr:
		return fmt.Sprintf("attr %s ?%s=%s", op.Node, op.Name, FormatExpr(op.Value))
	case *SetProp:
		return fmt.Sprintf("prop %s .%s=%s", op.Node, op.Name, FormatExpr(op.Value))
	case *AddListener:
		return fmt.Sprintf("listen %s @%s=%s", op.Node, op.Event, FormatExpr(op.Handler))
	case *SetRef:
		return fmt.Sprintf("ref %s %s", op.Node, FormatExpr(op.Ref))
	case *CreateComponent:
		props := make([]string, len(op.Props))
		for i, p := range op.Props {
			props[i] = p.Name + "=" + FormatExpr(p.Value)
		}
		return fmt.Sprintf("%s = component %s {%s}", op.Dst, op.Name, strings.Join(props, " "))
	}
	return fmt.Sprintf("unknown %T", op)
}

// FormatExpr renders an expression.
func FormatExpr(e Expr) string {
	switch e := e.(type) {
	case *Slot:
		return "$" + strconv.Itoa(e.Index)
	case *Literal:
		if s, ok := e.Value.(string); ok {
			return strconv.Quote(s)
		}
		return fmt.Sprint(e.Value)
	case *Concat:
		parts := make([]string, len(e.Parts))
		for i, p := range e.Parts {
			parts[i] = FormatExpr(p)
		}
		return "concat(" + strings.Join(parts, ", ") + ")"
	}
	return "?"
}
