package compiler

import (
	"github.com/vmihailenco/msgpack/v5"
)

// Encode serializes the program with msgpack. Instructions are encoded as
// maps keyed by field name with an "op" discriminator.
func (p *Program) Encode() ([]byte, error) {
	return msgpack.Marshal(map[string]any{
		"key":   p.Key,
		"slots": p.Slots,
		"root":  encodeBlock(p.Root),
	})
}

func encodeBlock(b *Block) map[string]any {
	if b == nil {
		return nil
	}
	ops := make([]map[string]any, len(b.Ops))
	for i, op := range b.Ops {
		ops[i] = encodeOp(op)
	}
	roots := make([]map[string]any, len(b.Roots))
	for i, r := range b.Roots {
		if r.IsExpr() {
			roots[i] = map[string]any{"expr": encodeExpr(r.Expr)}
		} else {
			roots[i] = map[string]any{"reg": int(r.Reg)}
		}
	}
	return map[string]any{"regs": b.Regs, "ops": ops, "roots": roots}
}

func encodeOp(op Op) map[string]any {
	switch op := op.(type) {
	case *CreateElement:
		return map[string]any{"op": "element", "dst": int(op.Dst), "tag": op.Tag}
	case *CreateText:
		return map[string]any{"op": "create_text", "dst": int(op.Dst), "text": op.Text}
	case *AppendText:
		return map[string]any{"op": "text", "parent": int(op.Parent), "text": op.Text}
	case *AppendChild:
		return map[string]any{"op": "append", "parent": int(op.Parent), "child": int(op.Child)}
	case *CreateAnchor:
		return map[string]any{"op": "anchor", "dst": int(op.Dst), "parent": int(op.Parent)}
	case *Insert:
		return map[string]any{"op": "insert", "parent": int(op.Parent), "anchor": int(op.Anchor), "value": encodeExpr(op.Value)}
	case *SetStaticAttr:
		return map[string]any{"op": "static_attr", "node": int(op.Node), "name": op.Name, "value": op.Value}
	case *SetAttr:
		return map[string]any{"op": "attr", "node": int(op.Node), "name": op.Name, "value": encodeExpr(op.Value)}
	case *SetBoolAttr:
		return map[string]any{"op": "bool_attr", "node": int(op.Node), "name": op.Name, "value": encodeExpr(op.Value)}
	case *SetProp:
		return map[string]any{"op": "prop", "node": int(op.Node), "name": op.Name, "value": encodeExpr(op.Value)}
	case *AddListener:
		return map[string]any{"op": "listen", "node": int(op.Node), "event": op.Event, "handler": encodeExpr(op.Handler)}
	case *SetRef:
		return map[string]any{"op": "ref", "node": int(op.Node), "ref": encodeExpr(op.Ref)}
	case *CreateComponent:
		props := make([]map[string]any, len(op.Props))
		for i, p := range op.Props {
			props[i] = map[string]any{"name": p.Name, "value": encodeExpr(p.Value)}
		}
		return map[string]any{"op": "component", "dst": int(op.Dst), "name": op.Name, "props": props, "children": encodeBlock(op.Children)}
	}
	return map[string]any{"op": "unknown"}
}

func encodeExpr(e Expr) map[string]any {
	switch e := e.(type) {
	case *Slot:
		return map[string]any{"slot": e.Index}
	case *Literal:
		return map[string]any{"literal": e.Value}
	case *Concat:
		parts := make([]map[string]any, len(e.Parts))
		for i, p := range e.Parts {
			parts[i] = encodeExpr(p)
		}
		return map[string]any{"concat": parts}
	}
	return nil
}
