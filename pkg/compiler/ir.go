package compiler

// Reg indexes a node register within a Block.
type Reg int

// NoReg marks an absent register, such as an Insert without an anchor.
const NoReg Reg = -1

// Expr is a value computed from call-time slots: *Slot, *Literal or *Concat.
type Expr interface {
	expr()
}

// Slot reads the call-time value at Index.
type Slot struct {
	Index int
}

// Literal is a constant taken from the template text. Value is a string,
// or true for a bare component prop.
type Literal struct {
	Value any
}

// Concat joins literal text and slots, in order.
type Concat struct {
	Parts []Expr
}

func (*Slot) expr()    {}
func (*Literal) expr() {}
func (*Concat) expr()  {}

// Op is one construction instruction.
type Op interface {
	op()
}

// CreateElement creates an element into Dst.
type CreateElement struct {
	Dst Reg
	Tag string
}

// CreateText creates a text node into Dst. Used for top-level text.
type CreateText struct {
	Dst  Reg
	Text string
}

// AppendText appends a static text node to Parent.
type AppendText struct {
	Parent Reg
	Text   string
}

// AppendChild appends the node held in Child to Parent.
type AppendChild struct {
	Parent Reg
	Child  Reg
}

// CreateAnchor appends an empty comment to Parent and stores it in Dst.
type CreateAnchor struct {
	Dst    Reg
	Parent Reg
}

// Insert inserts a dynamic value into Parent before Anchor, or at the end
// when Anchor is NoReg.
type Insert struct {
	Parent Reg
	Anchor Reg
	Value  Expr
}

// SetStaticAttr sets an attribute once.
type SetStaticAttr struct {
	Node  Reg
	Name  string
	Value string
}

// SetAttr binds an attribute to a slot or interpolation.
type SetAttr struct {
	Node  Reg
	Name  string
	Value Expr
}

// SetBoolAttr binds the presence of an attribute to a value's truthiness.
type SetBoolAttr struct {
	Node  Reg
	Name  string
	Value Expr
}

// SetProp binds an in-memory node property.
type SetProp struct {
	Node  Reg
	Name  string
	Value Expr
}

// AddListener registers the handler in Handler for Event.
type AddListener struct {
	Node    Reg
	Event   string
	Handler *Slot
}

// SetRef hands the node to the ref in Ref.
type SetRef struct {
	Node Reg
	Ref  *Slot
}

// Prop is one named component prop.
type Prop struct {
	Name  string
	Value Expr
}

// CreateComponent instantiates a registered component. Dst holds a fragment
// with the component's nodes. Children, when non-nil, is materialized only
// when the component reads its children accessor.
type CreateComponent struct {
	Dst      Reg
	Name     string
	Props    []Prop
	Children *Block
}

func (*CreateElement) op()   {}
func (*CreateText) op()      {}
func (*AppendText) op()      {}
func (*AppendChild) op()     {}
func (*CreateAnchor) op()    {}
func (*Insert) op()          {}
func (*SetStaticAttr) op()   {}
func (*SetAttr) op()         {}
func (*SetBoolAttr) op()     {}
func (*SetProp) op()         {}
func (*AddListener) op()     {}
func (*SetRef) op()          {}
func (*CreateComponent) op() {}

// Root is one top-level result of a Block: either the node in Reg, or,
// when Expr is non-nil, a value returned directly.
type Root struct {
	Reg  Reg
	Expr Expr
}

// IsExpr reports whether the root is a dynamic value.
func (r Root) IsExpr() bool {
	return r.Expr != nil
}

// Block is a straight-line instruction list over Regs registers.
type Block struct {
	Regs  int
	Ops   []Op
	Roots []Root
}

// Program is a compiled template.
type Program struct {
	// Key identifies the template the program was compiled from.
	Key string

	// Slots is the number of call-time values every execution requires.
	Slots int

	Root *Block
}

// NeedsAnchor reports whether the i-th of a run of sibling children needs an
// anchor. dynamic[j] is true when sibling j is a dynamic value.
func NeedsAnchor(dynamic []bool, i int) bool {
	if !dynamic[i] {
		return false
	}
	n := 0
	for _, d := range dynamic {
		if d {
			n++
		}
	}
	if n >= 2 {
		return true
	}
	for _, d := range dynamic[i+1:] {
		if !d {
			return true
		}
	}
	return false
}
