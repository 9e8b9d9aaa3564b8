package dom

import "strings"

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement  Kind = iota // <div>, <button>, etc.
	KindText                 // Plain text node
	KindComment              // Comment, also used for anchors
	KindFragment             // Detached grouping container
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	case KindFragment:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// Attr represents a single serialized attribute.
type Attr struct {
	Key   string
	Value string
}

// Node is a mutable document node.
type Node struct {
	Kind Kind
	Tag  string // Element tag name
	Data string // Text or comment content

	// Attrs holds serialized attributes in insertion order.
	Attrs []Attr

	props     map[string]any
	listeners map[string][]Handler

	Parent      *Node
	FirstChild  *Node
	LastChild   *Node
	PrevSibling *Node
	NextSibling *Node
}

// NewElement creates a detached element node.
func NewElement(tag string) *Node {
	return &Node{Kind: KindElement, Tag: tag}
}

// NewText creates a detached text node.
func NewText(data string) *Node {
	return &Node{Kind: KindText, Data: data}
}

// NewComment creates a detached comment node.
func NewComment(data string) *Node {
	return &Node{Kind: KindComment, Data: data}
}

// NewFragment creates an empty fragment.
func NewFragment() *Node {
	return &Node{Kind: KindFragment}
}

// IsAnchor reports whether n is an empty comment used as an insertion marker.
func (n *Node) IsAnchor() bool {
	return n != nil && n.Kind == KindComment && n.Data == ""
}

// AppendChild appends child as the last child of n.
// A child that is attached elsewhere is detached first. Appending a fragment
// moves all of its children.
func (n *Node) AppendChild(child *Node) {
	n.InsertBefore(child, nil)
}

// InsertBefore inserts child immediately before ref. A nil ref appends.
// ref must be a child of n.
func (n *Node) InsertBefore(child, ref *Node) {
	if child == nil {
		return
	}
	if ref != nil && ref.Parent != n {
		panic("dom: InsertBefore called with a reference node that is not a child")
	}
	if child.Kind == KindFragment {
		for _, c := range child.Children() {
			n.InsertBefore(c, ref)
		}
		return
	}
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}

	child.Parent = n
	if ref == nil {
		child.PrevSibling = n.LastChild
		if n.LastChild != nil {
			n.LastChild.NextSibling = child
		} else {
			n.FirstChild = child
		}
		n.LastChild = child
		return
	}

	child.NextSibling = ref
	child.PrevSibling = ref.PrevSibling
	if ref.PrevSibling != nil {
		ref.PrevSibling.NextSibling = child
	} else {
		n.FirstChild = child
	}
	ref.PrevSibling = child
}

// RemoveChild detaches child from n. It is a no-op if child is not a child of n.
func (n *Node) RemoveChild(child *Node) {
	if child == nil || child.Parent != n {
		return
	}
	if child.PrevSibling != nil {
		child.PrevSibling.NextSibling = child.NextSibling
	} else {
		n.FirstChild = child.NextSibling
	}
	if child.NextSibling != nil {
		child.NextSibling.PrevSibling = child.PrevSibling
	} else {
		n.LastChild = child.PrevSibling
	}
	child.Parent = nil
	child.PrevSibling = nil
	child.NextSibling = nil
}

// Remove detaches n from its parent, if any.
func (n *Node) Remove() {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// Children returns a snapshot of the child list.
func (n *Node) Children() []*Node {
	var out []*Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int {
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		count++
	}
	return count
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	switch n.Kind {
	case KindText:
		return n.Data
	case KindComment:
		return ""
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// SetAttr sets an attribute, replacing an existing value in place.
func (n *Node) SetAttr(key, value string) {
	for i := range n.Attrs {
		if n.Attrs[i].Key == key {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Key: key, Value: value})
}

// Attr returns the attribute value and whether it is present.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttr reports whether the attribute is present.
func (n *Node) HasAttr(key string) bool {
	_, ok := n.Attr(key)
	return ok
}

// RemoveAttr removes an attribute if present.
func (n *Node) RemoveAttr(key string) {
	for i, a := range n.Attrs {
		if a.Key == key {
			n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			return
		}
	}
}

// SetProp assigns an in-memory property. Properties are never serialized.
func (n *Node) SetProp(name string, value any) {
	if n.props == nil {
		n.props = make(map[string]any)
	}
	n.props[name] = value
}

// Prop returns a property value and whether it has been assigned.
func (n *Node) Prop(name string) (any, bool) {
	v, ok := n.props[name]
	return v, ok
}
