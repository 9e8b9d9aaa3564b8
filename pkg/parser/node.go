package parser

import "strings"

// Marker is the in-band sentinel joined between template fragments.
const Marker = "{{loom-slot}}"

// Join concatenates fragments with Marker between each pair.
func Join(fragments []string) string {
	return strings.Join(fragments, Marker)
}

// CountMarkers returns the number of markers in s.
func CountMarkers(s string) int {
	return strings.Count(s, Marker)
}

// Node is a parsed template node: *Text, *Comment or *Tag.
type Node interface {
	node()
}

// Text is literal character data, possibly containing markers.
type Text struct {
	Data string
	Line int
}

// Comment is an HTML comment. A comment whose data is exactly Marker is a
// dynamic child placeholder.
type Comment struct {
	Data string
	Line int
}

// Attr is a single attribute in source order.
type Attr struct {
	Name  string
	Value string

	// HasValue is false for bare attributes such as <input disabled>.
	HasValue bool
}

// Tag is an element or component tag.
type Tag struct {
	Name        string
	Attrs       []Attr
	Children    []Node
	SelfClosing bool
	Line        int
}

func (*Text) node()    {}
func (*Comment) node() {}
func (*Tag) node()     {}

// IsPlaceholder reports whether c stands for a dynamic child.
func (c *Comment) IsPlaceholder() bool {
	return c.Data == Marker
}
