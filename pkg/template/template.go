package template

import (
	"strconv"
	"sync/atomic"
)

var lastID atomic.Uint64

// Template is an ordered list of literal fragments with a value slot
// between each pair.
type Template struct {
	id        uint64
	name      string
	fragments []string
}

// New creates a template with a fresh identity.
func New(fragments ...string) *Template {
	return Named("", fragments...)
}

// Named creates a template whose key carries name, such as a file path.
func Named(name string, fragments ...string) *Template {
	return &Template{
		id:        lastID.Add(1),
		name:      name,
		fragments: append([]string(nil), fragments...),
	}
}

// ID returns the template's process-unique identity.
func (t *Template) ID() uint64 {
	return t.id
}

// Key identifies the template in errors and diagnostics.
func (t *Template) Key() string {
	if t.name == "" {
		return "template#" + strconv.FormatUint(t.id, 10)
	}
	return t.name + "#" + strconv.FormatUint(t.id, 10)
}

// Fragments returns a copy of the literal fragments.
func (t *Template) Fragments() []string {
	return append([]string(nil), t.fragments...)
}

// Slots returns the number of values an invocation must supply.
func (t *Template) Slots() int {
	if len(t.fragments) == 0 {
		return 0
	}
	return len(t.fragments) - 1
}
