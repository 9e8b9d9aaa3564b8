// Package parser turns literal template text into a forest of tag, text and
// comment nodes.
//
// Template fragments are joined with Marker before parsing. The parser treats
// markers as opaque text: they survive inside text content, attribute values
// and comments exactly as written, and the compiler discovers them afterwards.
// Tag and attribute names keep their source case so that component names
// (<Card>) and property bindings (.textContent) round-trip.
//
// Tokenization is delegated to golang.org/x/net/html; tree building is
// deliberately forgiving (unmatched end tags are ignored, unclosed tags are
// closed at end of input) because templates are fragments, not documents.
package parser
