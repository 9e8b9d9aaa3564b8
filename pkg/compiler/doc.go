// Package compiler lowers a parsed template into an instruction program.
//
// A template is an ordered list of literal fragments with a value slot
// between each pair. The compiler joins the fragments with parser.Marker,
// parses the result once, and walks the forest depth-first, left to right,
// emitting a flat list of instructions per Block. Slot indices are assigned
// in discovery order, so the n-th marker met during the walk reads the n-th
// call-time value regardless of whether it sits in text, an attribute or a
// component prop.
//
// Programs are immutable and safe to share between goroutines. The runtime
// package interprets them.
//
// # Attributes
//
// Attributes on plain elements are dispatched by prefix:
//
//	@click=${fn}      event listener
//	.value=${v}       property assignment
//	?disabled=${b}    boolean attribute
//	ref=${r}          node reference
//	title=${t}        dynamic attribute
//	href="/u/${id}"   interpolated attribute
//	class="card"      static attribute, set once
//
// # Anchors
//
// A dynamic child is preceded by an empty comment anchor when its parent has
// another dynamic child or when static siblings follow it. The anchor marks
// where the child's region is re-inserted on every recomputation.
package compiler
