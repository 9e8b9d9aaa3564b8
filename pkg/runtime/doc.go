// Package runtime executes compiled programs against call-time values and
// keeps the resulting DOM patched as reactive inputs change.
//
// The primitives mirror the compiler's instruction set:
//
//	Insert            dynamic child regions
//	CreateComponent   registry lookup, props, mount
//	AddEventListener  handler registration
//	SetAttribute      static or reactive attributes
//	SetBoolAttribute  attribute presence
//	SetProperty       in-memory node properties
//	SetRef            node references
//
// Every call-time value is converted once into a Value (Empty, Static,
// Reactive, NodeValue, NodeList or DirectiveValue) and dispatched
// exhaustively from there.
//
// # Lifetimes
//
// Every primitive that subscribes to reactive state records its disposer in
// a Scope. Disposing the scope stops effects and tears regions down: region
// cleanups run in reverse order, then the region's nodes are detached.
// Panics inside a region recomputation or a cleanup are recovered, logged
// and counted; the rest of the tree keeps working.
//
// A Runtime is not safe for concurrent use. Reactive updates must reach it
// from one goroutine at a time.
package runtime
