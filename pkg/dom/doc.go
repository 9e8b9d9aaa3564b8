// Package dom provides the in-memory document tree that loom builds and patches.
//
// The tree mirrors the shape of a browser DOM closely enough for the runtime
// to perform localized mutations: nodes carry parent and sibling links, an
// ordered attribute list, a property map that is never serialized, and event
// listeners.
//
// # Node Kinds
//
// KindElement, KindText and KindComment map to their browser counterparts.
// KindFragment is a detached container; inserting a fragment moves its
// children into the target and leaves the fragment empty.
//
//	div := dom.NewElement("div")
//	div.SetAttr("class", "card")
//	div.AppendChild(dom.NewText("Hello"))
package dom
