// Package loomtest provides helpers for testing templates and components.
//
// # Quick Start
//
//	func TestCard(t *testing.T) {
//	    env := loom.New()
//	    env.Register("Card", NewCard)
//
//	    res := loomtest.Render(t, env, loom.T(`<Card title="Hi"/>`))
//	    loomtest.ExpectElement(t, res.Container, "section")
//	    loomtest.ExpectAttribute(t, res.Container, "title", "Hi")
//	}
//
// Render disposes the result when the test ends. Assertions serialize
// with anchors omitted, so expectations do not depend on where dynamic
// regions sit.
package loomtest
