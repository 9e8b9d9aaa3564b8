// Package registry maps component tag names to constructors.
//
// A Registry is consulted twice: by the compiler, to warn in debug mode
// about component tags that are not registered yet, and by the runtime, to
// instantiate a component when a template is executed.
//
//	reg := registry.New()
//	reg.Register("Card", func(p registry.Props) registry.Component {
//	    return &Card{title: p.String("title"), children: p.Children}
//	})
//
// Registration is idempotent per name; the last write wins.
package registry
