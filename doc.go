// Package loom compiles HTML templates with value slots into reusable
// construction programs and runs them against a reactive runtime.
//
// A template is a list of literal fragments; a value goes between each
// pair. The first render of a template compiles it once; later renders
// reuse the program:
//
//	greeting := loom.T("<p>Hello ", "!</p>")
//	name := reactive.NewSignal("World")
//
//	res, err := loom.Render(greeting, name)
//	if err != nil {
//	    return err
//	}
//	defer res.Dispose()
//
//	name.Set("loom") // patches the text node in place
//
// Components are registered by name and used as capitalized tags:
//
//	loom.RegisterComponent("Card", registry.Func(func(p registry.Props, c *dom.Node) {
//	    ...
//	}))
//	page := loom.T(`<main><Card title="Hi">`, `</Card></main>`)
//
// An Environment bundles the registry, template cache, runtime, logger,
// metrics and tracer. Default returns a process-wide one used by the
// package-level functions.
package loom
