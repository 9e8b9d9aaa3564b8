// Package render serializes loom DOM trees to HTML.
//
// The renderer handles text and attribute escaping, void elements, raw text
// elements (script, style) and optional pretty printing. Properties and event
// listeners live only in memory and are never serialized.
//
// # Basic Usage
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(node)
//
// Anchor comments inserted by the runtime are kept by default so the output
// reflects the live tree; set OmitAnchors for export output.
//
// # Full Page Rendering
//
//	err := renderer.RenderPage(w, render.PageData{Title: "Preview", Body: nodes})
package render
