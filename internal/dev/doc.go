// Package dev serves a live preview of a template.
//
// The server renders the page on every request, watches the template and
// data files with fsnotify, and tells connected browsers to reload over
// a WebSocket when they change. A failed load or render shows an error
// overlay instead of the page until the next successful change.
//
// # Endpoints
//
//	GET /               the rendered page with the reload client injected
//	GET /_loom/program  the compiled program listing
//	GET /_loom/reload   the reload WebSocket
//	GET /metrics        prometheus metrics, when the environment has them
//
// # Reload Protocol
//
// Messages are JSON-encoded:
//
//	{"type": "reload"}                // full page reload
//	{"type": "error", "error": "..."} // show the error overlay
//	{"type": "clear"}                 // hide the error overlay
package dev
