package compiler

import "log/slog"

// Components reports whether a component name is registered.
// *registry.Registry satisfies it.
type Components interface {
	Has(name string) bool
}

type options struct {
	debug      bool
	logger     *slog.Logger
	components Components
}

// Option configures a compilation.
type Option func(*options)

// WithDebug enables diagnostics: a dump of every compiled program and a
// warning for each component tag that is not registered yet.
func WithDebug(debug bool) Option {
	return func(o *options) { o.debug = debug }
}

// WithLogger sets the logger diagnostics are written to.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithComponents sets the registry consulted by the naming check.
func WithComponents(c Components) Option {
	return func(o *options) { o.components = c }
}
