package loom

import "sync"

var (
	defaultOnce sync.Once
	defaultEnv  *Environment
)

// Default returns the process-wide environment. It follows SetDebug.
func Default() *Environment {
	defaultOnce.Do(func() { defaultEnv = New() })
	return defaultEnv
}

// RegisterComponent registers a component on the default environment.
func RegisterComponent(name string, ctor Constructor) {
	Default().Register(name, ctor)
}

// RegisterComponents registers every component in m on the default
// environment.
func RegisterComponents(m map[string]Constructor) {
	Default().RegisterAll(m)
}

// Render renders t on the default environment.
func Render(t *Template, values ...any) (*Result, error) {
	return Default().Render(t, values...)
}

// RenderHTML renders t to HTML on the default environment.
func RenderHTML(t *Template, values ...any) (string, error) {
	return Default().RenderHTML(t, values...)
}
