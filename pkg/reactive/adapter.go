package reactive

// Adapter exposes this package through the runtime's signal contract.
// The zero value is ready to use. Effects created through it are owned by
// the current Owner, if any.
type Adapter struct{}

// IsRawSignal reports whether v is a signal or memo.
func (Adapter) IsRawSignal(v any) bool {
	_, ok := v.(Readable)
	return ok
}

// Get reads a signal or memo, tracking the dependency. Other values are
// returned unchanged.
func (Adapter) Get(v any) any {
	if r, ok := v.(Readable); ok {
		return r.AnyValue()
	}
	return v
}

// CreateEffect runs fn now and again whenever a value it read changes.
// The returned function disposes the effect.
func (Adapter) CreateEffect(fn func()) func() {
	e := CreateEffect(func() Cleanup {
		fn()
		return nil
	})
	return e.Dispose
}

// Untracked runs fn without subscribing the current effect.
func (Adapter) Untracked(fn func()) {
	Untracked(fn)
}
