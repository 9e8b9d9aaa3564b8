package reactive

// Listener is anything that can be notified when a dependency changes.
// Memos and effects implement it.
type Listener interface {
	// MarkDirty notifies the listener that one of its dependencies has changed.
	// For memos, this invalidates the cached value.
	// For effects, this re-runs the effect.
	MarkDirty()

	// ID returns a unique identifier for this listener.
	// Used for deduplication during batch processing.
	ID() uint64
}

// Cleanup is a function returned by effects to clean up resources.
// It is called before the effect re-runs and when the effect is disposed.
type Cleanup func()

// Readable is implemented by every signal and memo regardless of its type
// parameter. Reading through it tracks the dependency like Get does.
type Readable interface {
	AnyValue() any
}

// sourceTracker is implemented by listeners that remember their sources so
// they can unsubscribe before re-running.
type sourceTracker interface {
	Listener
	addSource(source *signalBase)
}

// track subscribes the current listener, if any, to source.
func track(source *signalBase) {
	listener := getCurrentListener()
	if listener == nil {
		return
	}
	source.subscribe(listener)
	if st, ok := listener.(sourceTracker); ok {
		st.addSource(source)
	}
}
