package reactive

import (
	"runtime"
	"sync"
)

// TrackingContext holds the reactive state for a goroutine.
// Each goroutine has its own tracking context so concurrent renders (for
// example, one per HTTP request in the preview server) never observe each
// other's listeners.
type TrackingContext struct {
	// currentOwner is the Owner that will own newly created effects.
	currentOwner *Owner

	// currentListener is what's currently tracking dependencies.
	// nil means no tracking (reads don't create subscriptions).
	currentListener Listener

	// batchDepth tracks nested Batch() calls.
	batchDepth int

	// pendingUpdates accumulates listeners to notify when a batch completes.
	pendingUpdates []Listener
}

// trackingContexts stores per-goroutine tracking contexts.
var trackingContexts sync.Map

// getGoroutineID returns a unique identifier for the current goroutine,
// parsed from the "goroutine <id> " header of the runtime stack.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := 10; i < n; i++ { // Skip "goroutine "
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// getTrackingContext returns the tracking context for the current goroutine,
// creating it on first use. Callers that change the context must call
// release afterwards so an idle goroutine leaves nothing behind.
func getTrackingContext() (*TrackingContext, uint64) {
	gid := getGoroutineID()

	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*TrackingContext), gid
	}

	ctx := &TrackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx, gid
}

// peekTrackingContext returns the current goroutine's context without
// creating one, or nil.
func peekTrackingContext() *TrackingContext {
	if ctx, ok := trackingContexts.Load(getGoroutineID()); ok {
		return ctx.(*TrackingContext)
	}
	return nil
}

// idle reports whether ctx carries no state, so dropping it loses nothing.
func (ctx *TrackingContext) idle() bool {
	return ctx.currentOwner == nil &&
		ctx.currentListener == nil &&
		ctx.batchDepth == 0 &&
		len(ctx.pendingUpdates) == 0
}

// release drops ctx once it has returned to its zero state. Goroutines
// come and go (one per preview request), so idle contexts must not pile up.
func release(ctx *TrackingContext, gid uint64) {
	if ctx.idle() {
		trackingContexts.Delete(gid)
	}
}

func getCurrentListener() Listener {
	if ctx := peekTrackingContext(); ctx != nil {
		return ctx.currentListener
	}
	return nil
}

// setCurrentListener sets the current listener and returns the previous one.
func setCurrentListener(l Listener) Listener {
	ctx, gid := getTrackingContext()
	old := ctx.currentListener
	ctx.currentListener = l
	release(ctx, gid)
	return old
}

func getCurrentOwner() *Owner {
	if ctx := peekTrackingContext(); ctx != nil {
		return ctx.currentOwner
	}
	return nil
}

// setCurrentOwner sets the current owner and returns the previous one.
func setCurrentOwner(o *Owner) *Owner {
	ctx, gid := getTrackingContext()
	old := ctx.currentOwner
	ctx.currentOwner = o
	release(ctx, gid)
	return old
}

func getBatchDepth() int {
	if ctx := peekTrackingContext(); ctx != nil {
		return ctx.batchDepth
	}
	return 0
}

func incrementBatchDepth() {
	ctx, _ := getTrackingContext()
	ctx.batchDepth++
}

// decrementBatchDepth returns true when the outermost batch completes.
func decrementBatchDepth() bool {
	ctx, gid := getTrackingContext()
	ctx.batchDepth--
	done := ctx.batchDepth == 0
	release(ctx, gid)
	return done
}

func queuePendingUpdate(l Listener) {
	ctx, _ := getTrackingContext()
	ctx.pendingUpdates = append(ctx.pendingUpdates, l)
}

func drainPendingUpdates() []Listener {
	ctx := peekTrackingContext()
	if ctx == nil {
		return nil
	}
	updates := ctx.pendingUpdates
	ctx.pendingUpdates = nil
	release(ctx, getGoroutineID())
	return updates
}

// WithOwner runs fn with owner as the current owner. Effects created inside
// fn are disposed together with owner.
//
// Example:
//
//	go func() {
//	    WithOwner(parentOwner, func() {
//	        CreateEffect(watch)
//	    })
//	}()
func WithOwner(owner *Owner, fn func()) {
	old := setCurrentOwner(owner)
	defer setCurrentOwner(old)
	fn()
}

// WithListener runs fn with l as the tracking listener.
func WithListener(l Listener, fn func()) {
	old := setCurrentListener(l)
	defer setCurrentListener(old)
	fn()
}
