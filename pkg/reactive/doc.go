// Package reactive provides the fine-grained reactive primitives that drive
// loom's dynamic regions.
//
// Dependencies are tracked automatically at runtime: reading a Signal or Memo
// while an Effect runs subscribes that effect, and writing the signal re-runs
// it synchronously.
//
// # Core Types
//
// Signal[T] is a reactive value container:
//
//	count := NewSignal(0)
//	value := count.Get()  // Read (subscribes current listener)
//	count.Set(5)          // Write (re-runs subscribed effects)
//
// Memo[T] is a cached derived computation:
//
//	doubled := NewMemo(func() int { return count.Get() * 2 })
//
// Effect runs side effects when dependencies change:
//
//	CreateEffect(func() Cleanup {
//	    fmt.Println("Count is:", count.Get())
//	    return nil
//	})
//
// # Batching
//
// Updates inside Batch are collected and subscribers are notified once, when
// the outermost batch returns.
//
// # Adapter
//
// Adapter implements the runtime's signal contract on top of this package:
// raw-signal detection, untyped reads and effect scheduling.
package reactive
