// Package vango provides the reactive core used by the headless host.
//
// Reading a signal during component render subscribes the component to
// that signal's changes; writing it marks the component dirty so the host
// re-renders it at the next flush.
//
// # Core Types
//
// Signal[T] is a reactive value container:
//
//	count := NewSignal(0)
//	value := count.Get()  // Read (subscribes current listener)
//	count.Set(5)          // Write (notifies subscribers)
//	count.Update(func(n int) int { return n + 1 })
//
// Inside a component render, hooks give state a stable identity across
// renders:
//
//	count := vango.UseSignal(0)
//	vango.UseEffect(func() vango.Cleanup {
//	    cancel := vango.UseCtx().After(200*time.Millisecond, func() { count.Set(100) })
//	    return cancel
//	})
//
// Effects created with UseEffect are scheduled on the component's Owner and
// run by the host after the render has been committed.
//
// # Batching
//
// Multiple signal updates can be batched to trigger a single notification:
//
//	Batch(func() {
//	    a.Set(1)
//	    b.Set(2)
//	})  // Single notification after all updates
//
// # Thread Safety
//
// The tracking context is per-goroutine, so independent hosts can render on
// parallel test goroutines.
package vango
