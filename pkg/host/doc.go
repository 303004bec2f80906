// Package host is a headless component renderer. It turns vdom trees into
// *html.Node trees through a double-buffered fiber tree and settles all
// scheduled work inside Act.
//
// # Fibers
//
// Every position in the rendered tree is backed by a pair of fibers: the
// committed one and its alternate, which is reused as the work-in-progress
// copy on the next render. A fiber handle captured before an update may
// therefore be the stale half of its pair; CurrentRevision resolves the
// committed half by comparing commit sequence numbers.
//
// # Act
//
// Act runs a function and then flushes until the renderer is quiescent:
//
//	r.Act(func() {
//	    r.Render(tree)
//	})
//
// Each flush iteration runs dispatched tasks, re-renders dirty components,
// commits the result to the DOM and runs pending effects. Updates scheduled
// outside Act are queued and applied by the next Act; the renderer logs a
// warning for each.
//
// # Time
//
// Timers started through vango.UseCtx().After use the renderer's Clock,
// which only moves when advanced explicitly.
package host
