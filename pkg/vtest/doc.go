// Package vtest mounts component trees into a headless host and lets
// tests query and drive them through immutable snapshots.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    root := vtest.Mount(t, Counter.New())
//
//	    root.Find(vtest.ByTag("button")).Trigger("onclick")
//
//	    if got := root.Find(vtest.ByTag("span")).Text(); got != "1" {
//	        t.Fatalf("count = %q, want 1", got)
//	    }
//	}
//
// # Snapshots
//
// Every query runs against a snapshot: an immutable tree of *Element
// values copied from the host after its last settled update. Perform (and
// everything built on it: Trigger, SetProps, ForceUpdate, Unmount) runs an
// action inside the host's Act boundary, waits for every render, effect
// and dispatched task it caused, then swaps in a fresh snapshot. Elements
// captured earlier keep their old values.
//
// # Matchers
//
// Find, FindAll, Is and Contains take a Matcher:
//
//	root.Find(vtest.ByTag("div"))                         // type only
//	root.Find(vtest.ByComponent(SearchFor))               // type only
//	root.Find(vtest.Where(func(e *vtest.Element) bool {   // predicate
//	    return e.Prop("disabled") == true
//	}))
//	root.Contains(vtest.Like(SearchFor.New(vdom.Prop("aProp", "foo")))) // template
//
// Template matching compares the template's props one way and shallowly:
// the candidate may carry extra props, functions compare by identity.
//
// # Failures
//
// Misuse (querying an unmounted root, mounting twice, an ambiguous
// GetDOMNode) fails the test through TB.Fatal with a coded
// *errors.HarnessError.
//
// # Live Instances
//
// Mounted roots are tracked in a process-wide registry. Call Cleanup(t) at
// the start of a test, or Drain between tests, to destroy leftovers.
package vtest
