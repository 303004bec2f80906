// Package errors provides structured, actionable failure messages for the
// vangotest harness.
//
// Every failure the harness reports carries a stable code (e.g. "VT101")
// that maps to a category, a short message and a longer explanation:
//
//	err := errors.New(errors.CodeAlreadyMounted).
//	    WithDetailf("root %s", id).
//	    WithSuggestion("Call Unmount() before mounting again")
//
//	fmt.Println(err.Format())
//	// Output:
//	// FAIL VT101: Attempted to mount a node that was already mounted
//	//
//	//   root r1
//	//
//	//   Hint: Call Unmount() before mounting again
//
// # Categories
//
//   - state: lifecycle misuse (double mount, operating on an unmounted root)
//   - query: ambiguous or impossible queries
//   - argument: invalid arguments passed to helpers
//   - archive: golden snapshot and archive failures
//   - config: missing or invalid vangotest.json / vangotest.yaml
package errors
