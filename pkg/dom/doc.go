// Package dom is the headless platform layer of the host: real
// *html.Node trees from golang.org/x/net/html, created and mutated by the
// host renderer and read by the test harness.
//
// A Document holds a single <html><head/><body/></html> tree. Every mounted
// instance gets its own container element appended to the body, so markup
// produced by OuterHTML reflects exactly what a browser would hold.
package dom
