// Package render converts vdom trees to HTML without mounting them.
//
// Components are rendered with a throwaway reactive owner, so hooks work
// but effects never run. Use it for static markup checks and for printing
// expected trees in failure messages; mount through vtest for anything
// interactive.
//
//	r := render.NewRenderer(render.RendererConfig{})
//	html, err := r.RenderToString(node)
//
// Text and attribute values are always escaped.
package render
