// Package vdom describes component trees for the headless host.
//
// A tree is built from VNode values: elements, text, fragments and
// component references. The host renderer (package host) turns a VNode tree
// into its internal fiber tree and a headless DOM; vdom itself holds no
// state.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Div(Class("card"), ID("main"),
//	    H1(Text("Title")),
//	    P(Text("Content")),
//	    Button(OnClick(handler), Text("Save")),
//	)
//
// # Components
//
// Components are defined once and referenced by pointer, which gives them a
// stable identity for queries:
//
//	var Greeting = vdom.Define("Greeting", func(p vdom.Props) *vdom.VNode {
//	    return vdom.Span(vdom.Textf("Hello %s", p["name"]))
//	})
//
//	tree := Greeting.New(vdom.Prop("name", "world"))
//
// Child nodes passed to a component are stored under the reserved
// "children" prop and read back with Props.Children.
package vdom
