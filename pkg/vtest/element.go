package vtest

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/vango-dev/vangotest/pkg/dom"
	"github.com/vango-dev/vangotest/pkg/vdom"
)

// Kind discriminates snapshot nodes.
type Kind uint8

const (
	// HostLeaf is a platform element without element children.
	HostLeaf Kind = iota
	// HostContainer is a platform element with element children.
	HostContainer
	// Component is a user component or keyed fragment.
	Component
	// TextLeaf is raw text. Text only appears as a Child.
	TextLeaf
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case HostLeaf:
		return "HostLeaf"
	case HostContainer:
		return "HostContainer"
	case Component:
		return "Component"
	case TextLeaf:
		return "TextLeaf"
	default:
		return "Unknown"
	}
}

// IsHost reports whether the kind has a platform node.
func (k Kind) IsHost() bool {
	return k == HostLeaf || k == HostContainer
}

// Child is one immediate child of an Element: either text or an element.
type Child struct {
	text string
	elem *Element
}

// Element returns the child element, or nil for text.
func (c Child) Element() *Element {
	return c.elem
}

// IsText reports whether the child is raw text.
func (c Child) IsText() bool {
	return c.elem == nil
}

// Kind returns TextLeaf for text, the element's kind otherwise.
func (c Child) Kind() Kind {
	if c.elem == nil {
		return TextLeaf
	}
	return c.elem.kind
}

// Text returns the literal text of a text child, or the text content of
// an element child.
func (c Child) Text() string {
	if c.elem == nil {
		return c.text
	}
	return c.elem.Text()
}

// Element is one node of a snapshot. It never changes after the snapshot
// is built.
type Element struct {
	kind     Kind
	typ      vdom.ElementType
	props    vdom.Props
	instance *html.Node

	children    []Child
	elements    []*Element
	descendants []*Element

	root *Root
}

func newElement(kind Kind, typ vdom.ElementType, props vdom.Props, instance *html.Node, children []Child, descendants []*Element, root *Root) *Element {
	e := &Element{
		kind:        kind,
		typ:         typ,
		props:       props,
		instance:    instance,
		children:    children,
		descendants: descendants,
		root:        root,
	}
	for _, c := range children {
		if c.elem != nil {
			e.elements = append(e.elements, c.elem)
		}
	}
	return e
}

// Kind returns the node's kind.
func (e *Element) Kind() Kind { return e.kind }

// Type returns the node's type: a vdom.Tag for host elements, the
// *vdom.ComponentDef for components and nil for keyed fragments.
func (e *Element) Type() vdom.ElementType { return e.typ }

// IsDOM reports whether the node is a platform element.
func (e *Element) IsDOM() bool { return e.kind.IsHost() }

// Instance returns the platform node of host elements, nil otherwise.
func (e *Element) Instance() *html.Node { return e.instance }

// Root returns the root the snapshot was taken from.
func (e *Element) Root() *Root { return e.root }

// Props returns a copy of the node's props.
func (e *Element) Props() vdom.Props { return e.props.Clone() }

// Prop returns a single prop value.
func (e *Element) Prop(key string) any { return e.props[key] }

// HasProp reports whether the prop key is present.
func (e *Element) HasProp(key string) bool {
	_, ok := e.props[key]
	return ok
}

// ChildNodes returns the immediate children, text included, in order.
func (e *Element) ChildNodes() []Child {
	return append([]Child(nil), e.children...)
}

// Children returns the immediate element children.
func (e *Element) Children() []*Element {
	return append([]*Element(nil), e.elements...)
}

// Descendants returns every element below e in pre-order.
func (e *Element) Descendants() []*Element {
	return append([]*Element(nil), e.descendants...)
}

// Text returns the text content: the platform's for host elements, the
// concatenation of the children's text otherwise.
func (e *Element) Text() string {
	if e.instance != nil {
		return dom.TextContent(e.instance)
	}
	var sb strings.Builder
	for _, c := range e.children {
		sb.WriteString(c.Text())
	}
	return sb.String()
}

// HTML returns the inner markup: the platform's for host elements, the
// concatenation of the children's markup otherwise. Text children are
// escaped.
func (e *Element) HTML() string {
	if e.instance != nil {
		return dom.InnerHTML(e.instance)
	}
	var sb strings.Builder
	for _, c := range e.children {
		if c.elem == nil {
			sb.WriteString(html.EscapeString(c.text))
			continue
		}
		sb.WriteString(c.elem.outerHTML())
	}
	return sb.String()
}

// outerHTML is the markup a node contributes to its parent.
func (e *Element) outerHTML() string {
	if e.instance != nil {
		return dom.OuterHTML(e.instance)
	}
	return e.HTML()
}

// Debug returns the outer markup of the node.
func (e *Element) Debug() string {
	return e.outerHTML()
}

// String returns a short description such as <div /> or <Counter />.
func (e *Element) String() string {
	if e.typ == nil {
		return "<Fragment />"
	}
	return "<" + e.typ.TypeName() + " />"
}
