package vtest

import (
	"golang.org/x/net/html"

	"github.com/vango-dev/vangotest/pkg/host"
)

// builder materializes snapshots from host nodes.
type builder struct {
	resolver host.RevisionResolver
	root     *Root
}

// build returns what n contributes to its parent's child list together
// with the pre-order descendants of that contribution. Text becomes a text
// child; host roots splice their children into the parent.
func (b *builder) build(n host.Node) ([]Child, []*Element) {
	if n == nil {
		return nil, nil
	}
	n = b.resolver.CurrentRevision(n)
	if n == nil {
		return nil, nil
	}

	switch n.Tag() {
	case host.TagHostText:
		return []Child{{text: n.Text()}}, nil
	case host.TagHostRoot:
		return b.buildChildren(n.Child())
	}

	children, descendants := b.buildChildren(n.Child())
	el := newElement(kindOf(n, children), n.Type(), n.Props().Clone(), instanceOf(n), children, descendants, b.root)

	return []Child{{elem: el}}, append([]*Element{el}, descendants...)
}

// buildChildren walks a sibling chain in host order.
func (b *builder) buildChildren(first host.Node) ([]Child, []*Element) {
	var (
		children    []Child
		descendants []*Element
	)
	for c := first; c != nil; {
		c = b.resolver.CurrentRevision(c)
		if c == nil {
			break
		}
		kids, desc := b.build(c)
		children = append(children, kids...)
		descendants = append(descendants, desc...)
		c = c.Sibling()
	}
	return children, descendants
}

// element builds the single element at n, or nil when n is text, detached
// or splices into several nodes.
func (b *builder) element(n host.Node) *Element {
	children, _ := b.build(n)
	if len(children) != 1 {
		return nil
	}
	return children[0].elem
}

// kindOf classifies a non-text node. Host elements are containers when
// they have element children.
func kindOf(n host.Node, children []Child) Kind {
	if n.Tag() != host.TagHostComponent {
		return Component
	}
	for _, c := range children {
		if c.elem != nil {
			return HostContainer
		}
	}
	return HostLeaf
}

func instanceOf(n host.Node) *html.Node {
	if n.Tag() != host.TagHostComponent {
		return nil
	}
	return n.StateNode()
}
