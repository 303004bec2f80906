package host

import (
	"golang.org/x/net/html"

	"github.com/vango-dev/vangotest/pkg/vdom"
)

// FiberTag discriminates the kind of tree position a fiber represents.
type FiberTag uint8

const (
	TagHostRoot FiberTag = iota
	TagHostComponent
	TagHostText
	TagFunctionComponent
	TagFragment
)

// String returns the string representation of the tag.
func (t FiberTag) String() string {
	switch t {
	case TagHostRoot:
		return "HostRoot"
	case TagHostComponent:
		return "HostComponent"
	case TagHostText:
		return "HostText"
	case TagFunctionComponent:
		return "FunctionComponent"
	case TagFragment:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// Node is read access to one position of the rendered tree.
type Node interface {
	Tag() FiberTag
	Type() vdom.ElementType

	// Props returns the live props of the position. Callers must not
	// mutate the map; it may be reused by later renders.
	Props() vdom.Props

	// Text returns the content of a HostText node.
	Text() string

	Child() Node
	Sibling() Node

	// StateNode returns the platform node of host positions.
	StateNode() *html.Node
}

// RevisionResolver resolves the latest committed revision of a node.
type RevisionResolver interface {
	CurrentRevision(n Node) Node
}
