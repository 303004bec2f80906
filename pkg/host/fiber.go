package host

import (
	"golang.org/x/net/html"

	"github.com/vango-dev/vangotest/pkg/vdom"
)

// Fiber is one half of a tree position's double buffer.
type Fiber struct {
	tag   FiberTag
	typ   vdom.ElementType
	key   string
	props vdom.Props
	text  string

	// element is the vnode the fiber was last rendered from.
	element *vdom.VNode

	parent  *Fiber
	child   *Fiber
	sibling *Fiber

	alternate *Fiber
	dom       *html.Node
	inst      *ComponentInstance

	// committed is the commit sequence that last installed this fiber.
	committed uint64
}

var _ Node = (*Fiber)(nil)

func (f *Fiber) Tag() FiberTag          { return f.tag }
func (f *Fiber) Type() vdom.ElementType { return f.typ }
func (f *Fiber) Props() vdom.Props      { return f.props }
func (f *Fiber) Text() string           { return f.text }
func (f *Fiber) StateNode() *html.Node  { return f.dom }

// Key returns the reconciliation key.
func (f *Fiber) Key() string { return f.key }

// Committed returns the commit sequence that last installed the fiber.
func (f *Fiber) Committed() uint64 { return f.committed }

// Alternate returns the other half of the fiber's double buffer.
func (f *Fiber) Alternate() *Fiber { return f.alternate }

// Instance returns the component instance of a FunctionComponent fiber.
func (f *Fiber) Instance() *ComponentInstance { return f.inst }

func (f *Fiber) Child() Node {
	if f.child == nil {
		return nil
	}
	return f.child
}

func (f *Fiber) Sibling() Node {
	if f.sibling == nil {
		return nil
	}
	return f.sibling
}

// createWorkInProgress returns the alternate of current prepared for a new
// render, allocating it on first use.
func createWorkInProgress(current *Fiber) *Fiber {
	wip := current.alternate
	if wip == nil {
		wip = &Fiber{
			tag:       current.tag,
			typ:       current.typ,
			key:       current.key,
			alternate: current,
		}
		current.alternate = wip
	}
	wip.props = current.props
	wip.text = current.text
	wip.element = current.element
	wip.dom = current.dom
	wip.inst = current.inst
	wip.parent = nil
	wip.child = nil
	wip.sibling = nil
	return wip
}

// sameIdentity reports whether a vnode can update the fiber in place.
func (f *Fiber) sameIdentity(tag FiberTag, typ vdom.ElementType) bool {
	return f.tag == tag && f.typ == typ
}

// Resolver implements RevisionResolver for fibers produced by a Renderer.
type Resolver struct{}

// CurrentRevision returns whichever half of n's double buffer was
// committed last. Nodes of other implementations are returned unchanged.
func (Resolver) CurrentRevision(n Node) Node {
	f, ok := n.(*Fiber)
	if !ok || f == nil {
		return n
	}
	if alt := f.alternate; alt != nil && alt.committed > f.committed {
		return alt
	}
	return f
}
