package host

import (
	"golang.org/x/net/html"

	"github.com/vango-dev/vangotest/pkg/dom"
)

// commit applies the work-in-progress tree to the DOM, stamps every fiber
// with a new commit sequence and installs wip as the current root.
func (r *Renderer) commit(wip *Fiber) {
	r.mu.Lock()
	r.seq++
	seq := r.seq
	deletions := r.deletions
	r.deletions = nil
	r.mu.Unlock()

	for _, f := range deletions {
		r.commitDeletion(f)
	}

	r.commitWork(wip, seq)

	r.mu.Lock()
	r.root = wip
	r.mu.Unlock()

	r.logger.Debug("commit", "seq", seq, "deletions", len(deletions))
}

// commitWork commits children before their parent so every host child
// already has its DOM node when the parent's child list is rebuilt.
func (r *Renderer) commitWork(f *Fiber, seq uint64) {
	for c := f.child; c != nil; c = c.sibling {
		r.commitWork(c, seq)
	}

	switch f.tag {
	case TagHostText:
		if f.dom == nil {
			f.dom = dom.CreateText(f.text)
		} else {
			dom.SetText(f.dom, f.text)
		}

	case TagHostComponent:
		if f.dom == nil {
			f.dom = dom.CreateElement(f.typ.TypeName())
		}
		dom.SyncAttributes(f.dom, f.props)
		dom.ReplaceChildren(f.dom, hostChildren(f))

	case TagHostRoot:
		dom.ReplaceChildren(f.dom, hostChildren(f))
	}

	f.committed = seq
}

// hostChildren returns the nearest host nodes below f, looking through
// components and fragments.
func hostChildren(f *Fiber) []*html.Node {
	var out []*html.Node
	var walk func(*Fiber)
	walk = func(p *Fiber) {
		for c := p.child; c != nil; c = c.sibling {
			switch c.tag {
			case TagHostComponent, TagHostText:
				if c.dom != nil {
					out = append(out, c.dom)
				}
			default:
				walk(c)
			}
		}
	}
	walk(f)
	return out
}

// commitDeletion disposes every component in the subtree and detaches its
// top-level host nodes.
func (r *Renderer) commitDeletion(f *Fiber) {
	var walk func(*Fiber)
	walk = func(p *Fiber) {
		for c := p.child; c != nil; c = c.sibling {
			walk(c)
		}
		if p.inst != nil {
			p.inst.dispose()
		}
	}
	walk(f)

	switch f.tag {
	case TagHostComponent, TagHostText:
		dom.Detach(f.dom)
	default:
		for _, n := range hostChildren(f) {
			dom.Detach(n)
		}
	}
}
