package host

import (
	"strconv"

	"github.com/vango-dev/vangotest/pkg/vango"
	"github.com/vango-dev/vangotest/pkg/vdom"
)

// flattenChildren expands unkeyed fragments in place and drops nil nodes.
// Keyed fragments keep their own position.
func flattenChildren(children []*vdom.VNode) []*vdom.VNode {
	out := make([]*vdom.VNode, 0, len(children))
	var walk func(nodes []*vdom.VNode)
	walk = func(nodes []*vdom.VNode) {
		for _, n := range nodes {
			switch {
			case n == nil:
			case n.Kind == vdom.KindFragment && n.Key == "":
				walk(n.Children)
			default:
				out = append(out, n)
			}
		}
	}
	walk(children)
	return out
}

// fiberTagFor returns the fiber tag and type identity for a vnode.
func fiberTagFor(v *vdom.VNode) (FiberTag, vdom.ElementType) {
	switch v.Kind {
	case vdom.KindText:
		return TagHostText, nil
	case vdom.KindFragment:
		return TagFragment, nil
	case vdom.KindComponent:
		return TagFunctionComponent, v.Type()
	default:
		return TagHostComponent, v.Type()
	}
}

// matchKey is the reconciliation key of a child: the explicit key if any,
// otherwise its index among the parent's children.
func matchKey(key string, index int) string {
	if key != "" {
		return "k:" + key
	}
	return "#" + strconv.Itoa(index)
}

// reconcileChildren builds wip's child list from children, reusing fibers
// of currentFirst when key and type identity match. Unmatched current
// fibers are queued for deletion.
func (r *Renderer) reconcileChildren(wip *Fiber, currentFirst *Fiber, children []*vdom.VNode, owner *vango.Owner) {
	existing := make(map[string]*Fiber)
	var order []string
	var duplicates []*Fiber
	for f, i := currentFirst, 0; f != nil; f, i = f.sibling, i+1 {
		k := matchKey(f.key, i)
		if _, dup := existing[k]; dup {
			duplicates = append(duplicates, f)
			continue
		}
		existing[k] = f
		order = append(order, k)
	}

	var prev *Fiber
	seen := make(map[string]bool)
	for i, v := range flattenChildren(children) {
		tag, typ := fiberTagFor(v)
		k := matchKey(v.Key, i)
		if v.Key != "" {
			if seen[k] {
				r.logger.Warn("duplicate key among siblings", "key", v.Key, "parent", wip.tag.String())
			}
			seen[k] = true
		}

		var f *Fiber
		if old, ok := existing[k]; ok && old.sameIdentity(tag, typ) {
			delete(existing, k)
			f = createWorkInProgress(old)
		} else {
			f = &Fiber{tag: tag, typ: typ, key: v.Key}
		}
		f.parent = wip
		if prev == nil {
			wip.child = f
		} else {
			prev.sibling = f
		}
		prev = f

		r.beginWork(f, v, owner)
	}

	// Current fibers sharing a key never match; they are deleted with the
	// rest of the unmatched siblings.
	for _, k := range order {
		if old, ok := existing[k]; ok {
			r.queueDeletion(old)
		}
	}
	for _, old := range duplicates {
		r.queueDeletion(old)
	}
}

// beginWork renders one fiber from v and reconciles its children.
func (r *Renderer) beginWork(f *Fiber, v *vdom.VNode, owner *vango.Owner) {
	// A reused fiber's alternate is the committed half of the position.
	var currentChild *Fiber
	if f.alternate != nil {
		currentChild = f.alternate.child
	}

	switch f.tag {
	case TagHostText:
		f.text = v.Text
		f.props = nil
		f.element = v

	case TagHostComponent:
		f.props = v.Props
		f.element = v
		r.reconcileChildren(f, currentChild, v.Children, owner)

	case TagFragment:
		f.props = v.Props
		f.element = v
		r.reconcileChildren(f, currentChild, v.Children, owner)

	case TagFunctionComponent:
		inst := f.inst
		if inst == nil {
			inst = newComponentInstance(r, v.Comp, owner)
			f.inst = inst
		}
		out := inst.lastOutput
		if inst.needsRender(v) {
			out = inst.render(v)
		}
		f.props = v.Props
		f.element = v

		var children []*vdom.VNode
		if out != nil {
			children = []*vdom.VNode{out}
		}
		r.reconcileChildren(f, currentChild, children, inst.owner)
	}
}

func (r *Renderer) queueDeletion(f *Fiber) {
	r.mu.Lock()
	r.deletions = append(r.deletions, f)
	r.mu.Unlock()
}
