package host

import (
	"sync/atomic"

	"github.com/vango-dev/vangotest/pkg/vango"
	"github.com/vango-dev/vangotest/pkg/vdom"
)

// ComponentInstance is a mounted component with its reactive owner. It is
// shared by both fibers of its position.
type ComponentInstance struct {
	id    uint64
	def   *vdom.ComponentDef
	owner *vango.Owner
	r     *Renderer

	props      vdom.Props
	lastVNode  *vdom.VNode
	lastOutput *vdom.VNode

	dirty    atomic.Bool
	disposed atomic.Bool
}

var _ vango.Listener = (*ComponentInstance)(nil)

func newComponentInstance(r *Renderer, def *vdom.ComponentDef, parent *vango.Owner) *ComponentInstance {
	return &ComponentInstance{
		id:    vango.NextID(),
		def:   def,
		owner: vango.NewOwner(parent),
		r:     r,
	}
}

// ID implements vango.Listener.
func (c *ComponentInstance) ID() uint64 {
	return c.id
}

// Def returns the component definition.
func (c *ComponentInstance) Def() *vdom.ComponentDef {
	return c.def
}

// Owner returns the component's reactive owner.
func (c *ComponentInstance) Owner() *vango.Owner {
	return c.owner
}

// MarkDirty implements vango.Listener by scheduling a re-render.
func (c *ComponentInstance) MarkDirty() {
	if c.disposed.Load() {
		return
	}
	if c.dirty.CompareAndSwap(false, true) {
		c.r.scheduleUpdate("component", c.def.Name())
	}
}

// IsDirty reports whether a re-render is pending.
func (c *ComponentInstance) IsDirty() bool {
	return c.dirty.Load()
}

// needsRender applies the bailout rule: a component re-renders when it is
// dirty or was handed a different vnode than last time.
func (c *ComponentInstance) needsRender(v *vdom.VNode) bool {
	return c.lastVNode == nil || c.lastVNode != v || c.dirty.Load()
}

// render runs the component with tracking, owner and runtime context set.
func (c *ComponentInstance) render(v *vdom.VNode) *vdom.VNode {
	c.dirty.Store(false)
	c.props = v.Props
	c.lastVNode = v

	var out *vdom.VNode
	vango.WithCtx(c.r, func() {
		vango.WithOwner(c.owner, func() {
			c.owner.StartRender()
			defer c.owner.EndRender()

			vango.WithListener(c, func() {
				out = c.def.Render(v.Props)
			})
		})
	})
	c.lastOutput = out
	return out
}

// dispose tears down the owner, running effect cleanups.
func (c *ComponentInstance) dispose() {
	if !c.disposed.CompareAndSwap(false, true) {
		return
	}
	c.owner.Dispose()
	c.lastVNode = nil
	c.lastOutput = nil
}
