package vtest

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/net/html"

	"github.com/vango-dev/vangotest/internal/errors"
	"github.com/vango-dev/vangotest/pkg/dom"
	"github.com/vango-dev/vangotest/pkg/host"
	"github.com/vango-dev/vangotest/pkg/vango"
	"github.com/vango-dev/vangotest/pkg/vdom"
)

// Root owns one mounted tree and its current snapshot.
type Root struct {
	id   uint64
	name string
	tb   TB
	cfg  rootConfig
	tree *vdom.VNode

	overrides *vango.Signal[vdom.Props]
	version   *vango.Signal[int]
	wrapper   *vdom.ComponentDef

	clock     *host.Clock
	container *html.Node
	renderer  *host.Renderer
	builder   *builder

	mu       sync.RWMutex
	attached bool
	mounted  bool
	snapshot *Element
	markup   string
	resyncs  int
}

// New creates an unmounted root for tree. Call Mount to render it.
func New(tb TB, tree *vdom.VNode, opts ...Option) *Root {
	cfg := defaultRootConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.clockStart.IsZero() {
		cfg.clockStart = host.DefaultClockStart
	}

	r := &Root{
		id:        vango.NextID(),
		name:      cfg.name,
		tb:        tb,
		cfg:       cfg,
		tree:      tree,
		overrides: vango.NewSignal(vdom.Props(nil)),
		version:   vango.NewSignal(0),
		clock:     host.NewClock(cfg.clockStart),
	}
	if r.name == "" {
		r.name = treeName(tree)
	}
	r.wrapper = vdom.Define("TestWrapper", r.renderWrapper)
	return r
}

// Mount creates a root for tree and mounts it.
func Mount(tb TB, tree *vdom.VNode, opts ...Option) *Root {
	tb.Helper()
	r := New(tb, tree, opts...)
	r.Mount()
	return r
}

func treeName(tree *vdom.VNode) string {
	if t := tree.Type(); t != nil {
		return t.TypeName()
	}
	if tree != nil && tree.Kind == vdom.KindText {
		return "#text"
	}
	return "Fragment"
}

// renderWrapper renders the mounted tree with SetProps overrides applied.
// Reading version makes ForceUpdate re-render the wrapper.
func (r *Root) renderWrapper(vdom.Props) *vdom.VNode {
	overrides := r.overrides.Get()
	_ = r.version.Get()
	if r.tree == nil {
		return nil
	}
	clone := *r.tree
	clone.Props = r.tree.Props.Merge(overrides)
	return &clone
}

// ID returns the root's registry identifier.
func (r *Root) ID() uint64 { return r.id }

// Name returns the root's display name.
func (r *Root) Name() string { return r.name }

// Clock returns the root's fake clock. Advance it inside Perform, or use
// Advance, so the snapshot reflects the timers that fired.
func (r *Root) Clock() *host.Clock { return r.clock }

// Mounted reports whether the tree is currently mounted.
func (r *Root) Mounted() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.mounted
}

// Container returns the platform element the tree is rendered into, or
// nil before the first Mount.
func (r *Root) Container() *html.Node {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.container
}

// Resyncs returns the number of snapshots built so far.
func (r *Root) Resyncs() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resyncs
}

// Mount renders the tree into a fresh container attached to the document.
// Mounting a mounted root fails the test.
func (r *Root) Mount() {
	r.tb.Helper()
	if r.Mounted() {
		fail(r.tb, errors.New(errors.CodeAlreadyMounted).WithDetailf("root %d (%s)", r.id, r.name))
		return
	}

	ctx, span := r.cfg.tracing.start(context.Background(), "vtest.mount", r)
	defer span.End()

	r.attach()
	r.Perform(func() any {
		r.renderer.Render(r.wrapper.New())
		r.mu.Lock()
		r.mounted = true
		r.mu.Unlock()
		return nil
	})

	r.cfg.metrics.mounted()
	r.cfg.registry.publish(ctx, Event{Kind: EventMount, RootID: r.id, Name: r.name, Elements: r.elementCount()})
	r.cfg.logger.Debug("mounted", "root", r.id, "name", r.name)
}

// attach creates the container and renderer on first use and registers
// the root as live.
func (r *Root) attach() {
	r.mu.Lock()
	if r.attached {
		r.mu.Unlock()
		return
	}
	r.container = r.cfg.document.NewContainer()
	r.renderer = host.NewRenderer(r.container,
		host.WithLogger(r.cfg.logger.With("root", r.id)),
		host.WithClock(r.clock),
	)
	r.builder = &builder{resolver: r.renderer, root: r}
	r.attached = true
	r.mu.Unlock()

	r.cfg.registry.add(r)
	r.cfg.metrics.attached()
}

// Perform runs action inside the host's Act boundary, then rebuilds the
// snapshot. It returns action's result. Calls may nest; each rebuilds the
// snapshot when it returns. A root that was never mounted or has been
// destroyed has no Act boundary, so Perform fails the test without
// running action. This covers Trigger on elements of a destroyed root.
func (r *Root) Perform(action func() any) any {
	r.tb.Helper()

	r.mu.RLock()
	renderer := r.renderer
	r.mu.RUnlock()

	if renderer == nil {
		fail(r.tb, errors.New(errors.CodeStaleOrUnmounted).
			WithDetailf("root %d (%s) is not attached", r.id, r.name))
		return nil
	}

	ctx, span := r.cfg.tracing.start(context.Background(), "vtest.perform", r)
	defer span.End()

	var result any
	renderer.Act(func() {
		result = action()
	})
	r.resync(ctx)
	r.cfg.metrics.performed()
	span.SetAttributes(attribute.Int("vtest.elements", r.elementCount()))
	return result
}

// Act is Perform for actions without a result.
func (r *Root) Act(action func()) {
	r.tb.Helper()
	r.Perform(func() any {
		action()
		return nil
	})
}

// Advance moves the fake clock forward by d inside Perform, firing due
// timers and applying their updates.
func (r *Root) Advance(d time.Duration) {
	r.tb.Helper()
	r.Act(func() { r.clock.Advance(d) })
}

// resync rebuilds the snapshot from the renderer's committed tree. The
// snapshot is the first element below the wrapper component.
func (r *Root) resync(ctx context.Context) {
	start := time.Now()

	var next *Element
	r.mu.RLock()
	mounted := r.mounted
	renderer := r.renderer
	b := r.builder
	r.mu.RUnlock()

	if mounted && renderer != nil {
		if current := renderer.CurrentRevision(renderer.Current()); current != nil {
			if wrapper := current.Child(); wrapper != nil {
				if w := b.element(wrapper); w != nil && len(w.elements) > 0 {
					next = w.elements[0]
				}
			}
		}
	}

	markup := ""
	if renderer != nil {
		markup = dom.InnerHTML(renderer.Container())
	}

	r.mu.Lock()
	r.snapshot = next
	r.markup = markup
	r.resyncs++
	r.mu.Unlock()

	r.cfg.metrics.resynced(time.Since(start))
	r.cfg.registry.publish(ctx, Event{Kind: EventResync, RootID: r.id, Name: r.name, Elements: r.elementCount()})
}

// Unmount tears the tree down inside Perform. Unmounting an unmounted
// root fails the test. A mounted tree without a root element, such as a
// bare text node, unmounts like any other.
func (r *Root) Unmount() {
	r.tb.Helper()
	if !r.Mounted() {
		fail(r.tb, errors.New(errors.CodeAlreadyUnmounted).WithDetailf("root %d (%s)", r.id, r.name))
		return
	}

	ctx, span := r.cfg.tracing.start(context.Background(), "vtest.unmount", r)
	defer span.End()

	r.Perform(func() any {
		r.renderer.Unmount()
		r.mu.Lock()
		r.mounted = false
		r.mu.Unlock()
		return nil
	})

	r.cfg.registry.publish(ctx, Event{Kind: EventUnmount, RootID: r.id, Name: r.name})
	r.cfg.logger.Debug("unmounted", "root", r.id)
}

// Destroy unmounts the tree if needed, detaches the container and removes
// the root from the registry. Further calls do nothing.
func (r *Root) Destroy() {
	r.tb.Helper()
	if r.Mounted() {
		r.Unmount()
	}

	r.mu.Lock()
	if !r.attached {
		r.mu.Unlock()
		return
	}
	r.attached = false
	renderer := r.renderer
	container := r.container
	r.renderer = nil
	r.builder = nil
	r.mu.Unlock()

	renderer.Close()
	r.cfg.document.RemoveContainer(container)
	r.cfg.registry.remove(r)
	r.cfg.metrics.destroyed()
	r.cfg.registry.publish(context.Background(), Event{Kind: EventDestroy, RootID: r.id, Name: r.name})
}

// SetProps merges props into the mounted tree's root props and re-renders.
func (r *Root) SetProps(props vdom.Props) {
	r.tb.Helper()
	r.ensureRoot()
	r.Perform(func() any {
		r.overrides.Set(r.overrides.Peek().Merge(props))
		return nil
	})
}

// ForceUpdate re-renders the mounted tree.
func (r *Root) ForceUpdate() {
	r.tb.Helper()
	r.ensureRoot()
	r.Perform(func() any {
		r.version.Update(func(v int) int { return v + 1 })
		return nil
	})
}

// ensureRoot fails the test unless there is a mounted snapshot.
func (r *Root) ensureRoot() *Element {
	r.tb.Helper()
	r.mu.RLock()
	snap := r.snapshot
	mounted := r.mounted
	r.mu.RUnlock()

	if !mounted || snap == nil {
		fail(r.tb, errors.New(errors.CodeStaleOrUnmounted).WithDetailf("root %d (%s)", r.id, r.name))
		return nil
	}
	return snap
}

// Snapshot returns the current root element. It fails the test when the
// root is not mounted.
func (r *Root) Snapshot() *Element {
	r.tb.Helper()
	return r.ensureRoot()
}

// Current returns the snapshot, or nil when there is none. Unlike
// Snapshot it never fails, so it is safe to call from other goroutines.
func (r *Root) Current() *Element {
	return r.current()
}

// Markup returns the container markup captured at the last resync.
func (r *Root) Markup() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.markup
}

func (r *Root) current() *Element {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}

func (r *Root) elementCount() int {
	snap := r.current()
	if snap == nil {
		return 0
	}
	return len(snap.descendants) + 1
}

// HTML returns the container's markup.
func (r *Root) HTML() string {
	r.tb.Helper()
	if r.ensureRoot() == nil {
		return ""
	}
	return dom.InnerHTML(r.Container())
}

// Text returns the container's text content.
func (r *Root) Text() string {
	r.tb.Helper()
	if r.ensureRoot() == nil {
		return ""
	}
	return dom.TextContent(r.Container())
}

// Props returns the root element's props.
func (r *Root) Props() vdom.Props {
	r.tb.Helper()
	if e := r.ensureRoot(); e != nil {
		return e.Props()
	}
	return nil
}

// Prop returns one prop of the root element.
func (r *Root) Prop(key string) any {
	r.tb.Helper()
	if e := r.ensureRoot(); e != nil {
		return e.Prop(key)
	}
	return nil
}

// Type returns the root element's type.
func (r *Root) Type() vdom.ElementType {
	r.tb.Helper()
	if e := r.ensureRoot(); e != nil {
		return e.Type()
	}
	return nil
}

// IsDOM reports whether the root element is a host element.
func (r *Root) IsDOM() bool {
	r.tb.Helper()
	if e := r.ensureRoot(); e != nil {
		return e.IsDOM()
	}
	return false
}

// Instance returns the root element's platform node, if it has one.
func (r *Root) Instance() *html.Node {
	r.tb.Helper()
	if e := r.ensureRoot(); e != nil {
		return e.Instance()
	}
	return nil
}

// Children returns the root element's element children.
func (r *Root) Children() []*Element {
	r.tb.Helper()
	if e := r.ensureRoot(); e != nil {
		return e.Children()
	}
	return nil
}

// Descendants returns the root element's descendants in pre-order.
func (r *Root) Descendants() []*Element {
	r.tb.Helper()
	if e := r.ensureRoot(); e != nil {
		return e.Descendants()
	}
	return nil
}

// Find is Element.Find on the root element.
func (r *Root) Find(m Matcher) *Element {
	r.tb.Helper()
	if e := r.ensureRoot(); e != nil {
		return e.Find(m)
	}
	return nil
}

// FindAll is Element.FindAll on the root element.
func (r *Root) FindAll(m Matcher) []*Element {
	r.tb.Helper()
	if e := r.ensureRoot(); e != nil {
		return e.FindAll(m)
	}
	return nil
}

// FindWhere is Element.FindWhere on the root element.
func (r *Root) FindWhere(pred func(*Element) bool) *Element {
	r.tb.Helper()
	if e := r.ensureRoot(); e != nil {
		return e.FindWhere(pred)
	}
	return nil
}

// FindAllWhere is Element.FindAllWhere on the root element.
func (r *Root) FindAllWhere(pred func(*Element) bool) []*Element {
	r.tb.Helper()
	if e := r.ensureRoot(); e != nil {
		return e.FindAllWhere(pred)
	}
	return nil
}

// Is is Element.Is on the root element.
func (r *Root) Is(m Matcher) bool {
	r.tb.Helper()
	if e := r.ensureRoot(); e != nil {
		return e.Is(m)
	}
	return false
}

// Contains is Element.Contains on the root element.
func (r *Root) Contains(m Matcher) bool {
	r.tb.Helper()
	if e := r.ensureRoot(); e != nil {
		return e.Contains(m)
	}
	return false
}

// GetDOMNode is Element.GetDOMNode on the root element.
func (r *Root) GetDOMNode() *html.Node {
	r.tb.Helper()
	if e := r.ensureRoot(); e != nil {
		return e.GetDOMNode()
	}
	return nil
}

// GetDOMNodes is Element.GetDOMNodes on the root element.
func (r *Root) GetDOMNodes() []*html.Node {
	r.tb.Helper()
	if e := r.ensureRoot(); e != nil {
		return e.GetDOMNodes()
	}
	return nil
}

// Trigger is Element.Trigger on the root element.
func (r *Root) Trigger(prop string, args ...any) any {
	r.tb.Helper()
	if e := r.ensureRoot(); e != nil {
		return e.Trigger(prop, args...)
	}
	return nil
}

// Debug renders the root element's subtree for failure messages.
func (r *Root) Debug() string {
	r.tb.Helper()
	if e := r.ensureRoot(); e != nil {
		return e.Debug()
	}
	return ""
}
