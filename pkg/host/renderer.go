package host

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/net/html"

	"github.com/vango-dev/vangotest/pkg/vango"
	"github.com/vango-dev/vangotest/pkg/vdom"
)

// Renderer renders one vdom tree into one container element.
type Renderer struct {
	container *html.Node
	logger    *slog.Logger
	clock     *Clock

	parentCtx context.Context
	ctx       context.Context
	cancel    context.CancelFunc

	rootOwner *vango.Owner
	root      *Fiber
	element   *vdom.VNode
	seq       uint64

	maxIterations int

	mu         sync.Mutex
	actDepth   int
	rootDirty  bool
	dirtyCount int
	tasks      []func()
	deletions  []*Fiber
	closed     bool
}

var (
	_ vango.Ctx        = (*Renderer)(nil)
	_ RevisionResolver = Resolver{}
)

// NewRenderer creates a renderer that owns container's children.
func NewRenderer(container *html.Node, opts ...Option) *Renderer {
	r := &Renderer{
		container:     container,
		logger:        slog.Default().With("component", "host"),
		parentCtx:     context.Background(),
		maxIterations: defaultMaxFlushIterations,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.clock == nil {
		r.clock = NewClock(DefaultClockStart)
	}
	r.ctx, r.cancel = context.WithCancel(r.parentCtx)
	r.rootOwner = vango.NewOwner(nil)
	r.root = &Fiber{tag: TagHostRoot, dom: container}
	return r
}

// Container returns the element the renderer renders into.
func (r *Renderer) Container() *html.Node {
	return r.container
}

// Clock returns the renderer's clock.
func (r *Renderer) Clock() *Clock {
	return r.clock
}

// Current returns the committed host root.
func (r *Renderer) Current() Node {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.root
}

// CurrentRevision implements RevisionResolver.
func (r *Renderer) CurrentRevision(n Node) Node {
	return Resolver{}.CurrentRevision(n)
}

// CommitCount returns the number of commits performed so far.
func (r *Renderer) CommitCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq
}

// Render schedules tree to replace the current tree. Outside an Act it is
// flushed immediately.
func (r *Renderer) Render(tree *vdom.VNode) {
	r.Act(func() {
		r.mu.Lock()
		r.element = tree
		r.rootDirty = true
		r.mu.Unlock()
	})
}

// Unmount removes the rendered tree, disposing every component.
func (r *Renderer) Unmount() {
	r.Render(nil)
}

// Close unmounts the tree, stops timers and cancels the lifetime context.
// It is safe to call more than once.
func (r *Renderer) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()

	r.Unmount()

	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.clock.Stop()
	r.rootOwner.Dispose()
	r.cancel()
}

// InAct reports whether an Act is in progress.
func (r *Renderer) InAct() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.actDepth > 0
}

// Act runs fn and, at the outermost level, flushes until every task,
// render and effect it caused has run. Nested calls only flush when the
// outermost one returns. A panic in fn propagates without flushing.
func (r *Renderer) Act(fn func()) {
	r.mu.Lock()
	r.actDepth++
	outermost := r.actDepth == 1
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.actDepth--
		r.mu.Unlock()
	}()

	if fn != nil {
		vango.WithCtx(r, fn)
	}
	if outermost {
		r.flush()
	}
}

// flush loops until there is no queued task, dirty component or pending
// effect left.
func (r *Renderer) flush() {
	for i := 0; i < r.maxIterations; i++ {
		ranTasks := r.runTasks()

		rendered := false
		if r.hasWork() {
			r.renderAndCommit()
			rendered = true
		}

		ranEffects := false
		if r.rootOwner.HasPendingEffects() {
			vango.WithCtx(r, r.rootOwner.RunPendingEffects)
			ranEffects = true
		}

		if !ranTasks && !rendered && !ranEffects {
			return
		}
	}
	r.logger.Error("update loop did not settle", "iterations", r.maxIterations)
	panic(fmt.Sprintf("host: updates did not settle after %d flush iterations", r.maxIterations))
}

func (r *Renderer) runTasks() bool {
	r.mu.Lock()
	tasks := r.tasks
	r.tasks = nil
	r.mu.Unlock()

	for _, task := range tasks {
		vango.WithCtx(r, task)
	}
	return len(tasks) > 0
}

func (r *Renderer) hasWork() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rootDirty || r.dirtyCount > 0
}

// scheduleUpdate records that a render is needed.
func (r *Renderer) scheduleUpdate(kind, name string) {
	r.mu.Lock()
	r.dirtyCount++
	outside := r.actDepth == 0
	r.mu.Unlock()

	if outside {
		r.logger.Warn("update scheduled outside Act; it is applied by the next Act",
			"source", kind, "name", name)
	}
}

// Dispatch implements vango.Ctx by queueing fn for the flush loop.
func (r *Renderer) Dispatch(fn func()) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	r.tasks = append(r.tasks, fn)
	outside := r.actDepth == 0
	r.mu.Unlock()

	if outside {
		r.logger.Warn("task dispatched outside Act; it runs in the next Act")
	}
}

// StdContext implements vango.Ctx.
func (r *Renderer) StdContext() context.Context {
	return r.ctx
}

// After implements vango.Ctx using the renderer clock. The callback runs
// with the renderer installed as the runtime context.
func (r *Renderer) After(d time.Duration, fn func()) func() {
	return r.clock.AfterFunc(d, func() {
		vango.WithCtx(r, fn)
	})
}

// Now implements vango.Ctx.
func (r *Renderer) Now() time.Time {
	return r.clock.Now()
}

// renderAndCommit builds a work-in-progress tree from the current one and
// commits it.
func (r *Renderer) renderAndCommit() {
	r.mu.Lock()
	current := r.root
	element := r.element
	r.rootDirty = false
	r.dirtyCount = 0
	r.mu.Unlock()

	wip := createWorkInProgress(current)
	wip.element = element
	var children []*vdom.VNode
	if element != nil {
		children = []*vdom.VNode{element}
	}
	r.reconcileChildren(wip, current.child, children, r.rootOwner)

	r.commit(wip)
}
