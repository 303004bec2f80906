package vango

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Owner manages the lifecycle of reactive primitives.
// Each component instance has an Owner; owners form a tree that mirrors the
// component tree so that context values flow from ancestors to descendants.
type Owner struct {
	id     uint64
	parent *Owner

	children []*Owner
	effects  []*Effect
	cleanups []Cleanup

	// pendingEffects are effects scheduled to run after the next commit.
	pendingEffects []*Effect

	// values holds context values set with SetContext.
	values map[any]any

	// hookSlots persist hook state across renders; hookIdx is the cursor for
	// the render in progress.
	hookSlots []any
	hookIdx   int

	// hookKinds records the hook kind per slot for order validation.
	hookKinds []HookKind

	rendering bool
	disposed  atomic.Bool
	mu        sync.Mutex
}

// HookKind identifies the hook that owns a slot.
type HookKind uint8

const (
	HookSignal HookKind = iota + 1
	HookEffect
	HookRef
)

func (k HookKind) String() string {
	switch k {
	case HookSignal:
		return "UseSignal"
	case HookEffect:
		return "UseEffect"
	case HookRef:
		return "UseRef"
	default:
		return "unknown"
	}
}

// NewOwner creates an owner. If parent is non-nil the new owner is
// registered as its child and disposed with it.
func NewOwner(parent *Owner) *Owner {
	o := &Owner{
		id:     nextID(),
		parent: parent,
	}
	if parent != nil {
		parent.mu.Lock()
		parent.children = append(parent.children, o)
		parent.mu.Unlock()
	}
	return o
}

// ID returns the unique identifier of this owner.
func (o *Owner) ID() uint64 {
	return o.id
}

// Parent returns the parent owner, or nil for a root.
func (o *Owner) Parent() *Owner {
	return o.parent
}

// IsDisposed reports whether Dispose has been called.
func (o *Owner) IsDisposed() bool {
	return o.disposed.Load()
}

// StartRender resets the hook cursor. Hosts call it before invoking a
// component's render function.
func (o *Owner) StartRender() {
	o.mu.Lock()
	o.hookIdx = 0
	o.rendering = true
	o.mu.Unlock()
}

// EndRender finishes a render pass. With DebugMode on, a render that used
// fewer hooks than the previous one panics.
func (o *Owner) EndRender() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rendering = false
	if DebugMode && o.hookIdx != 0 && o.hookIdx < len(o.hookSlots) {
		panic(fmt.Sprintf("vango: hook count changed between renders (had %d, now %d)",
			len(o.hookSlots), o.hookIdx))
	}
}

// UseHookSlot returns the stored value for the next hook slot and advances
// the cursor. The second result is false on the first render of that slot.
func (o *Owner) UseHookSlot(kind HookKind) (any, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	idx := o.hookIdx
	o.hookIdx++
	if idx < len(o.hookSlots) {
		if DebugMode && o.hookKinds[idx] != kind {
			panic(fmt.Sprintf("vango: hook order changed at slot %d: expected %s, got %s",
				idx, o.hookKinds[idx], kind))
		}
		return o.hookSlots[idx], true
	}
	return nil, false
}

// SetHookSlot stores the value for the slot most recently returned by
// UseHookSlot.
func (o *Owner) SetHookSlot(kind HookKind, value any) {
	o.mu.Lock()
	defer o.mu.Unlock()

	idx := o.hookIdx - 1
	if idx < 0 {
		return
	}
	for len(o.hookSlots) <= idx {
		o.hookSlots = append(o.hookSlots, nil)
		o.hookKinds = append(o.hookKinds, 0)
	}
	o.hookSlots[idx] = value
	o.hookKinds[idx] = kind
}

// registerEffect adds an effect for disposal with this owner.
func (o *Owner) registerEffect(e *Effect) {
	o.mu.Lock()
	o.effects = append(o.effects, e)
	o.mu.Unlock()
}

// scheduleEffect queues e to run at the next RunPendingEffects.
func (o *Owner) scheduleEffect(e *Effect) {
	o.mu.Lock()
	o.pendingEffects = append(o.pendingEffects, e)
	o.mu.Unlock()
}

// HasPendingEffects reports whether this owner or any descendant has
// effects waiting to run.
func (o *Owner) HasPendingEffects() bool {
	o.mu.Lock()
	pending := len(o.pendingEffects) > 0
	children := append([]*Owner(nil), o.children...)
	o.mu.Unlock()

	if pending {
		return true
	}
	for _, c := range children {
		if c.HasPendingEffects() {
			return true
		}
	}
	return false
}

// RunPendingEffects runs scheduled effects, children first so that a
// parent's effect observes its children's effects already applied.
func (o *Owner) RunPendingEffects() {
	if o.IsDisposed() {
		return
	}

	o.mu.Lock()
	children := append([]*Owner(nil), o.children...)
	o.mu.Unlock()
	for _, c := range children {
		c.RunPendingEffects()
	}

	o.mu.Lock()
	pending := o.pendingEffects
	o.pendingEffects = nil
	o.mu.Unlock()

	for _, e := range pending {
		e.run()
	}
}

// OnCleanup registers fn to run when the owner is disposed.
func (o *Owner) OnCleanup(fn Cleanup) {
	if fn == nil {
		return
	}
	o.mu.Lock()
	o.cleanups = append(o.cleanups, fn)
	o.mu.Unlock()
}

// SetValue stores a context value on this owner.
func (o *Owner) SetValue(key, value any) {
	o.mu.Lock()
	if o.values == nil {
		o.values = make(map[any]any)
	}
	o.values[key] = value
	o.mu.Unlock()
}

// GetValue looks up key on this owner and its ancestors.
func (o *Owner) GetValue(key any) (any, bool) {
	for cur := o; cur != nil; cur = cur.parent {
		cur.mu.Lock()
		v, ok := cur.values[key]
		cur.mu.Unlock()
		if ok {
			return v, true
		}
	}
	return nil, false
}

// Dispose tears down the owner: children first, then effects in reverse
// creation order, then registered cleanups in reverse order.
func (o *Owner) Dispose() {
	if !o.disposed.CompareAndSwap(false, true) {
		return
	}

	o.mu.Lock()
	children := o.children
	effects := o.effects
	cleanups := o.cleanups
	o.children = nil
	o.effects = nil
	o.cleanups = nil
	o.pendingEffects = nil
	o.mu.Unlock()

	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}
	for i := len(effects) - 1; i >= 0; i-- {
		effects[i].Dispose()
	}
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}

	if o.parent != nil {
		o.parent.removeChild(o)
	}
}

func (o *Owner) removeChild(child *Owner) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			return
		}
	}
}
