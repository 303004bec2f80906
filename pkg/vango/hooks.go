package vango

// UseSignal returns a signal whose identity is stable across renders of the
// current component. initial is only used on the first render. Outside a
// render it behaves like NewSignal.
func UseSignal[T any](initial T) *Signal[T] {
	owner := getCurrentOwner()
	if owner == nil {
		return NewSignal(initial)
	}
	if slot, ok := owner.UseHookSlot(HookSignal); ok {
		if s, ok := slot.(*Signal[T]); ok {
			return s
		}
	}
	s := NewSignal(initial)
	owner.SetHookSlot(HookSignal, s)
	return s
}

// Ref is a mutable box whose identity is stable across renders. Writing a
// ref never schedules a render.
type Ref[T any] struct {
	Current T
}

// UseRef returns the component's ref for this hook slot.
func UseRef[T any](initial T) *Ref[T] {
	owner := getCurrentOwner()
	if owner == nil {
		return &Ref[T]{Current: initial}
	}
	if slot, ok := owner.UseHookSlot(HookRef); ok {
		if r, ok := slot.(*Ref[T]); ok {
			return r
		}
	}
	r := &Ref[T]{Current: initial}
	owner.SetHookSlot(HookRef, r)
	return r
}

// UseEffect registers fn as an effect of the current component.
//
// On the first render the effect is scheduled to run once the host has
// committed the render. On later renders the stored effect keeps its
// identity and only picks up the new fn; it re-runs when a signal it read
// changes. The returned Cleanup runs before each re-run and on unmount.
func UseEffect(fn func() Cleanup) {
	owner := getCurrentOwner()
	if owner == nil {
		CreateEffect(fn)
		return
	}
	if slot, ok := owner.UseHookSlot(HookEffect); ok {
		if e, ok := slot.(*Effect); ok {
			e.setFn(fn)
			return
		}
	}
	e := newEffect(owner, fn)
	owner.SetHookSlot(HookEffect, e)
	e.MarkDirty()
}

// OnMount schedules fn to run once after the component's first commit.
func OnMount(fn func()) {
	UseEffect(func() Cleanup {
		Untracked(fn)
		return nil
	})
}

// OnCleanup registers fn to run when the current owner is disposed.
func OnCleanup(fn func()) {
	if owner := getCurrentOwner(); owner != nil {
		owner.OnCleanup(fn)
	}
}
