package vango

import (
	"reflect"
	"testing"
)

func TestOwnerHasPendingEffectsRecursesIntoChildren(t *testing.T) {
	root := NewOwner(nil)
	defer root.Dispose()
	child := NewOwner(root)

	count := NewSignal(0)
	runs := 0
	WithOwner(child, func() {
		CreateEffect(func() Cleanup {
			_ = count.Get()
			runs++
			return nil
		})
	})
	if runs != 1 {
		t.Fatalf("CreateEffect should run immediately, runs = %d", runs)
	}
	if root.HasPendingEffects() {
		t.Fatalf("HasPendingEffects() should be false when nothing is scheduled")
	}

	count.Set(1)
	if !root.HasPendingEffects() {
		t.Fatalf("HasPendingEffects() should be true after dependency change")
	}
	if runs != 1 {
		t.Fatalf("owned effect ran before RunPendingEffects")
	}

	root.RunPendingEffects()
	if root.HasPendingEffects() {
		t.Fatalf("HasPendingEffects() should be false after running pending effects")
	}
	if runs != 2 {
		t.Fatalf("runs = %d, want 2", runs)
	}
}

func TestOwnerDisposeOrder(t *testing.T) {
	var order []string
	root := NewOwner(nil)
	child := NewOwner(root)
	root.OnCleanup(func() { order = append(order, "root") })
	child.OnCleanup(func() { order = append(order, "child") })

	root.Dispose()
	root.Dispose()

	want := []string{"child", "root"}
	if !reflect.DeepEqual(order, want) {
		t.Fatalf("dispose order = %v, want %v", order, want)
	}
	if !child.IsDisposed() {
		t.Fatalf("child not disposed")
	}
}

func TestOwnerHookSlots(t *testing.T) {
	o := NewOwner(nil)
	defer o.Dispose()

	var first, second *Signal[int]
	WithOwner(o, func() {
		o.StartRender()
		first = UseSignal(1)
		o.EndRender()
	})
	first.Set(7)
	WithOwner(o, func() {
		o.StartRender()
		second = UseSignal(1)
		o.EndRender()
	})

	if first != second {
		t.Fatalf("UseSignal returned a different signal on re-render")
	}
	if second.Peek() != 7 {
		t.Fatalf("state lost across renders: %d", second.Peek())
	}
}

func TestOwnerContextLookup(t *testing.T) {
	key := NewContextKey("theme", "light")
	parent := NewOwner(nil)
	defer parent.Dispose()
	child := NewOwner(parent)

	WithOwner(parent, func() { SetContext(key, "dark") })

	var got string
	WithOwner(child, func() { got = GetContext(key) })
	if got != "dark" {
		t.Fatalf("GetContext() = %q, want dark", got)
	}

	if fallback := GetContext(key); fallback != "light" {
		t.Fatalf("GetContext() outside owner = %q, want light", fallback)
	}
}
