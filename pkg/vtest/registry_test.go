package vtest

import (
	"testing"

	"github.com/vango-dev/vangotest/pkg/dom"
	"github.com/vango-dev/vangotest/pkg/vdom"
)

// cleanupTB collects cleanup functions so tests can run them on demand.
type cleanupTB struct {
	*recordingTB
	cleanups []func()
}

func (c *cleanupTB) Cleanup(fn func()) { c.cleanups = append(c.cleanups, fn) }

func (c *cleanupTB) runCleanups() {
	for i := len(c.cleanups) - 1; i >= 0; i-- {
		c.cleanups[i]()
	}
}

func TestRegistryTracksLiveRoots(t *testing.T) {
	reg := NewRegistry()
	doc := dom.NewDocument()
	opts := []Option{WithRegistry(reg), WithDocument(doc)}

	a := Mount(t, counter.New(), opts...)
	b := Mount(t, vdom.Div(), opts...)
	c := New(t, vdom.Span(), opts...)

	live := reg.Live()
	if len(live) != 2 || live[0] != a || live[1] != b {
		t.Fatalf("Live() = %v, want [a b]", live)
	}
	if _, ok := reg.Get(c.ID()); ok {
		t.Error("unmounted root should not be registered")
	}

	a.Unmount()
	if reg.Len() != 2 {
		t.Errorf("Len() = %d after Unmount, want 2 (unmounted roots stay live)", reg.Len())
	}

	if n := reg.Drain(); n != 2 {
		t.Errorf("Drain() = %d, want 2", n)
	}
	if reg.Len() != 0 || doc.ContainerCount() != 0 {
		t.Errorf("after Drain: Len() = %d, ContainerCount() = %d", reg.Len(), doc.ContainerCount())
	}
	if a.Mounted() || b.Mounted() {
		t.Error("drained roots should be unmounted")
	}
}

func TestRegistryEvents(t *testing.T) {
	reg := NewRegistry()
	events, cancel := reg.Subscribe(32)

	root := Mount(t, counter.New(), WithRegistry(reg), WithDocument(dom.NewDocument()))
	root.Find(ByTag("button")).Trigger("onclick")
	root.Destroy()
	cancel()
	cancel()

	var kinds []EventKind
	for ev := range events {
		if ev.RootID != root.ID() || ev.Name != "Counter" {
			t.Errorf("event %+v has wrong root", ev)
		}
		if ev.At.IsZero() {
			t.Errorf("event %s has no timestamp", ev.Kind)
		}
		kinds = append(kinds, ev.Kind)
	}

	want := []EventKind{
		EventResync, EventMount,
		EventResync,
		EventResync, EventUnmount, EventDestroy,
	}
	if len(kinds) != len(want) {
		t.Fatalf("events = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestSubscribeDropsWhenFull(t *testing.T) {
	reg := NewRegistry()
	events, cancel := reg.Subscribe(1)
	defer cancel()

	root := Mount(t, counter.New(), WithRegistry(reg), WithDocument(dom.NewDocument()))
	defer root.Destroy()

	if got := len(events); got != 1 {
		t.Errorf("buffered events = %d, want 1", got)
	}
}

func TestCleanupDestroysLaterRoots(t *testing.T) {
	reg := NewRegistry()
	opts := []Option{WithRegistry(reg), WithDocument(dom.NewDocument())}

	before := Mount(t, vdom.Div(), opts...)
	tb := &cleanupTB{recordingTB: newRecordingTB(t)}
	reg.Cleanup(tb)
	after := Mount(t, vdom.Span(), opts...)

	tb.runCleanups()

	if !before.Mounted() {
		t.Error("root mounted before Cleanup should survive")
	}
	if after.Mounted() {
		t.Error("root mounted after Cleanup should be destroyed")
	}
	if live := reg.Live(); len(live) != 1 || live[0] != before {
		t.Errorf("Live() = %v, want only the earlier root", live)
	}
	before.Destroy()
}

func TestDefaultRegistryCleanup(t *testing.T) {
	Cleanup(t)
	root := Mount(t, counter.New())

	found := false
	for _, r := range Live() {
		if r == root {
			found = true
		}
	}
	if !found {
		t.Error("root missing from the default registry")
	}
}
