package vtest

import (
	"context"
	"sort"
	"sync"
	"time"
)

// EventKind identifies a root lifecycle event.
type EventKind string

const (
	EventMount   EventKind = "mount"
	EventResync  EventKind = "resync"
	EventUnmount EventKind = "unmount"
	EventDestroy EventKind = "destroy"
)

// Event describes a change to a live root.
type Event struct {
	Kind     EventKind `json:"kind"`
	RootID   uint64    `json:"root_id"`
	Name     string    `json:"name"`
	Elements int       `json:"elements"`
	At       time.Time `json:"at"`
}

// Registry tracks roots that have been mounted and not yet destroyed.
type Registry struct {
	mu    sync.Mutex
	roots map[uint64]*Root
	order []uint64
	subs  map[int]chan Event
	next  int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		roots: make(map[uint64]*Root),
		subs:  make(map[int]chan Event),
	}
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the registry roots join unless WithRegistry is
// given.
func DefaultRegistry() *Registry { return defaultRegistry }

func (reg *Registry) add(r *Root) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, ok := reg.roots[r.id]; ok {
		return
	}
	reg.roots[r.id] = r
	reg.order = append(reg.order, r.id)
}

func (reg *Registry) remove(r *Root) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, ok := reg.roots[r.id]; !ok {
		return
	}
	delete(reg.roots, r.id)
	for i, id := range reg.order {
		if id == r.id {
			reg.order = append(reg.order[:i], reg.order[i+1:]...)
			break
		}
	}
}

// Live returns the live roots in the order they were first mounted.
func (reg *Registry) Live() []*Root {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	out := make([]*Root, 0, len(reg.order))
	for _, id := range reg.order {
		out = append(out, reg.roots[id])
	}
	return out
}

// Get returns the live root with the given id.
func (reg *Registry) Get(id uint64) (*Root, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	r, ok := reg.roots[id]
	return r, ok
}

// Len returns the number of live roots.
func (reg *Registry) Len() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.roots)
}

// Drain destroys every live root, newest first, and returns how many were
// destroyed. Roots mounted while draining are destroyed too.
func (reg *Registry) Drain() int {
	seen := make(map[uint64]bool)
	for {
		var pending []*Root
		for _, r := range reg.Live() {
			if !seen[r.id] {
				pending = append(pending, r)
			}
		}
		if len(pending) == 0 {
			return len(seen)
		}
		sort.SliceStable(pending, func(i, j int) bool { return pending[i].id > pending[j].id })
		for _, r := range pending {
			seen[r.id] = true
			r.Destroy()
		}
	}
}

// Subscribe returns a channel receiving lifecycle events and a function
// that cancels the subscription. Events are dropped when the channel's
// buffer is full.
func (reg *Registry) Subscribe(buffer int) (<-chan Event, func()) {
	ch := make(chan Event, buffer)

	reg.mu.Lock()
	id := reg.next
	reg.next++
	reg.subs[id] = ch
	reg.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			reg.mu.Lock()
			delete(reg.subs, id)
			reg.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (reg *Registry) publish(_ context.Context, ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	reg.mu.Lock()
	defer reg.mu.Unlock()
	for _, ch := range reg.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Live returns the live roots of the default registry.
func Live() []*Root { return defaultRegistry.Live() }

// Drain destroys every live root of the default registry.
func Drain() int { return defaultRegistry.Drain() }

// Cleanup registers a cleanup on t that destroys the roots mounted into
// the default registry after the call.
func Cleanup(t CleanupTB) {
	t.Helper()
	defaultRegistry.Cleanup(t)
}

// Cleanup registers a cleanup on t that destroys the roots added to reg
// after the call.
func (reg *Registry) Cleanup(t CleanupTB) {
	t.Helper()
	reg.mu.Lock()
	before := make(map[uint64]bool, len(reg.roots))
	for id := range reg.roots {
		before[id] = true
	}
	reg.mu.Unlock()

	t.Cleanup(func() {
		live := reg.Live()
		for i := len(live) - 1; i >= 0; i-- {
			if !before[live[i].id] {
				live[i].Destroy()
			}
		}
	})
}
