package vango

import "sync"

// Effect is a side effect that re-runs when the signals it read change.
type Effect struct {
	id      uint64
	fn      func() Cleanup
	cleanup Cleanup
	owner   *Owner

	sources  []source
	pending  bool
	disposed bool
	mu       sync.Mutex
}

// CreateEffect creates an effect owned by the current owner and runs it
// immediately. Outside any owner the effect is unowned and must be disposed
// by the caller.
func CreateEffect(fn func() Cleanup) *Effect {
	e := newEffect(getCurrentOwner(), fn)
	e.run()
	return e
}

func newEffect(owner *Owner, fn func() Cleanup) *Effect {
	e := &Effect{
		id:    nextID(),
		fn:    fn,
		owner: owner,
	}
	if owner != nil {
		owner.registerEffect(e)
	}
	return e
}

// ID implements Listener.
func (e *Effect) ID() uint64 {
	return e.id
}

// MarkDirty implements Listener. Owned effects are scheduled on their
// owner and run by the host after commit; unowned effects run inline.
func (e *Effect) MarkDirty() {
	e.mu.Lock()
	if e.disposed || e.pending {
		e.mu.Unlock()
		return
	}
	e.pending = true
	owner := e.owner
	e.mu.Unlock()

	if owner != nil {
		owner.scheduleEffect(e)
		return
	}
	e.run()
}

func (e *Effect) setFn(fn func() Cleanup) {
	e.mu.Lock()
	e.fn = fn
	e.mu.Unlock()
}

func (e *Effect) addSource(s source) {
	e.mu.Lock()
	e.sources = append(e.sources, s)
	e.mu.Unlock()
}

func (e *Effect) run() {
	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return
	}
	e.pending = false
	cleanup := e.cleanup
	e.cleanup = nil
	sources := e.sources
	e.sources = nil
	fn := e.fn
	e.mu.Unlock()

	if cleanup != nil {
		cleanup()
	}
	for _, s := range sources {
		s.unsubscribe(e)
	}

	var next Cleanup
	WithListener(e, func() {
		next = fn()
	})

	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		if next != nil {
			next()
		}
		return
	}
	e.cleanup = next
	e.mu.Unlock()
}

// Dispose stops the effect and runs its cleanup.
func (e *Effect) Dispose() {
	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return
	}
	e.disposed = true
	cleanup := e.cleanup
	e.cleanup = nil
	sources := e.sources
	e.sources = nil
	e.mu.Unlock()

	for _, s := range sources {
		s.unsubscribe(e)
	}
	if cleanup != nil {
		cleanup()
	}
}
