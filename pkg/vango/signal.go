package vango

import (
	"reflect"
	"sync"
)

// Signal is a reactive value container. Reading with Get inside a tracking
// scope subscribes the current listener; Set notifies subscribers when the
// value changes.
type Signal[T any] struct {
	id     uint64
	value  T
	equals func(a, b T) bool

	subscribers []Listener
	mu          sync.RWMutex
}

// NewSignal creates a signal holding initial.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{
		id:     nextID(),
		value:  initial,
		equals: defaultEquals[T],
	}
}

// NewSignalWithEquals creates a signal using a custom equality function.
func NewSignalWithEquals[T any](initial T, equals func(a, b T) bool) *Signal[T] {
	s := NewSignal(initial)
	if equals != nil {
		s.equals = equals
	}
	return s
}

// ID returns the signal's unique identifier.
func (s *Signal[T]) ID() uint64 {
	return s.id
}

// Get returns the current value and subscribes the current listener.
func (s *Signal[T]) Get() T {
	if l := getCurrentListener(); l != nil {
		s.subscribe(l)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Peek returns the current value without subscribing.
func (s *Signal[T]) Peek() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set replaces the value and notifies subscribers if it changed.
func (s *Signal[T]) Set(value T) {
	s.mu.Lock()
	if s.equals(s.value, value) {
		s.mu.Unlock()
		return
	}
	s.value = value
	subs := append([]Listener(nil), s.subscribers...)
	s.mu.Unlock()

	s.notify(subs)
}

// Update sets the value to fn(current).
func (s *Signal[T]) Update(fn func(T) T) {
	s.Set(fn(s.Peek()))
}

func (s *Signal[T]) subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := l.ID()
	for _, existing := range s.subscribers {
		if existing.ID() == id {
			return
		}
	}
	s.subscribers = append(s.subscribers, l)
	if e, ok := l.(*Effect); ok {
		e.addSource(s)
	}
}

func (s *Signal[T]) unsubscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := l.ID()
	for i, existing := range s.subscribers {
		if existing.ID() == id {
			s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
			return
		}
	}
}

func (s *Signal[T]) notify(subs []Listener) {
	if getBatchDepth() > 0 {
		for _, l := range subs {
			queuePendingUpdate(l)
		}
		return
	}
	for _, l := range subs {
		l.MarkDirty()
	}
}

// source lets effects drop their subscriptions without knowing T.
type source interface {
	unsubscribe(l Listener)
}

// defaultEquals compares comparable values with ==, and falls back to
// reflect.DeepEqual for uncomparable dynamic types.
func defaultEquals[T any](a, b T) (eq bool) {
	va, vb := any(a), any(b)
	if va == nil || vb == nil {
		return va == nil && vb == nil
	}
	ta := reflect.TypeOf(va)
	if ta.Comparable() && ta == reflect.TypeOf(vb) {
		defer func() {
			if recover() != nil {
				eq = false
			}
		}()
		return va == vb
	}
	return reflect.DeepEqual(va, vb)
}
