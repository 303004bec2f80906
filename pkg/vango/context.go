package vango

import (
	"context"
	"time"
)

// Ctx is the runtime surface a host exposes to components and effects.
type Ctx interface {
	// Dispatch queues fn to run on the host's update loop.
	Dispatch(fn func())

	// StdContext returns the host's lifetime context.
	StdContext() context.Context

	// After schedules fn to run once d has elapsed on the host clock.
	// The returned function cancels the timer.
	After(d time.Duration, fn func()) func()

	// Now returns the host clock's current time.
	Now() time.Time
}

// UseCtx returns the runtime context installed by the host, or nil outside
// a host callback.
func UseCtx() Ctx {
	return getTrackingContext().currentCtx
}

// ContextKey identifies a context value provided with SetContext. Keys are
// compared by pointer.
type ContextKey[T any] struct {
	name     string
	fallback T
}

// NewContextKey creates a key with a value returned when no ancestor
// provides one.
func NewContextKey[T any](name string, fallback T) *ContextKey[T] {
	return &ContextKey[T]{name: name, fallback: fallback}
}

// Name returns the key's debug name.
func (k *ContextKey[T]) Name() string {
	return k.name
}

// SetContext provides value to the current component and its descendants.
func SetContext[T any](key *ContextKey[T], value T) {
	if owner := getCurrentOwner(); owner != nil {
		owner.SetValue(key, value)
	}
}

// GetContext returns the nearest provided value for key, or the key's
// fallback.
func GetContext[T any](key *ContextKey[T]) T {
	owner := getCurrentOwner()
	if owner == nil {
		return key.fallback
	}
	v, ok := owner.GetValue(key)
	if !ok {
		return key.fallback
	}
	if typed, ok := v.(T); ok {
		return typed
	}
	return key.fallback
}
