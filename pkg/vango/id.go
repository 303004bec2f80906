package vango

import "sync/atomic"

// globalIDCounter is the source of unique IDs for all reactive primitives.
var globalIDCounter atomic.Uint64

// nextID returns the next unique ID for a reactive primitive.
// IDs are monotonically increasing and never reused.
func nextID() uint64 {
	return globalIDCounter.Add(1)
}

// NextID returns a fresh identifier from the same sequence used by owners,
// signals and effects. Hosts use it to identify their own listeners.
func NextID() uint64 {
	return nextID()
}
