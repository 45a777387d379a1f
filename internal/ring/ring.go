// Package ring provides a fixed-capacity FIFO buffer that evicts its
// oldest element when full.
package ring

// Buffer holds up to Cap elements in insertion order. Appending to a
// full buffer evicts the oldest element; the newest element is always
// retained. The zero value is unusable; use New.
//
// Buffer is not safe for concurrent use.
type Buffer[T any] struct {
	items    []T
	capacity int
}

// New creates a buffer with the given capacity. Capacity must be
// positive; New panics otherwise.
func New[T any](capacity int) *Buffer[T] {
	if capacity <= 0 {
		panic("ring: capacity must be positive")
	}
	return &Buffer[T]{
		items:    make([]T, 0, capacity),
		capacity: capacity,
	}
}

// Append adds v to the buffer. If the buffer was full, the evicted
// oldest element is returned with ok=true.
func (b *Buffer[T]) Append(v T) (evicted T, ok bool) {
	if len(b.items) == b.capacity {
		evicted = b.items[0]
		ok = true
		copy(b.items, b.items[1:])
		b.items[len(b.items)-1] = v
		return evicted, ok
	}
	b.items = append(b.items, v)
	return evicted, false
}

// Items returns a copy of the buffered elements, oldest first.
func (b *Buffer[T]) Items() []T {
	out := make([]T, len(b.items))
	copy(out, b.items)
	return out
}

// Last returns the newest element, if any.
func (b *Buffer[T]) Last() (T, bool) {
	var zero T
	if len(b.items) == 0 {
		return zero, false
	}
	return b.items[len(b.items)-1], true
}

// Len returns the number of buffered elements.
func (b *Buffer[T]) Len() int {
	return len(b.items)
}

// Cap returns the buffer capacity.
func (b *Buffer[T]) Cap() int {
	return b.capacity
}

// Clear removes all elements, keeping the capacity.
func (b *Buffer[T]) Clear() {
	b.items = b.items[:0]
}
