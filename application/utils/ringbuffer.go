package utils

// RingBuffer is a bounded FIFO. Pushing past capacity evicts the oldest
// entry, which makes the rolling-window invariant structural instead of
// a call-site convention.
type RingBuffer[T any] struct {
	items    []T
	capacity int
}

func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &RingBuffer[T]{
		items:    make([]T, 0, capacity),
		capacity: capacity,
	}
}

func (rb *RingBuffer[T]) Push(item T) {
	if len(rb.items) == rb.capacity {
		copy(rb.items, rb.items[1:])
		rb.items[len(rb.items)-1] = item
		return
	}
	rb.items = append(rb.items, item)
}

func (rb *RingBuffer[T]) Len() int {
	return len(rb.items)
}

func (rb *RingBuffer[T]) Cap() int {
	return rb.capacity
}

// Items returns the window ordered oldest to newest. The slice aliases
// the buffer; callers must not retain it across pushes.
func (rb *RingBuffer[T]) Items() []T {
	return rb.items
}

// Last returns the n most recent entries, oldest first. Fewer than n
// buffered entries returns them all.
func (rb *RingBuffer[T]) Last(n int) []T {
	if n >= len(rb.items) {
		return rb.items
	}
	return rb.items[len(rb.items)-n:]
}

func (rb *RingBuffer[T]) Clear() {
	rb.items = rb.items[:0]
}
