// Package queue provides a bounded FIFO ring of small integer identities.
//
// A Ring never allocates and never overwrites: Push rejects items once the
// ring is full, and Pop/Peek report the Empty sentinel when there is nothing
// to return. One slot of the backing array is always left unused so that an
// empty ring (front == back) can be told apart from a full one.
//
// A Ring is not safe for concurrent use.
package queue

// Capacity is the size of the backing array. A ring holds at most Capacity-1 items.
const Capacity = 1024

// Empty is returned by Pop and Peek when the ring holds no items.
const Empty = 0xFFFF

// Ring is a fixed-capacity FIFO. The zero value is not ready; call Init first.
type Ring[T ~uint16] struct {
	items [Capacity]T
	front uint16
	back  uint16
	ready bool
}

// Init resets the ring to the canonical empty state, whatever it held before.
func (r *Ring[T]) Init() {
	r.front = 0
	r.back = 0
	r.ready = true
}

func (r *Ring[T]) mustBeReady() {
	if r == nil {
		panic("queue: nil ring")
	}
	if !r.ready {
		panic("queue: ring used before Init")
	}
}

// IsEmpty reports whether the ring holds no items.
func (r *Ring[T]) IsEmpty() bool {
	r.mustBeReady()
	return r.front == r.back
}

// IsFull reports whether a Push would be rejected.
func (r *Ring[T]) IsFull() bool {
	r.mustBeReady()
	return (r.back+1)%Capacity == r.front
}

// Size returns the number of queued items.
func (r *Ring[T]) Size() int {
	r.mustBeReady()
	return (int(r.back) - int(r.front) + Capacity) % Capacity
}

// Cap returns the maximum number of items the ring can hold at once.
func (r *Ring[T]) Cap() int {
	r.mustBeReady()
	return Capacity - 1
}

// Push appends item at the back. It returns false, leaving the ring
// untouched, when the ring is full.
func (r *Ring[T]) Push(item T) bool {
	if r.IsFull() {
		return false
	}
	r.items[r.back] = item
	r.back = (r.back + 1) % Capacity
	return true
}

// Pop removes and returns the front item, or Empty if there is none.
func (r *Ring[T]) Pop() T {
	if r.IsEmpty() {
		return Empty
	}
	item := r.items[r.front]
	r.front = (r.front + 1) % Capacity
	return item
}

// Peek returns the front item without removing it, or Empty if there is none.
func (r *Ring[T]) Peek() T {
	if r.IsEmpty() {
		return Empty
	}
	return r.items[r.front]
}

// Iterate returns a cursor over the queued items from front to back.
// Every call starts a fresh cursor; iterating never changes the ring.
func (r *Ring[T]) Iterate() Iterator[T] {
	r.mustBeReady()
	return Iterator[T]{ring: r, cursor: r.front}
}

// Iterator walks a Ring without consuming it.
type Iterator[T ~uint16] struct {
	ring   *Ring[T]
	cursor uint16
}

// Next returns the item under the cursor and advances it. The second result
// is false once the cursor reaches the back of the ring.
func (it *Iterator[T]) Next() (T, bool) {
	if it.ring == nil {
		panic("queue: zero Iterator")
	}
	if it.cursor == it.ring.back {
		return 0, false
	}
	item := it.ring.items[it.cursor]
	it.cursor = (it.cursor + 1) % Capacity
	return item, true
}
