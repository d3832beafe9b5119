// Package shmring provides a lock-free single-producer, single-consumer ring
// for moving fixed-size values between two execution contexts (typically the
// two RP2040 cores) without locks.
//
// Index discipline:
//
//	head: next slot to write. Stored only by the producer.
//	tail: next slot to read. Stored only by the consumer.
//
// Both indices live in [0, capacity) and advance modulo capacity. The ring is
// empty iff head == tail and full iff (head+1)%capacity == tail, so one slot
// is always left unused and no shared counter is needed. A producer writes
// the slot first and publishes it with an atomic store of head (release); the
// consumer loads head (acquire) before copying a slot out, then publishes the
// freed slot with an atomic store of tail.
package shmring

import (
	"iter"
	"sync/atomic"
)

// Ring is a single-producer, single-consumer ring of T values.
// Exactly one goroutine may call the producer methods (TryReserve, Commit,
// TryPush) and exactly one the consumer methods (TryPop, Drain).
type Ring[T any] struct {
	buf  []T
	size uint32

	head atomic.Uint32 // producer index
	tail atomic.Uint32 // consumer index

	// Producer-private: slot handed out by TryReserve and not yet committed.
	reserved bool

	dropped atomic.Uint32

	readable chan struct{} // empty -> non-empty edge
}

// New allocates a ring with the given capacity; capacity-1 values fit.
func New[T any](capacity int) *Ring[T] {
	if capacity < 2 {
		panic("shmring: capacity must be >= 2")
	}
	return &Ring[T]{
		buf:      make([]T, capacity),
		size:     uint32(capacity),
		readable: make(chan struct{}, 1),
	}
}

func (r *Ring[T]) next(i uint32) uint32 {
	i++
	if i == r.size {
		return 0
	}
	return i
}

// Cap returns the number of values the ring can hold at once.
func (r *Ring[T]) Cap() int { return int(r.size - 1) }

// Len returns the number of committed, unread values. The result is a
// snapshot and may be stale by the time the caller uses it.
func (r *Ring[T]) Len() int {
	h := r.head.Load()
	t := r.tail.Load()
	if h >= t {
		return int(h - t)
	}
	return int(r.size - t + h)
}

// Dropped returns how many TryReserve/TryPush calls found the ring full.
func (r *Ring[T]) Dropped() uint32 { return r.dropped.Load() }

// Readable fires (coalesced) when a commit moves the ring from empty to
// non-empty. Callers must re-check state after waking.
func (r *Ring[T]) Readable() <-chan struct{} { return r.readable }

// ---- Producer side ----

// TryReserve returns the slot at head for writing, or false when the ring is
// full. It never blocks; a full ring means the caller's value is dropped.
// Calling TryReserve again before Commit returns the same slot.
func (r *Ring[T]) TryReserve() (*T, bool) {
	h := r.head.Load()
	if r.next(h) == r.tail.Load() { // acquire: consumer may have freed a slot
		r.reserved = false
		r.dropped.Add(1)
		return nil, false
	}
	r.reserved = true
	return &r.buf[h], true
}

// Commit publishes the slot returned by the last successful TryReserve.
// Without an outstanding reservation it does nothing.
func (r *Ring[T]) Commit() {
	if !r.reserved {
		return
	}
	r.reserved = false
	h := r.head.Load()
	wasEmpty := h == r.tail.Load()
	r.head.Store(r.next(h)) // release

	if wasEmpty {
		select {
		case r.readable <- struct{}{}:
		default:
		}
	}
}

// TryPush copies v into the ring. It reports false (and drops v) when full.
func (r *Ring[T]) TryPush(v T) bool {
	slot, ok := r.TryReserve()
	if !ok {
		return false
	}
	*slot = v
	r.Commit()
	return true
}

// ---- Consumer side ----

// TryPop copies out the oldest committed value.
func (r *Ring[T]) TryPop() (T, bool) {
	var zero T
	t := r.tail.Load()
	if t == r.head.Load() { // acquire
		return zero, false
	}
	v := r.buf[t]
	r.buf[t] = zero
	r.tail.Store(r.next(t)) // release
	return v, true
}

// Drain yields every value committed before or during the iteration, oldest
// first. Stopping the iteration early leaves the remaining values queued.
func (r *Ring[T]) Drain() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, ok := r.TryPop()
			if !ok || !yield(v) {
				return
			}
		}
	}
}
