// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bq

import "fmt"

// ring is fixed-capacity FIFO storage.
//
// ring performs no synchronization. Every method must be called with the
// owning buffer's mutex held, and rawPut/rawGet must only be called when
// isFull/isEmpty say they can proceed.
type ring[T any] struct {
	buf   []T
	head  int // next slot to read
	tail  int // next slot to write
	count int
}

func newRing[T any](capacity int) *ring[T] {
	if capacity < 0 {
		panic("bq: capacity must be >= 0")
	}
	return &ring[T]{buf: make([]T, capacity)}
}

// rawPut appends item at the tail.
// Panics with ErrCapacityViolation if the ring is full.
func (r *ring[T]) rawPut(item T) {
	if r.count == len(r.buf) {
		panic(fmt.Errorf("%w: put on full ring (cap %d)", ErrCapacityViolation, len(r.buf)))
	}
	r.buf[r.tail] = item
	r.tail++
	if r.tail == len(r.buf) {
		r.tail = 0
	}
	r.count++
}

// rawGet removes and returns the head item.
// Panics with ErrCapacityViolation if the ring is empty.
func (r *ring[T]) rawGet() T {
	if r.count == 0 {
		panic(fmt.Errorf("%w: get on empty ring (cap %d)", ErrCapacityViolation, len(r.buf)))
	}
	item := r.buf[r.head]
	var zero T
	r.buf[r.head] = zero
	r.head++
	if r.head == len(r.buf) {
		r.head = 0
	}
	r.count--
	return item
}

func (r *ring[T]) isFull() bool {
	return r.count == len(r.buf)
}

func (r *ring[T]) isEmpty() bool {
	return r.count == 0
}

func (r *ring[T]) len() int {
	return r.count
}

func (r *ring[T]) cap() int {
	return len(r.buf)
}
