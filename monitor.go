// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bq

import (
	"context"
	"sync"
	"time"
)

var _ Buffer[any] = (*MonitorBuffer[any])(nil)

// MonitorBuffer is a Buffer guarded by one mutex and two FIFO condition
// queues: producers park on notFull, consumers park on notEmpty.
//
// Every wait re-checks its condition after waking, and every successful
// insert or removal signals the opposite side, so a wakeup is never lost
// and a spurious or stolen wakeup only costs another check.
//
// Capacity 0 makes a rendezvous channel. The ring then has a single
// hand-off slot: Put and Offer deposit their item and wait until a
// consumer has taken it, withdrawing it again if they give up first. Add
// only deposits when a consumer is already waiting.
//
// Memory: capacity slots (one for capacity 0)
type MonitorBuffer[T any] struct {
	mu       sync.Mutex
	ring     *ring[T]
	capacity int
	notFull  *condQueue // producers waiting for a free slot
	notEmpty *condQueue // consumers waiting for an item

	// Rendezvous bookkeeping. The k-th deposit is claimed by the k-th take.
	taken       *condQueue // the producer whose hand-off is in flight
	deposits    uint64
	takes       uint64
	waitingGets int // consumers inside Get or Poll

	stats counters
}

// NewMonitorBuffer creates a monitor-based buffer.
// Panics if capacity < 0.
func NewMonitorBuffer[T any](capacity int) *MonitorBuffer[T] {
	if capacity < 0 {
		panic("bq: capacity must be >= 0")
	}
	return &MonitorBuffer[T]{
		ring:     newRing[T](max(capacity, 1)),
		capacity: capacity,
		notFull:  newCondQueue(),
		notEmpty: newCondQueue(),
		taken:    newCondQueue(),
	}
}

// Put inserts item, blocking while the buffer is full.
func (b *MonitorBuffer[T]) Put(ctx context.Context, item T) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.insert(ctx, item, time.Time{})
}

// Get removes the head item, blocking while the buffer is empty.
func (b *MonitorBuffer[T]) Get(ctx context.Context) (T, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.remove(ctx, time.Time{})
}

// Add inserts item if a slot is free, without blocking.
func (b *MonitorBuffer[T]) Add(item T) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ring.isFull() || (b.capacity == 0 && b.waitingGets == 0) {
		b.stats.refused.Add(1)
		return false
	}
	b.insertLocked(item)
	return true
}

// Remove removes the head item if there is one, without blocking.
func (b *MonitorBuffer[T]) Remove() (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ring.isEmpty() {
		b.stats.refused.Add(1)
		var zero T
		return zero, false
	}
	return b.removeLocked(), true
}

// Offer inserts item, blocking while the buffer is full but no longer
// than deadline.
func (b *MonitorBuffer[T]) Offer(item T, deadline time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.insert(context.Background(), item, timedDeadline(deadline)) == nil
}

// Poll removes the head item, blocking while the buffer is empty but no
// longer than deadline.
func (b *MonitorBuffer[T]) Poll(deadline time.Time) (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	item, err := b.remove(context.Background(), timedDeadline(deadline))
	return item, err == nil
}

// Cap returns the buffer capacity.
func (b *MonitorBuffer[T]) Cap() int {
	return b.capacity
}

// Len returns the number of buffered items.
// An in-flight rendezvous hand-off is not buffered and does not count.
func (b *MonitorBuffer[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bufferedLocked()
}

// Stats returns a snapshot of the outcome counters.
func (b *MonitorBuffer[T]) Stats() Stats {
	return b.stats.snapshot()
}

// insert waits for a free slot, then inserts. For capacity 0 it also waits
// until a consumer claimed the item, withdrawing it on cancellation or
// timeout unless the deposit already woke a parked consumer.
// Caller holds b.mu.
func (b *MonitorBuffer[T]) insert(ctx context.Context, item T, deadline time.Time) error {
	for b.ring.isFull() {
		if err := b.notFull.wait(ctx, &b.mu, deadline); err != nil {
			b.stats.abandoned(err)
			return err
		}
	}
	ticket, woke := b.insertLocked(item)
	if b.capacity > 0 {
		return nil
	}
	if woke {
		// The woken consumer, or a Remove ahead of it, claims the item.
		ctx, deadline = context.Background(), time.Time{}
	}
	for b.takes < ticket {
		if err := b.taken.wait(ctx, &b.mu, deadline); err != nil {
			b.withdrawLocked()
			b.stats.abandoned(err)
			return err
		}
	}
	return nil
}

// remove waits for an item, then removes it. Caller holds b.mu.
func (b *MonitorBuffer[T]) remove(ctx context.Context, deadline time.Time) (T, error) {
	b.waitingGets++
	defer func() { b.waitingGets-- }()
	for b.ring.isEmpty() {
		if err := b.notEmpty.wait(ctx, &b.mu, deadline); err != nil {
			b.stats.abandoned(err)
			var zero T
			return zero, err
		}
	}
	return b.removeLocked(), nil
}

// insertLocked stores item and wakes one consumer.
// Returns the deposit ticket and whether a consumer was woken.
func (b *MonitorBuffer[T]) insertLocked(item T) (uint64, bool) {
	b.ring.rawPut(item)
	b.deposits++
	b.stats.inserted.Add(1)
	b.stats.observe(b.bufferedLocked())
	return b.deposits, b.notEmpty.signal()
}

// removeLocked takes the head item and wakes one producer, plus the
// rendezvous producer waiting for its hand-off to be claimed.
func (b *MonitorBuffer[T]) removeLocked() T {
	item := b.ring.rawGet()
	b.takes++
	b.stats.removed.Add(1)
	b.notFull.signal()
	b.taken.signal()
	return item
}

// withdrawLocked takes back an unclaimed rendezvous hand-off.
func (b *MonitorBuffer[T]) withdrawLocked() {
	b.ring.rawGet()
	b.deposits--
	b.stats.inserted.Add(-1)
	b.notFull.signal()
}

func (b *MonitorBuffer[T]) bufferedLocked() int {
	if b.capacity == 0 {
		return 0
	}
	return b.ring.len()
}
