// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bq

import (
	"context"
	"sync"
	"time"
)

var _ Buffer[any] = (*SemaphoreBuffer[any])(nil)

// SemaphoreBuffer is a Buffer coordinated by two counting semaphores:
// empty holds one permit per free slot and full one permit per buffered
// item. A short mutex guards only the ring itself.
//
// Producers take an empty permit, store, and release a full permit;
// consumers mirror that. Both semaphores are FIFO, so waiting producers and
// waiting consumers are each served in arrival order.
//
// Capacity 0 makes a rendezvous channel. turn admits one hand-off at a
// time and taken tells its producer that a consumer claimed the item. Add
// hands the item straight to a consumer parked on full, or refuses.
//
// Memory: capacity slots (one for capacity 0)
type SemaphoreBuffer[T any] struct {
	mu       sync.Mutex
	ring     *ring[T]
	capacity int
	empty    *Semaphore
	full     *Semaphore

	// Rendezvous hand-off, used when capacity is 0.
	turn     *Semaphore
	taken    *Semaphore
	detached bool // in-flight hand-off came from Add; its consumer returns turn

	stats counters
}

// NewSemaphoreBuffer creates a semaphore-based buffer.
// Panics if capacity < 0.
func NewSemaphoreBuffer[T any](capacity int) *SemaphoreBuffer[T] {
	if capacity < 0 {
		panic("bq: capacity must be >= 0")
	}
	return &SemaphoreBuffer[T]{
		ring:     newRing[T](max(capacity, 1)),
		capacity: capacity,
		empty:    NewSemaphore(capacity),
		full:     NewSemaphore(0),
		turn:     NewSemaphore(1),
		taken:    NewSemaphore(0),
	}
}

// Put inserts item, blocking while the buffer is full.
func (s *SemaphoreBuffer[T]) Put(ctx context.Context, item T) error {
	return s.insert(ctx, item, time.Time{})
}

// Get removes the head item, blocking while the buffer is empty.
func (s *SemaphoreBuffer[T]) Get(ctx context.Context) (T, error) {
	return s.remove(ctx, time.Time{})
}

// Add inserts item if a slot is free, without blocking.
func (s *SemaphoreBuffer[T]) Add(item T) bool {
	if s.capacity == 0 {
		return s.handOffNow(item)
	}
	if !s.empty.TryAcquire() {
		s.stats.refused.Add(1)
		return false
	}
	s.store(item)
	s.full.Release()
	return true
}

// Remove removes the head item if there is one, without blocking.
func (s *SemaphoreBuffer[T]) Remove() (T, bool) {
	if !s.full.TryAcquire() {
		s.stats.refused.Add(1)
		var zero T
		return zero, false
	}
	return s.take(), true
}

// Offer inserts item, blocking while the buffer is full but no longer
// than deadline.
func (s *SemaphoreBuffer[T]) Offer(item T, deadline time.Time) bool {
	return s.insert(context.Background(), item, timedDeadline(deadline)) == nil
}

// Poll removes the head item, blocking while the buffer is empty but no
// longer than deadline.
func (s *SemaphoreBuffer[T]) Poll(deadline time.Time) (T, bool) {
	item, err := s.remove(context.Background(), timedDeadline(deadline))
	return item, err == nil
}

// Cap returns the buffer capacity.
func (s *SemaphoreBuffer[T]) Cap() int {
	return s.capacity
}

// Len returns the number of buffered items.
// An in-flight rendezvous hand-off is not buffered and does not count.
func (s *SemaphoreBuffer[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bufferedLocked()
}

// Stats returns a snapshot of the outcome counters.
func (s *SemaphoreBuffer[T]) Stats() Stats {
	return s.stats.snapshot()
}

func (s *SemaphoreBuffer[T]) insert(ctx context.Context, item T, deadline time.Time) error {
	if s.capacity == 0 {
		return s.handOff(ctx, item, deadline)
	}
	if err := s.empty.acquire(ctx, deadline); err != nil {
		s.stats.abandoned(err)
		return err
	}
	s.store(item)
	s.full.Release()
	return nil
}

func (s *SemaphoreBuffer[T]) remove(ctx context.Context, deadline time.Time) (T, error) {
	if err := s.full.acquire(ctx, deadline); err != nil {
		s.stats.abandoned(err)
		var zero T
		return zero, err
	}
	return s.take(), nil
}

// store puts item into the ring. The caller holds an empty permit or the
// rendezvous turn.
func (s *SemaphoreBuffer[T]) store(item T) {
	s.mu.Lock()
	s.ring.rawPut(item)
	s.stats.inserted.Add(1)
	s.stats.observe(s.bufferedLocked())
	s.mu.Unlock()
}

// take removes the head item and returns the permit its producer is
// waiting for. The caller holds a full permit.
func (s *SemaphoreBuffer[T]) take() T {
	s.mu.Lock()
	item := s.ring.rawGet()
	s.stats.removed.Add(1)
	detached := s.detached
	s.detached = false
	s.mu.Unlock()

	switch {
	case s.capacity > 0:
		s.empty.Release()
	case detached:
		s.turn.Release()
	default:
		s.taken.Release()
	}
	return item
}

// handOff deposits item in the rendezvous slot and waits until a consumer
// claims it. On cancellation or timeout the item is withdrawn, unless a
// consumer already holds its full permit, in which case the claim is
// about to complete and handOff succeeds.
func (s *SemaphoreBuffer[T]) handOff(ctx context.Context, item T, deadline time.Time) error {
	if err := s.turn.acquire(ctx, deadline); err != nil {
		s.stats.abandoned(err)
		return err
	}
	defer s.turn.Release()

	s.store(item)
	s.full.Release()

	err := s.taken.acquire(ctx, deadline)
	if err == nil {
		return nil
	}
	if s.full.TryAcquire() {
		s.mu.Lock()
		s.ring.rawGet()
		s.stats.inserted.Add(-1)
		s.mu.Unlock()
		s.stats.abandoned(err)
		return err
	}
	// Claimed between the timeout and the withdrawal.
	_ = s.taken.acquire(context.Background(), time.Time{})
	return nil
}

// handOffNow passes item to a consumer already parked on full.
func (s *SemaphoreBuffer[T]) handOffNow(item T) bool {
	if !s.turn.TryAcquire() {
		s.stats.refused.Add(1)
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ring.rawPut(item)
	s.detached = true
	if !s.full.ReleaseIfWaiting() {
		s.ring.rawGet()
		s.detached = false
		s.turn.Release()
		s.stats.refused.Add(1)
		return false
	}
	s.stats.inserted.Add(1)
	return true
}

func (s *SemaphoreBuffer[T]) bufferedLocked() int {
	if s.capacity == 0 {
		return 0
	}
	return s.ring.len()
}
