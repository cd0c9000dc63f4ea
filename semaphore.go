// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bq

import (
	"context"
	"sync"
	"time"

	"code.hybscloud.com/spin"
	"github.com/eapache/queue"
)

// spinRounds bounds how many times an acquire retries the fast path
// before parking.
const spinRounds = 4

// Semaphore is a FIFO counting semaphore.
//
// Release hands its permit directly to the oldest parked acquirer, so a
// permit is never stolen by a late TryAcquire while others wait. Acquires
// may be abandoned through a context or a deadline without leaking a
// permit or a registration.
//
// Example:
//
//	slots := bq.NewSemaphore(8)
//	if !slots.AcquireUntil(time.Now().Add(10 * time.Millisecond)) {
//	    return errBusy
//	}
//	defer slots.Release()
type Semaphore struct {
	mu      sync.Mutex
	permits int
	waiters *queue.Queue // of *parked, oldest first
}

// NewSemaphore creates a semaphore holding permits permits.
// Panics if permits < 0.
func NewSemaphore(permits int) *Semaphore {
	if permits < 0 {
		panic("bq: permits must be >= 0")
	}
	return &Semaphore{permits: permits, waiters: queue.New()}
}

// Acquire takes one permit, waiting as long as necessary.
// Returns ctx.Err() if ctx is done first; no permit is taken in that case.
// If a permit is available immediately, Acquire succeeds even when ctx is
// already done.
func (s *Semaphore) Acquire(ctx context.Context) error {
	return s.acquire(ctx, time.Time{})
}

// AcquireUntil takes one permit, waiting no longer than deadline.
// Reports whether a permit was taken.
func (s *Semaphore) AcquireUntil(deadline time.Time) bool {
	return s.acquire(context.Background(), deadline) == nil
}

// TryAcquire takes one permit only if one is available right now.
func (s *Semaphore) TryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tryLocked()
}

// Release returns one permit, waking the oldest parked acquirer if any.
func (s *Semaphore) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.waiters.Length() > 0 {
		s.waiters.Remove().(*parked).wake()
		return
	}
	s.permits++
}

// ReleaseIfWaiting hands one permit to the oldest parked acquirer.
// If nobody is parked, the permit is not stored and false is returned.
func (s *Semaphore) ReleaseIfWaiting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.waiters.Length() == 0 {
		return false
	}
	s.waiters.Remove().(*parked).wake()
	return true
}

// Available returns the number of permits that can be taken without waiting.
func (s *Semaphore) Available() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.permits
}

// Waiters returns the number of parked acquirers.
func (s *Semaphore) Waiters() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waiters.Length()
}

func (s *Semaphore) tryLocked() bool {
	if s.permits > 0 {
		s.permits--
		return true
	}
	return false
}

// acquire takes one permit. A zero deadline never expires.
// Returns nil, ctx.Err() or errTimedOut.
func (s *Semaphore) acquire(ctx context.Context, deadline time.Time) error {
	if deadline.IsZero() || time.Now().Before(deadline) {
		sw := spin.Wait{}
		for range spinRounds {
			if s.TryAcquire() {
				return nil
			}
			sw.Once()
		}
	}

	s.mu.Lock()
	if s.tryLocked() {
		s.mu.Unlock()
		return nil
	}
	var expired <-chan time.Time
	if !deadline.IsZero() {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			s.mu.Unlock()
			return errTimedOut
		}
		t := time.NewTimer(remaining)
		defer t.Stop()
		expired = t.C
	}
	if err := ctx.Err(); err != nil {
		s.mu.Unlock()
		return err
	}
	p := newParked()
	s.waiters.Add(p)
	s.mu.Unlock()

	err := p.park(ctx, expired)
	if err != nil {
		s.mu.Lock()
		if !unlink(s.waiters, p) {
			// Release handed us the permit while we were giving up.
			err = nil
		}
		s.mu.Unlock()
	}
	return err
}
