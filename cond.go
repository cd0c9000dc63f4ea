// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bq

import (
	"context"
	"sync"
	"time"

	"github.com/eapache/queue"
)

// condQueue is a FIFO condition queue bound to an external mutex.
//
// Unlike sync.Cond, a wait can be abandoned on context cancellation or on
// a deadline. Waiters are woken strictly in arrival order. A waiter that
// gives up removes its own registration, so an abandoned wait never
// absorbs a later signal.
//
// All methods must be called with the associated mutex held.
type condQueue struct {
	waiters *queue.Queue // of *parked, oldest first
}

// parked is one goroutine suspended in wait. The channel has room for
// exactly one wakeup token, so signal never blocks.
type parked struct {
	ready chan struct{}
}

func newCondQueue() *condQueue {
	return &condQueue{waiters: queue.New()}
}

// signal wakes the oldest waiter, if any, and reports whether it did.
func (c *condQueue) signal() bool {
	if c.waiters.Length() == 0 {
		return false
	}
	c.waiters.Remove().(*parked).wake()
	return true
}

// len returns the number of registered waiters.
func (c *condQueue) len() int {
	return c.waiters.Length()
}

// wait releases mu, parks until signalled, and reacquires mu.
//
// A zero deadline never expires. The remaining time is computed from
// deadline on every call, so a caller looping on its condition re-arms the
// timer with the time actually left.
//
// Returns nil on a signal. Returns ctx.Err() or errTimedOut if the wait was
// abandoned; the registration is then gone. If a signal raced with the
// abandonment and was already delivered, the signal wins and wait returns
// nil, so the wakeup is never lost.
func (c *condQueue) wait(ctx context.Context, mu *sync.Mutex, deadline time.Time) error {
	var expired <-chan time.Time
	if !deadline.IsZero() {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return errTimedOut
		}
		t := time.NewTimer(remaining)
		defer t.Stop()
		expired = t.C
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	p := newParked()
	c.waiters.Add(p)
	mu.Unlock()
	err := p.park(ctx, expired)
	mu.Lock()

	if err != nil && !unlink(c.waiters, p) {
		// Dequeued by signal while we were giving up.
		err = nil
	}
	return err
}

// timedDeadline maps the zero Time passed to Offer or Poll to an instant in
// the past. Inside wait the zero Time means no deadline at all.
func timedDeadline(deadline time.Time) time.Time {
	if deadline.IsZero() {
		return time.Unix(0, 0)
	}
	return deadline
}

func newParked() *parked {
	return &parked{ready: make(chan struct{}, 1)}
}

// wake hands p its wakeup token.
func (p *parked) wake() {
	p.ready <- struct{}{}
}

// park blocks until p is woken, ctx is done or expired fires.
// Called without any lock held.
func (p *parked) park(ctx context.Context, expired <-chan time.Time) error {
	select {
	case <-p.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-expired:
		return errTimedOut
	}
}

// unlink removes p from q, preserving the order of the others.
// Reports whether p was still registered.
func unlink(q *queue.Queue, p *parked) bool {
	found := false
	for n := q.Length(); n > 0; n-- {
		w := q.Remove().(*parked)
		if w == p {
			found = true
			continue
		}
		q.Add(w)
	}
	return found
}
