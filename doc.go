// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package bq provides bounded FIFO buffers shared between many producer
// and consumer goroutines.
//
// A buffer of capacity N holds at most N items. Every insert and removal
// comes in three access semantics:
//
//	Blocking      Put(ctx, v) / Get(ctx)   wait until possible or ctx is done
//	Non-blocking  Add(v) / Remove()        never wait
//	Timed         Offer(v, t) / Poll(t)    wait until possible or t passes
//
// A failed operation never has a partial effect: a cancelled Put inserted
// nothing, a timed-out Poll removed nothing.
//
// # Quick Start
//
// Direct constructors:
//
//	b := bq.NewMonitorBuffer[Job](64)
//	b := bq.NewSemaphoreBuffer[Job](64)
//
// Builder API selects the implementation:
//
//	b := bq.Build[Job](bq.New(64))              // → MonitorBuffer
//	b := bq.Build[Job](bq.New(64).Semaphore())  // → SemaphoreBuffer
//
//	impl, err := bq.ParseImpl(cfgValue)
//	b := bq.Build[Job](bq.New(64).Impl(impl))
//
// # Basic Usage
//
//	b := bq.Build[int](bq.New(2))
//
//	b.Add(1)                 // true
//	b.Add(2)                 // true
//	b.Add(3)                 // false: full, nothing changed
//
//	v, ok := b.Remove()      // 1, true
//	_ = b.Put(ctx, 3)        // slot free, returns at once
//
//	// Wait for an item at most 10ms
//	v, ok = b.Poll(time.Now().Add(10 * time.Millisecond))
//	if !ok {
//	    // no item before the deadline
//	}
//
// A zero item received with ok == true is a real item. Remove and Poll
// signal "no item" only through ok.
//
// # Implementations
//
// Two families implement Buffer with identical observable behavior:
//
//	MonitorBuffer    one mutex, FIFO condition queues notFull / notEmpty
//	SemaphoreBuffer  counting semaphores for free slots and buffered items
//
// Both serve waiters of the same role in arrival order. Waiting is
// abandoned on context cancellation or on the deadline without leaving a
// stale registration behind, and a wakeup that races with such an
// abandonment is never lost.
//
// # Rendezvous
//
// Capacity 0 builds a synchronous channel. Put and Offer complete only
// after a consumer took the item; a producer that gives up first takes its
// item back. Add succeeds only when a consumer is already waiting in Get or
// Poll, and Remove only while a Put or Offer is handing an item over. Len
// is always 0.
//
//	r := bq.Build[Msg](bq.New(0))
//	go func() { _ = r.Put(ctx, msg) }() // returns once received
//	m, err := r.Get(ctx)
//
// # Error Handling
//
// Put and Get fail only with ctx.Err(). The remaining operations report
// refusal as a boolean. Callers that fold all outcomes into an error use
// ErrWouldBlock for refusal and timeout:
//
//	err := ctx.Err()
//	if !b.Offer(v, deadline) {
//	    err = bq.ErrWouldBlock
//	}
//	if bq.IsWouldBlock(err) {
//	    // try again later
//	}
//
// ErrWouldBlock is an alias for iox.ErrWouldBlock, so IsWouldBlock,
// IsSemantic and IsNonFailure interoperate with iox-based code.
//
// # Statistics
//
// Stats returns the inserted, removed, refused, timed-out and cancelled
// counts and the high-water mark of buffered items:
//
//	fmt.Println(b.Stats()) // inserted=10 removed=10 refused=0 ...
//
// # Semaphore
//
// The FIFO counting semaphore behind SemaphoreBuffer is exported. Release
// hands its permit to the oldest waiter, so TryAcquire never overtakes a
// parked acquirer:
//
//	s := bq.NewSemaphore(4)
//	if err := s.Acquire(ctx); err != nil {
//	    return err
//	}
//	defer s.Release()
//
// # Race Detection
//
// RaceEnabled reports whether the race detector is active. Tests use it to
// reduce iteration counts and widen timing margins.
//
// # Dependencies
//
// This package uses:
//   - [code.hybscloud.com/iox] for semantic errors (ErrWouldBlock)
//   - [code.hybscloud.com/atomix] for the statistics counters
//   - [code.hybscloud.com/spin] for the semaphore's spin-then-park acquire
//   - [github.com/eapache/queue] for the FIFO waiter queues
package bq
