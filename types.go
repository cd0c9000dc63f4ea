// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bq

import (
	"context"
	"time"
)

// Buffer is a bounded FIFO buffer shared by any number of producer and
// consumer goroutines.
//
// Every insert and removal has three access semantics:
//
//	blocking:     Put / Get     wait until possible (or ctx is done)
//	non-blocking: Add / Remove  never wait
//	timed:        Offer / Poll  wait until possible or the deadline passes
//
// All methods are safe for concurrent use. Items are delivered in the order
// they were accepted.
//
// Example:
//
//	b := bq.Build[int](bq.New(16))
//
//	// Producer
//	if err := b.Put(ctx, 42); err != nil {
//	    return err // ctx cancelled, nothing was inserted
//	}
//
//	// Consumer
//	v, ok := b.Poll(time.Now().Add(100 * time.Millisecond))
//	if !ok {
//	    // nothing arrived before the deadline
//	}
type Buffer[T any] interface {
	Producer[T]
	Consumer[T]

	// Cap returns the capacity fixed at construction.
	Cap() int

	// Len returns the number of buffered items. The value may be stale by
	// the time it is observed.
	Len() int

	// Stats returns a snapshot of the buffer's outcome counters.
	Stats() Stats
}

// Producer is the inserting half of a Buffer.
type Producer[T any] interface {
	// Put inserts item, waiting for a free slot as long as necessary.
	// Returns ctx.Err() if ctx is done before the item was inserted; in that
	// case the buffer is unchanged.
	Put(ctx context.Context, item T) error

	// Add inserts item only if a slot is free right now.
	// Returns false without waiting and without any state change otherwise.
	Add(item T) bool

	// Offer inserts item, waiting for a free slot no longer than deadline.
	// Returns false if the deadline passed first; the buffer is unchanged.
	Offer(item T, deadline time.Time) bool
}

// Consumer is the removing half of a Buffer.
//
// The boolean result separates "no item available" from a zero-valued item.
type Consumer[T any] interface {
	// Get removes the head item, waiting for one as long as necessary.
	// Returns ctx.Err() if ctx is done before an item was removed.
	Get(ctx context.Context) (T, error)

	// Remove removes the head item only if one is available right now.
	// Returns (zero-value, false) without waiting otherwise.
	Remove() (T, bool)

	// Poll removes the head item, waiting for one no longer than deadline.
	// Returns (zero-value, false) if the deadline passed first.
	Poll(deadline time.Time) (T, bool)
}
