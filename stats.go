// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bq

import (
	"fmt"

	"code.hybscloud.com/atomix"
	"golang.org/x/sys/cpu"
)

// Stats is a snapshot of a buffer's outcome counters.
//
// Counters only grow, except Inserted which is decremented when a
// rendezvous hand-off is withdrawn before any consumer claimed it.
type Stats struct {
	Inserted  int64 // items accepted by Put, Add or Offer
	Removed   int64 // items delivered by Get, Remove or Poll
	Refused   int64 // Add or Remove calls that could not proceed
	TimedOut  int64 // Offer or Poll calls whose deadline passed
	Cancelled int64 // Put or Get calls abandoned on context cancellation
	HighWater int64 // largest number of items buffered at once
}

// String formats the snapshot as space separated key=value pairs.
func (s Stats) String() string {
	return fmt.Sprintf("inserted=%d removed=%d refused=%d timed_out=%d cancelled=%d high_water=%d",
		s.Inserted, s.Removed, s.Refused, s.TimedOut, s.Cancelled, s.HighWater)
}

// counters are updated on every operation outcome and read without the
// buffer lock by Stats. The padding keeps them off the lock's cache line.
type counters struct {
	_         cpu.CacheLinePad
	inserted  atomix.Int64
	removed   atomix.Int64
	refused   atomix.Int64
	timedOut  atomix.Int64
	cancelled atomix.Int64
	highWater atomix.Int64 // written with the buffer lock held
	_         cpu.CacheLinePad
}

// observe records n buffered items. Caller holds the buffer lock.
func (c *counters) observe(n int) {
	if v := int64(n); v > c.highWater.Load() {
		c.highWater.StoreRelaxed(v)
	}
}

// abandoned counts a wait that ended with err instead of an item or slot.
func (c *counters) abandoned(err error) {
	if err == errTimedOut {
		c.timedOut.Add(1)
		return
	}
	c.cancelled.Add(1)
}

func (c *counters) snapshot() Stats {
	return Stats{
		Inserted:  c.inserted.Load(),
		Removed:   c.removed.Load(),
		Refused:   c.refused.Load(),
		TimedOut:  c.timedOut.Load(),
		Cancelled: c.cancelled.Load(),
		HighWater: c.highWater.Load(),
	}
}
