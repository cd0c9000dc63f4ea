// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// This file contains examples with concurrent producer/consumer goroutines.

package bq_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/bq"
	"code.hybscloud.com/iox"
)

// Example_workerPool demonstrates a worker pool fed through a blocking
// buffer. Workers stop when the context is cancelled.
func Example_workerPool() {
	type Job struct {
		ID    int
		Input int
	}

	jobs := bq.Build[Job](bq.New(4))
	results := make([]int, 5)
	var completed atomix.Int32

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	// Start 3 workers
	for range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				job, err := jobs.Get(ctx)
				if err != nil {
					return // cancelled
				}
				results[job.ID] = job.Input * job.Input
				completed.Add(1)
			}
		}()
	}

	// Submit 5 jobs; Put waits while all 4 slots are taken
	for i := range 5 {
		jobs.Put(ctx, Job{ID: i, Input: i + 1})
	}

	backoff := iox.Backoff{}
	for completed.Load() < 5 {
		backoff.Wait()
	}
	cancel()
	wg.Wait()

	for i, r := range results {
		fmt.Printf("Job %d: %d² = %d\n", i, i+1, r)
	}

	// Output:
	// Job 0: 1² = 1
	// Job 1: 2² = 4
	// Job 2: 3² = 9
	// Job 3: 4² = 16
	// Job 4: 5² = 25
}

// Example_pipeline demonstrates a three-stage pipeline. The first link is
// a rendezvous channel, the second a semaphore-based buffer.
func Example_pipeline() {
	stage1to2 := bq.Build[int](bq.New(0))             // Generate → Double
	stage2to3 := bq.Build[int](bq.New(2).Semaphore()) // Double → Collect
	ctx := context.Background()

	var wg sync.WaitGroup

	// Stage 1: Generate numbers 1-5
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= 5; i++ {
			stage1to2.Put(ctx, i)
		}
	}()

	// Stage 2: Double each number
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range 5 {
			v, _ := stage1to2.Get(ctx)
			stage2to3.Put(ctx, v*2)
		}
	}()

	// Stage 3: Collect with a timed removal
	results := make([]int, 0, 5)
	for len(results) < 5 {
		if v, ok := stage2to3.Poll(time.Now().Add(time.Second)); ok {
			results = append(results, v)
		}
	}
	wg.Wait()

	for i, v := range results {
		fmt.Printf("Stage output %d: %d\n", i, v)
	}

	// Output:
	// Stage output 0: 2
	// Stage output 1: 4
	// Stage output 2: 6
	// Stage output 3: 8
	// Stage output 4: 10
}
