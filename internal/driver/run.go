// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package driver runs periodic producer and consumer tasks against one
// shared buffer and logs every operation.
package driver

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"code.hybscloud.com/bq"
	"code.hybscloud.com/bq/internal/config"
)

// Run builds the buffer described by cfg, runs all tasks of cfg to
// completion and returns the buffer's statistics.
//
// Log lines go to out. The first task failure cancels the remaining tasks
// and is returned. With a blocking configuration whose producer and
// consumer totals do not match, some task never completes; cancel ctx to
// end the run.
func Run(ctx context.Context, cfg config.Config, out io.Writer) (bq.Stats, error) {
	impl, err := bq.ParseImpl(cfg.SemImpl)
	if err != nil {
		return bq.Stats{}, fmt.Errorf("driver: %w", err)
	}
	if cfg.BufferSize < 0 {
		return bq.Stats{}, fmt.Errorf("driver: %w: buffer_size %d", config.ErrInvalid, cfg.BufferSize)
	}
	b := bq.Build[int](bq.New(cfg.BufferSize).Impl(impl))
	err = Execute(ctx, b, Tasks(cfg), NewLogger(out, time.Now()))
	return b.Stats(), err
}

// Execute runs tasks concurrently against b and waits for all of them.
// It returns the first task error, after cancelling the others.
func Execute(ctx context.Context, b bq.Buffer[int], tasks []Task, lg *Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	for _, t := range tasks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := t.Run(ctx, b, lg); err != nil {
				once.Do(func() {
					firstErr = err
					cancel()
				})
			}
		}()
	}
	wg.Wait()
	return firstErr
}
