// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package driver

import (
	"context"
	"fmt"
	"time"

	"code.hybscloud.com/bq"
	"code.hybscloud.com/bq/internal/config"
)

// Role tells producers from consumers.
type Role int

const (
	Consumer Role = iota
	Producer
)

func (r Role) String() string {
	if r == Producer {
		return "producer"
	}
	return "consumer"
}

// Task is one periodic producer or consumer.
type Task struct {
	Role       Role
	ID         int
	Name       string
	Iterations int
	Period     time.Duration
	Semantics  Semantics
}

// Tasks lays out the tasks of cfg. Consumers come first with ids
// 0..NConsumers-1, producers follow with ids NConsumers..NConsumers+NProducers-1.
//
// Each task of a role runs NValues divided by the role's task count
// iterations; the remainder is dropped.
func Tasks(cfg config.Config) []Task {
	nc, np := max(cfg.NConsumers, 0), max(cfg.NProducers, 0)
	tasks := make([]Task, 0, nc+np)
	add := func(role Role, id, n int, period time.Duration) {
		tasks = append(tasks, Task{
			Role:       role,
			ID:         id,
			Name:       fmt.Sprintf("%s %d", role, id),
			Iterations: max(cfg.NValues, 0) / n,
			Period:     period,
			Semantics:  Semantics(cfg.Semantics),
		})
	}
	for i := range nc {
		add(Consumer, i, nc, cfg.ConsumerPeriod)
	}
	for i := nc; i < nc+np; i++ {
		add(Producer, i, np, cfg.ProducerPeriod)
	}
	return tasks
}

// Run performs the task's iterations against b.
//
// Iteration k calls one operation with deadline start + k*Period, logs its
// outcome and sleeps until that deadline. A refused or timed-out
// operation is logged as NULL and the loop continues. Cancellation ends
// the loop with ctx.Err(). A task with unknown semantics does nothing.
func (t Task) Run(ctx context.Context, b bq.Buffer[int], lg *Logger) error {
	if !t.Semantics.Valid() {
		return nil
	}
	deadline := lg.Start()
	for range t.Iterations {
		deadline = deadline.Add(t.Period)

		var (
			v   int
			err error
		)
		if t.Role == Producer {
			v, err = t.ID, put(ctx, b, t.Semantics, t.ID, deadline)
		} else {
			v, err = get(ctx, b, t.Semantics, deadline)
		}
		if !bq.IsNonFailure(err) {
			return fmt.Errorf("%s: %w", t.Name, err)
		}
		if err := lg.Log(t.Name, t.Semantics, v, err == nil); err != nil {
			return fmt.Errorf("%s: log: %w", t.Name, err)
		}
		if err := sleepUntil(ctx, deadline); err != nil {
			return fmt.Errorf("%s: %w", t.Name, err)
		}
	}
	return nil
}

// put calls the insert of semantics s. Refusal and timeout return
// bq.ErrWouldBlock.
func put(ctx context.Context, b bq.Producer[int], s Semantics, v int, deadline time.Time) error {
	switch s {
	case Blocking:
		return b.Put(ctx, v)
	case NonBlocking:
		if !b.Add(v) {
			return bq.ErrWouldBlock
		}
	case Timed:
		if !b.Offer(v, deadline) {
			return bq.ErrWouldBlock
		}
	}
	return nil
}

// get calls the removal of semantics s. "No item" returns
// bq.ErrWouldBlock.
func get(ctx context.Context, b bq.Consumer[int], s Semantics, deadline time.Time) (int, error) {
	var (
		v  int
		ok bool
	)
	switch s {
	case Blocking:
		return b.Get(ctx)
	case NonBlocking:
		v, ok = b.Remove()
	case Timed:
		v, ok = b.Poll(deadline)
	}
	if !ok {
		return 0, bq.ErrWouldBlock
	}
	return v, nil
}

// sleepUntil waits until deadline or until ctx is done.
// It returns at once if deadline already passed.
func sleepUntil(ctx context.Context, deadline time.Time) error {
	d := time.Until(deadline)
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
