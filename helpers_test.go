// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bq_test

import (
	"testing"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/bq"
	"code.hybscloud.com/iox"
)

// =============================================================================
// Test Helpers
// =============================================================================

// impls lists every Buffer implementation. Contract tests run once per entry.
var impls = []struct {
	name  string
	build func(capacity int) bq.Buffer[int]
}{
	{"Monitor", func(n int) bq.Buffer[int] { return bq.NewMonitorBuffer[int](n) }},
	{"Semaphore", func(n int) bq.Buffer[int] { return bq.NewSemaphoreBuffer[int](n) }},
}

// forEachImpl runs f as a subtest for every implementation.
func forEachImpl(t *testing.T, f func(t *testing.T, build func(int) bq.Buffer[int])) {
	t.Helper()
	for _, impl := range impls {
		t.Run(impl.name, func(t *testing.T) {
			f(t, impl.build)
		})
	}
}

// margin is the time a goroutine gets to reach a parked state, and the
// slack allowed on deadline checks.
func margin() time.Duration {
	if bq.RaceEnabled {
		return 100 * time.Millisecond
	}
	return 30 * time.Millisecond
}

// retryWithTimeout retries f until it returns true or timeout expires.
// Reports failure with the given message if timeout is reached.
func retryWithTimeout(t *testing.T, timeout time.Duration, f func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	backoff := iox.Backoff{}
	for !f() {
		if time.Now().After(deadline) {
			t.Fatalf("timeout after %v: %s", timeout, msg)
		}
		backoff.Wait()
	}
}

// waitForCount waits until counter reaches target or timeout expires.
func waitForCount(t *testing.T, timeout time.Duration, counter *atomix.Int64, target int64, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	backoff := iox.Backoff{}
	for counter.Load() < target {
		if time.Now().After(deadline) {
			t.Fatalf("timeout after %v: %s (got %d, want %d)", timeout, msg, counter.Load(), target)
		}
		backoff.Wait()
	}
}

// assertBlocked fails if done is closed within margin.
func assertBlocked(t *testing.T, done <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-done:
		t.Fatalf("%s returned, want it blocked", what)
	case <-time.After(margin()):
	}
}

// assertDone fails if done is not closed within timeout.
func assertDone(t *testing.T, done <-chan struct{}, timeout time.Duration, what string) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(timeout):
		t.Fatalf("%s still blocked after %v", what, timeout)
	}
}
