// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bq_test

import (
	"errors"
	"fmt"
	"testing"

	"code.hybscloud.com/bq"
)

// =============================================================================
// Non-blocking Operations
// =============================================================================

func TestAddRemoveBasic(t *testing.T) {
	forEachImpl(t, func(t *testing.T, build func(int) bq.Buffer[int]) {
		b := build(4)
		if b.Cap() != 4 {
			t.Fatalf("Cap: got %d, want 4", b.Cap())
		}

		// Add to capacity
		for i := range 4 {
			if !b.Add(i + 100) {
				t.Fatalf("Add(%d): refused", i)
			}
			if b.Len() != i+1 {
				t.Fatalf("Len: got %d, want %d", b.Len(), i+1)
			}
		}

		// Full buffer refuses without change
		if b.Add(999) {
			t.Fatal("Add on full: accepted")
		}
		if b.Len() != 4 {
			t.Fatalf("Len after refused Add: got %d, want 4", b.Len())
		}

		// Remove in FIFO order
		for i := range 4 {
			v, ok := b.Remove()
			if !ok {
				t.Fatalf("Remove(%d): no item", i)
			}
			if v != i+100 {
				t.Fatalf("Remove(%d): got %d, want %d", i, v, i+100)
			}
		}

		// Empty buffer has no item
		if v, ok := b.Remove(); ok || v != 0 {
			t.Fatalf("Remove on empty: got (%d, %v), want (0, false)", v, ok)
		}
		if b.Len() != 0 {
			t.Fatalf("Len: got %d, want 0", b.Len())
		}
	})
}

func TestAddTwiceOnCapacityOne(t *testing.T) {
	forEachImpl(t, func(t *testing.T, build func(int) bq.Buffer[int]) {
		b := build(1)
		if !b.Add(5) {
			t.Fatal("first Add(5): refused")
		}
		if b.Add(5) {
			t.Fatal("second Add(5): accepted")
		}
		if b.Len() != 1 {
			t.Fatalf("Len: got %d, want 1", b.Len())
		}
		if v, ok := b.Remove(); !ok || v != 5 {
			t.Fatalf("Remove: got (%d, %v), want (5, true)", v, ok)
		}
	})
}

func TestZeroValueItem(t *testing.T) {
	forEachImpl(t, func(t *testing.T, build func(int) bq.Buffer[int]) {
		b := build(2)
		b.Add(0)
		v, ok := b.Remove()
		if !ok || v != 0 {
			t.Fatalf("Remove: got (%d, %v), want (0, true)", v, ok)
		}
		if _, ok := b.Remove(); ok {
			t.Fatal("Remove on empty: got an item")
		}
	})
}

func TestWraparound(t *testing.T) {
	forEachImpl(t, func(t *testing.T, build func(int) bq.Buffer[int]) {
		b := build(3)
		next, want := 0, 0
		for round := range 10 {
			for range 2 {
				if !b.Add(next) {
					t.Fatalf("round %d: Add(%d) refused", round, next)
				}
				next++
			}
			for range 2 {
				v, ok := b.Remove()
				if !ok || v != want {
					t.Fatalf("round %d: Remove got (%d, %v), want %d", round, v, ok, want)
				}
				want++
			}
		}
	})
}

func TestStatsCounts(t *testing.T) {
	forEachImpl(t, func(t *testing.T, build func(int) bq.Buffer[int]) {
		b := build(2)
		b.Add(1)
		b.Add(2)
		b.Add(3) // refused
		b.Remove()
		b.Remove()
		b.Remove() // refused

		s := b.Stats()
		want := bq.Stats{Inserted: 2, Removed: 2, Refused: 2, HighWater: 2}
		if s != want {
			t.Fatalf("Stats: got %v, want %v", s, want)
		}
		if got := s.String(); got != "inserted=2 removed=2 refused=2 timed_out=0 cancelled=0 high_water=2" {
			t.Fatalf("Stats.String: got %q", got)
		}
	})
}

func TestGenericItems(t *testing.T) {
	type event struct {
		id   int
		name string
	}
	b := bq.Build[*event](bq.New(2).Semaphore())
	e := &event{id: 1, name: "start"}
	b.Add(e)
	got, ok := b.Remove()
	if !ok || got != e {
		t.Fatalf("Remove: got (%v, %v), want the same pointer", got, ok)
	}
}

// =============================================================================
// Construction
// =============================================================================

func TestNegativeCapacityPanics(t *testing.T) {
	tests := []struct {
		name string
		f    func()
	}{
		{"New", func() { bq.New(-1) }},
		{"NewMonitorBuffer", func() { bq.NewMonitorBuffer[int](-1) }},
		{"NewSemaphoreBuffer", func() { bq.NewSemaphoreBuffer[int](-1) }},
		{"NewSemaphore", func() { bq.NewSemaphore(-1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatal("expected panic")
				}
			}()
			tt.f()
		})
	}
}

func TestBuild(t *testing.T) {
	if _, ok := bq.Build[int](bq.New(4)).(*bq.MonitorBuffer[int]); !ok {
		t.Fatal("Build default: want *MonitorBuffer")
	}
	if _, ok := bq.Build[int](bq.New(4).Semaphore()).(*bq.SemaphoreBuffer[int]); !ok {
		t.Fatal("Build Semaphore(): want *SemaphoreBuffer")
	}
	if _, ok := bq.Build[int](bq.New(4).Semaphore().Monitor()).(*bq.MonitorBuffer[int]); !ok {
		t.Fatal("Build Semaphore().Monitor(): want *MonitorBuffer")
	}
	if _, ok := bq.Build[int](bq.New(4).Impl(bq.ImplSemaphore)).(*bq.SemaphoreBuffer[int]); !ok {
		t.Fatal("Build Impl(ImplSemaphore): want *SemaphoreBuffer")
	}
	if got := bq.BuildMonitor[int](bq.New(0)).Cap(); got != 0 {
		t.Fatalf("BuildMonitor Cap: got %d, want 0", got)
	}
	if got := bq.BuildSemaphore[int](bq.New(8).Semaphore()).Cap(); got != 8 {
		t.Fatalf("BuildSemaphore Cap: got %d, want 8", got)
	}
}

func TestBuildMismatchPanics(t *testing.T) {
	tests := []struct {
		name string
		f    func()
	}{
		{"BuildMonitor with Semaphore()", func() { bq.BuildMonitor[int](bq.New(1).Semaphore()) }},
		{"BuildSemaphore without Semaphore()", func() { bq.BuildSemaphore[int](bq.New(1)) }},
		{"Impl out of range", func() { bq.New(1).Impl(bq.Impl(7)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatal("expected panic")
				}
			}()
			tt.f()
		})
	}
}

func TestParseImpl(t *testing.T) {
	tests := []struct {
		in   int
		want bq.Impl
		err  bool
	}{
		{0, bq.ImplMonitor, false},
		{1, bq.ImplSemaphore, false},
		{2, bq.ImplMonitor, true},
		{-1, bq.ImplMonitor, true},
	}
	for _, tt := range tests {
		got, err := bq.ParseImpl(tt.in)
		if tt.err {
			if !errors.Is(err, bq.ErrUnknownImpl) {
				t.Errorf("ParseImpl(%d): got %v, want ErrUnknownImpl", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseImpl(%d): got (%v, %v), want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestImplString(t *testing.T) {
	for impl, want := range map[bq.Impl]string{
		bq.ImplMonitor:   "monitor",
		bq.ImplSemaphore: "semaphore",
		bq.Impl(5):       "Impl(5)",
	} {
		if got := fmt.Sprint(impl); got != want {
			t.Errorf("String: got %q, want %q", got, want)
		}
	}
}

// =============================================================================
// Errors
// =============================================================================

func TestErrorClassification(t *testing.T) {
	wrapped := fmt.Errorf("consumer 0: %w", bq.ErrWouldBlock)
	if !bq.IsWouldBlock(wrapped) {
		t.Error("IsWouldBlock(wrapped): false")
	}
	if !bq.IsSemantic(bq.ErrWouldBlock) {
		t.Error("IsSemantic(ErrWouldBlock): false")
	}
	if !bq.IsNonFailure(nil) || !bq.IsNonFailure(bq.ErrWouldBlock) {
		t.Error("IsNonFailure: false for nil or ErrWouldBlock")
	}
	if bq.IsNonFailure(bq.ErrCapacityViolation) {
		t.Error("IsNonFailure(ErrCapacityViolation): true")
	}
}
