// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bq

import "fmt"

// Impl selects the synchronization family behind a Buffer.
type Impl int

const (
	// ImplMonitor coordinates through one mutex and condition queues.
	ImplMonitor Impl = iota
	// ImplSemaphore coordinates through counting semaphores.
	ImplSemaphore
)

func (i Impl) String() string {
	switch i {
	case ImplMonitor:
		return "monitor"
	case ImplSemaphore:
		return "semaphore"
	default:
		return fmt.Sprintf("Impl(%d)", int(i))
	}
}

// ParseImpl maps a numeric selector to an Impl:
// 0 is ImplMonitor and 1 is ImplSemaphore.
// Any other value returns an error wrapping ErrUnknownImpl.
func ParseImpl(v int) (Impl, error) {
	switch Impl(v) {
	case ImplMonitor, ImplSemaphore:
		return Impl(v), nil
	}
	return ImplMonitor, fmt.Errorf("%w: %d", ErrUnknownImpl, v)
}

// Options configures buffer creation.
type Options struct {
	impl     Impl
	capacity int
}

// Builder creates buffers with fluent configuration.
//
// Example:
//
//	// Monitor family (default)
//	b := bq.Build[Job](bq.New(64))
//
//	// Semaphore family
//	b := bq.Build[Job](bq.New(64).Semaphore())
//
//	// Rendezvous channel with a concrete type
//	r := bq.BuildMonitor[Job](bq.New(0))
type Builder struct {
	opts Options
}

// New creates a buffer builder with the given capacity.
//
// Capacity 0 builds a rendezvous channel.
//
// Panics if capacity < 0.
func New(capacity int) *Builder {
	if capacity < 0 {
		panic("bq: capacity must be >= 0")
	}
	return &Builder{opts: Options{capacity: capacity}}
}

// Monitor selects ImplMonitor.
func (b *Builder) Monitor() *Builder {
	b.opts.impl = ImplMonitor
	return b
}

// Semaphore selects ImplSemaphore.
func (b *Builder) Semaphore() *Builder {
	b.opts.impl = ImplSemaphore
	return b
}

// Impl selects impl, typically obtained from ParseImpl.
// Panics if impl is not a known implementation.
func (b *Builder) Impl(impl Impl) *Builder {
	if _, err := ParseImpl(int(impl)); err != nil {
		panic(err)
	}
	b.opts.impl = impl
	return b
}

// Build creates a Buffer[T] of the selected family.
//
// For concrete return types, use:
//   - BuildMonitor[T](b) → *MonitorBuffer[T]
//   - BuildSemaphore[T](b) → *SemaphoreBuffer[T]
func Build[T any](b *Builder) Buffer[T] {
	if b.opts.impl == ImplSemaphore {
		return NewSemaphoreBuffer[T](b.opts.capacity)
	}
	return NewMonitorBuffer[T](b.opts.capacity)
}

// BuildMonitor creates a MonitorBuffer.
// Panics if builder selected another implementation.
func BuildMonitor[T any](b *Builder) *MonitorBuffer[T] {
	if b.opts.impl != ImplMonitor {
		panic("bq: BuildMonitor requires Monitor()")
	}
	return NewMonitorBuffer[T](b.opts.capacity)
}

// BuildSemaphore creates a SemaphoreBuffer.
// Panics if builder selected another implementation.
func BuildSemaphore[T any](b *Builder) *SemaphoreBuffer[T] {
	if b.opts.impl != ImplSemaphore {
		panic("bq: BuildSemaphore requires Semaphore()")
	}
	return NewSemaphoreBuffer[T](b.opts.capacity)
}
