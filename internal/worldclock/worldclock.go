// Package worldclock models the externally-owned linear clock the calendar
// engine synchronizes against.
//
// The clock is a single real-valued, monotonically meaningful timeline shared
// with other subsystems. The engine never assumes the clock's zero point has
// any relation to its own epoch anchor: all synchronization is delta-based.
package worldclock

import (
	"fmt"
	"sync"
)

// Clock is the interface the synchronizer and followers depend on. The
// engine treats the clock as shared and externally observable; it is the
// sole writer only of the deltas it applies, never of absolute values.
type Clock interface {
	// Value returns the clock's current value in seconds.
	Value() float64

	// Advance adds delta seconds to the clock and notifies subscribers.
	Advance(delta float64) error

	// Subscribe registers a callback invoked with the new value after every
	// change. The returned function cancels the subscription. Callbacks are
	// delivered synchronously on the advancing goroutine; subscribers must
	// not call Advance re-entrantly.
	Subscribe(fn func(newValue float64)) (cancel func())
}

// Memory is an in-memory Clock with optional persistence. Safe for
// concurrent use.
type Memory struct {
	mu      sync.Mutex
	value   float64
	subs    map[int]func(float64)
	nextSub int

	// persist, when set, is called with the new value inside Advance before
	// subscribers are notified. A persist error aborts the advance and rolls
	// the value back.
	persist func(float64) error
}

// Option configures a Memory clock.
type Option func(*Memory)

// WithPersist attaches a persistence hook called on every change.
func WithPersist(fn func(value float64) error) Option {
	return func(m *Memory) { m.persist = fn }
}

// NewMemory creates a clock starting at the given value.
func NewMemory(initial float64, opts ...Option) *Memory {
	m := &Memory{
		value: initial,
		subs:  make(map[int]func(float64)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Value returns the current clock value.
func (m *Memory) Value() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value
}

// Advance adds delta to the clock, persists the new value if a hook is
// configured, and notifies subscribers synchronously.
func (m *Memory) Advance(delta float64) error {
	m.mu.Lock()
	newValue := m.value + delta
	if m.persist != nil {
		if err := m.persist(newValue); err != nil {
			m.mu.Unlock()
			return fmt.Errorf("persist clock value: %w", err)
		}
	}
	m.value = newValue

	fns := make([]func(float64), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	// Notify outside the lock so subscribers may read Value.
	for _, fn := range fns {
		fn(newValue)
	}
	return nil
}

// Subscribe registers a change callback and returns its cancel function.
func (m *Memory) Subscribe(fn func(float64)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}
