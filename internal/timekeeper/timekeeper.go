// Package timekeeper owns the tracked calendar state and its synchronization
// relationship to the external world clock.
//
// The Keeper is the only mutable piece of the system. Every mutation is
// serialized behind a single mutex: read state, compute, persist, write
// state. The arithmetic itself lives in the engine package and stays pure.
//
// # Synchronization protocol
//
// The calendar date is the source of truth for civil meaning; the world
// clock is the source of truth for the shared numeric timeline. When sync is
// enabled the two track each other by exchanging deltas, never absolute
// values — the clock's zero point has no known relation to the calendar's
// epoch anchor.
//
// Re-entrancy between the two directions is broken by a small state machine
// with phases idle, applying-outbound, and applying-inbound. Only idle
// accepts a new trigger; a notification arriving while a guard phase is
// active is the expected steady-state suppression, not an error.
package timekeeper

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/worldsmith/almanac/internal/engine"
	"github.com/worldsmith/almanac/internal/metrics"
	"github.com/worldsmith/almanac/internal/model"
	"github.com/worldsmith/almanac/internal/worldclock"
)

// Store persists the active shape and tracked state. The in-memory state is
// only considered updated after the corresponding save succeeds; failures
// propagate to the caller with the change uncommitted.
type Store interface {
	SaveShape(ctx context.Context, shape *model.CalendarShape) error
	SaveState(ctx context.Context, state *model.CalendarState) error
}

// Sync phases. Only idle accepts a new inbound or outbound trigger.
const (
	phaseIdle int32 = iota
	phaseOutbound
	phaseInbound
)

// Keeper holds the current calendar state and coordinates all mutations.
type Keeper struct {
	mu    sync.Mutex
	shape *model.CalendarShape
	state model.CalendarState

	store  Store
	clock  worldclock.Clock
	logger *slog.Logger

	// phase is checked without the main mutex so a synchronous clock
	// notification triggered by our own outbound write can be dismissed
	// before it tries to take the lock.
	phase atomic.Int32

	shapeSubs []func(model.CalendarShape)
	stateSubs []func(model.CalendarState)
}

// New creates a Keeper over an already-loaded shape and state. The shape
// must have passed validation; the state is re-normalized and its weekday
// recomputed so a stale snapshot can never leak through.
func New(shape *model.CalendarShape, state model.CalendarState, store Store, clock worldclock.Clock, logger *slog.Logger) *Keeper {
	if logger == nil {
		logger = slog.Default()
	}
	state.DateTime = engine.Normalize(state.DateTime, shape)
	state.Weekday = engine.Weekday(state.DateTime.Year, state.DateTime.Month, state.DateTime.Day, shape, 0)
	return &Keeper{
		shape:  shape,
		state:  state,
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

// Shape returns the active calendar shape. Treat it as read-only; shapes are
// replaced wholesale, never mutated in place.
func (k *Keeper) Shape() *model.CalendarShape {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.shape
}

// State returns a copy of the current tracked state.
func (k *Keeper) State() model.CalendarState {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.state
}

// LinearTime returns the engine's current position on the linear timeline.
func (k *Keeper) LinearTime() float64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	return engine.ToLinearTime(k.state.DateTime, k.shape)
}

// OnShapeChanged registers an observer for shape replacements. Observers run
// synchronously after the new shape is persisted; they must not call back
// into the Keeper.
func (k *Keeper) OnShapeChanged(fn func(model.CalendarShape)) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.shapeSubs = append(k.shapeSubs, fn)
}

// OnStateChanged registers an observer for state mutations. Observers always
// see fully-normalized, fully-persisted state, never a partial write.
func (k *Keeper) OnStateChanged(fn func(model.CalendarState)) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.stateSubs = append(k.stateSubs, fn)
}

// Advance moves the calendar by amount units. Amount may be negative.
//
// Sub-day units have fixed sizes derived from the shape, with week meaning
// weekday-count days. Month and year are not fixed-size: the unit change is
// applied to the structured date and normalized, and the real delta is
// whatever linear-time difference that produces. "Advance one month" means
// "same day of month, next month", which costs a different number of seconds
// depending on the months traversed and their leap status.
func (k *Keeper) Advance(ctx context.Context, amount int, unit Unit) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	oldLinear := engine.ToLinearTime(k.state.DateTime, k.shape)

	var dt model.DateTime
	switch unit {
	case UnitSecond, UnitMinute, UnitHour, UnitDay, UnitWeek:
		delta := float64(amount) * k.unitSeconds(unit)
		dt = engine.FromLinearTime(oldLinear+delta, k.shape)
	case UnitMonth:
		dt = k.state.DateTime
		dt.Month += amount
		dt = engine.Normalize(dt, k.shape)
	case UnitYear:
		dt = k.state.DateTime
		dt.Year += amount
		dt = engine.Normalize(dt, k.shape)
	default:
		return fmt.Errorf("unknown time unit %q", unit)
	}

	err := k.commit(ctx, dt, oldLinear)
	metrics.RecordMutation("advance", err)
	return err
}

// unitSeconds returns the size of a fixed sub-day unit in seconds.
func (k *Keeper) unitSeconds(unit Unit) float64 {
	switch unit {
	case UnitSecond:
		return 1
	case UnitMinute:
		return float64(k.shape.TimeUnits.SecondsPerMinute)
	case UnitHour:
		return float64(k.shape.SecondsPerHour())
	case UnitDay:
		return float64(k.shape.SecondsPerDay())
	case UnitWeek:
		return float64(k.shape.SecondsPerDay()) * float64(len(k.shape.Weekdays))
	}
	return 0
}

// DateInput is a partial date for SetDate. Nil fields keep their current
// value.
type DateInput struct {
	Year  *int `json:"year,omitempty"`
	Month *int `json:"month,omitempty"`
	Day   *int `json:"day,omitempty"`
}

// TimeInput is a partial time of day for SetTime. Nil fields keep their
// current value.
type TimeInput struct {
	Hour   *int `json:"hour,omitempty"`
	Minute *int `json:"minute,omitempty"`
	Second *int `json:"second,omitempty"`
}

// SetDate applies a partial date. Out-of-range values are not rejected; they
// normalize according to the carry rules, so "day 40" simply rolls forward.
func (k *Keeper) SetDate(ctx context.Context, in DateInput) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	oldLinear := engine.ToLinearTime(k.state.DateTime, k.shape)

	dt := k.state.DateTime
	if in.Year != nil {
		dt.Year = *in.Year
	}
	if in.Month != nil {
		dt.Month = *in.Month
	}
	if in.Day != nil {
		dt.Day = *in.Day
	}

	err := k.commit(ctx, engine.Normalize(dt, k.shape), oldLinear)
	metrics.RecordMutation("set_date", err)
	return err
}

// SetTime applies a partial time of day with the same forgiving
// normalization as SetDate.
func (k *Keeper) SetTime(ctx context.Context, in TimeInput) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	oldLinear := engine.ToLinearTime(k.state.DateTime, k.shape)

	dt := k.state.DateTime
	if in.Hour != nil {
		dt.Hour = *in.Hour
	}
	if in.Minute != nil {
		dt.Minute = *in.Minute
	}
	if in.Second != nil {
		dt.Second = *in.Second
	}

	err := k.commit(ctx, engine.Normalize(dt, k.shape), oldLinear)
	metrics.RecordMutation("set_time", err)
	return err
}

// SetSyncEnabled toggles the external-clock link. Enabling sync moves
// neither clock: it only records the external clock's current value as the
// new baseline, so the next exchange cannot replay historical drift.
func (k *Keeper) SetSyncEnabled(ctx context.Context, enabled bool) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	st := k.state
	st.SyncEnabled = enabled
	if enabled && k.clock != nil {
		v := k.clock.Value()
		st.LastSyncedExternalTime = &v
	}

	err := k.finalize(ctx, st)
	metrics.RecordMutation("set_sync", err)
	return err
}

// InstallShape validates and installs a replacement shape. On validation
// failure the previously active shape remains in effect. The tracked date is
// re-normalized under the new shape, so a date that no longer exists (a
// removed month, a shortened day) carries into the nearest valid one.
func (k *Keeper) InstallShape(ctx context.Context, shape *model.CalendarShape) error {
	shape.EnsureIDs()
	if err := shape.Validate(); err != nil {
		metrics.RecordMutation("install_shape", err)
		return fmt.Errorf("invalid calendar shape: %w", err)
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	oldLinear := engine.ToLinearTime(k.state.DateTime, k.shape)

	if err := k.store.SaveShape(ctx, shape); err != nil {
		metrics.RecordMutation("install_shape", err)
		return fmt.Errorf("save shape: %w", err)
	}
	k.shape = shape

	dt := engine.Normalize(k.state.DateTime, shape)
	err := k.commit(ctx, dt, oldLinear)
	metrics.RecordMutation("install_shape", err)
	if err != nil {
		return err
	}

	for _, fn := range k.shapeSubs {
		fn(*shape)
	}
	return nil
}

// HandleExternalChange is the inbound half of the protocol, wired as a world
// clock subscriber. The notification is dismissed when a guard phase is
// active, when sync is disabled, or when the value matches the last synced
// one (the echo of our own outbound write). Otherwise the numeric delta
// since the last observed value is added to the engine's linear time —
// never an absolute re-derivation from the external clock alone.
func (k *Keeper) HandleExternalChange(v float64) {
	if !k.phase.CompareAndSwap(phaseIdle, phaseInbound) {
		metrics.RecordSync("inbound", "suppressed")
		return
	}
	defer k.phase.Store(phaseIdle)

	k.mu.Lock()
	defer k.mu.Unlock()

	if !k.state.SyncEnabled {
		metrics.RecordSync("inbound", "ignored")
		return
	}
	last := k.state.LastSyncedExternalTime
	if last != nil && *last == v {
		metrics.RecordSync("inbound", "noop")
		return
	}

	// A missing prior value means this is the first observation: baseline
	// only, zero delta.
	var delta float64
	if last != nil {
		delta = v - *last
	}

	linear := engine.ToLinearTime(k.state.DateTime, k.shape) + delta
	dt := engine.FromLinearTime(linear, k.shape)

	st := k.state
	st.DateTime = dt
	st.Weekday = engine.Weekday(dt.Year, dt.Month, dt.Day, k.shape, 0)
	st.LastSyncedExternalTime = &v

	if err := k.finalize(context.Background(), st); err != nil {
		k.logger.Error("inbound sync failed", slog.Any("error", err), slog.Float64("external_time", v))
		metrics.RecordSync("inbound", "error")
		return
	}

	metrics.RecordSync("inbound", "applied")
	metrics.SetLinearTime(engine.ToLinearTime(dt, k.shape))
	k.logger.Debug("inbound sync applied",
		slog.Float64("external_time", v),
		slog.Float64("delta", delta),
	)
}

// commit finishes an engine-originated mutation: derived weekday, outbound
// sync, persistence, observers. Callers hold the mutex and pass the linear
// time of the state as it was before their mutation.
func (k *Keeper) commit(ctx context.Context, dt model.DateTime, oldLinear float64) error {
	st := k.state
	st.DateTime = dt
	st.Weekday = engine.Weekday(dt.Year, dt.Month, dt.Day, k.shape, 0)

	newLinear := engine.ToLinearTime(dt, k.shape)

	// Outbound half of the protocol: apply exactly the delta this mutation
	// produced to the external clock. The guard dismisses the resulting
	// change notification before it can be re-applied to the engine. When
	// the mutation itself came from the inbound handler the phase is already
	// applying-inbound and no outbound write happens.
	if st.SyncEnabled && k.clock != nil {
		if k.phase.CompareAndSwap(phaseIdle, phaseOutbound) {
			err := k.clock.Advance(newLinear - oldLinear)
			if err == nil {
				v := k.clock.Value()
				st.LastSyncedExternalTime = &v
			}
			k.phase.Store(phaseIdle)
			if err != nil {
				metrics.RecordSync("outbound", "error")
				return fmt.Errorf("advance external clock: %w", err)
			}
			metrics.RecordSync("outbound", "applied")
		} else {
			metrics.RecordSync("outbound", "suppressed")
		}
	}

	if err := k.finalize(ctx, st); err != nil {
		return err
	}

	metrics.SetLinearTime(newLinear)
	return nil
}

// finalize persists the candidate state and, only on success, makes it the
// current in-memory state and notifies observers.
func (k *Keeper) finalize(ctx context.Context, st model.CalendarState) error {
	if err := k.store.SaveState(ctx, &st); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	k.state = st
	for _, fn := range k.stateSubs {
		fn(st)
	}
	return nil
}
