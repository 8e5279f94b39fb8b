// Package scheduler runs the optional real-time follower: a cron job that
// advances the shared world clock by a fixed step, letting the calendar
// track wall-clock time when sync is enabled.
package scheduler

import (
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/worldsmith/almanac/internal/worldclock"
)

// Follower periodically advances a world clock on a cron schedule.
type Follower struct {
	cron   *cron.Cron
	clock  worldclock.Clock
	step   float64
	logger *slog.Logger
}

// New builds a follower that advances clock by step seconds every time the
// schedule fires. The schedule uses the standard five-field cron syntax,
// plus descriptors like "@every 1s".
func New(schedule string, step float64, clock worldclock.Clock, logger *slog.Logger) (*Follower, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f := &Follower{
		cron:   cron.New(),
		clock:  clock,
		step:   step,
		logger: logger,
	}
	if _, err := f.cron.AddFunc(schedule, f.tick); err != nil {
		return nil, err
	}
	return f, nil
}

// Start begins firing the schedule in its own goroutine.
func (f *Follower) Start() {
	f.logger.Info("follower started", slog.Float64("step_seconds", f.step))
	f.cron.Start()
}

// Stop stops the schedule and waits for any in-flight tick to finish.
func (f *Follower) Stop() {
	ctx := f.cron.Stop()
	<-ctx.Done()
	f.logger.Info("follower stopped")
}

// tick advances the clock by one step. A failed advance (persistence error)
// is logged and dropped; the next tick simply tries again from the clock's
// unchanged value, so no drift accumulates from skipped ticks.
func (f *Follower) tick() {
	if err := f.clock.Advance(f.step); err != nil {
		f.logger.Error("follower advance failed", slog.Any("error", err))
	}
}
