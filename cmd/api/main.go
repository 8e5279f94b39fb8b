// Package main is the entry point for the almanac API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/worldsmith/almanac/internal/api"
	"github.com/worldsmith/almanac/internal/config"
	"github.com/worldsmith/almanac/internal/database"
	"github.com/worldsmith/almanac/internal/interchange"
	"github.com/worldsmith/almanac/internal/logger"
	"github.com/worldsmith/almanac/internal/model"
	"github.com/worldsmith/almanac/internal/scheduler"
	"github.com/worldsmith/almanac/internal/timekeeper"
	"github.com/worldsmith/almanac/internal/worldclock"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Setup structured logging
	log := logger.Setup(cfg)

	log.Info("starting almanac API",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
		slog.String("log_level", cfg.LogLevel),
	)

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx := context.Background()

	// Database
	db, err := database.Open(database.DefaultConfig(cfg.DatabasePath), log)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if _, err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// World clock, restored from its persisted value. Every change is
	// written back through the persist hook; a failed write rolls the
	// change back before anyone observes it.
	clockValue, err := db.LoadClock(ctx)
	if err != nil && !database.IsNotFound(err) {
		return fmt.Errorf("load world clock: %w", err)
	}
	clock := worldclock.NewMemory(clockValue, worldclock.WithPersist(func(v float64) error {
		return db.SaveClock(context.Background(), v)
	}))

	// Calendar shape and state
	shape, state, err := bootstrap(ctx, cfg, db, log)
	if err != nil {
		return fmt.Errorf("bootstrap calendar: %w", err)
	}

	keeper := timekeeper.New(shape, state, db, clock, log)
	unsubscribe := clock.Subscribe(keeper.HandleExternalChange)
	defer unsubscribe()

	// Optional real-time follower
	if cfg.FollowCron != "" {
		follower, err := scheduler.New(cfg.FollowCron, cfg.FollowStepSeconds, clock, log)
		if err != nil {
			return fmt.Errorf("build follower: %w", err)
		}
		follower.Start()
		defer follower.Stop()
	}

	// HTTP server
	handlers := api.NewHandlers(keeper, db, cfg, log)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.SetupRoutes(handlers, cfg, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-stop.Done():
	}

	log.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	log.Info("almanac API stopped")
	return nil
}

// bootstrap loads the persisted calendar, or installs an initial one when
// the database is empty: a preset named "gregorian" from the presets
// directory if present, the built-in Gregorian reference otherwise.
func bootstrap(ctx context.Context, cfg *config.Config, db *database.DB, log *slog.Logger) (*model.CalendarShape, model.CalendarState, error) {
	shape, err := db.LoadShape(ctx)
	switch {
	case err == nil:
		state, err := db.LoadState(ctx)
		if err != nil && !database.IsNotFound(err) {
			return nil, model.CalendarState{}, fmt.Errorf("load state: %w", err)
		}
		if err == nil {
			return shape, *state, nil
		}
		return shape, shape.StartingState(), nil

	case database.IsNotFound(err):
		shape, state := initialCalendar(cfg, log)
		if err := db.SaveDocument(ctx, shape, &state); err != nil {
			return nil, model.CalendarState{}, fmt.Errorf("save initial calendar: %w", err)
		}
		log.Info("installed initial calendar", slog.String("name", shape.Name))
		return shape, state, nil

	default:
		return nil, model.CalendarState{}, fmt.Errorf("load shape: %w", err)
	}
}

// initialCalendar picks the first-run calendar definition.
func initialCalendar(cfg *config.Config, log *slog.Logger) (*model.CalendarShape, model.CalendarState) {
	presets, err := interchange.LoadPresetDir(cfg.PresetsDir)
	if err != nil {
		log.Warn("presets directory unusable, using built-in calendar", slog.Any("error", err))
	}
	for _, p := range presets {
		if p.Slug != "gregorian" {
			continue
		}
		shape := p.Document.Config
		state := shape.StartingState()
		if p.Document.State != nil {
			state.DateTime = p.Document.State.DateTime()
		}
		return shape, state
	}

	shape := model.Gregorian()
	return shape, shape.StartingState()
}
