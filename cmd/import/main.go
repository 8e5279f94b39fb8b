// Command import loads a calendar document into the SQLite database.
//
// Usage:
//
//	go run ./cmd/import -file calendar.json -db data/almanac.db
//
// This tool:
// 1. Creates/opens the SQLite database
// 2. Runs migrations to ensure schema is current
// 3. Parses the document — a native export, a foreign calendars export,
//    or a YAML preset (by file extension)
// 4. Validates the translated calendar and writes shape and state in a
//    single transaction
//
// The import replaces the active calendar; import is all-or-nothing, so a
// document that fails validation leaves the database untouched.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/worldsmith/almanac/internal/database"
	"github.com/worldsmith/almanac/internal/engine"
	"github.com/worldsmith/almanac/internal/interchange"
	"github.com/worldsmith/almanac/internal/model"
)

func main() {
	// Parse command line flags
	filePath := flag.String("file", "", "Path to calendar document (JSON or YAML)")
	dbPath := flag.String("db", "data/almanac.db", "Path to SQLite database")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	// Setup logger
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))

	if *filePath == "" {
		logger.Error("missing required -file flag")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*filePath, *dbPath, logger); err != nil {
		logger.Error("import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("import complete")
}

func run(filePath, dbPath string, logger *slog.Logger) error {
	ctx := context.Background()

	// =========================================================================
	// Step 1: Read and translate the document
	// =========================================================================
	logger.Info("reading calendar document", slog.String("path", filePath))

	shape, state, err := parseDocument(filePath)
	if err != nil {
		return err
	}

	logger.Info("parsed calendar",
		slog.String("name", shape.Name),
		slog.Int("months", len(shape.Months)),
		slog.Int("weekdays", len(shape.Weekdays)),
		slog.Int("moons", len(shape.Moons)),
	)

	// =========================================================================
	// Step 2: Open database and run migrations
	// =========================================================================
	logger.Info("opening database", slog.String("path", dbPath))

	db, err := database.Open(database.DefaultConfig(dbPath), logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	migrated, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("migrations complete", slog.Int("applied", migrated))

	// =========================================================================
	// Step 3: Write shape and state atomically
	// =========================================================================
	if err := db.SaveDocument(ctx, shape, state); err != nil {
		return fmt.Errorf("save calendar: %w", err)
	}

	logger.Info("calendar installed",
		slog.String("name", shape.Name),
		slog.Int("year", state.DateTime.Year),
		slog.Int("month", state.DateTime.Month),
		slog.Int("day", state.DateTime.Day),
	)
	return nil
}

// parseDocument reads a calendar file, dispatching on extension: .yaml/.yml
// load as a preset, everything else goes through interchange detection.
func parseDocument(path string) (*model.CalendarShape, *model.CalendarState, error) {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		preset, err := interchange.LoadPresetFile(path)
		if err != nil {
			return nil, nil, err
		}
		shape := preset.Document.Config
		state := initialState(shape, presetDateTime(preset))
		return shape, state, nil

	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("read document: %w", err)
		}
		res, err := interchange.Import(data)
		if err != nil {
			return nil, nil, err
		}
		return res.Shape, initialState(res.Shape, res.State), nil
	}
}

func presetDateTime(p *interchange.Preset) *model.DateTime {
	if p.Document.State == nil {
		return nil
	}
	dt := p.Document.State.DateTime()
	return &dt
}

// initialState builds the tracked state for a fresh import: the document's
// position normalized under its own shape, or the epoch anchor when the
// document carries none.
func initialState(shape *model.CalendarShape, dt *model.DateTime) *model.CalendarState {
	state := shape.StartingState()
	if dt != nil {
		state.DateTime = engine.Normalize(*dt, shape)
	}
	state.Weekday = engine.Weekday(state.DateTime.Year, state.DateTime.Month, state.DateTime.Day, shape, 0)
	return &state
}
