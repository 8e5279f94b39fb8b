package database

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/worldsmith/almanac/internal/model"
)

// testDB creates a temporary in-memory database for testing.
func testDB(t *testing.T) *DB {
	t.Helper()

	cfg := Config{
		Path:            ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	}

	// Quiet logger for tests
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	db, err := Open(cfg, logger)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	ctx := context.Background()
	if _, err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// -----------------------------------------------------------------
// DB tests
// -----------------------------------------------------------------

func TestOpen(t *testing.T) {
	db := testDB(t)

	ctx := context.Background()
	if err := db.Health(ctx); err != nil {
		t.Errorf("Health() error = %v", err)
	}
}

func TestMigrate(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	// Migrations already ran in testDB; running again should be a no-op.
	count, err := db.Migrate(ctx)
	if err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Migrate() count = %d, want 0 (already applied)", count)
	}
}

// -----------------------------------------------------------------
// Shape tests
// -----------------------------------------------------------------

func TestSaveLoadShape(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if _, err := db.LoadShape(ctx); !IsNotFound(err) {
		t.Errorf("LoadShape() on empty db error = %v, want not-found", err)
	}

	shape := model.Gregorian()
	if err := db.SaveShape(ctx, shape); err != nil {
		t.Fatalf("SaveShape() error = %v", err)
	}

	got, err := db.LoadShape(ctx)
	if err != nil {
		t.Fatalf("LoadShape() error = %v", err)
	}
	if got.Name != "Gregorian" || len(got.Months) != 12 || len(got.Weekdays) != 7 {
		t.Errorf("loaded shape = %q with %d months, %d weekdays", got.Name, len(got.Months), len(got.Weekdays))
	}
	if got.Moons[0].CycleLength != shape.Moons[0].CycleLength {
		t.Errorf("moon cycle = %v, want %v", got.Moons[0].CycleLength, shape.Moons[0].CycleLength)
	}

	// Saving again replaces, never accumulates.
	shape.Name = "Revised"
	if err := db.SaveShape(ctx, shape); err != nil {
		t.Fatalf("SaveShape() replace error = %v", err)
	}
	got, err = db.LoadShape(ctx)
	if err != nil {
		t.Fatalf("LoadShape() after replace error = %v", err)
	}
	if got.Name != "Revised" {
		t.Errorf("shape name after replace = %q, want Revised", got.Name)
	}
}

// -----------------------------------------------------------------
// State tests
// -----------------------------------------------------------------

func TestSaveLoadState(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if _, err := db.LoadState(ctx); !IsNotFound(err) {
		t.Errorf("LoadState() on empty db error = %v, want not-found", err)
	}

	baseline := 123456.5
	state := &model.CalendarState{
		DateTime:               model.DateTime{Year: 2024, Month: 1, Day: 29, Hour: 23, Minute: 59, Second: 59},
		Weekday:                4,
		SyncEnabled:            true,
		LastSyncedExternalTime: &baseline,
	}
	if err := db.SaveState(ctx, state); err != nil {
		t.Fatalf("SaveState() error = %v", err)
	}

	got, err := db.LoadState(ctx)
	if err != nil {
		t.Fatalf("LoadState() error = %v", err)
	}
	if got.DateTime != state.DateTime {
		t.Errorf("state datetime = %+v, want %+v", got.DateTime, state.DateTime)
	}
	if got.Weekday != 4 || !got.SyncEnabled {
		t.Errorf("state = weekday %d sync %v", got.Weekday, got.SyncEnabled)
	}
	if got.LastSyncedExternalTime == nil || *got.LastSyncedExternalTime != baseline {
		t.Errorf("lastSyncedExternalTime = %v, want %v", got.LastSyncedExternalTime, baseline)
	}
}

// -----------------------------------------------------------------
// Clock tests
// -----------------------------------------------------------------

func TestSaveLoadClock(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if _, err := db.LoadClock(ctx); !IsNotFound(err) {
		t.Errorf("LoadClock() on empty db error = %v, want not-found", err)
	}

	if err := db.SaveClock(ctx, 86400.25); err != nil {
		t.Fatalf("SaveClock() error = %v", err)
	}
	got, err := db.LoadClock(ctx)
	if err != nil {
		t.Fatalf("LoadClock() error = %v", err)
	}
	if got != 86400.25 {
		t.Errorf("clock = %v, want 86400.25", got)
	}

	// Fractional and negative values must survive.
	if err := db.SaveClock(ctx, -0.5); err != nil {
		t.Fatalf("SaveClock() negative error = %v", err)
	}
	got, err = db.LoadClock(ctx)
	if err != nil {
		t.Fatalf("LoadClock() error = %v", err)
	}
	if got != -0.5 {
		t.Errorf("clock = %v, want -0.5", got)
	}
}

// -----------------------------------------------------------------
// Snapshot tests
// -----------------------------------------------------------------

func TestSaveDocument(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	shape := model.Gregorian()
	state := shape.StartingState()
	if err := db.SaveDocument(ctx, shape, &state); err != nil {
		t.Fatalf("SaveDocument() error = %v", err)
	}

	gotShape, err := db.LoadShape(ctx)
	if err != nil {
		t.Fatalf("LoadShape() error = %v", err)
	}
	gotState, err := db.LoadState(ctx)
	if err != nil {
		t.Fatalf("LoadState() error = %v", err)
	}
	if gotShape.Name != shape.Name {
		t.Errorf("shape name = %q, want %q", gotShape.Name, shape.Name)
	}
	if gotState.DateTime != state.DateTime {
		t.Errorf("state = %+v, want %+v", gotState.DateTime, state.DateTime)
	}
}

func TestWithTxRollback(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	wantErr := os.ErrInvalid
	err := db.WithTx(ctx, func(tx *Tx) error {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO world_clock (id, value) VALUES (1, 42)",
		); err != nil {
			return err
		}
		return wantErr
	})
	if err != wantErr {
		t.Fatalf("WithTx() error = %v, want %v", err, wantErr)
	}

	if _, err := db.LoadClock(ctx); !IsNotFound(err) {
		t.Errorf("clock visible after rollback, error = %v", err)
	}
}
