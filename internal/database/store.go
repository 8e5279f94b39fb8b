package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/worldsmith/almanac/internal/model"
)

// =============================================================================
// Calendar Shape
// =============================================================================

// SaveShape persists the active calendar shape, replacing any previous one.
func (db *DB) SaveShape(ctx context.Context, shape *model.CalendarShape) error {
	doc, err := json.Marshal(shape)
	if err != nil {
		return fmt.Errorf("marshal shape: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO calendar_shape (id, document, updated_at)
		VALUES (1, ?, datetime('now'))
		ON CONFLICT(id) DO UPDATE SET
			document = excluded.document,
			updated_at = excluded.updated_at
	`, string(doc))
	if err != nil {
		return fmt.Errorf("save shape: %w", err)
	}
	return nil
}

// LoadShape returns the active calendar shape.
// Returns ErrNotFound when no shape has been saved yet.
func (db *DB) LoadShape(ctx context.Context) (*model.CalendarShape, error) {
	var doc string
	err := db.QueryRowContext(ctx,
		"SELECT document FROM calendar_shape WHERE id = 1",
	).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load shape: %w", err)
	}

	var shape model.CalendarShape
	if err := json.Unmarshal([]byte(doc), &shape); err != nil {
		return nil, fmt.Errorf("unmarshal shape: %w", err)
	}
	return &shape, nil
}

// =============================================================================
// Calendar State
// =============================================================================

// SaveState persists the tracked calendar position.
func (db *DB) SaveState(ctx context.Context, state *model.CalendarState) error {
	doc, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO calendar_state (id, document, updated_at)
		VALUES (1, ?, datetime('now'))
		ON CONFLICT(id) DO UPDATE SET
			document = excluded.document,
			updated_at = excluded.updated_at
	`, string(doc))
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// LoadState returns the tracked calendar position.
// Returns ErrNotFound when no state has been saved yet.
func (db *DB) LoadState(ctx context.Context) (*model.CalendarState, error) {
	var doc string
	err := db.QueryRowContext(ctx,
		"SELECT document FROM calendar_state WHERE id = 1",
	).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load state: %w", err)
	}

	var state model.CalendarState
	if err := json.Unmarshal([]byte(doc), &state); err != nil {
		return nil, fmt.Errorf("unmarshal state: %w", err)
	}
	return &state, nil
}

// =============================================================================
// World Clock
// =============================================================================

// SaveClock persists the shared world-clock value.
func (db *DB) SaveClock(ctx context.Context, value float64) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO world_clock (id, value, updated_at)
		VALUES (1, ?, datetime('now'))
		ON CONFLICT(id) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, value)
	if err != nil {
		return fmt.Errorf("save clock: %w", err)
	}
	return nil
}

// LoadClock returns the persisted world-clock value.
// Returns ErrNotFound when the clock has never been saved.
func (db *DB) LoadClock(ctx context.Context) (float64, error) {
	var value float64
	err := db.QueryRowContext(ctx,
		"SELECT value FROM world_clock WHERE id = 1",
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("load clock: %w", err)
	}
	return value, nil
}

// =============================================================================
// Combined Snapshot
// =============================================================================

// SaveDocument writes shape and state atomically. Used by imports so a
// half-applied document never becomes visible.
func (db *DB) SaveDocument(ctx context.Context, shape *model.CalendarShape, state *model.CalendarState) error {
	shapeDoc, err := json.Marshal(shape)
	if err != nil {
		return fmt.Errorf("marshal shape: %w", err)
	}
	stateDoc, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	return db.WithTx(ctx, func(tx *Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO calendar_shape (id, document, updated_at)
			VALUES (1, ?, datetime('now'))
			ON CONFLICT(id) DO UPDATE SET
				document = excluded.document,
				updated_at = excluded.updated_at
		`, string(shapeDoc)); err != nil {
			return fmt.Errorf("save shape: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO calendar_state (id, document, updated_at)
			VALUES (1, ?, datetime('now'))
			ON CONFLICT(id) DO UPDATE SET
				document = excluded.document,
				updated_at = excluded.updated_at
		`, string(stateDoc)); err != nil {
			return fmt.Errorf("save state: %w", err)
		}
		return nil
	})
}
