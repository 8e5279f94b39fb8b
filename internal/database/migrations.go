package database

// migrationsSQL contains all database migrations.
// Migrations are applied in order by version number.
// Each migration should be idempotent (safe to run multiple times).
var migrationsSQL = map[int]string{
	1: migrationV1CoreTables,
}

// migrationV1CoreTables creates the core schema.
//
// Key design decisions:
//
// 1. SINGLE-ROW TABLES
//   - There is exactly one active calendar per database, so shape, state,
//     and clock each live in a one-row table keyed id=1.
//   - A CHECK constraint enforces the single row; upserts target id=1.
//
// 2. JSON DOCUMENTS, NOT COLUMNS
//   - A calendar shape is a deeply nested, user-defined structure (months,
//     weekdays, leap rules, seasons, moons). It is stored as one JSON
//     document and validated in application code before writes.
//   - The tracked state is small but versioned together with the shape's
//     representation, so it is stored the same way.
//
// 3. CLOCK VALUE AS REAL
//   - The world clock is a raw seconds counter shared with external
//     systems. It may be fractional, so it is a REAL column, not INTEGER.
const migrationV1CoreTables = `
-- Migration 001: Core tables

CREATE TABLE IF NOT EXISTS calendar_shape (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    document TEXT NOT NULL,
    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS calendar_state (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    document TEXT NOT NULL,
    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS world_clock (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    value REAL NOT NULL,
    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`
