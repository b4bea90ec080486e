package database

import (
	"context"
	"fmt"
	"log/slog"
)

// schema lists the DDL for each driver. Statements are idempotent.
//
// scheduled_at holds unix seconds; created_at and updated_at hold unix milliseconds.
// The partial unique index is what guarantees one active appointment per instant.
var schema = map[string][]string{
	DriverPostgres: {
		`CREATE TABLE IF NOT EXISTS appointments (
			id UUID PRIMARY KEY,
			patient_name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT NOT NULL,
			scheduled_at BIGINT NOT NULL,
			doctor TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'pending',
			created_at BIGINT NOT NULL,
			updated_at BIGINT NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS appointments_active_slot_uq
			ON appointments (scheduled_at) WHERE status <> 'cancelled'`,
		`CREATE INDEX IF NOT EXISTS appointments_scheduled_at_idx ON appointments (scheduled_at)`,
		`CREATE TABLE IF NOT EXISTS admins (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at BIGINT NOT NULL
		)`,
	},
	DriverSQLite: {
		`CREATE TABLE IF NOT EXISTS appointments (
			id TEXT PRIMARY KEY,
			patient_name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT NOT NULL,
			scheduled_at INTEGER NOT NULL,
			doctor TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'pending',
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS appointments_active_slot_uq
			ON appointments (scheduled_at) WHERE status <> 'cancelled'`,
		`CREATE INDEX IF NOT EXISTS appointments_scheduled_at_idx ON appointments (scheduled_at)`,
		`CREATE TABLE IF NOT EXISTS admins (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
	},
}

// Migrate creates the tables and indexes if they do not exist.
func (db *DB) Migrate(ctx context.Context) error {
	driver := db.cfg.Driver
	if driver == "" {
		driver = DriverPostgres
	}

	stmts, ok := schema[driver]
	if !ok {
		return fmt.Errorf("no schema for driver %q", driver)
	}

	for _, stmt := range stmts {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute migration query: %w", err)
		}
	}

	slog.Debug("database schema up to date", "driver", driver)
	return nil
}
