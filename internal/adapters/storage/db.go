package storage

import (
	"database/sql"
	"fmt"
)

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	// Enable foreign key enforcement
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Create tables
	schema := `
	CREATE TABLE IF NOT EXISTS participant (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		start_weight REAL NOT NULL DEFAULT 0,
		join_date TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS weight_sample (
		participant_id INTEGER NOT NULL,
		date TEXT NOT NULL,
		weight REAL NOT NULL,
		recorded_at TEXT,
		PRIMARY KEY (participant_id, date),
		FOREIGN KEY (participant_id) REFERENCES participant(id)
	);

	CREATE TABLE IF NOT EXISTS challenge_config (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		registration_start TEXT NOT NULL,
		registration_end TEXT NOT NULL,
		duration_days INTEGER NOT NULL,
		currency TEXT NOT NULL,
		prize_contribution REAL NOT NULL,
		announcement TEXT NOT NULL DEFAULT ''
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// MigrateDB applies data migrations after the schema exists.
// Participants persisted by earlier versions carry no status; they are
// backfilled as participating once here, so consumers never need to
// branch on a missing status.
// PRE: InitDB has run
// POST: every participant row has a non-empty status
func MigrateDB(db *sql.DB) error {
	if _, err := db.Exec(
		"UPDATE participant SET status = 'participating' WHERE status IS NULL OR status = ''",
	); err != nil {
		return fmt.Errorf("failed to backfill participant status: %w", err)
	}
	return nil
}
