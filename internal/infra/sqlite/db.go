// Package sqlite provides SQLite-based persistent storage for Stridr.
// Uses WAL mode for concurrent reads and crash-safe writes.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/stridr.db.
// Enables WAL mode, foreign keys, and a 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "stridr.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// SQLite is single-writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// Per-user progress aggregate: a single versioned JSON
		// document, read-modify-write by the reconciler only.
		`CREATE TABLE IF NOT EXISTS progress (
			user_id    TEXT PRIMARY KEY,
			version    INTEGER NOT NULL,
			doc        TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		)`,

		// Append-only per-day activity log (one row per user+day).
		`CREATE TABLE IF NOT EXISTS daily_logs (
			user_id    TEXT NOT NULL,
			day        TEXT NOT NULL,
			steps      INTEGER NOT NULL DEFAULT 0,
			distance_m REAL NOT NULL DEFAULT 0,
			PRIMARY KEY (user_id, day)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_daily_logs_day ON daily_logs(day)`,

		// Raw pedometer samples ingested from the device.
		`CREATE TABLE IF NOT EXISTS step_samples (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id     TEXT NOT NULL,
			recorded_at INTEGER NOT NULL,
			steps       INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_samples_user_ts ON step_samples(user_id, recorded_at)`,

		// Per-user preferences document.
		`CREATE TABLE IF NOT EXISTS preferences (
			user_id TEXT PRIMARY KEY,
			doc     TEXT NOT NULL
		)`,

		// Notification outbox drained by the app.
		`CREATE TABLE IF NOT EXISTS notifications (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			category   TEXT NOT NULL,
			title      TEXT NOT NULL,
			body       TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			shown      BOOLEAN DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, shown)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
