package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store holds the local SQLite database: the saved session and the
// append-only activity log.
type Store struct {
	db  *sqlx.DB
	seq *sequenceCounter
}

// Open connects to the SQLite database at path, applies pragmas and runs
// the schema migration.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	seq, err := newSequenceCounter(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, seq: seq}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Sessions returns the session repository.
func (s *Store) Sessions() SessionRepo {
	return &sessionRepo{db: s.db}
}

// Activity returns the activity log repository.
func (s *Store) Activity() ActivityRepo {
	return &activityRepo{db: s.db, seq: s.seq}
}

// applyPragmas configures SQLite for single-user local use.
func applyPragmas(db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// migrate creates the tables when missing. The activity tables are
// append-only; rows are never updated or reordered.
func migrate(db *sqlx.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS session (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			token TEXT NOT NULL,
			user_id INTEGER NOT NULL,
			user_name TEXT NOT NULL DEFAULT '',
			user_email TEXT NOT NULL DEFAULT '',
			user_role TEXT NOT NULL DEFAULT '',
			saved_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS video_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			seq INTEGER NOT NULL UNIQUE,
			run_id TEXT NOT NULL,
			lesson_id TEXT NOT NULL,
			elapsed INTEGER NOT NULL,
			watched INTEGER NOT NULL,
			reported INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS answer_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			seq INTEGER NOT NULL UNIQUE,
			run_id TEXT NOT NULL,
			lesson_id TEXT NOT NULL,
			question_id TEXT NOT NULL,
			level TEXT NOT NULL,
			answer TEXT NOT NULL,
			correct INTEGER NOT NULL,
			points INTEGER NOT NULL,
			time_spent INTEGER NOT NULL,
			hints_used INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS completion_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			seq INTEGER NOT NULL UNIQUE,
			run_id TEXT NOT NULL,
			lesson_id TEXT NOT NULL,
			level TEXT NOT NULL,
			score REAL NOT NULL,
			correct INTEGER NOT NULL,
			attempted INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
	}
	for _, stmt := range ddl {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// sequenceCounter assigns a single increasing sequence number to every
// activity event regardless of type. Per-table auto-increment ids can't
// establish cross-type ordering (did the answer come before or after the
// completion?); the shared counter can.
type sequenceCounter struct {
	db *sqlx.DB
}

func newSequenceCounter(db *sqlx.DB) (*sequenceCounter, error) {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`); err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}
	if _, err := db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`); err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}
	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number. The RETURNING clause
// makes the increment atomic at the database level.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	var seq int64
	err := sc.db.QueryRowxContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}
