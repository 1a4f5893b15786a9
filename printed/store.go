// Package printed keeps the durable set of already-printed records. The
// caller consults it before rendering and marks a record only after the
// device write succeeded, so delivery is at-least-once.
package printed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ByLCY/stylus/feed"
)

// Store is a SQLite-backed printed-record set.
type Store struct {
	db *sql.DB
}

// Entry is one row of print history.
type Entry struct {
	ID        string
	Author    string
	PrintedAt time.Time
}

// Open opens or creates the store at dbPath.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS printed (
		id         TEXT PRIMARY KEY,
		author     TEXT NOT NULL,
		printed_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_printed_at ON printed(printed_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Contains reports whether the record id was already printed.
func (s *Store) Contains(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM printed WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Mark records a successful print. Marking the same id twice is not an
// error; a retried record stays marked once.
func (s *Store) Mark(ctx context.Context, rec feed.Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO printed (id, author, printed_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		rec.ID, rec.Author, time.Now().UTC().Format(time.RFC3339))
	return err
}

// Recent returns up to n history entries, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, author, printed_at FROM printed ORDER BY printed_at DESC, id DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var at string
		if err := rows.Scan(&e.ID, &e.Author, &at); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, at); err == nil {
			e.PrintedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }
