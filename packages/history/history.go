// Package history keeps a SQLite log of issued requests and their outcomes.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS calls (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	request_id  TEXT NOT NULL,
	method      TEXT NOT NULL,
	url         TEXT NOT NULL,
	call        TEXT NOT NULL,
	code        INTEGER NOT NULL,
	outcome     TEXT NOT NULL,
	duration_ms INTEGER NOT NULL,
	created_at  TIMESTAMP NOT NULL
)`

// Entry is one recorded request cycle.
type Entry struct {
	ID        int64
	RequestID string
	Method    string
	URL       string
	Call      string
	Code      int
	Outcome   string
	Duration  time.Duration
	CreatedAt time.Time
}

// Store is a request history backed by SQLite.
type Store struct {
	db           *sql.DB
	queryTimeout time.Duration
}

// Open opens (creating if needed) the history database at path. path may be
// a file path, "sqlite:path", "sqlite://path" or ":memory:".
func Open(path string) (*Store, error) {
	dsn := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(path), "sqlite://"), "sqlite:")
	if dsn == "" {
		return nil, fmt.Errorf("history: empty database path")
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// a single connection keeps ":memory:" databases alive and serializes writes
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &Store{db: db, queryTimeout: 30 * time.Second}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record appends e to the history. A zero CreatedAt is set to now.
func (s *Store) Record(ctx context.Context, e Entry) error {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO calls (request_id, method, url, call, code, outcome, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RequestID, e.Method, e.URL, e.Call, e.Code, e.Outcome, e.Duration.Milliseconds(), e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("recording call: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, request_id, method, url, call, code, outcome, duration_ms, created_at
		 FROM calls ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e  Entry
			ms int64
		)
		if err := rows.Scan(&e.ID, &e.RequestID, &e.Method, &e.URL, &e.Call, &e.Code, &e.Outcome, &ms, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		e.Duration = time.Duration(ms) * time.Millisecond
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}
