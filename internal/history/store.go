// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a local SQLite log of finished conversion attempts.
// The log is write-mostly; nothing in it is read back into a session.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/file-converter/pkg/types"
)

const defaultMaxResults = 20

// Store manages the history database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// Open opens or creates the history database at cfg.Path and creates the
// schema if it does not exist.
func Open(cfg types.HistoryConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("history database path is empty")
	}
	if dir := filepath.Dir(cfg.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS attempts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session TEXT NOT NULL,
			file_name TEXT,
			target_format TEXT,
			conversion_id TEXT,
			outcome TEXT NOT NULL,
			message TEXT,
			download_url TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_created_at ON attempts(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_session ON attempts(session)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends an attempt. A zero CreatedAt is set to the current time.
func (s *Store) Record(ctx context.Context, a types.Attempt) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO attempts (session, file_name, target_format, conversion_id, outcome, message, download_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Session, a.FileName, string(a.TargetFormat), a.ConversionID,
		string(a.Outcome), a.Message, a.DownloadURL, a.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting attempt: %w", err)
	}
	return nil
}

// Recent returns up to limit attempts, newest first. A limit of zero or
// less uses the configured default.
func (s *Store) Recent(ctx context.Context, limit int) ([]types.Attempt, error) {
	if limit <= 0 {
		limit = s.maxResults
	}
	return s.query(ctx,
		`SELECT id, session, file_name, target_format, conversion_id, outcome, message, download_url, created_at
		 FROM attempts ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
}

// BySession returns every attempt made with the given session token, oldest first.
func (s *Store) BySession(ctx context.Context, session string) ([]types.Attempt, error) {
	return s.query(ctx,
		`SELECT id, session, file_name, target_format, conversion_id, outcome, message, download_url, created_at
		 FROM attempts WHERE session = ? ORDER BY created_at ASC, id ASC`, session)
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]types.Attempt, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying attempts: %w", err)
	}
	defer rows.Close()

	var attempts []types.Attempt
	for rows.Next() {
		var (
			a                                        types.Attempt
			fileName, format, convID, message, dlURL sql.NullString
			outcome, createdAt                       string
		)
		if err := rows.Scan(&a.ID, &a.Session, &fileName, &format, &convID, &outcome, &message, &dlURL, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning attempt: %w", err)
		}
		a.FileName = fileName.String
		a.TargetFormat = types.FormatID(format.String)
		a.ConversionID = convID.String
		a.Outcome = types.Outcome(outcome)
		a.Message = message.String
		a.DownloadURL = dlURL.String
		if t, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
			a.CreatedAt = t
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
