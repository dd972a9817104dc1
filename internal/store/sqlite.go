package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using a local SQLite
// database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// RecordExtraction inserts one extraction run into the history log.
func (s *SQLiteStore) RecordExtraction(ctx context.Context, e Extraction) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	const query = `
		INSERT INTO extractions (
			id, sample_count, tone, formality, degraded, created_at
		) VALUES (?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		e.ID, e.SampleCount, e.Tone, e.Formality, e.Degraded,
		e.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording extraction %s: %w", e.ID, err)
	}
	return nil
}

// RecentExtractions returns the most recent extraction runs, newest
// first.
func (s *SQLiteStore) RecentExtractions(
	ctx context.Context, limit int,
) ([]Extraction, error) {
	if limit <= 0 {
		limit = 20
	}

	var out []Extraction
	err := s.db.SelectContext(ctx, &out,
		`SELECT id, sample_count, tone, formality, degraded, created_at
		 FROM extractions ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying extractions: %w", err)
	}
	return out, nil
}

// RecordDraft inserts one generated draft into the history log.
func (s *SQLiteStore) RecordDraft(ctx context.Context, d Draft) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	if d.Attempts < 1 {
		d.Attempts = 1
	}

	const query = `
		INSERT INTO drafts (
			id, message_id, subject, sender, body, accepted, attempts, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		d.ID, d.MessageID, d.Subject, d.Sender, d.Body, d.Accepted,
		d.Attempts, d.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording draft %s: %w", d.ID, err)
	}
	return nil
}

// RecentDrafts returns the most recent drafts, newest first.
func (s *SQLiteStore) RecentDrafts(
	ctx context.Context, limit int,
) ([]Draft, error) {
	if limit <= 0 {
		limit = 20
	}

	var out []Draft
	err := s.db.SelectContext(ctx, &out,
		`SELECT id, message_id, subject, sender, body, accepted, attempts, created_at
		 FROM drafts ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying drafts: %w", err)
	}
	return out, nil
}
