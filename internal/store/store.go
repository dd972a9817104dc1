package store

import (
	"context"
	"time"
)

// Extraction records one style-extraction run.
type Extraction struct {
	ID          string    `db:"id"`
	SampleCount int       `db:"sample_count"`
	Tone        string    `db:"tone"`
	Formality   int       `db:"formality"`
	Degraded    bool      `db:"degraded"`
	CreatedAt   time.Time `db:"created_at"`
}

// Draft records one generated reply and whether the operator accepted
// it.
type Draft struct {
	ID        string    `db:"id"`
	MessageID string    `db:"message_id"`
	Subject   string    `db:"subject"`
	Sender    string    `db:"sender"`
	Body      string    `db:"body"`
	Accepted  bool      `db:"accepted"`
	Attempts  int       `db:"attempts"`
	CreatedAt time.Time `db:"created_at"`
}

// Store defines the persistence interface for the local history log.
type Store interface {
	RecordExtraction(ctx context.Context, e Extraction) error
	RecentExtractions(ctx context.Context, limit int) ([]Extraction, error)

	RecordDraft(ctx context.Context, d Draft) error
	RecentDrafts(ctx context.Context, limit int) ([]Draft, error)

	Close() error
}
