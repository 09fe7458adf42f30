package submission

import (
	"context"

	domain "dangol/internal/domain/submission"
)

// Store defines the interface for submission audit persistence.
type Store interface {
	// Save persists a submission record.
	// PRE: record has a non-empty ID
	// POST: Record is persisted
	Save(ctx context.Context, record domain.Record) error

	// ListRecent returns the newest submission records first.
	// PRE: limit > 0
	// POST: Returns at most limit records ordered by created_at desc
	ListRecent(ctx context.Context, limit int) ([]domain.Record, error)
}

// Ensure SQLiteStore implements Store interface.
var _ Store = (*SQLiteStore)(nil)
