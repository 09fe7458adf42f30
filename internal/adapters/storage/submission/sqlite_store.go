package submission

import (
	"context"
	"time"

	"dangol/internal/adapters/storage"
	domain "dangol/internal/domain/submission"
)

const dateLayout = "2006-01-02T15:04:05.999999999Z07:00"

// SQLiteStore implements the submission Store interface using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new submission record store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save persists a submission record.
// PRE: record has a non-empty ID
// POST: Record is persisted
func (s *SQLiteStore) Save(ctx context.Context, record domain.Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO submission (id, phone, status, member_outcome, line_count, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.Phone, string(record.Status), string(record.MemberOutcome),
		record.LineCount, record.Error, record.CreatedAt.Format(dateLayout))
	return err
}

// ListRecent returns the newest submission records first.
// PRE: limit > 0
// POST: Returns at most limit records ordered by created_at desc
func (s *SQLiteStore) ListRecent(ctx context.Context, limit int) ([]domain.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, phone, status, member_outcome, line_count, error, created_at
		 FROM submission ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		var r domain.Record
		var createdAt string
		if err := rows.Scan(&r.ID, &r.Phone, &r.Status, &r.MemberOutcome, &r.LineCount, &r.Error, &createdAt); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(dateLayout, createdAt)
		records = append(records, r)
	}
	return records, rows.Err()
}
