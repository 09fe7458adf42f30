package storage

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// DefaultSlowQueryMs is the default threshold for slow query warnings.
const DefaultSlowQueryMs = 50

// TimedDB wraps a *sql.DB to log slow queries via slog. It satisfies the
// SQLDB interface so it can be passed to any store constructor.
type TimedDB struct {
	db        *sql.DB
	threshold time.Duration
}

// Compile-time check that *TimedDB satisfies SQLDB.
var _ SQLDB = (*TimedDB)(nil)

// NewTimedDB wraps a *sql.DB with slow-query logging. The threshold comes
// from DANGOL_SLOW_QUERY_MS, falling back to DefaultSlowQueryMs.
// PRE: db is a valid database connection
func NewTimedDB(db *sql.DB) *TimedDB {
	ms := DefaultSlowQueryMs
	if v := os.Getenv("DANGOL_SLOW_QUERY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ms = n
		}
	}
	return &TimedDB{db: db, threshold: time.Duration(ms) * time.Millisecond}
}

func (t *TimedDB) observe(query string, start time.Time) {
	elapsed := time.Since(start)
	if elapsed >= t.threshold {
		slog.Warn("slow_query", "query", query, "elapsed_ms", elapsed.Milliseconds())
	}
}

// ExecContext runs a statement and logs it when slow.
func (t *TimedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	defer t.observe(query, start)
	return t.db.ExecContext(ctx, query, args...)
}

// QueryContext runs a query and logs it when slow.
func (t *TimedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	defer t.observe(query, start)
	return t.db.QueryContext(ctx, query, args...)
}

// QueryRowContext runs a single-row query and logs it when slow.
func (t *TimedDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	defer t.observe(query, start)
	return t.db.QueryRowContext(ctx, query, args...)
}
