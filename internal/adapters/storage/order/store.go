package order

import (
	"context"

	domain "dangol/internal/domain/order"
)

// Store persists order lines in the shared workbook. Lines are append-only:
// nothing in the system updates or deletes an order row once written.
type Store interface {
	AppendBatch(ctx context.Context, lines []domain.Line) error
	All(ctx context.Context) ([]domain.Line, error)
}
