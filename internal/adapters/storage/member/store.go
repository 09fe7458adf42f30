package member

import (
	"context"

	domain "dangol/internal/domain/member"
)

// Store persists Member state in the shared workbook.
// GetByPhone returns sheets.ErrNotFound (wrapped) when no row carries the
// phone key; callers must treat that sentinel as "absent", not as a
// store failure.
type Store interface {
	GetByPhone(ctx context.Context, phone string) (domain.Member, error)
	Append(ctx context.Context, m domain.Member) error
	Update(ctx context.Context, m domain.Member) error
	All(ctx context.Context) ([]domain.Member, error)
}
