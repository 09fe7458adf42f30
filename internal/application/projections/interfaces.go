package projections

import (
	"context"

	domainMember "dangol/internal/domain/member"
	domainOrder "dangol/internal/domain/order"
	domainSubmission "dangol/internal/domain/submission"
)

// MemberStore interface for member queries.
type MemberStore interface {
	All(ctx context.Context) ([]domainMember.Member, error)
}

// OrderStore interface for order queries.
type OrderStore interface {
	All(ctx context.Context) ([]domainOrder.Line, error)
}

// SubmissionStore interface for submission log queries.
type SubmissionStore interface {
	ListRecent(ctx context.Context, limit int) ([]domainSubmission.Record, error)
}
