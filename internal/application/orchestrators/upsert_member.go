package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dangol/internal/adapters/sheets"
	"dangol/internal/domain/clock"
	"dangol/internal/domain/member"
)

// MemberStore defines the interface for member persistence.
type MemberStore interface {
	GetByPhone(ctx context.Context, phone string) (member.Member, error)
	Append(ctx context.Context, m member.Member) error
	Update(ctx context.Context, m member.Member) error
}

// UpsertOutcome reports what the upsert did.
type UpsertOutcome string

const (
	OutcomeNew     UpsertOutcome = "new"
	OutcomeUpdated UpsertOutcome = "updated"
)

// UpsertMemberInput carries input for the orchestrator. Phone must already
// be in canonical form.
type UpsertMemberInput struct {
	Phone   string
	Name    string
	Region  string
	Address string
}

// UpsertMemberDeps holds dependencies for UpsertMember.
type UpsertMemberDeps struct {
	MemberStore MemberStore
	Now         func() time.Time
}

// ExecuteUpsertMember finds the member row keyed by phone and updates it,
// or appends a new row when the lookup reports not-found. Only the
// sheets.ErrNotFound sentinel triggers the append path; any other lookup
// failure is a store error and nothing is written.
// PRE: input.Phone is canonical and input fields are validated
// POST: member row exists with LastOrderDate == today (KST); JoinedDate
// is set only on the new-member path
func ExecuteUpsertMember(ctx context.Context, input UpsertMemberInput, deps UpsertMemberDeps) (UpsertOutcome, error) {
	now := deps.Now
	if now == nil {
		now = clock.Now
	}
	today := now().In(clock.KST).Format(clock.DateLayout)

	existing, err := deps.MemberStore.GetByPhone(ctx, input.Phone)
	switch {
	case err == nil:
		existing.Touch(input.Name, input.Region, input.Address, today)
		if err := deps.MemberStore.Update(ctx, existing); err != nil {
			return "", fmt.Errorf("member update: %w", err)
		}
		slog.Info("member_updated", "phone", input.Phone)
		return OutcomeUpdated, nil

	case errors.Is(err, sheets.ErrNotFound):
		m := member.Member{
			Phone:         input.Phone,
			Name:          input.Name,
			Region:        input.Region,
			Address:       input.Address,
			LastOrderDate: today,
			JoinedDate:    today,
		}
		if err := m.Validate(); err != nil {
			return "", err
		}
		if err := deps.MemberStore.Append(ctx, m); err != nil {
			return "", fmt.Errorf("member append: %w", err)
		}
		slog.Info("member_created", "phone", input.Phone)
		return OutcomeNew, nil

	default:
		return "", fmt.Errorf("member lookup: %w", err)
	}
}
