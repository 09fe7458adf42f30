package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dangol/internal/domain/clock"
	"dangol/internal/domain/order"
)

// OrderStore defines the interface for order persistence.
type OrderStore interface {
	AppendBatch(ctx context.Context, lines []order.Line) error
}

// CreatedAtLayout formats the created_at cell of an order row.
const CreatedAtLayout = "2006-01-02 15:04:05"

// AppendOrdersInput carries input for the orchestrator. Phone must already
// be in canonical form; entries are the expanded 4-week schedule.
type AppendOrdersInput struct {
	Phone   string
	Entries [order.ScheduleWeeks]order.ScheduleEntry
}

// AppendOrdersDeps holds dependencies for AppendOrders.
type AppendOrdersDeps struct {
	OrderStore OrderStore
	Now        func() time.Time
}

// ExecuteAppendOrders filters the schedule to weeks with a positive total
// quantity and appends one row per kept week in a single batch. The batch
// either fully applies or the whole call fails; there is no partial
// success signal.
// POST: returns the number of rows appended (0 with nil error when every
// week is empty)
func ExecuteAppendOrders(ctx context.Context, input AppendOrdersInput, deps AppendOrdersDeps) (int, error) {
	now := deps.Now
	if now == nil {
		now = clock.Now
	}

	kept := order.FilterNonEmpty(input.Entries)
	if len(kept) == 0 {
		return 0, nil
	}

	lines := make([]order.Line, 0, len(kept))
	for _, e := range kept {
		if err := e.Validate(); err != nil {
			return 0, err
		}
		stamp := now().In(clock.KST)
		lines = append(lines, order.Line{
			OrderID:       order.NewOrderID(stamp, input.Phone),
			Phone:         input.Phone,
			RequestedDate: e.DeliveryDate.Format(clock.DateLayout),
			Quantities:    e.Quantities,
			CreatedAt:     stamp.Format(CreatedAtLayout),
		})
	}

	if err := deps.OrderStore.AppendBatch(ctx, lines); err != nil {
		return 0, fmt.Errorf("order append: %w", err)
	}

	slog.Info("orders_appended", "phone", input.Phone, "count", len(lines))
	return len(lines), nil
}
