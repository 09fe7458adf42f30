package order

import (
	"errors"
	"time"

	"dangol/internal/domain/clock"
	"dangol/internal/domain/phone"
)

// ScheduleWeeks is the fixed length of a subscription schedule.
const ScheduleWeeks = 4

// OrderIDLayout formats the timestamp half of an order id (second
// resolution, KST).
const OrderIDLayout = "060102150405"

// Domain errors
var (
	ErrNegativeQuantity = errors.New("quantities cannot be negative")
	ErrEmptySchedule    = errors.New("schedule has no items in any week")
)

// Quantities holds one week's requested amounts for the four products:
// unsweetened 2L, sweetened 2L, berry 500ml, greek 300g.
type Quantities struct {
	Unsweetened int
	Sweetened   int
	Berry       int
	Greek       int
}

// Total returns the summed quantity across all four products.
func (q Quantities) Total() int {
	return q.Unsweetened + q.Sweetened + q.Berry + q.Greek
}

// Validate rejects negative amounts.
func (q Quantities) Validate() error {
	if q.Unsweetened < 0 || q.Sweetened < 0 || q.Berry < 0 || q.Greek < 0 {
		return ErrNegativeQuantity
	}
	return nil
}

// ScheduleEntry is one week of a composed schedule. It exists only
// between form submission and persistence; entries with a zero total are
// filtered out before any write.
type ScheduleEntry struct {
	DeliveryDate time.Time
	Quantities
}

// Line is one persisted order row: one week's worth of requested
// quantities for one member. Immutable once appended, never deleted.
type Line struct {
	OrderID       string
	Phone         string // foreign key into the member sheet
	RequestedDate string // KST date, 2006-01-02
	Quantities
	CreatedAt string // KST timestamp, 2006-01-02 15:04:05
}

// ExpandSchedule builds the four weekly entries from form input. Delivery
// dates are start + 0/7/14/21 days. When copyWeek1 is set, weeks 2-4
// mirror week 1's quantities and any per-week input is ignored; otherwise
// each week keeps its own quantities. Pure function, no rendering concerns.
// PRE: weeks holds the raw per-week form quantities
// POST: result[i].DeliveryDate == start + i*7 days
func ExpandSchedule(start time.Time, copyWeek1 bool, weeks [ScheduleWeeks]Quantities) [ScheduleWeeks]ScheduleEntry {
	var out [ScheduleWeeks]ScheduleEntry
	for i := 0; i < ScheduleWeeks; i++ {
		q := weeks[i]
		if copyWeek1 && i > 0 {
			q = weeks[0]
		}
		out[i] = ScheduleEntry{
			DeliveryDate: start.AddDate(0, 0, 7*i),
			Quantities:   q,
		}
	}
	return out
}

// FilterNonEmpty keeps only entries with a positive total quantity. The
// returned slice preserves week order.
// INVARIANT: an order line is persisted only if some quantity > 0
func FilterNonEmpty(entries [ScheduleWeeks]ScheduleEntry) []ScheduleEntry {
	var kept []ScheduleEntry
	for _, e := range entries {
		if e.Total() > 0 {
			kept = append(kept, e)
		}
	}
	return kept
}

// NewOrderID derives an order id from the submission instant and the last
// four digits of the phone number, e.g. "2609011430225678". Uniqueness is
// best effort: two submissions in the same second whose phones share a
// last-4 suffix collide. The original ledger used the same scheme; the
// submission audit log carries an unambiguous id when one is needed.
func NewOrderID(now time.Time, rawPhone string) string {
	return now.In(clock.KST).Format(OrderIDLayout) + phone.Last4(rawPhone)
}
