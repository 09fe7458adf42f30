package submission

import "time"

// MemberOutcome records what the member upsert did for a submission.
type MemberOutcome string

const (
	MemberNew     MemberOutcome = "new"
	MemberUpdated MemberOutcome = "updated"
	MemberFailed  MemberOutcome = "failed"
)

// Status is the overall outcome of a submission attempt.
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// Record is one audit entry per order-form submission attempt, successful
// or not. It lives in local SQLite, not in the shared workbook, so the
// shop can see what was attempted even when the workbook write failed.
type Record struct {
	ID            string // uuid, unlike the best-effort order ids
	Phone         string
	Status        Status
	MemberOutcome MemberOutcome
	LineCount     int    // order rows appended (0 on failure)
	Error         string // underlying message on failure, empty otherwise
	CreatedAt     time.Time
}
