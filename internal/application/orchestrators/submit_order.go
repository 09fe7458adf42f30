package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"dangol/internal/adapters/email"
	submissionStore "dangol/internal/adapters/storage/submission"
	"dangol/internal/domain/clock"
	"dangol/internal/domain/order"
	"dangol/internal/domain/phone"
	"dangol/internal/domain/submission"
)

// ErrNothingOrdered reports a submission where every week is empty.
var ErrNothingOrdered = errors.New("no products selected in any week")

// SubmitOrderInput is the immutable request object built once per
// submission from the form values. Phone is raw user input; it is
// normalized here, not at the UI layer.
type SubmitOrderInput struct {
	Region    string
	Name      string
	Phone     string
	Address   string
	StartDate time.Time
	CopyWeek1 bool
	Weeks     [order.ScheduleWeeks]order.Quantities
}

// Validate checks the required contact fields. Returns one message per
// failing field, keyed by form field name; an empty map means valid.
func (in SubmitOrderInput) Validate() map[string]string {
	problems := make(map[string]string)
	if strings.TrimSpace(in.Region) == "" {
		problems["region"] = "지역을 입력해 주세요"
	}
	if strings.TrimSpace(in.Name) == "" {
		problems["name"] = "이름을 입력해 주세요"
	}
	if strings.TrimSpace(in.Address) == "" {
		problems["address"] = "주소를 입력해 주세요"
	}
	if in.StartDate.IsZero() {
		problems["start_date"] = "첫 배송일을 선택해 주세요"
	}
	if len(phone.Digits(in.Phone)) < phone.MinDigits {
		problems["phone"] = "전화번호를 확인해 주세요"
	}
	for _, q := range in.Weeks {
		if q.Validate() != nil {
			problems["weeks"] = "수량은 0 이상이어야 합니다"
			break
		}
	}
	return problems
}

// SubmitOrderDeps holds dependencies for SubmitOrder.
type SubmitOrderDeps struct {
	MemberStore     MemberStore
	OrderStore      OrderStore
	SubmissionStore submissionStore.Store
	EmailSender     email.Sender
	ShopEmail       string // confirmation recipient; empty disables email
	EmailFrom       string
	Now             func() time.Time
	GenerateID      func() string
}

// SubmitOrderResult carries the outcome of a successful submission.
type SubmitOrderResult struct {
	MemberOutcome UpsertOutcome
	LinesAppended int
}

// ExecuteSubmitOrder runs the whole intake workflow: validate, expand the
// 4-week schedule, upsert the member, append the order rows, record the
// attempt in the submission log, and send a best-effort confirmation
// email. The member upsert must succeed before any order row is written;
// an append failure after a successful upsert leaves the member updated
// with no order, which is recorded as a failed submission.
// POST: on success, exactly one member upsert happened and one order row
// exists per non-empty week
func ExecuteSubmitOrder(ctx context.Context, input SubmitOrderInput, deps SubmitOrderDeps) (SubmitOrderResult, error) {
	if problems := input.Validate(); len(problems) > 0 {
		return SubmitOrderResult{}, fmt.Errorf("invalid submission: %d field(s) missing or malformed", len(problems))
	}

	canonical := phone.Normalize(input.Phone)
	entries := order.ExpandSchedule(input.StartDate, input.CopyWeek1, input.Weeks)
	if len(order.FilterNonEmpty(entries)) == 0 {
		return SubmitOrderResult{}, ErrNothingOrdered
	}

	outcome, err := ExecuteUpsertMember(ctx, UpsertMemberInput{
		Phone:   canonical,
		Name:    input.Name,
		Region:  input.Region,
		Address: input.Address,
	}, UpsertMemberDeps{MemberStore: deps.MemberStore, Now: deps.Now})
	if err != nil {
		// No order rows without a member write; abort here.
		deps.recordSubmission(ctx, canonical, submission.MemberFailed, 0, err)
		return SubmitOrderResult{}, fmt.Errorf("member upsert failed: %w", err)
	}

	count, err := ExecuteAppendOrders(ctx, AppendOrdersInput{
		Phone:   canonical,
		Entries: entries,
	}, AppendOrdersDeps{OrderStore: deps.OrderStore, Now: deps.Now})
	if err != nil {
		// Accepted inconsistency: the member row is already updated.
		deps.recordSubmission(ctx, canonical, submission.MemberOutcome(outcome), 0, err)
		return SubmitOrderResult{}, fmt.Errorf("order append failed: %w", err)
	}

	deps.recordSubmission(ctx, canonical, submission.MemberOutcome(outcome), count, nil)
	deps.sendConfirmation(ctx, input, canonical, entries)

	slog.Info("order_submitted", "phone", canonical, "member", string(outcome), "lines", count)
	return SubmitOrderResult{MemberOutcome: outcome, LinesAppended: count}, nil
}

// recordSubmission appends to the local audit log. Logging must never fail
// the request; errors are reported via slog only.
func (deps SubmitOrderDeps) recordSubmission(ctx context.Context, phoneKey string, outcome submission.MemberOutcome, count int, cause error) {
	if deps.SubmissionStore == nil {
		return
	}
	now := deps.Now
	if now == nil {
		now = clock.Now
	}
	genID := deps.GenerateID
	if genID == nil {
		genID = func() string { return fmt.Sprintf("sub-%d", now().UnixNano()) }
	}

	rec := submission.Record{
		ID:            genID(),
		Phone:         phoneKey,
		Status:        submission.StatusOK,
		MemberOutcome: outcome,
		LineCount:     count,
		CreatedAt:     now().In(clock.KST),
	}
	if cause != nil {
		rec.Status = submission.StatusFailed
		rec.Error = cause.Error()
	}
	if err := deps.SubmissionStore.Save(ctx, rec); err != nil {
		slog.Error("submission_log_failed", "error", err.Error(), "phone", phoneKey)
	}
}

// sendConfirmation emails the shop a summary of the appended schedule.
// Best effort: failures are logged and never returned.
func (deps SubmitOrderDeps) sendConfirmation(ctx context.Context, input SubmitOrderInput, canonical string, entries [order.ScheduleWeeks]order.ScheduleEntry) {
	if deps.EmailSender == nil || deps.ShopEmail == "" {
		return
	}
	req := email.SendRequest{
		To:      []string{deps.ShopEmail},
		From:    deps.EmailFrom,
		Subject: fmt.Sprintf("정기배송 주문 접수: %s (%s)", input.Name, canonical),
		HTML:    buildConfirmationHTML(input, canonical, entries),
	}
	if _, err := deps.EmailSender.Send(ctx, req); err != nil {
		slog.Error("confirmation_email_failed", "error", err.Error(), "phone", canonical)
	}
}

// buildConfirmationHTML renders the order summary table sent to the shop.
func buildConfirmationHTML(input SubmitOrderInput, canonical string, entries [order.ScheduleWeeks]order.ScheduleEntry) string {
	esc := template.HTMLEscapeString
	var sb strings.Builder

	sb.WriteString("<h2>정기배송 주문 접수</h2>")
	sb.WriteString("<table border=\"1\" cellpadding=\"4\">")
	sb.WriteString(fmt.Sprintf("<tr><td>이름</td><td>%s</td></tr>", esc(input.Name)))
	sb.WriteString(fmt.Sprintf("<tr><td>전화번호</td><td>%s</td></tr>", esc(canonical)))
	sb.WriteString(fmt.Sprintf("<tr><td>지역</td><td>%s</td></tr>", esc(input.Region)))
	sb.WriteString(fmt.Sprintf("<tr><td>주소</td><td>%s</td></tr>", esc(input.Address)))
	sb.WriteString("</table>")

	sb.WriteString("<h3>배송 스케줄</h3>")
	sb.WriteString("<table border=\"1\" cellpadding=\"4\">")
	sb.WriteString("<tr><th>배송일</th><th>무가당 2L</th><th>가당 2L</th><th>베리 500ml</th><th>그릭 300g</th></tr>")
	for _, e := range entries {
		if e.Total() == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("<tr><td>%s</td><td>%d</td><td>%d</td><td>%d</td><td>%d</td></tr>",
			e.DeliveryDate.Format(clock.DateLayout), e.Unsweetened, e.Sweetened, e.Berry, e.Greek))
	}
	sb.WriteString("</table>")
	return sb.String()
}
