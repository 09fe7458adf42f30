package orchestrators

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"dangol/internal/adapters/email"
	"dangol/internal/domain/order"
	"dangol/internal/domain/submission"
)

// mockSubmissionStore implements the submission Store for testing.
type mockSubmissionStore struct {
	records []submission.Record
}

func (m *mockSubmissionStore) Save(_ context.Context, r submission.Record) error {
	m.records = append(m.records, r)
	return nil
}

func (m *mockSubmissionStore) ListRecent(_ context.Context, limit int) ([]submission.Record, error) {
	if len(m.records) > limit {
		return m.records[:limit], nil
	}
	return m.records, nil
}

// mockEmailSender captures sent emails.
type mockEmailSender struct {
	sent []email.SendRequest
	fail error
}

func (m *mockEmailSender) Send(_ context.Context, req email.SendRequest) (email.SendResult, error) {
	if m.fail != nil {
		return email.SendResult{}, m.fail
	}
	m.sent = append(m.sent, req)
	return email.SendResult{MessageID: "msg-1", SentAt: fixedTime}, nil
}

func submitInput() SubmitOrderInput {
	return SubmitOrderInput{
		Region:    "Seoul",
		Name:      "Hong",
		Phone:     "010 1234 5678",
		Address:   "A-101",
		StartDate: time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		CopyWeek1: true,
		Weeks:     [order.ScheduleWeeks]order.Quantities{{Unsweetened: 2, Berry: 1}},
	}
}

func submitDeps(members *mockMemberStore, orders *mockOrderStore, subs *mockSubmissionStore, sender *mockEmailSender) SubmitOrderDeps {
	deps := SubmitOrderDeps{
		MemberStore:     members,
		OrderStore:      orders,
		SubmissionStore: subs,
		Now:             fixedNow,
		GenerateID:      fixedID,
	}
	if sender != nil {
		deps.EmailSender = sender
		deps.ShopEmail = "shop@dangol.kr"
		deps.EmailFrom = "장건강 프로젝트 <noreply@dangol.kr>"
	}
	return deps
}

// TestExecuteSubmitOrder_CopyWeek1 tests the end-to-end scenario: copy
// flag on, one member upsert, four rows with week-1 quantities spaced
// seven days apart.
func TestExecuteSubmitOrder_CopyWeek1(t *testing.T) {
	members := newMockMemberStore()
	orders := &mockOrderStore{}
	subs := &mockSubmissionStore{}
	sender := &mockEmailSender{}

	result, err := ExecuteSubmitOrder(context.Background(), submitInput(),
		submitDeps(members, orders, subs, sender))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.MemberOutcome != OutcomeNew {
		t.Errorf("expected new member, got %s", result.MemberOutcome)
	}
	if result.LinesAppended != 4 {
		t.Errorf("expected 4 lines, got %d", result.LinesAppended)
	}
	if members.appendCalls != 1 || members.updateCalls != 0 {
		t.Errorf("expected exactly one member upsert call, got %d appends / %d updates",
			members.appendCalls, members.updateCalls)
	}
	if len(orders.batches) != 1 || len(orders.batches[0]) != 4 {
		t.Fatalf("expected one batch of 4 rows, got %+v", orders.batches)
	}

	wantDates := []string{"2026-09-07", "2026-09-14", "2026-09-21", "2026-09-28"}
	for i, line := range orders.batches[0] {
		if line.RequestedDate != wantDates[i] {
			t.Errorf("row %d: requested %s, want %s", i, line.RequestedDate, wantDates[i])
		}
		if line.Unsweetened != 2 || line.Sweetened != 0 || line.Berry != 1 || line.Greek != 0 {
			t.Errorf("row %d: quantities %+v, want (2,0,1,0)", i, line.Quantities)
		}
		if line.Phone != "010-1234-5678" {
			t.Errorf("row %d: phone %s not normalized", i, line.Phone)
		}
	}
}

// TestExecuteSubmitOrder_RecordsSuccess tests the audit record on success.
func TestExecuteSubmitOrder_RecordsSuccess(t *testing.T) {
	subs := &mockSubmissionStore{}

	_, err := ExecuteSubmitOrder(context.Background(), submitInput(),
		submitDeps(newMockMemberStore(), &mockOrderStore{}, subs, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(subs.records) != 1 {
		t.Fatalf("expected 1 submission record, got %d", len(subs.records))
	}
	rec := subs.records[0]
	if rec.Status != submission.StatusOK || rec.MemberOutcome != submission.MemberNew {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.LineCount != 4 {
		t.Errorf("expected 4 lines in record, got %d", rec.LineCount)
	}
	if rec.ID != "test-id-001" {
		t.Errorf("expected injected id, got %s", rec.ID)
	}
}

// TestExecuteSubmitOrder_ValidationStopsWrites tests that a missing
// required field prevents any store call.
func TestExecuteSubmitOrder_ValidationStopsWrites(t *testing.T) {
	members := newMockMemberStore()
	orders := &mockOrderStore{}

	input := submitInput()
	input.Address = ""

	_, err := ExecuteSubmitOrder(context.Background(), input,
		submitDeps(members, orders, &mockSubmissionStore{}, nil))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if members.appendCalls != 0 || len(orders.batches) != 0 {
		t.Error("validation failure must not write anything")
	}
}

// TestExecuteSubmitOrder_NothingOrdered tests the all-empty schedule path.
func TestExecuteSubmitOrder_NothingOrdered(t *testing.T) {
	members := newMockMemberStore()

	input := submitInput()
	input.Weeks = [order.ScheduleWeeks]order.Quantities{}

	_, err := ExecuteSubmitOrder(context.Background(), input,
		submitDeps(members, &mockOrderStore{}, &mockSubmissionStore{}, nil))
	if !errors.Is(err, ErrNothingOrdered) {
		t.Errorf("expected ErrNothingOrdered, got %v", err)
	}
	if members.appendCalls != 0 {
		t.Error("empty schedule must not upsert the member")
	}
}

// TestExecuteSubmitOrder_UpsertFailureAbortsAppend tests the no-orphan
// invariant: a failed member write blocks the order batch.
func TestExecuteSubmitOrder_UpsertFailureAbortsAppend(t *testing.T) {
	members := newMockMemberStore()
	members.failWrite = errors.New("auth failed")
	orders := &mockOrderStore{}
	subs := &mockSubmissionStore{}

	_, err := ExecuteSubmitOrder(context.Background(), submitInput(),
		submitDeps(members, orders, subs, nil))
	if err == nil {
		t.Fatal("expected error from member upsert")
	}
	if len(orders.batches) != 0 {
		t.Error("order rows must not be appended when the member write fails")
	}
	if len(subs.records) != 1 || subs.records[0].MemberOutcome != submission.MemberFailed {
		t.Errorf("expected failed submission record, got %+v", subs.records)
	}
}

// TestExecuteSubmitOrder_AppendFailureAfterUpsert tests the accepted
// inconsistency: member updated, append failed, submission marked failed.
func TestExecuteSubmitOrder_AppendFailureAfterUpsert(t *testing.T) {
	members := newMockMemberStore()
	orders := &mockOrderStore{fail: errors.New("workbook locked")}
	subs := &mockSubmissionStore{}

	_, err := ExecuteSubmitOrder(context.Background(), submitInput(),
		submitDeps(members, orders, subs, nil))
	if err == nil {
		t.Fatal("expected error from order append")
	}
	if members.appendCalls != 1 {
		t.Error("member write should have happened before the append failed")
	}
	rec := subs.records[0]
	if rec.Status != submission.StatusFailed || rec.MemberOutcome != submission.MemberNew {
		t.Errorf("expected failed record keeping the member outcome, got %+v", rec)
	}
}

// TestExecuteSubmitOrder_ConfirmationEmail tests the summary email body.
func TestExecuteSubmitOrder_ConfirmationEmail(t *testing.T) {
	sender := &mockEmailSender{}

	_, err := ExecuteSubmitOrder(context.Background(), submitInput(),
		submitDeps(newMockMemberStore(), &mockOrderStore{}, &mockSubmissionStore{}, sender))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.To[0] != "shop@dangol.kr" {
		t.Errorf("unexpected recipient: %v", msg.To)
	}
	for _, date := range []string{"2026-09-07", "2026-09-14", "2026-09-21", "2026-09-28"} {
		if !strings.Contains(msg.HTML, date) {
			t.Errorf("email body missing delivery date %s", date)
		}
	}
}

// TestExecuteSubmitOrder_EmailFailureIsNotFatal tests best-effort delivery.
func TestExecuteSubmitOrder_EmailFailureIsNotFatal(t *testing.T) {
	sender := &mockEmailSender{fail: errors.New("provider down")}

	result, err := ExecuteSubmitOrder(context.Background(), submitInput(),
		submitDeps(newMockMemberStore(), &mockOrderStore{}, &mockSubmissionStore{}, sender))
	if err != nil {
		t.Fatalf("email failure must not fail the submission: %v", err)
	}
	if result.LinesAppended != 4 {
		t.Errorf("expected 4 lines despite email failure, got %d", result.LinesAppended)
	}
}

// TestSubmitOrderInput_Validate tests field-level validation messages.
func TestSubmitOrderInput_Validate(t *testing.T) {
	input := submitInput()
	if problems := input.Validate(); len(problems) != 0 {
		t.Errorf("expected valid input, got %v", problems)
	}

	input = submitInput()
	input.Region = " "
	input.Phone = "123"
	problems := input.Validate()
	if _, ok := problems["region"]; !ok {
		t.Error("expected region problem")
	}
	if _, ok := problems["phone"]; !ok {
		t.Error("expected phone problem")
	}

	input = submitInput()
	input.StartDate = time.Time{}
	if _, ok := input.Validate()["start_date"]; !ok {
		t.Error("expected start_date problem for zero date")
	}
}

// TestExecuteSubmitOrder_ZeroStartDateRejected tests that a missing start
// date never reaches the stores: without it the delivery dates would land
// in year 1, and order rows are immutable once appended.
func TestExecuteSubmitOrder_ZeroStartDateRejected(t *testing.T) {
	members := newMockMemberStore()
	orders := &mockOrderStore{}

	input := submitInput()
	input.StartDate = time.Time{}

	_, err := ExecuteSubmitOrder(context.Background(), input,
		submitDeps(members, orders, &mockSubmissionStore{}, nil))
	if err == nil {
		t.Fatal("expected validation error for zero start date")
	}
	if members.appendCalls != 0 || len(orders.batches) != 0 {
		t.Error("zero start date must not write anything")
	}
}
