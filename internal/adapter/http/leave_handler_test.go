package http

import (
	"bytes"
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"carelink-backend/internal/auth"
	leavedomain "carelink-backend/internal/domain/leave"
	"carelink-backend/internal/domain/staff"
	"carelink-backend/internal/notify"
	"carelink-backend/internal/testutil/tablemock"
	uc "carelink-backend/internal/usecase/leave"

	"github.com/labstack/echo/v4"
)

// -------- helpers --------

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func postJSON(e *echo.Echo, path string, body any) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(stdhttp.MethodPost, path, mustJSON(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// stubVerifier satisfies auth.Verifier for guard tests.
type stubVerifier struct {
	profile *auth.Profile
	err     error
}

func (s stubVerifier) Verify(_ context.Context, _, _ string) (*auth.Profile, error) {
	return s.profile, s.err
}

var leaveHeaderRow = []string{
	"Timestamp", "Unit", "UID", "Name", "Leave Type", "Date",
	"Time Slot", "Case", "Reason", "Proof", "Status", "Duration",
}

func newLeaveFixture(guard *IdentityGuard) (*LeaveHandler, *tablemock.Fake) {
	f := tablemock.NewFake()
	f.Seed(staff.Sheet, [][]string{
		{"Unit", "Name", "Role", "UID", "StaffID", "Status"},
		{"北區", "王小明", "居服員", "U1", "E001", "Active"},
		{"北區", "張督導", "督導", "U2", "E002", "Active"},
	})
	f.Seed(leavedomain.Sheet, [][]string{leaveHeaderRow})

	dir := staff.NewDirectory(f)
	usecase := uc.NewUsecase(f, dir, notify.NewDispatcher("", ""), nil)
	if guard == nil {
		guard = NewIdentityGuard(nil, "", dir)
	}
	return NewLeaveHandler(usecase, guard), f
}

// -------- tests --------

func TestSubmitLeave_Success(t *testing.T) {
	e := newEchoWithValidator()
	h, f := newLeaveFixture(nil)

	c, rec := postJSON(e, "/api/submit-leave", map[string]any{
		"uid": "U1", "unit": "北區", "name": "王小明", "leaveType": "病假",
		"dates":  []string{"2024-05-01"},
		"reason": "感冒",
	})
	if err := h.Submit(c); err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got uc.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if !got.Success {
		t.Fatalf("result: %+v", got)
	}
	if f.RowCount(leavedomain.Sheet) != 2 {
		t.Fatalf("rows: %d", f.RowCount(leavedomain.Sheet))
	}
}

func TestSubmitLeave_DomainValidationRidesBody(t *testing.T) {
	e := newEchoWithValidator()
	h, _ := newLeaveFixture(nil)

	c, rec := postJSON(e, "/api/submit-leave", map[string]any{
		"uid": "U1", "unit": "北區", "name": "王小明", "leaveType": "病假",
	})
	if err := h.Submit(c); err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200 with success:false", rec.Code)
	}
	var got uc.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got.Success || got.Message != "缺少請假日期" {
		t.Fatalf("result: %+v", got)
	}
}

func TestReviewLeave_RejectsUnknownAction(t *testing.T) {
	e := newEchoWithValidator()
	h, _ := newLeaveFixture(nil)

	c, rec := postJSON(e, "/api/review-leave", map[string]any{
		"uid": "U2", "targetUid": "U1", "timestamp": "t", "action": "nuke",
	})
	if err := h.Review(c); err != nil {
		t.Fatalf("Review error: %v", err)
	}
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var got ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got.Error != "validation failed" || len(got.Details) == 0 {
		t.Fatalf("body: %+v", got)
	}
}

func TestReviewLeave_GuardRejectsBadToken(t *testing.T) {
	e := newEchoWithValidator()

	f := tablemock.NewFake()
	f.Seed(staff.Sheet, [][]string{{"Unit", "Name", "Role", "UID", "StaffID", "Status"}})
	dir := staff.NewDirectory(f)
	guard := NewIdentityGuard(stubVerifier{err: auth.ErrInvalidToken}, "channel", dir)
	h, _ := newLeaveFixture(guard)

	c, rec := postJSON(e, "/api/review-leave", map[string]any{
		"uid": "U2", "targetUid": "U1", "timestamp": "t", "action": "approve",
		"idToken": "forged",
	})
	if err := h.Review(c); err != nil {
		t.Fatalf("Review error: %v", err)
	}
	if rec.Code != stdhttp.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestReviewLeave_GuardOverridesCallerUID(t *testing.T) {
	e := newEchoWithValidator()
	guard := NewIdentityGuard(stubVerifier{profile: &auth.Profile{Sub: "U2", Name: "張督導"}}, "channel", nil)
	h, f := newLeaveFixture(guard)

	const ts = "2024-03-01T00:00:00.000Z"
	f.Seed(leavedomain.Sheet, [][]string{
		leaveHeaderRow,
		{ts, "北區", "U1", "王小明", "事假", "2024-03-05", "", "", "", "", "Pending", ""},
	})

	c, rec := postJSON(e, "/api/review-leave", map[string]any{
		"uid": "attacker", "targetUid": "U1", "timestamp": ts, "action": "approve",
		"idToken": "good",
	})
	if err := h.Review(c); err != nil {
		t.Fatalf("Review error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := f.Cell(leavedomain.Sheet, 2, 10); got != "Approved" {
		t.Fatalf("status cell: %q", got)
	}
}

func TestCancelLeave_NotPending(t *testing.T) {
	e := newEchoWithValidator()
	h, f := newLeaveFixture(nil)

	const ts = "2024-03-01T00:00:00.000Z"
	f.Seed(leavedomain.Sheet, [][]string{
		leaveHeaderRow,
		{ts, "北區", "U1", "王小明", "事假", "2024-03-05", "", "", "", "", "Approved", ""},
	})

	c, rec := postJSON(e, "/api/cancel-leave", map[string]any{"uid": "U1", "timestamp": ts})
	if err := h.Cancel(c); err != nil {
		t.Fatalf("Cancel error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got uc.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got.Success || got.Message != "只能撤回待審核的假單" {
		t.Fatalf("result: %+v", got)
	}
}

func TestGetLeaves_UnknownViewer(t *testing.T) {
	e := newEchoWithValidator()
	h, _ := newLeaveFixture(nil)

	c, rec := postJSON(e, "/api/get-leaves", map[string]any{"uid": "stranger"})
	if err := h.List(c); err != nil {
		t.Fatalf("List error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got["success"] != false {
		t.Fatalf("body: %v", got)
	}
}
