package http

import (
	"encoding/json"
	stdhttp "net/http"
	"testing"

	"carelink-backend/internal/domain/staff"
	"carelink-backend/internal/testutil/tablemock"
	uc "carelink-backend/internal/usecase/user"
)

func newUserFixture() (*UserHandler, *tablemock.Fake) {
	f := tablemock.NewFake()
	f.Seed(staff.Sheet, [][]string{
		{"Unit", "Name", "Role", "UID", "StaffID", "Status"},
		{"北區", "王小明", "居服員", "U1", "E001", "Active"},
		{"南區", "李四", "居服員", "", "E003", ""},
	})
	dir := staff.NewDirectory(f)
	return NewUserHandler(uc.NewUsecase(dir), NewIdentityGuard(nil, "", dir)), f
}

func TestCheckUser_Registered(t *testing.T) {
	e := newEchoWithValidator()
	h, _ := newUserFixture()

	c, rec := postJSON(e, "/api/check-user", map[string]any{"uid": "U1"})
	if err := h.CheckUser(c); err != nil {
		t.Fatalf("CheckUser error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got uc.CheckOutput
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if !got.Registered || len(got.Profiles) != 1 || len(got.Units) != 2 {
		t.Fatalf("output: %+v", got)
	}
}

func TestCheckUser_RequiresUID(t *testing.T) {
	e := newEchoWithValidator()
	h, _ := newUserFixture()

	c, rec := postJSON(e, "/api/check-user", map[string]any{})
	if err := h.CheckUser(c); err != nil {
		t.Fatalf("CheckUser error: %v", err)
	}
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestBindUser_ClaimsRow(t *testing.T) {
	e := newEchoWithValidator()
	h, f := newUserFixture()

	c, rec := postJSON(e, "/api/bind-user", map[string]any{
		"uid": "U9", "unit": "南區", "name": "李四", "staffId": "E003",
	})
	if err := h.BindUser(c); err != nil {
		t.Fatalf("BindUser error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got uc.BindResult
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if !got.Success {
		t.Fatalf("result: %+v", got)
	}
	if f.Cell(staff.Sheet, 3, staff.ColUID) != "U9" {
		t.Fatalf("uid cell: %q", f.Cell(staff.Sheet, 3, staff.ColUID))
	}
}
