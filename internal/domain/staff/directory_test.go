package staff

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"carelink-backend/internal/testutil/tablemock"
)

func seedDirectory() *tablemock.Fake {
	f := tablemock.NewFake()
	f.Seed(Sheet, [][]string{
		{"Unit", "Name", "Role", "UID", "StaffID", "Status"},
		{"北區", "王小明", "居服員", "U1", "E001", "Active"},
		{"北區", "張督導", "督導", "U2", "E002", "Active"},
		{"南區", "李四", "居服員", "", "E003", ""},
		{"南區", "陳主任", "業務負責人", "U4", "E004", "Active"},
		{"北區", "林服務", "居服員", "", "E005", ""},
	})
	return f
}

func TestFindByUID(t *testing.T) {
	dir := NewDirectory(seedDirectory())

	m, err := dir.FindByUID(context.Background(), "U2")
	if err != nil {
		t.Fatalf("FindByUID: %v", err)
	}
	if m.Name != "張督導" || m.Unit != "北區" || !IsReviewer(m.Role) {
		t.Fatalf("member: %+v", m)
	}

	if _, err := dir.FindByUID(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("miss: want ErrNotFound, got %v", err)
	}
}

func TestUnits_DistinctInSheetOrder(t *testing.T) {
	dir := NewDirectory(seedDirectory())

	units, err := dir.Units(context.Background())
	if err != nil {
		t.Fatalf("Units: %v", err)
	}
	if want := []string{"北區", "南區"}; !reflect.DeepEqual(units, want) {
		t.Fatalf("units: %v", units)
	}
}

func TestReviewers_OnlyBoundElevatedRoles(t *testing.T) {
	dir := NewDirectory(seedDirectory())

	uids, err := dir.Reviewers(context.Background(), "北區")
	if err != nil {
		t.Fatalf("Reviewers: %v", err)
	}
	if want := []string{"U2"}; !reflect.DeepEqual(uids, want) {
		t.Fatalf("reviewers: %v", uids)
	}

	byUnit, err := dir.ReviewersByUnit(context.Background())
	if err != nil {
		t.Fatalf("ReviewersByUnit: %v", err)
	}
	if !reflect.DeepEqual(byUnit["南區"], []string{"U4"}) {
		t.Fatalf("by unit: %v", byUnit)
	}
}

func TestBind_ClaimsUnclaimedRow(t *testing.T) {
	f := seedDirectory()
	dir := NewDirectory(f)

	if err := dir.Bind(context.Background(), "U3", "南區", "李四", "e003"); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	// row 4 in sheet coordinates: header + 3rd data row
	if got := f.Cell(Sheet, 4, ColUID); got != "U3" {
		t.Fatalf("uid cell: %q", got)
	}
	if got := f.Cell(Sheet, 4, ColStatus); got != StatusActive {
		t.Fatalf("status cell: %q", got)
	}
}

func TestBind_RejectsClaimedOrMismatchedRows(t *testing.T) {
	f := seedDirectory()
	dir := NewDirectory(f)

	// already bound
	if err := dir.Bind(context.Background(), "UX", "北區", "王小明", "E001"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("claimed row: want ErrNotFound, got %v", err)
	}
	// wrong staff id
	if err := dir.Bind(context.Background(), "UX", "南區", "李四", "E999"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("wrong staff id: want ErrNotFound, got %v", err)
	}
	if f.Writes != 0 {
		t.Fatalf("no cell may change on failure, writes=%d", f.Writes)
	}
}
