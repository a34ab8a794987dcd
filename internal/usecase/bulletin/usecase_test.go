package bulletin

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "carelink-backend/internal/domain/bulletin"
	"carelink-backend/internal/domain/table"
	"carelink-backend/internal/testutil/tablemock"
)

var bulletinHeader = []string{
	"ID", "Timestamp", "Author", "Title", "Content", "Category",
	"Priority", "Status", "Target Unit", "Scheduled Time",
}

var signHeader = []string{"Bulletin ID", "UID", "Name", "Signed At"}

// fixed clock: 2024-05-01 12:00 at the agency's UTC+8 offset
var testNow = time.Date(2024, 5, 1, 4, 0, 0, 0, time.UTC)

func newFixture() (*Usecase, *tablemock.Fake) {
	f := tablemock.NewFake()
	f.Seed(domain.Sheet, [][]string{bulletinHeader})
	f.Seed(domain.SignSheet, [][]string{signHeader})
	return NewUsecaseAt(f, func() time.Time { return testNow }), f
}

func bulletinRow(id, ts, author, title, priority, status, target, scheduled string) []string {
	return []string{id, ts, author, title, "內容", "一般", priority, status, target, scheduled}
}

func TestList_ViewFiltersStatusAndUnit(t *testing.T) {
	uc, f := newFixture()
	f.Seed(domain.Sheet, [][]string{
		bulletinHeader,
		bulletinRow("b1", "2024/04/01 09:00:00", "張督導", "全員公告", "", "published", "All", ""),
		bulletinRow("b2", "2024/04/02 09:00:00", "張督導", "北區公告", "", "Active", "北區", ""),
		bulletinRow("b3", "2024/04/03 09:00:00", "張督導", "南區公告", "", "published", "南區", ""),
		bulletinRow("b4", "2024/04/04 09:00:00", "張督導", "草稿", "", "draft", "All", ""),
		bulletinRow("b5", "2024/04/05 09:00:00", "張督導", "已刪", "", "Deleted", "All", ""),
	})

	out, err := uc.List(context.Background(), ListInput{Role: "居服員", Unit: "北區", Mode: "view"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("visible: %d", len(out))
	}
	if out[0].ID != "b2" || out[1].ID != "b1" {
		t.Fatalf("order: %s %s", out[0].ID, out[1].ID)
	}
}

func TestList_ScheduleGateUsesAgencyOffset(t *testing.T) {
	uc, f := newFixture()
	f.Seed(domain.Sheet, [][]string{
		bulletinHeader,
		// local 11:00, clock reads local 12:00: due
		bulletinRow("due", "2024/04/30 09:00:00", "張督導", "已排程", "", "scheduled", "All", "2024-05-01T11:00"),
		// local 13:00: not yet
		bulletinRow("future", "2024/04/30 10:00:00", "張督導", "未到時間", "", "scheduled", "All", "2024-05-01T13:00"),
	})

	out, err := uc.List(context.Background(), ListInput{Role: "居服員", Unit: "北區", Mode: "view"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(out) != 1 || out[0].ID != "due" {
		t.Fatalf("schedule gate: %+v", out)
	}
}

func TestList_ManageModeShowsDraftsToEditors(t *testing.T) {
	uc, f := newFixture()
	f.Seed(domain.Sheet, [][]string{
		bulletinHeader,
		bulletinRow("b1", "2024/04/01 09:00:00", "張督導", "草稿", "", "draft", "All", ""),
		bulletinRow("b2", "2024/04/02 09:00:00", "張督導", "已刪", "", "Deleted", "All", ""),
	})

	out, err := uc.List(context.Background(), ListInput{Role: "督導", Unit: "北區", Mode: "manage"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(out) != 1 || out[0].ID != "b1" {
		t.Fatalf("manage view: %+v", out)
	}

	// non-editor asking for manage mode falls back to the view filter
	out, err = uc.List(context.Background(), ListInput{Role: "居服員", Unit: "北區", Mode: "manage"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("non-editor manage view: %+v", out)
	}
}

func TestList_HighPriorityFirst(t *testing.T) {
	uc, f := newFixture()
	f.Seed(domain.Sheet, [][]string{
		bulletinHeader,
		bulletinRow("old-high", "2024/04/01 09:00:00", "張督導", "重要", "High", "published", "All", ""),
		bulletinRow("newest", "2024/04/09 09:00:00", "張督導", "一般", "", "published", "All", ""),
	})

	out, err := uc.List(context.Background(), ListInput{Role: "居服員", Unit: "北區", Mode: "view"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(out) != 2 || out[0].ID != "old-high" {
		t.Fatalf("priority order: %+v", out)
	}
}

func TestCreate_EditorOnlyWithDefaults(t *testing.T) {
	uc, f := newFixture()

	res, err := uc.Create(context.Background(), CreateInput{Role: "居服員", Author: "王小明", Title: "x"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.Success || res.Message != "無權限建立公告" {
		t.Fatalf("non-editor: %+v", res)
	}

	res, err = uc.Create(context.Background(), CreateInput{Role: "督導", Author: "張督導", Title: "月會通知"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !res.Success {
		t.Fatalf("result: %+v", res)
	}
	if got := f.Cell(domain.Sheet, 2, 7); got != string(domain.StatusPublished) {
		t.Fatalf("default status: %q", got)
	}
	if got := f.Cell(domain.Sheet, 2, 8); got != domain.TargetAllUnits {
		t.Fatalf("default target: %q", got)
	}
	if got := f.Cell(domain.Sheet, 2, 1); got != "2024/05/01 12:00:00" {
		t.Fatalf("timestamp: %q", got)
	}
}

func TestDelete_AuthorOnlySoftDelete(t *testing.T) {
	uc, f := newFixture()
	f.Seed(domain.Sheet, [][]string{
		bulletinHeader,
		bulletinRow("b1", "2024/04/01 09:00:00", "張督導", "公告", "", "published", "All", ""),
	})

	res, err := uc.Delete(context.Background(), "b1", "居服員", "張督導")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if res.Success || res.Message != "無權限刪除公告" {
		t.Fatalf("non-editor: %+v", res)
	}

	res, err = uc.Delete(context.Background(), "b1", "業務負責人", "陳主任")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if res.Success || res.Message != "只能刪除自己發布的公告" {
		t.Fatalf("foreign author: %+v", res)
	}

	res, err = uc.Delete(context.Background(), "b1", "督導", "張督導")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !res.Success {
		t.Fatalf("own delete: %+v", res)
	}
	if got := f.Cell(domain.Sheet, 2, 7); got != string(domain.StatusDeleted) {
		t.Fatalf("status: %q", got)
	}

	if res, _ := uc.Delete(context.Background(), "nope", "督導", "張督導"); res.Success || res.Message != "找不到公告" {
		t.Fatalf("missing: %+v", res)
	}
}

func TestSign_OncePerUser(t *testing.T) {
	uc, f := newFixture()

	res, err := uc.Sign(context.Background(), "b1", "U1", "王小明")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if !res.Success || res.Message != "已簽收" {
		t.Fatalf("result: %+v", res)
	}
	if f.RowCount(domain.SignSheet) != 2 {
		t.Fatalf("sign rows: %d", f.RowCount(domain.SignSheet))
	}

	res, err = uc.Sign(context.Background(), "b1", "U1", "王小明")
	if err != nil {
		t.Fatalf("Sign again: %v", err)
	}
	if res.Success || res.Message != "已簽收過此公告" {
		t.Fatalf("duplicate: %+v", res)
	}
	if f.RowCount(domain.SignSheet) != 2 {
		t.Fatalf("duplicate appended: %d", f.RowCount(domain.SignSheet))
	}
}

func TestSignStats_EditorOnly(t *testing.T) {
	uc, f := newFixture()
	f.Seed(domain.SignSheet, [][]string{
		signHeader,
		{"b1", "U1", "王小明", "2024/05/01 09:00:00"},
		{"b1", "U2", "李四", "2024/05/01 10:00:00"},
		{"b2", "U1", "王小明", "2024/05/01 11:00:00"},
	})

	if _, err := uc.SignStats(context.Background(), "b1", "居服員"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-editor: %v", err)
	}

	stats, err := uc.SignStats(context.Background(), "b1", "督導")
	if err != nil {
		t.Fatalf("SignStats: %v", err)
	}
	if stats.Count != 2 || len(stats.Signs) != 2 {
		t.Fatalf("stats: %+v", stats)
	}
	if stats.Signs[0].Name != "王小明" || stats.Signs[1].Name != "李四" {
		t.Fatalf("signs: %+v", stats.Signs)
	}
}

func TestSign_FreshSheet(t *testing.T) {
	// A sign sheet straight out of migration, seeded only by the boot-time
	// header pass.
	f := tablemock.NewFake()
	f.Seed(domain.Sheet, [][]string{bulletinHeader})
	ctx := context.Background()
	if err := table.EnsureHeader(ctx, f, domain.SignSheet, domain.SignHeader); err != nil {
		t.Fatalf("EnsureHeader: %v", err)
	}
	uc := NewUsecaseAt(f, func() time.Time { return testNow })

	res, err := uc.Sign(ctx, "b1", "U1", "王小明")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if !res.Success {
		t.Fatalf("first sign rejected: %+v", res)
	}

	res, err = uc.Sign(ctx, "b1", "U1", "王小明")
	if err != nil {
		t.Fatalf("Sign again: %v", err)
	}
	if res.Success || res.Message != "已簽收過此公告" {
		t.Fatalf("duplicate on fresh sheet: %+v", res)
	}

	stats, err := uc.SignStats(ctx, "b1", "督導")
	if err != nil {
		t.Fatalf("SignStats: %v", err)
	}
	if stats.Count != 1 {
		t.Fatalf("count: want 1, got %d", stats.Count)
	}
	if stats.Signs[0].UID != "U1" || stats.Signs[0].SignedAt == "" {
		t.Fatalf("sign row: %+v", stats.Signs[0])
	}
}
