package refusal

import (
	"context"
	"testing"

	domain "carelink-backend/internal/domain/refusal"
	"carelink-backend/internal/testutil/tablemock"
)

var refusalHeader = []string{
	"Timestamp", "Supervisor", "Attendant", "Refusal Date", "Assessment", "Reason",
}

func TestSubmit_AppendsReport(t *testing.T) {
	f := tablemock.NewFake()
	f.Seed(domain.Sheet, [][]string{refusalHeader})
	uc := NewUsecase(f)

	res, err := uc.Submit(context.Background(), SubmitInput{
		SupervisorName: "張督導",
		AttendantName:  "王小明",
		RefusalDate:    "2024-05-01",
		Assessments:    []string{"路程過遠", "時段衝突"},
		Reason:         "已有固定班",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !res.Success {
		t.Fatalf("result: %+v", res)
	}
	if f.RowCount(domain.Sheet) != 2 {
		t.Fatalf("rows: %d", f.RowCount(domain.Sheet))
	}
	if got := f.Cell(domain.Sheet, 2, 4); got != "路程過遠, 時段衝突" {
		t.Fatalf("assessments: %q", got)
	}
}

func TestSubmit_ValidatesRequiredFields(t *testing.T) {
	f := tablemock.NewFake()
	uc := NewUsecase(f)

	res, err := uc.Submit(context.Background(), SubmitInput{SupervisorName: "張督導"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Success || res.Message != "缺少受案服務員" {
		t.Fatalf("result: %+v", res)
	}
	if f.Writes != 0 {
		t.Fatalf("writes=%d", f.Writes)
	}
}

func TestStats_TalliesPerAttendant(t *testing.T) {
	f := tablemock.NewFake()
	f.Seed(domain.Sheet, [][]string{
		refusalHeader,
		{"2024-05-01T00:00:00.000Z", "張督導", "王小明", "2024-05-01", "路程過遠", ""},
		{"2024-05-02T00:00:00.000Z", "張督導", "王小明", "2024-05-03", "時段衝突", ""},
		{"2024-05-03T00:00:00.000Z", "陳主任", "李四", "2024-05-02", "個案要求", ""},
	})
	uc := NewUsecase(f)

	stats, err := uc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("entries: %d", len(stats))
	}
	if stats[0].AttendantName != "王小明" || stats[0].Count != 2 || stats[0].LastDate != "2024-05-03" {
		t.Fatalf("first: %+v", stats[0])
	}
	if stats[1].AttendantName != "李四" || stats[1].Count != 1 {
		t.Fatalf("second: %+v", stats[1])
	}
}
