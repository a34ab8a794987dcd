package table

import (
	"reflect"
	"testing"
)

func TestMapHeaders_ExactBeatsSubstring(t *testing.T) {
	// "請假日期備註" contains the candidate "請假日期"; the exact "日期"
	// header must win over the substring match.
	header := []string{"請假日期備註", "日期"}
	schema := Schema{"date": {"date", "日期", "請假日期"}}

	cm := MapHeaders(header, schema)
	if got := cm.Col("date"); got != 1 {
		t.Fatalf("date column: want 1, got %d", got)
	}
}

func TestMapHeaders_SubstringFallback(t *testing.T) {
	header := []string{"申請人姓名"}
	schema := Schema{"name": {"name", "姓名"}}

	cm := MapHeaders(header, schema)
	if got := cm.Col("name"); got != 0 {
		t.Fatalf("name column: want 0 via substring, got %d", got)
	}
}

func TestMapHeaders_NormalizesWidthCaseAndSpace(t *testing.T) {
	// Full-width "ＳＴＡＴＵＳ" NFKC-normalizes to "status"; padding and
	// case are stripped too.
	header := []string{"  ＳＴＡＴＵＳ ", "Leave Type"}
	schema := Schema{
		"status":    {"status"},
		"leaveType": {"leave type"},
	}

	cm := MapHeaders(header, schema)
	if got := cm.Col("status"); got != 0 {
		t.Fatalf("status column: want 0, got %d", got)
	}
	if got := cm.Col("leaveType"); got != 1 {
		t.Fatalf("leaveType column: want 1, got %d", got)
	}
}

func TestMapHeaders_Deterministic(t *testing.T) {
	header := []string{"時間戳記", "單位", "姓名", "狀態"}
	schema := Schema{
		"timestamp": {"timestamp", "時間戳記"},
		"unit":      {"unit", "單位"},
		"name":      {"name", "姓名"},
		"status":    {"status", "狀態"},
	}

	first := MapHeaders(header, schema)
	for i := 0; i < 50; i++ {
		if got := MapHeaders(header, schema); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %v vs %v", i, got, first)
		}
	}
}

func TestColumnMap_ApplyFillsOnlyUnresolved(t *testing.T) {
	cm := ColumnMap{"status": 3, "name": NotFound}
	cm.Apply(ColumnMap{"status": 10, "name": 1, "unit": 0})

	if cm.Col("status") != 3 {
		t.Fatalf("resolved field overwritten: %d", cm.Col("status"))
	}
	if cm.Col("name") != 1 {
		t.Fatalf("unresolved field not defaulted: %d", cm.Col("name"))
	}
	if cm.Col("unit") != 0 {
		t.Fatalf("missing field not defaulted: %d", cm.Col("unit"))
	}
	if cm.Col("nope") != NotFound {
		t.Fatalf("unknown field: %d", cm.Col("nope"))
	}
}

func TestCell_RaggedRows(t *testing.T) {
	row := []string{"a", "b"}
	if got := Cell(row, 1); got != "b" {
		t.Fatalf("Cell(1): %q", got)
	}
	if got := Cell(row, 5); got != "" {
		t.Fatalf("Cell past end: %q", got)
	}
	if got := Cell(row, NotFound); got != "" {
		t.Fatalf("Cell(NotFound): %q", got)
	}
}
