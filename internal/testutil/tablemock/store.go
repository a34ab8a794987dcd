package tablemock

import (
	"context"
	"strings"
	"sync"

	"carelink-backend/internal/domain/table"
)

var (
	_ table.Store = (*Store)(nil)
	_ table.Store = (*Fake)(nil)
)

// Store is a function-backed mock that satisfies table.Store.
// Only methods you need are included; add more as tests require.
type Store struct {
	RowsFn        func(ctx context.Context, sheet string) ([][]string, error)
	AppendFn      func(ctx context.Context, sheet string, rows [][]string) error
	UpdateCellFn  func(ctx context.Context, sheet string, row, col int, value string) error
	UpdateRangeFn func(ctx context.Context, sheet string, row, startCol int, values []string) error
}

func (m *Store) Rows(ctx context.Context, sheet string) ([][]string, error) {
	if m.RowsFn != nil {
		return m.RowsFn(ctx, sheet)
	}
	return nil, nil
}

func (m *Store) Append(ctx context.Context, sheet string, rows [][]string) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, sheet, rows)
	}
	return nil
}

func (m *Store) UpdateCell(ctx context.Context, sheet string, row, col int, value string) error {
	if m.UpdateCellFn != nil {
		return m.UpdateCellFn(ctx, sheet, row, col, value)
	}
	return nil
}

func (m *Store) UpdateRange(ctx context.Context, sheet string, row, startCol int, values []string) error {
	if m.UpdateRangeFn != nil {
		return m.UpdateRangeFn(ctx, sheet, row, startCol, values)
	}
	return nil
}

// Fake is an in-memory sheet store for scenario tests: seed it with header
// plus data rows per sheet, run the usecase, then inspect the cells and the
// write counter.
type Fake struct {
	mu     sync.Mutex
	sheets map[string][][]string
	Writes int
}

func NewFake() *Fake { return &Fake{sheets: map[string][][]string{}} }

// Seed replaces a sheet's contents. Rows are deep-copied so the caller's
// literals stay pristine.
func (f *Fake) Seed(sheet string, rows [][]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := make([][]string, len(rows))
	for i, r := range rows {
		cp[i] = append([]string(nil), r...)
	}
	f.sheets[sheet] = cp
}

func (f *Fake) Rows(_ context.Context, sheet string) ([][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := f.sheets[sheet]
	cp := make([][]string, len(rows))
	for i, r := range rows {
		cp[i] = append([]string(nil), r...)
	}
	return cp, nil
}

func (f *Fake) Append(_ context.Context, sheet string, rows [][]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range rows {
		f.sheets[sheet] = append(f.sheets[sheet], append([]string(nil), r...))
	}
	f.Writes++
	return nil
}

func (f *Fake) UpdateCell(ctx context.Context, sheet string, row, col int, value string) error {
	return f.UpdateRange(ctx, sheet, row, col, []string{value})
}

func (f *Fake) UpdateRange(_ context.Context, sheet string, row, startCol int, values []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := f.sheets[sheet]
	if row < 1 || row > len(rows) {
		return nil
	}
	r := rows[row-1]
	for len(r) < startCol+len(values) {
		r = append(r, "")
	}
	copy(r[startCol:], values)
	rows[row-1] = r
	f.Writes++
	return nil
}

// Cell reads one cell back out, 1-based row.
func (f *Fake) Cell(sheet string, row, col int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := f.sheets[sheet]
	if row < 1 || row > len(rows) || col < 0 || col >= len(rows[row-1]) {
		return ""
	}
	return rows[row-1][col]
}

// RowCount reports data rows plus header.
func (f *Fake) RowCount(sheet string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sheets[sheet])
}

// Column collects one column of the data rows, skipping the header.
func (f *Fake) Column(sheet string, col int) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for i, r := range f.sheets[sheet] {
		if i == 0 {
			continue
		}
		if col < len(r) {
			out = append(out, strings.TrimSpace(r[col]))
		} else {
			out = append(out, "")
		}
	}
	return out
}
