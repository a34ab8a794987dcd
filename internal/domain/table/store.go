package table

import "context"

// Store is a named-sheet row store. A sheet is an ordered list of rows;
// each row is an ordered list of string cells. Row and column indices are
// 1-based to match the addressing the review/cancel flows carry around
// (a sheet with a header row has it at index 1).
//
// The store gives no isolation between a read and a later write: callers
// that do check-then-update must re-fetch right before the update and
// accept that a concurrent writer can still win.
type Store interface {
	// Rows returns every row of the sheet in append order, or an empty
	// slice when the sheet has no rows yet.
	Rows(ctx context.Context, sheet string) ([][]string, error)
	// Append adds rows after the existing ones, preserving their order.
	Append(ctx context.Context, sheet string, rows [][]string) error
	// UpdateCell overwrites a single cell. The row must exist; the row is
	// widened with empty cells if col is past its current width.
	UpdateCell(ctx context.Context, sheet string, row, col int, value string) error
	// UpdateRange overwrites a contiguous horizontal run of cells starting
	// at startCol. Used by review flows whose status/reviewer/time columns
	// are adjacent, so the write lands in one store call.
	UpdateRange(ctx context.Context, sheet string, row, startCol int, values []string) error
}

// EnsureHeader appends header as the first row of sheet when the sheet is
// still empty. Every read path treats row 1 as the header, and the sheets
// are app-owned: nothing else ever creates them, so a fresh store must be
// seeded before the first data row lands in the header slot.
func EnsureHeader(ctx context.Context, s Store, sheet string, header []string) error {
	rows, err := s.Rows(ctx, sheet)
	if err != nil {
		return err
	}
	if len(rows) > 0 {
		return nil
	}
	return s.Append(ctx, sheet, [][]string{header})
}

// Cell returns the cell at index idx of row, or "" when the row is too
// short. Sheet rows are ragged: trailing empty cells are routinely absent.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
