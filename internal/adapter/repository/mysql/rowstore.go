package mysql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// sheetRow persists one sheet row. Cells are kept as a JSON-encoded string
// array: sheets are ragged and schema-free, so columns stay positional
// instead of becoming SQL columns. Append order = id order.
type sheetRow struct {
	ID        uint64    `gorm:"primaryKey;column:id"`
	Sheet     string    `gorm:"size:64;index:idx_sheet_rows_sheet;column:sheet"`
	Cells     string    `gorm:"type:text;column:cells"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (sheetRow) TableName() string { return "sheet_rows" }

// RowStore implements table.Store on gorm.
type RowStore struct{ db *gorm.DB }

func NewRowStore(db *gorm.DB) *RowStore { return &RowStore{db: db} }

// Migrate creates the backing table.
func (r *RowStore) Migrate() error { return r.db.AutoMigrate(&sheetRow{}) }

func (r *RowStore) Rows(ctx context.Context, sheet string) ([][]string, error) {
	var recs []sheetRow
	res := r.db.WithContext(ctx).
		Where("sheet = ?", sheet).
		Order("id ASC").
		Find(&recs)
	if res.Error != nil {
		return nil, fmt.Errorf("rowstore: fetch %s: %w", sheet, res.Error)
	}
	rows := make([][]string, 0, len(recs))
	for _, rec := range recs {
		cells, err := decodeCells(rec.Cells)
		if err != nil {
			return nil, fmt.Errorf("rowstore: row %d of %s: %w", rec.ID, sheet, err)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func (r *RowStore) Append(ctx context.Context, sheet string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	recs := make([]sheetRow, 0, len(rows))
	for _, row := range rows {
		cells, err := encodeCells(row)
		if err != nil {
			return fmt.Errorf("rowstore: append to %s: %w", sheet, err)
		}
		recs = append(recs, sheetRow{Sheet: sheet, Cells: cells})
	}
	// One insert keeps the batch contiguous in id order.
	if err := r.db.WithContext(ctx).Create(&recs).Error; err != nil {
		return fmt.Errorf("rowstore: append to %s: %w", sheet, err)
	}
	return nil
}

func (r *RowStore) UpdateCell(ctx context.Context, sheet string, row, col int, value string) error {
	return r.UpdateRange(ctx, sheet, row, col, []string{value})
}

func (r *RowStore) UpdateRange(ctx context.Context, sheet string, row, startCol int, values []string) error {
	if row < 1 || startCol < 0 {
		return fmt.Errorf("rowstore: bad address %s!r%dc%d", sheet, row, startCol)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec sheetRow
		res := tx.Where("sheet = ?", sheet).
			Order("id ASC").
			Offset(row - 1).
			Limit(1).
			Find(&rec)
		if res.Error != nil {
			return fmt.Errorf("rowstore: locate %s row %d: %w", sheet, row, res.Error)
		}
		if rec.ID == 0 {
			return fmt.Errorf("rowstore: locate %s row %d: %w", sheet, row, gorm.ErrRecordNotFound)
		}
		cells, err := decodeCells(rec.Cells)
		if err != nil {
			return fmt.Errorf("rowstore: row %d of %s: %w", rec.ID, sheet, err)
		}
		for len(cells) < startCol+len(values) {
			cells = append(cells, "")
		}
		copy(cells[startCol:], values)
		encoded, err := encodeCells(cells)
		if err != nil {
			return fmt.Errorf("rowstore: update %s row %d: %w", sheet, row, err)
		}
		if err := tx.Model(&sheetRow{}).Where("id = ?", rec.ID).Update("cells", encoded).Error; err != nil {
			return fmt.Errorf("rowstore: update %s row %d: %w", sheet, row, err)
		}
		return nil
	})
}

func encodeCells(cells []string) (string, error) {
	if cells == nil {
		cells = []string{}
	}
	b, err := json.Marshal(cells)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeCells(encoded string) ([]string, error) {
	if encoded == "" {
		return []string{}, nil
	}
	var cells []string
	if err := json.Unmarshal([]byte(encoded), &cells); err != nil {
		return nil, err
	}
	return cells, nil
}
