package staff

import (
	"context"
	"errors"
	"strings"

	"carelink-backend/internal/domain/table"
)

var ErrNotFound = errors.New("staff member not found")

// Directory reads the staff sheet. Every use case starts here: the viewer's
// unit and role drive all visibility decisions downstream.
type Directory struct{ store table.Store }

func NewDirectory(s table.Store) *Directory { return &Directory{store: s} }

// rows returns the data rows (header stripped).
func (d *Directory) rows(ctx context.Context) ([][]string, error) {
	rows, err := d.store.Rows(ctx, Sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	return rows[1:], nil
}

// FindByUID returns the first directory row bound to uid.
func (d *Directory) FindByUID(ctx context.Context, uid string) (*Member, error) {
	rows, err := d.rows(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		if table.Cell(r, ColUID) == uid {
			m := memberFromRow(r)
			return &m, nil
		}
	}
	return nil, ErrNotFound
}

// Profiles returns every binding for uid. A member bound to multiple units
// gets one profile per unit.
func (d *Directory) Profiles(ctx context.Context, uid string) ([]Member, error) {
	rows, err := d.rows(ctx)
	if err != nil {
		return nil, err
	}
	var out []Member
	for _, r := range rows {
		if table.Cell(r, ColUID) == uid {
			out = append(out, memberFromRow(r))
		}
	}
	return out, nil
}

// Units returns the distinct unit names in sheet order.
func (d *Directory) Units(ctx context.Context) ([]string, error) {
	rows, err := d.rows(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	var units []string
	for _, r := range rows {
		u := table.Cell(r, ColUnit)
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		units = append(units, u)
	}
	return units, nil
}

// Reviewers returns the bound UIDs of the unit's elevated-role members.
// These are the recipients of approval requests and pending reminders.
func (d *Directory) Reviewers(ctx context.Context, unit string) ([]string, error) {
	rows, err := d.rows(ctx)
	if err != nil {
		return nil, err
	}
	var uids []string
	for _, r := range rows {
		if table.Cell(r, ColUnit) != unit {
			continue
		}
		if !IsReviewer(table.Cell(r, ColRole)) {
			continue
		}
		if uid := table.Cell(r, ColUID); uid != "" {
			uids = append(uids, uid)
		}
	}
	return uids, nil
}

// ReviewersByUnit groups every elevated-role UID by unit in one pass, for
// the reminder sweep which fans out across units.
func (d *Directory) ReviewersByUnit(ctx context.Context) (map[string][]string, error) {
	rows, err := d.rows(ctx)
	if err != nil {
		return nil, err
	}
	out := map[string][]string{}
	for _, r := range rows {
		if !IsReviewer(table.Cell(r, ColRole)) {
			continue
		}
		uid := table.Cell(r, ColUID)
		if uid == "" {
			continue
		}
		unit := table.Cell(r, ColUnit)
		out[unit] = append(out[unit], uid)
	}
	return out, nil
}

// UnitMembers returns the unit's elevated-role members with a bound UID,
// used as whisper recipients.
func (d *Directory) UnitMembers(ctx context.Context, unit string) ([]Member, error) {
	rows, err := d.rows(ctx)
	if err != nil {
		return nil, err
	}
	var out []Member
	for _, r := range rows {
		if table.Cell(r, ColUnit) != unit {
			continue
		}
		if !IsReviewer(table.Cell(r, ColRole)) {
			continue
		}
		if table.Cell(r, ColUID) == "" {
			continue
		}
		out = append(out, memberFromRow(r))
	}
	return out, nil
}

// Bind claims the directory row matching (unit, name, staffID) for uid.
// Only an unclaimed row qualifies; the written row flips to Active.
func (d *Directory) Bind(ctx context.Context, uid, unit, name, staffID string) error {
	rows, err := d.rows(ctx)
	if err != nil {
		return err
	}
	for i, r := range rows {
		if table.Cell(r, ColUnit) != unit || table.Cell(r, ColName) != name {
			continue
		}
		if !strings.EqualFold(table.Cell(r, ColStaffID), staffID) {
			continue
		}
		if table.Cell(r, ColUID) != "" {
			continue
		}
		rowIdx := i + 2 // 1-based, after the header row
		if err := d.store.UpdateCell(ctx, Sheet, rowIdx, ColUID, uid); err != nil {
			return err
		}
		return d.store.UpdateCell(ctx, Sheet, rowIdx, ColStatus, StatusActive)
	}
	return ErrNotFound
}

func memberFromRow(r []string) Member {
	return Member{
		Unit:    table.Cell(r, ColUnit),
		Name:    table.Cell(r, ColName),
		Role:    table.Cell(r, ColRole),
		UID:     table.Cell(r, ColUID),
		StaffID: table.Cell(r, ColStaffID),
	}
}
