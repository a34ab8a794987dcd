package bulletin

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	domain "carelink-backend/internal/domain/bulletin"
	"carelink-backend/internal/domain/records"
	"carelink-backend/internal/domain/table"
	"carelink-backend/pkg/id"
)

// ErrForbidden marks an editor-only operation requested by a non-editor.
var ErrForbidden = errors.New("insufficient role")

type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type Usecase struct {
	store table.Store
	now   func() time.Time
}

func NewUsecase(store table.Store) *Usecase {
	return &Usecase{store: store, now: time.Now}
}

// NewUsecaseAt pins the clock, for the schedule-gate tests.
func NewUsecaseAt(store table.Store, now func() time.Time) *Usecase {
	return &Usecase{store: store, now: now}
}

type ListInput struct {
	Role string `json:"role"`
	Unit string `json:"unit"`
	Mode string `json:"mode"` // view | manage
}

// List returns the bulletins visible to the viewer. Deleted ones never
// show. Editors in manage mode see everything else; the normal view shows
// published items plus scheduled items whose time has passed (evaluated at
// the agency's fixed UTC+8 offset), scoped to All or the viewer's unit.
func (u *Usecase) List(ctx context.Context, in ListInput) ([]domain.Bulletin, error) {
	rows, err := u.store.Rows(ctx, domain.Sheet)
	if err != nil {
		return nil, err
	}
	out := []domain.Bulletin{}
	if len(rows) < 2 {
		return out, nil
	}
	cm := table.MapHeaders(rows[0], domain.Schema).Apply(domain.DefaultColumns)

	manage := in.Mode == "manage" && domain.CanEdit(in.Role)
	now := u.now()
	for i, r := range rows[1:] {
		b := bulletinFromRow(r, cm)
		b.RowIndex = i + 2
		if b.Status == domain.StatusDeleted {
			continue
		}
		if !manage && !visibleInView(b, in.Unit, now) {
			continue
		}
		out = append(out, b)
	}

	// High priority first, then newest first.
	records.SortByTimestampDesc(out, func(b domain.Bulletin) string { return b.Timestamp })
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority == domain.PriorityHigh && out[j].Priority != domain.PriorityHigh
	})
	return out, nil
}

func visibleInView(b domain.Bulletin, unit string, now time.Time) bool {
	published := b.Status == domain.StatusPublished || b.Status == domain.StatusActive
	scheduledDue := false
	if b.Status == domain.StatusScheduled && b.ScheduledTime != "" {
		if t, err := time.ParseInLocation("2006-01-02T15:04", b.ScheduledTime, records.AgencyZone); err == nil {
			scheduledDue = !t.After(now)
		}
	}
	if !published && !scheduledDue {
		return false
	}
	return b.TargetUnit == domain.TargetAllUnits || b.TargetUnit == "" || b.TargetUnit == unit
}

func bulletinFromRow(r []string, cm table.ColumnMap) domain.Bulletin {
	return domain.Bulletin{
		ID:            table.Cell(r, cm.Col("id")),
		Timestamp:     table.Cell(r, cm.Col("timestamp")),
		Author:        table.Cell(r, cm.Col("author")),
		Title:         table.Cell(r, cm.Col("title")),
		Content:       table.Cell(r, cm.Col("content")),
		Category:      table.Cell(r, cm.Col("category")),
		Priority:      table.Cell(r, cm.Col("priority")),
		Status:        domain.Status(table.Cell(r, cm.Col("status"))),
		TargetUnit:    table.Cell(r, cm.Col("targetUnit")),
		ScheduledTime: table.Cell(r, cm.Col("scheduledTime")),
	}
}

type CreateInput struct {
	Author        string `json:"author"`
	Role          string `json:"role"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	Category      string `json:"category"`
	Priority      string `json:"priority"`
	TargetUnit    string `json:"targetUnit"`
	Status        string `json:"status"`
	ScheduledTime string `json:"scheduledTime"`
}

func (u *Usecase) Create(ctx context.Context, in CreateInput) (*Result, error) {
	if !domain.CanEdit(in.Role) {
		return &Result{Success: false, Message: "無權限建立公告"}, nil
	}
	if strings.TrimSpace(in.Title) == "" {
		return &Result{Success: false, Message: "缺少標題"}, nil
	}

	status := in.Status
	if status == "" {
		status = string(domain.StatusPublished)
	}
	target := in.TargetUnit
	if target == "" {
		target = domain.TargetAllUnits
	}
	row := []string{
		id.New(), records.LocalTimestamp(u.now()), in.Author,
		in.Title, in.Content, in.Category, in.Priority,
		status, target, in.ScheduledTime,
	}
	if err := u.store.Append(ctx, domain.Sheet, [][]string{row}); err != nil {
		return nil, err
	}
	return &Result{Success: true, Message: "公告已儲存"}, nil
}

// Delete soft-deletes a bulletin. Editor role required, and only the
// author may remove their own bulletin.
func (u *Usecase) Delete(ctx context.Context, bulletinID, role, userName string) (*Result, error) {
	if !domain.CanEdit(role) {
		return &Result{Success: false, Message: "無權限刪除公告"}, nil
	}
	rows, err := u.store.Rows(ctx, domain.Sheet)
	if err != nil {
		return nil, err
	}
	cm := columnsFor(rows)

	for i, r := range rows {
		if i == 0 || table.Cell(r, cm.Col("id")) != bulletinID {
			continue
		}
		if table.Cell(r, cm.Col("author")) != userName {
			return &Result{Success: false, Message: "只能刪除自己發布的公告"}, nil
		}
		if err := u.store.UpdateCell(ctx, domain.Sheet, i+1, cm.Col("status"), string(domain.StatusDeleted)); err != nil {
			return nil, err
		}
		return &Result{Success: true, Message: "公告已刪除"}, nil
	}
	return &Result{Success: false, Message: "找不到公告"}, nil
}

// Sign records a read acknowledgement; one per (bulletin, uid).
func (u *Usecase) Sign(ctx context.Context, bulletinID, uid, name string) (*Result, error) {
	signs, err := u.store.Rows(ctx, domain.SignSheet)
	if err != nil {
		return nil, err
	}
	cm := signColumnsFor(signs)
	for i, r := range signs {
		if i == 0 {
			continue
		}
		if table.Cell(r, cm.Col("bulletinId")) == bulletinID && table.Cell(r, cm.Col("uid")) == uid {
			return &Result{Success: false, Message: "已簽收過此公告"}, nil
		}
	}
	row := []string{bulletinID, uid, name, records.LocalTimestamp(u.now())}
	if err := u.store.Append(ctx, domain.SignSheet, [][]string{row}); err != nil {
		return nil, err
	}
	return &Result{Success: true, Message: "已簽收"}, nil
}

// Stats is the sign-off summary of one bulletin, editor-only.
type Stats struct {
	Count int           `json:"count"`
	Signs []domain.Sign `json:"signs"`
}

func (u *Usecase) SignStats(ctx context.Context, bulletinID, role string) (*Stats, error) {
	if !domain.CanEdit(role) {
		return nil, ErrForbidden
	}
	signs, err := u.store.Rows(ctx, domain.SignSheet)
	if err != nil {
		return nil, err
	}
	cm := signColumnsFor(signs)
	out := &Stats{Signs: []domain.Sign{}}
	for i, r := range signs {
		if i == 0 || table.Cell(r, cm.Col("bulletinId")) != bulletinID {
			continue
		}
		out.Signs = append(out.Signs, domain.Sign{
			BulletinID: bulletinID,
			UID:        table.Cell(r, cm.Col("uid")),
			Name:       table.Cell(r, cm.Col("name")),
			SignedAt:   table.Cell(r, cm.Col("signedAt")),
		})
	}
	out.Count = len(out.Signs)
	return out, nil
}

func columnsFor(rows [][]string) table.ColumnMap {
	if len(rows) == 0 {
		return table.ColumnMap{}.Apply(domain.DefaultColumns)
	}
	return table.MapHeaders(rows[0], domain.Schema).Apply(domain.DefaultColumns)
}

func signColumnsFor(rows [][]string) table.ColumnMap {
	if len(rows) == 0 {
		return table.ColumnMap{}.Apply(domain.SignDefaultColumns)
	}
	return table.MapHeaders(rows[0], domain.SignSchema).Apply(domain.SignDefaultColumns)
}
