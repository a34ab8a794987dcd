package caseapp

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	domain "carelink-backend/internal/domain/caseapp"
	"carelink-backend/internal/domain/records"
	"carelink-backend/internal/domain/staff"
	"carelink-backend/internal/domain/table"
	"carelink-backend/internal/notify"
)

type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type Usecase struct {
	store    table.Store
	dir      *staff.Directory
	notifier *notify.Dispatcher
}

func NewUsecase(store table.Store, dir *staff.Directory, n *notify.Dispatcher) *Usecase {
	return &Usecase{store: store, dir: dir, notifier: n}
}

type SubmitInput struct {
	UID        string   `json:"uid"`
	StaffID    string   `json:"staffId"`
	Applicant  string   `json:"applicant"`
	Agency     string   `json:"agency"`
	Area       string   `json:"area"`
	CaseName   string   `json:"caseName"`
	Gender     string   `json:"gender"`
	ApplyTypes []string `json:"applyTypes"`
	DevItem    string   `json:"devItem"`
	DevCount   string   `json:"devCount"`
}

func (u *Usecase) Submit(ctx context.Context, in SubmitInput) (*Result, error) {
	switch {
	case strings.TrimSpace(in.Applicant) == "":
		return &Result{Success: false, Message: "缺少申請人"}, nil
	case strings.TrimSpace(in.Agency) == "":
		return &Result{Success: false, Message: "缺少單位"}, nil
	case strings.TrimSpace(in.CaseName) == "":
		return &Result{Success: false, Message: "缺少個案姓名"}, nil
	case len(in.ApplyTypes) == 0:
		return &Result{Success: false, Message: "缺少申請項目"}, nil
	}

	timestamp := time.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00")
	applyTypes := strings.Join(in.ApplyTypes, ", ")
	row := []string{
		timestamp, in.StaffID, in.Applicant, in.Agency, in.Area,
		in.CaseName, in.Gender, applyTypes, in.DevItem, in.DevCount,
		string(domain.StatusPending), "", "", "",
	}
	if err := u.store.Append(ctx, domain.Sheet, [][]string{row}); err != nil {
		return nil, err
	}

	if reviewers, err := u.dir.Reviewers(ctx, in.Agency); err != nil {
		log.Printf("caseapp: reviewer lookup failed: %v", err)
	} else if err := u.notifier.Multicast(ctx, reviewers, notify.CaseApprovalRequest(in.Applicant, in.CaseName, applyTypes)); err != nil {
		log.Printf("caseapp: approval notification failed: %v", err)
	}
	return &Result{Success: true}, nil
}

// ListOutput carries the viewer's reviewer flag so the frontend can switch
// into the review layout without a second round trip.
type ListOutput struct {
	Cases      []domain.Application `json:"cases"`
	IsReviewer bool                 `json:"isReviewer"`
}

// List shows reviewers every application of their unit; other staff see
// their own submissions, matched by applicant name plus staff id.
func (u *Usecase) List(ctx context.Context, uid string) (*ListOutput, error) {
	viewer, err := u.dir.FindByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	isReviewer := staff.IsReviewer(viewer.Role)

	rows, err := u.store.Rows(ctx, domain.Sheet)
	if err != nil {
		return nil, err
	}
	out := &ListOutput{Cases: []domain.Application{}, IsReviewer: isReviewer}
	if len(rows) < 2 {
		return out, nil
	}
	cm := table.MapHeaders(rows[0], domain.Schema).Apply(domain.DefaultColumns)

	for _, r := range rows[1:] {
		if isReviewer {
			if table.Cell(r, cm.Col("agency")) != viewer.Unit {
				continue
			}
		} else {
			if table.Cell(r, cm.Col("applicant")) != viewer.Name {
				continue
			}
			if !strings.EqualFold(table.Cell(r, cm.Col("staffId")), viewer.StaffID) {
				continue
			}
		}
		out.Cases = append(out.Cases, applicationFromRow(r, cm))
	}
	records.SortByTimestampDesc(out.Cases, func(a domain.Application) string { return a.Timestamp })
	return out, nil
}

func applicationFromRow(r []string, cm table.ColumnMap) domain.Application {
	return domain.Application{
		Timestamp:        table.Cell(r, cm.Col("timestamp")),
		StaffID:          table.Cell(r, cm.Col("staffId")),
		Applicant:        table.Cell(r, cm.Col("applicant")),
		Agency:           table.Cell(r, cm.Col("agency")),
		Area:             table.Cell(r, cm.Col("area")),
		CaseName:         table.Cell(r, cm.Col("caseName")),
		Gender:           table.Cell(r, cm.Col("gender")),
		ApplyTypes:       table.Cell(r, cm.Col("applyTypes")),
		DevItem:          table.Cell(r, cm.Col("devItem")),
		DevCount:         table.Cell(r, cm.Col("devCount")),
		Status:           domain.Status(records.OrPending(table.Cell(r, cm.Col("status")))),
		Reviewer:         table.Cell(r, cm.Col("reviewer")),
		ReviewTime:       table.Cell(r, cm.Col("reviewTime")),
		FirstServiceDate: table.Cell(r, cm.Col("firstService")),
	}
}

type ReviewInput struct {
	UID              string `json:"uid"`
	Timestamp        string `json:"timestamp"`
	Action           string `json:"action"` // approve | reject | accept
	ReviewerName     string `json:"reviewerName"`
	FirstServiceDate string `json:"firstServiceDate"`
}

// Review decides an application. "accept" moves a Pending application into
// Processing and records the first service date; approve/reject close it
// from Pending or Processing. The decided application never moves
// backward.
func (u *Usecase) Review(ctx context.Context, in ReviewInput) (*Result, error) {
	var target domain.Status
	switch in.Action {
	case "approve":
		target = domain.StatusApproved
	case "reject":
		target = domain.StatusRejected
	case "accept":
		target = domain.StatusProcessing
		if strings.TrimSpace(in.FirstServiceDate) == "" {
			return &Result{Success: false, Message: "接案需填寫初次服務日"}, nil
		}
	default:
		return &Result{Success: false, Message: "未知的審核動作"}, nil
	}

	rows, err := u.store.Rows(ctx, domain.Sheet)
	if err != nil {
		return nil, err
	}
	cm := columnsFor(rows)

	for i, r := range rows {
		if i == 0 || table.Cell(r, cm.Col("timestamp")) != in.Timestamp {
			continue
		}
		current := domain.Status(records.OrPending(table.Cell(r, cm.Col("status"))))
		if !allowedTransition(current, target) {
			return &Result{Success: false, Message: "案件狀態已變更，無法執行此動作"}, nil
		}

		reviewTime := time.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00")
		values := []string{string(target), in.ReviewerName, reviewTime}
		if in.Action == "accept" {
			values = append(values, in.FirstServiceDate)
		}
		if err := u.writeReview(ctx, cm, i+1, values); err != nil {
			return nil, err
		}
		return &Result{Success: true}, nil
	}
	return &Result{Success: false, Message: "找不到該案件"}, nil
}

func allowedTransition(from, to domain.Status) bool {
	switch to {
	case domain.StatusProcessing:
		return from == domain.StatusPending
	case domain.StatusApproved, domain.StatusRejected:
		return from == domain.StatusPending || from == domain.StatusProcessing
	default:
		return false
	}
}

// writeReview batches the review columns into one range update when the
// sheet keeps them contiguous; a reordered sheet falls back to one write
// per cell.
func (u *Usecase) writeReview(ctx context.Context, cm table.ColumnMap, rowIdx int, values []string) error {
	start := cm.Col("status")
	cols := []int{start, cm.Col("reviewer"), cm.Col("reviewTime"), cm.Col("firstService")}
	contiguous := true
	for n := 1; n < len(values); n++ {
		if cols[n] != start+n {
			contiguous = false
			break
		}
	}
	if contiguous {
		return u.store.UpdateRange(ctx, domain.Sheet, rowIdx, start, values)
	}
	for n, v := range values {
		if err := u.store.UpdateCell(ctx, domain.Sheet, rowIdx, cols[n], v); err != nil {
			return err
		}
	}
	return nil
}

// Revoke lets the applicant withdraw their own Pending application. The
// ownership check matches the applicant name, since the sheet rows do not
// carry the chat uid.
func (u *Usecase) Revoke(ctx context.Context, applicant, timestamp string) (*Result, error) {
	rows, err := u.store.Rows(ctx, domain.Sheet)
	if err != nil {
		return nil, err
	}
	cm := columnsFor(rows)

	for i, r := range rows {
		if i == 0 || table.Cell(r, cm.Col("timestamp")) != timestamp {
			continue
		}
		if table.Cell(r, cm.Col("applicant")) != applicant {
			return &Result{Success: false, Message: "只能撤回自己的申請"}, nil
		}
		if records.OrPending(table.Cell(r, cm.Col("status"))) != string(domain.StatusPending) {
			return &Result{Success: false, Message: "只能撤回待審核的申請"}, nil
		}
		if err := u.store.UpdateCell(ctx, domain.Sheet, i+1, cm.Col("status"), string(domain.StatusCancelled)); err != nil {
			return nil, err
		}
		return &Result{Success: true}, nil
	}
	return &Result{Success: false, Message: "找不到該案件"}, nil
}

// RankingEntry is one applicant's monthly tally.
type RankingEntry struct {
	Applicant string `json:"applicant"`
	Count     int    `json:"count"`
}

// Ranking tallies non-rejected applications per applicant for month
// ("2006-01"); an empty month means the current one.
func (u *Usecase) Ranking(ctx context.Context, month string) ([]RankingEntry, error) {
	if month == "" {
		month = time.Now().UTC().Format("2006-01")
	}
	rows, err := u.store.Rows(ctx, domain.Sheet)
	if err != nil {
		return nil, err
	}
	cm := columnsFor(rows)

	counts := map[string]int{}
	var names []string
	for i, r := range rows {
		if i == 0 {
			continue
		}
		ts, err := time.Parse(time.RFC3339, table.Cell(r, cm.Col("timestamp")))
		if err != nil || ts.Format("2006-01") != month {
			continue
		}
		if records.OrPending(table.Cell(r, cm.Col("status"))) == string(domain.StatusRejected) {
			continue
		}
		name := table.Cell(r, cm.Col("applicant"))
		if name == "" {
			continue
		}
		if _, seen := counts[name]; !seen {
			names = append(names, name)
		}
		counts[name]++
	}

	out := make([]RankingEntry, 0, len(names))
	for _, n := range names {
		out = append(out, RankingEntry{Applicant: n, Count: counts[n]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out, nil
}

// SendPendingReminders is the daily sweep: every intake application still
// Pending gets a weekly reminder (7, 14, 21... days after submission)
// multicast to its unit's reviewers. The sweep only notifies; it never
// writes.
func (u *Usecase) SendPendingReminders(ctx context.Context, now time.Time) {
	rows, err := u.store.Rows(ctx, domain.Sheet)
	if err != nil {
		log.Printf("caseapp: reminder sweep fetch failed: %v", err)
		return
	}
	if len(rows) < 2 {
		return
	}
	cm := table.MapHeaders(rows[0], domain.Schema).Apply(domain.DefaultColumns)

	type reminder struct {
		unit, applicant, caseName string
		daysPending               int
	}
	var due []reminder
	today := now.UTC().Truncate(24 * time.Hour)
	for _, r := range rows[1:] {
		if records.OrPending(table.Cell(r, cm.Col("status"))) != string(domain.StatusPending) {
			continue
		}
		if !strings.Contains(table.Cell(r, cm.Col("applyTypes")), domain.TypeIntake) {
			continue
		}
		ts, err := time.Parse(time.RFC3339, table.Cell(r, cm.Col("timestamp")))
		if err != nil {
			continue
		}
		days := int(today.Sub(ts.UTC().Truncate(24*time.Hour)).Hours() / 24)
		if days <= 0 || days%7 != 0 {
			continue
		}
		due = append(due, reminder{
			unit:        table.Cell(r, cm.Col("agency")),
			applicant:   table.Cell(r, cm.Col("applicant")),
			caseName:    table.Cell(r, cm.Col("caseName")),
			daysPending: days,
		})
	}
	if len(due) == 0 {
		return
	}

	reviewersByUnit, err := u.dir.ReviewersByUnit(ctx)
	if err != nil {
		log.Printf("caseapp: reminder reviewer lookup failed: %v", err)
		return
	}
	for _, rem := range due {
		reviewers := reviewersByUnit[rem.unit]
		if len(reviewers) == 0 {
			continue
		}
		msg := notify.CasePendingReminder(rem.applicant, rem.caseName, rem.daysPending)
		if err := u.notifier.Multicast(ctx, reviewers, msg); err != nil {
			log.Printf("caseapp: reminder notification failed: %v", err)
		}
	}
}

func columnsFor(rows [][]string) table.ColumnMap {
	if len(rows) == 0 {
		return table.ColumnMap{}.Apply(domain.DefaultColumns)
	}
	return table.MapHeaders(rows[0], domain.Schema).Apply(domain.DefaultColumns)
}
