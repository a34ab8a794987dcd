package leave

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	domain "carelink-backend/internal/domain/leave"
	"carelink-backend/internal/domain/records"
	"carelink-backend/internal/domain/staff"
	"carelink-backend/internal/domain/table"
	"carelink-backend/internal/imagestore"
	"carelink-backend/internal/notify"
)

// Result is the caller-facing outcome of a mutating operation. Validation
// and not-found outcomes ride here; only store failures surface as errors.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type Usecase struct {
	store    table.Store
	dir      *staff.Directory
	notifier *notify.Dispatcher
	uploads  imagestore.Uploader // nil when no upload gateway is configured
}

func NewUsecase(store table.Store, dir *staff.Directory, n *notify.Dispatcher, up imagestore.Uploader) *Usecase {
	return &Usecase{store: store, dir: dir, notifier: n, uploads: up}
}

type CaseInput struct {
	CaseName  string `json:"caseName"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	NeedCover bool   `json:"needCover"`
}

type SubmitInput struct {
	UID        string      `json:"uid"`
	Unit       string      `json:"unit"`
	Name       string      `json:"name"`
	LeaveType  string      `json:"leaveType"`
	Dates      []string    `json:"dates"`
	TimeSlot   string      `json:"timeSlot"`
	StartTime  string      `json:"startTime"`
	EndTime    string      `json:"endTime"`
	Duration   string      `json:"duration"`
	Reason     string      `json:"reason"`
	ProofImage string      `json:"proofImage"` // base64 data URL, optional
	Cases      []CaseInput `json:"cases"`
}

// Submit validates the application, uploads the optional proof image,
// derives the duration when the form omitted it, and appends one row per
// (date, affected case). The reviewer notification is best effort.
func (u *Usecase) Submit(ctx context.Context, in SubmitInput) (*Result, error) {
	if msg := in.validate(); msg != "" {
		return &Result{Success: false, Message: msg}, nil
	}

	proofURL := ""
	if in.ProofImage != "" && u.uploads != nil {
		name := fmt.Sprintf("LeaveProof_%s_%s", in.Name, in.Dates[0])
		url, err := u.uploads.Upload(ctx, in.ProofImage, name, "")
		if err != nil {
			return nil, fmt.Errorf("upload proof: %w", err)
		}
		proofURL = url
	}

	duration := in.Duration
	if duration == "" && in.StartTime != "" && in.EndTime != "" {
		duration = deriveDuration(in.StartTime, in.EndTime)
	}

	timestamp := time.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00")
	var rows [][]string
	for _, date := range in.Dates {
		if len(in.Cases) == 0 {
			rows = append(rows, submitRow(in, timestamp, date, "", proofURL, duration))
			continue
		}
		for _, c := range in.Cases {
			rows = append(rows, submitRow(in, timestamp, date, caseDetail(c), proofURL, duration))
		}
	}
	if err := u.store.Append(ctx, domain.Sheet, rows); err != nil {
		return nil, err
	}

	u.notifyReviewers(ctx, in, proofURL, timestamp)
	return &Result{Success: true}, nil
}

func (in SubmitInput) validate() string {
	switch {
	case strings.TrimSpace(in.UID) == "":
		return "缺少使用者識別"
	case strings.TrimSpace(in.Unit) == "":
		return "缺少單位"
	case strings.TrimSpace(in.Name) == "":
		return "缺少姓名"
	case strings.TrimSpace(in.LeaveType) == "":
		return "缺少假別"
	case len(in.Dates) == 0:
		return "缺少請假日期"
	}
	return ""
}

// submitRow writes the fixed column order DefaultColumns documents.
func submitRow(in SubmitInput, timestamp, date, caseDetail, proofURL, duration string) []string {
	return []string{
		timestamp, in.Unit, in.UID, in.Name, in.LeaveType, date,
		in.TimeSlot, caseDetail, in.Reason, proofURL,
		string(domain.StatusPending), duration,
	}
}

func caseDetail(c CaseInput) string {
	detail := c.CaseName
	if c.StartTime != "" && c.EndTime != "" {
		detail += fmt.Sprintf(" (%s~%s)", c.StartTime, c.EndTime)
	}
	if c.NeedCover {
		detail += " [需代班]"
	}
	return detail
}

// deriveDuration turns an HH:MM range into hours with one decimal.
func deriveDuration(start, end string) string {
	s, err1 := time.Parse("15:04", start)
	e, err2 := time.Parse("15:04", end)
	if err1 != nil || err2 != nil || !e.After(s) {
		return ""
	}
	hours := e.Sub(s).Minutes() / 60
	return strconv.FormatFloat(hours, 'f', 1, 64)
}

func (u *Usecase) notifyReviewers(ctx context.Context, in SubmitInput, proofURL, timestamp string) {
	reviewers, err := u.dir.Reviewers(ctx, in.Unit)
	if err != nil || len(reviewers) == 0 {
		if err != nil {
			log.Printf("leave: reviewer lookup failed: %v", err)
		}
		return
	}
	date := records.CollapseDates(in.Dates)
	msg := notify.LeaveApprovalRequest(in.Name, in.Unit, in.LeaveType, date, in.Reason, proofURL, notify.PostbackData{
		TS:   timestamp,
		UID:  in.UID,
		Name: in.Name,
		Date: date,
	})
	if err := u.notifier.Multicast(ctx, reviewers, msg); err != nil {
		log.Printf("leave: approval notification failed: %v", err)
	}
}

// List returns the viewer-scoped, grouped applications, newest first.
func (u *Usecase) List(ctx context.Context, uid string) ([]domain.Leave, error) {
	viewerMember, err := u.dir.FindByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	viewer := records.Viewer{
		UID:  uid,
		Name: viewerMember.Name,
		Unit: viewerMember.Unit,
		Role: viewerMember.Role,
	}

	allRows, err := u.store.Rows(ctx, domain.Sheet)
	if err != nil {
		return nil, err
	}
	if len(allRows) < 2 {
		return []domain.Leave{}, nil
	}
	cm := table.MapHeaders(allRows[0], domain.Schema).Apply(domain.DefaultColumns)

	leaves := Group(allRows[1:], cm, viewer)
	records.SortByTimestampDesc(leaves, func(l domain.Leave) string { return l.Timestamp })
	return leaves, nil
}

// Group folds visible physical rows into logical applications keyed by
// (timestamp, uid), accumulating de-duplicated affected-case entries and
// collapsing multi-date spans.
func Group(rows [][]string, cm table.ColumnMap, viewer records.Viewer) []domain.Leave {
	type agg struct {
		leave     *domain.Leave
		dates     []string
		dateSeen  map[string]struct{}
		entrySeen map[string]struct{}
	}
	byKey := map[string]*agg{}
	var order []string

	for _, r := range rows {
		if !records.Visible(r, cm, viewer) {
			continue
		}
		ts := table.Cell(r, cm.Col("timestamp"))
		rowUID := table.Cell(r, cm.Col("uid"))
		key := records.Key(ts, rowUID)

		a, ok := byKey[key]
		if !ok {
			a = &agg{
				leave: &domain.Leave{
					ID:        key,
					Timestamp: ts,
					UID:       rowUID,
					Name:      table.Cell(r, cm.Col("name")),
					LeaveType: table.Cell(r, cm.Col("leaveType")),
					Reason:    table.Cell(r, cm.Col("reason")),
					ProofURL:  table.Cell(r, cm.Col("proof")),
					Duration:  table.Cell(r, cm.Col("duration")),
					Status:    domain.Status(records.OrPending(table.Cell(r, cm.Col("status")))),
				},
				dateSeen:  map[string]struct{}{},
				entrySeen: map[string]struct{}{},
			}
			byKey[key] = a
			order = append(order, key)
		}

		if date := table.Cell(r, cm.Col("date")); date != "" {
			if _, seen := a.dateSeen[date]; !seen {
				a.dateSeen[date] = struct{}{}
				a.dates = append(a.dates, date)
			}
		}

		caseCell := table.Cell(r, cm.Col("case"))
		timeCell := table.Cell(r, cm.Col("time"))
		if caseCell == "" && timeCell == "" {
			continue
		}
		name := caseCell
		if name == "" {
			name = "未指定"
		}
		entryKey := name + "|" + timeCell
		if _, seen := a.entrySeen[entryKey]; seen {
			continue
		}
		a.entrySeen[entryKey] = struct{}{}
		a.leave.Cases = append(a.leave.Cases, domain.CaseEntry{Name: name, Time: timeCell})
	}

	leaves := make([]domain.Leave, 0, len(order))
	for _, key := range order {
		a := byKey[key]
		a.leave.Date = records.CollapseDates(a.dates)
		leaves = append(leaves, *a.leave)
	}
	return leaves
}

type ReviewInput struct {
	UID       string `json:"uid"`
	TargetUID string `json:"targetUid"`
	Timestamp string `json:"timestamp"`
	Action    string `json:"action"` // approve | reject
	Name      string `json:"name"`
}

// Review writes the verdict into every still-pending row of the
// application. Rows already decided stay untouched: the pending check is
// re-evaluated against a fresh read so a racing reviewer cannot be
// silently overwritten (last writer would otherwise win).
func (u *Usecase) Review(ctx context.Context, in ReviewInput) (*Result, error) {
	if in.Action != "approve" && in.Action != "reject" {
		return &Result{Success: false, Message: "未知的審核動作"}, nil
	}
	status := domain.StatusRejected
	if in.Action == "approve" {
		status = domain.StatusApproved
	}

	rows, err := u.store.Rows(ctx, domain.Sheet)
	if err != nil {
		return nil, err
	}
	cm := columnsFor(rows)

	matched, updated := 0, 0
	leaveDate := ""
	for i, r := range rows {
		if i == 0 {
			continue
		}
		if table.Cell(r, cm.Col("timestamp")) != in.Timestamp || table.Cell(r, cm.Col("uid")) != in.TargetUID {
			continue
		}
		matched++
		if records.OrPending(table.Cell(r, cm.Col("status"))) != string(domain.StatusPending) {
			continue
		}
		if err := u.store.UpdateCell(ctx, domain.Sheet, i+1, cm.Col("status"), string(status)); err != nil {
			return nil, err
		}
		leaveDate = table.Cell(r, cm.Col("date"))
		updated++
	}

	switch {
	case matched == 0:
		return &Result{Success: false, Message: "找不到該假單"}, nil
	case updated == 0:
		return &Result{Success: false, Message: "該假單已審核過"}, nil
	}

	if err := u.notifier.Push(ctx, in.TargetUID, notify.LeaveReviewResult(in.Name, leaveDate, status == domain.StatusApproved)); err != nil {
		log.Printf("leave: review notification failed: %v", err)
	}
	return &Result{Success: true}, nil
}

// Cancel withdraws the viewer's own application. Allowed only while every
// row is still Pending; the check runs over all rows before any write so a
// partially-reviewed application is left exactly as found.
func (u *Usecase) Cancel(ctx context.Context, uid, timestamp string) (*Result, error) {
	rows, err := u.store.Rows(ctx, domain.Sheet)
	if err != nil {
		return nil, err
	}
	cm := columnsFor(rows)

	var targets []int
	for i, r := range rows {
		if i == 0 {
			continue
		}
		if table.Cell(r, cm.Col("timestamp")) != timestamp || table.Cell(r, cm.Col("uid")) != uid {
			continue
		}
		if records.OrPending(table.Cell(r, cm.Col("status"))) != string(domain.StatusPending) {
			return &Result{Success: false, Message: "只能撤回待審核的假單"}, nil
		}
		targets = append(targets, i+1)
	}
	if len(targets) == 0 {
		return &Result{Success: false, Message: "找不到該假單"}, nil
	}
	for _, rowIdx := range targets {
		if err := u.store.UpdateCell(ctx, domain.Sheet, rowIdx, cm.Col("status"), string(domain.StatusCancelled)); err != nil {
			return nil, err
		}
	}
	return &Result{Success: true}, nil
}

// IsNotFound reports whether err is the staff-directory miss surfaced by
// List for an unregistered viewer.
func IsNotFound(err error) bool { return errors.Is(err, staff.ErrNotFound) }

func columnsFor(rows [][]string) table.ColumnMap {
	if len(rows) == 0 {
		return table.ColumnMap{}.Apply(domain.DefaultColumns)
	}
	return table.MapHeaders(rows[0], domain.Schema).Apply(domain.DefaultColumns)
}
