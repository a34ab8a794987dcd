package refusal

import (
	"context"
	"sort"
	"strings"
	"time"

	domain "carelink-backend/internal/domain/refusal"
	"carelink-backend/internal/domain/table"
)

type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type Usecase struct {
	store table.Store
}

func NewUsecase(store table.Store) *Usecase { return &Usecase{store: store} }

type SubmitInput struct {
	SupervisorName string   `json:"supervisorName"`
	AttendantName  string   `json:"attendantName"`
	RefusalDate    string   `json:"refusalDate"`
	Assessments    []string `json:"assessments"`
	Reason         string   `json:"reason"`
}

func (u *Usecase) Submit(ctx context.Context, in SubmitInput) (*Result, error) {
	switch {
	case strings.TrimSpace(in.SupervisorName) == "":
		return &Result{Success: false, Message: "缺少派案督導員"}, nil
	case strings.TrimSpace(in.AttendantName) == "":
		return &Result{Success: false, Message: "缺少受案服務員"}, nil
	case strings.TrimSpace(in.RefusalDate) == "":
		return &Result{Success: false, Message: "缺少拒接案日期"}, nil
	}

	row := []string{
		time.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		in.SupervisorName, in.AttendantName, in.RefusalDate,
		strings.Join(in.Assessments, ", "), in.Reason,
	}
	if err := u.store.Append(ctx, domain.Sheet, [][]string{row}); err != nil {
		return nil, err
	}
	return &Result{Success: true}, nil
}

// StatEntry is one attendant's refusal tally.
type StatEntry struct {
	AttendantName string `json:"attendantName"`
	Count         int    `json:"count"`
	LastDate      string `json:"lastDate"`
}

// Stats tallies reports per attendant, most refusals first.
func (u *Usecase) Stats(ctx context.Context) ([]StatEntry, error) {
	rows, err := u.store.Rows(ctx, domain.Sheet)
	if err != nil {
		return nil, err
	}
	cm := table.ColumnMap{}.Apply(domain.DefaultColumns)
	if len(rows) > 0 {
		cm = table.MapHeaders(rows[0], domain.Schema).Apply(domain.DefaultColumns)
	}

	counts := map[string]*StatEntry{}
	var names []string
	for i, r := range rows {
		if i == 0 {
			continue
		}
		name := table.Cell(r, cm.Col("attendantName"))
		if name == "" {
			continue
		}
		e, ok := counts[name]
		if !ok {
			e = &StatEntry{AttendantName: name}
			counts[name] = e
			names = append(names, name)
		}
		e.Count++
		if d := table.Cell(r, cm.Col("refusalDate")); d > e.LastDate {
			e.LastDate = d
		}
	}

	out := make([]StatEntry, 0, len(names))
	for _, n := range names {
		out = append(out, *counts[n])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out, nil
}
