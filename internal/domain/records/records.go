// Package records holds the row-scan logic shared by the leave and case
// listings: role-scoped visibility, composite-key grouping and date
// collapsing. One submission writes several physical rows (one per affected
// case per date); these helpers fold them back into logical records.
package records

import (
	"sort"
	"strings"
	"time"

	"carelink-backend/internal/domain/staff"
	"carelink-backend/internal/domain/table"
)

// Viewer is the identity a listing is scoped to.
type Viewer struct {
	UID  string
	Name string
	Unit string
	Role string
}

// Elevated reports whether the viewer holds a reviewer-class role.
func (v Viewer) Elevated() bool { return staff.IsReviewer(v.Role) }

// Visible applies the role-gated visibility rule to one row.
//
// Elevated viewers see every row of their own unit, plus their own
// submissions regardless of unit. Everyone else sees only rows matching
// their UID (case-insensitive) AND their exact name; the name check guards
// against a recycled UID exposing a previous holder's records.
func Visible(row []string, cm table.ColumnMap, v Viewer) bool {
	rowUnit := strings.TrimSpace(table.Cell(row, cm.Col("unit")))
	rowUID := strings.TrimSpace(table.Cell(row, cm.Col("uid")))
	rowName := strings.TrimSpace(table.Cell(row, cm.Col("name")))

	selfMatch := strings.EqualFold(rowUID, strings.TrimSpace(v.UID))
	if v.Elevated() {
		return rowUnit == strings.TrimSpace(v.Unit) || selfMatch
	}
	return selfMatch && rowName == strings.TrimSpace(v.Name)
}

// Key builds the composite key identifying a logical record: every row of
// one submission carries the same submission timestamp and owner UID.
func Key(timestamp, uid string) string { return timestamp + "_" + uid }

// OrPending substitutes the default status for an empty status cell.
func OrPending(status string) string {
	if status == "" {
		return "Pending"
	}
	return status
}

// CollapseDates renders a record's date set: a single date verbatim, a
// multi-date span as "first ~ last" after a lexicographic sort (dates are
// ISO-formatted so that equals chronological order).
func CollapseDates(dates []string) string {
	switch len(dates) {
	case 0:
		return ""
	case 1:
		return dates[0]
	}
	sorted := append([]string(nil), dates...)
	sort.Strings(sorted)
	return sorted[0] + " ~ " + sorted[len(sorted)-1]
}

// SortByTimestampDesc orders newest-first. Unparseable timestamps sort as
// zero, keeping their relative store order (the sort is stable).
func SortByTimestampDesc[T any](items []T, timestamp func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		return parseMillis(timestamp(items[i])) > parseMillis(timestamp(items[j]))
	})
}

// AgencyZone is the agency's fixed local offset. Whisper and bulletin
// timestamps are written as local wall-clock strings, and the bulletin
// schedule gate evaluates in this zone regardless of server location.
var AgencyZone = time.FixedZone("UTC+8", 8*60*60)

// LocalTimestamp renders t as the local wall-clock string format the
// whisper and bulletin sheets use.
func LocalTimestamp(t time.Time) string {
	return t.In(AgencyZone).Format("2006/01/02 15:04:05")
}

func parseMillis(ts string) int64 {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006/1/2 15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.UnixMilli()
		}
	}
	return 0
}
