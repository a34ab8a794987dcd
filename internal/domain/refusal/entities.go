package refusal

import "carelink-backend/internal/domain/table"

// Sheet holds refusal reports: a supervisor's record of an attendant
// declining an assigned case. First row is the header.
const Sheet = "Refusal_Reports"

var Schema = table.Schema{
	"timestamp":      {"timestamp", "時間戳記"},
	"supervisorName": {"supervisor", "派案督導員"},
	"attendantName":  {"attendant", "受案服務員"},
	"refusalDate":    {"refusal date", "拒接案日期"},
	"assessments":    {"assessment", "狀況評估"},
	"reason":         {"reason", "具體事由"},
}

// Header is the row seeded at sheet position 1 on a fresh store, in
// DefaultColumns order.
var Header = []string{
	"Timestamp", "Supervisor", "Attendant", "Refusal Date",
	"Assessment", "Reason",
}

var DefaultColumns = table.ColumnMap{
	"timestamp":      0,
	"supervisorName": 1,
	"attendantName":  2,
	"refusalDate":    3,
	"assessments":    4,
	"reason":         5,
}

// Report is one refusal row.
type Report struct {
	Timestamp      string `json:"timestamp"`
	SupervisorName string `json:"supervisorName"`
	AttendantName  string `json:"attendantName"`
	RefusalDate    string `json:"refusalDate"`
	Assessments    string `json:"assessments"`
	Reason         string `json:"reason"`
}
