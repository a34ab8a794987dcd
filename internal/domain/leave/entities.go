package leave

import "carelink-backend/internal/domain/table"

// Sheet holds one row per (date, affected case) of a leave application.
// First row is the header.
const Sheet = "Leave_Records"

type Status string

const (
	StatusPending   Status = "Pending"
	StatusApproved  Status = "Approved"
	StatusRejected  Status = "Rejected"
	StatusCancelled Status = "Cancelled"
)

// Types are the accepted leave categories.
var Types = []string{"病假", "事假", "特休", "喪假", "婚假"}

// Schema maps logical fields to the header spellings seen across renamed
// and translated copies of the sheet.
var Schema = table.Schema{
	"timestamp": {"timestamp", "時間戳記", "申請時間"},
	"unit":      {"unit", "單位"},
	"uid":       {"uid", "line uid"},
	"name":      {"name", "姓名", "申請人"},
	"leaveType": {"leave type", "leavetype", "假別"},
	"date":      {"date", "日期", "請假日期"},
	"time":      {"time slot", "time", "時段"},
	"case":      {"case", "個案", "受影響個案"},
	"reason":    {"reason", "事由", "原因"},
	"proof":     {"proof", "證明", "附件"},
	"status":    {"status", "狀態", "審核狀態"},
	"duration":  {"duration", "hours", "時數"},
}

// DefaultColumns is the fixed write order of Submit, used as the fallback
// for sheets whose headers don't resolve.
// Header is the row seeded at sheet position 1 on a fresh store, in
// DefaultColumns order. Each cell maps back exactly under Schema.
var Header = []string{
	"Timestamp", "Unit", "UID", "Name", "Leave Type", "Date",
	"Time Slot", "Case", "Reason", "Proof", "Status", "Duration",
}

var DefaultColumns = table.ColumnMap{
	"timestamp": 0,
	"unit":      1,
	"uid":       2,
	"name":      3,
	"leaveType": 4,
	"date":      5,
	"time":      6,
	"case":      7,
	"reason":    8,
	"proof":     9,
	"status":    10,
	"duration":  11,
}

// CaseEntry is an affected-case sub-entity: the client whose visit the
// leave displaces, with the affected time window.
type CaseEntry struct {
	Name string `json:"name"`
	Time string `json:"time"`
}

// Leave is one logical application, grouped from its physical rows.
type Leave struct {
	ID        string      `json:"id"`
	Timestamp string      `json:"timestamp"`
	UID       string      `json:"uid"`
	Name      string      `json:"name"`
	LeaveType string      `json:"leaveType"`
	Date      string      `json:"date"`
	Reason    string      `json:"reason"`
	ProofURL  string      `json:"proofUrl"`
	Duration  string      `json:"duration"`
	Status    Status      `json:"status"`
	Cases     []CaseEntry `json:"cases"`
}
