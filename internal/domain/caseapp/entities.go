package caseapp

import "carelink-backend/internal/domain/table"

// Sheet holds one row per case (client intake) application. First row is
// the header.
const Sheet = "Case_Applications"

type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusApproved   Status = "Approved"
	StatusRejected   Status = "Rejected"
	StatusCancelled  Status = "Cancelled"
)

// TypeIntake marks an application that opens a new case; only these feed
// the weekly pending reminder.
const TypeIntake = "開案"

var Schema = table.Schema{
	"timestamp":    {"timestamp", "時間戳記", "申請時間"},
	"staffId":      {"staff id", "staffid", "員工編號"},
	"applicant":    {"applicant", "name", "申請人"},
	"agency":       {"agency", "unit", "單位"},
	"area":         {"area", "區域"},
	"caseName":     {"case name", "casename", "個案姓名"},
	"gender":       {"gender", "性別"},
	"applyTypes":   {"apply types", "applytypes", "申請項目"},
	"devItem":      {"dev item", "devitem", "輔具項目"},
	"devCount":     {"dev count", "devcount", "輔具數量"},
	"status":       {"status", "狀態", "審核狀態"},
	"reviewer":     {"reviewer", "審核人"},
	"reviewTime":   {"review time", "reviewtime", "審核時間"},
	"firstService": {"first service", "firstservice", "初次服務日"},
}

// Header is the row seeded at sheet position 1 on a fresh store, in
// DefaultColumns order.
var Header = []string{
	"Timestamp", "Staff ID", "Applicant", "Agency", "Area", "Case Name",
	"Gender", "Apply Types", "Dev Item", "Dev Count", "Status",
	"Reviewer", "Review Time", "First Service",
}

// DefaultColumns matches the Submit write order. The review columns
// (status, reviewer, reviewTime, firstService) are contiguous so a review
// lands in a single range update.
var DefaultColumns = table.ColumnMap{
	"timestamp":    0,
	"staffId":      1,
	"applicant":    2,
	"agency":       3,
	"area":         4,
	"caseName":     5,
	"gender":       6,
	"applyTypes":   7,
	"devItem":      8,
	"devCount":     9,
	"status":       10,
	"reviewer":     11,
	"reviewTime":   12,
	"firstService": 13,
}

// Application is one case application row.
type Application struct {
	Timestamp        string `json:"timestamp"`
	StaffID          string `json:"staffId"`
	Applicant        string `json:"applicant"`
	Agency           string `json:"agency"`
	Area             string `json:"area"`
	CaseName         string `json:"caseName"`
	Gender           string `json:"gender"`
	ApplyTypes       string `json:"applyTypes"`
	DevItem          string `json:"devItem"`
	DevCount         string `json:"devCount"`
	Status           Status `json:"status"`
	Reviewer         string `json:"reviewer"`
	ReviewTime       string `json:"reviewTime"`
	FirstServiceDate string `json:"firstServiceDate"`
}
