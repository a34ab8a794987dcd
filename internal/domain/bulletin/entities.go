package bulletin

import (
	"carelink-backend/internal/domain/staff"
	"carelink-backend/internal/domain/table"
)

// Sheet holds agency bulletins; SignSheet holds read acknowledgements.
// First row of each is the header.
const (
	Sheet     = "Bulletin"
	SignSheet = "Bulletin_Signs"
)

type Status string

const (
	StatusPublished Status = "published"
	StatusDraft     Status = "draft"
	StatusScheduled Status = "scheduled"
	StatusActive    Status = "Active" // legacy spelling of published
	StatusDeleted   Status = "Deleted"
)

const (
	PriorityHigh   = "High"
	TargetAllUnits = "All"
)

var Schema = table.Schema{
	"id":            {"id", "編號"},
	"timestamp":     {"timestamp", "時間"},
	"author":        {"author", "發布人"},
	"title":         {"title", "標題"},
	"content":       {"content", "內容"},
	"category":      {"category", "分類"},
	"priority":      {"priority", "優先級"},
	"status":        {"status", "狀態"},
	"targetUnit":    {"target unit", "targetunit", "目標單位"},
	"scheduledTime": {"scheduled time", "scheduledtime", "排程時間"},
}

// Header is the row seeded at sheet position 1 on a fresh store, in
// DefaultColumns order.
var Header = []string{
	"ID", "Timestamp", "Author", "Title", "Content", "Category",
	"Priority", "Status", "Target Unit", "Scheduled Time",
}

var DefaultColumns = table.ColumnMap{
	"id":            0,
	"timestamp":     1,
	"author":        2,
	"title":         3,
	"content":       4,
	"category":      5,
	"priority":      6,
	"status":        7,
	"targetUnit":    8,
	"scheduledTime": 9,
}

var SignSchema = table.Schema{
	"bulletinId": {"bulletin id", "bulletinid", "公告編號"},
	"uid":        {"uid", "line uid"},
	"name":       {"name", "姓名"},
	"signedAt":   {"signed at", "signedat", "簽收時間"},
}

var SignHeader = []string{"Bulletin ID", "UID", "Name", "Signed At"}

// SignDefaultColumns matches the Sign write order.
var SignDefaultColumns = table.ColumnMap{
	"bulletinId": 0,
	"uid":        1,
	"name":       2,
	"signedAt":   3,
}

// Bulletin is one bulletin row.
type Bulletin struct {
	ID            string `json:"id"`
	Timestamp     string `json:"timestamp"`
	Author        string `json:"author"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	Category      string `json:"category"`
	Priority      string `json:"priority"`
	Status        Status `json:"status"`
	TargetUnit    string `json:"targetUnit"`
	ScheduledTime string `json:"scheduledTime"`
	RowIndex      int    `json:"rowIndex"`
}

// Sign is one read acknowledgement: (bulletin id, uid) is unique.
type Sign struct {
	BulletinID string `json:"bulletinId"`
	UID        string `json:"uid"`
	Name       string `json:"name"`
	SignedAt   string `json:"signedAt"`
}

// CanEdit reports whether role may create, delete or inspect stats.
func CanEdit(role string) bool { return staff.IsReviewer(role) }
