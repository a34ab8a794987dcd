package whisper

import "carelink-backend/internal/domain/table"

// Sheet holds private staff-to-supervisor messages. First row is the
// header.
const Sheet = "Whisper"

type Status string

const (
	StatusUnread  Status = "Unread"
	StatusRead    Status = "Read"
	StatusReplied Status = "Replied"
	StatusDeleted Status = "Deleted"
)

var Schema = table.Schema{
	"id":            {"id", "編號"},
	"timestamp":     {"timestamp", "時間"},
	"senderUid":     {"sender uid", "senderuid"},
	"senderName":    {"sender name", "sendername", "寄件人"},
	"unit":          {"unit", "單位"},
	"recipientUid":  {"recipient uid", "recipientuid"},
	"recipientName": {"recipient name", "recipientname", "收件人"},
	"subject":       {"subject", "主旨"},
	"content":       {"content", "內容"},
	"status":        {"status", "狀態"},
	"replyContent":  {"reply content", "replycontent", "回覆內容"},
	"replyTime":     {"reply time", "replytime", "回覆時間"},
	"replyAuthor":   {"reply author", "replyauthor", "回覆人"},
}

// Header is the row seeded at sheet position 1 on a fresh store, in
// DefaultColumns order.
var Header = []string{
	"ID", "Timestamp", "Sender UID", "Sender Name", "Unit",
	"Recipient UID", "Recipient Name", "Subject", "Content", "Status",
	"Reply Content", "Reply Time", "Reply Author",
}

// DefaultColumns matches the Submit write order. The reply columns sit
// right after status, so replying writes status+reply fields as one
// contiguous range.
var DefaultColumns = table.ColumnMap{
	"id":            0,
	"timestamp":     1,
	"senderUid":     2,
	"senderName":    3,
	"unit":          4,
	"recipientUid":  5,
	"recipientName": 6,
	"subject":       7,
	"content":       8,
	"status":        9,
	"replyContent":  10,
	"replyTime":     11,
	"replyAuthor":   12,
}

// Message is one whisper row.
type Message struct {
	ID            string `json:"id"`
	Timestamp     string `json:"timestamp"`
	SenderUID     string `json:"senderUid"`
	SenderName    string `json:"senderName"`
	Unit          string `json:"unit"`
	RecipientUID  string `json:"recipientUid"`
	RecipientName string `json:"recipientName"`
	Subject       string `json:"subject"`
	Content       string `json:"content"`
	Status        Status `json:"status"`
	ReplyContent  string `json:"replyContent"`
	ReplyTime     string `json:"replyTime"`
	ReplyAuthor   string `json:"replyAuthor"`
	RowIndex      int    `json:"rowIndex"`
}
