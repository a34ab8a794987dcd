package notify

import (
	"encoding/json"
	"fmt"
)

// PostbackData rides inside the approve/reject buttons of a leave approval
// request and comes back through the webhook when a reviewer taps one.
type PostbackData struct {
	Action string `json:"action"` // approve | reject
	TS     string `json:"ts"`
	UID    string `json:"uid"`
	Name   string `json:"name"`
	Date   string `json:"date"`
}

// LeaveApprovalRequest is the card pushed to a unit's reviewers when a new
// leave application lands. The footer buttons carry postback payloads so
// the review can happen inside the chat.
func LeaveApprovalRequest(name, unit, leaveType, date, reason, proofURL string, pb PostbackData) Message {
	fields := []Message{
		kv("假別", leaveType),
		kv("日期", date),
		kv("事由", reason),
	}
	if proofURL != "" {
		fields = append(fields, kv("證明", proofURL))
	}
	approve, reject := pb, pb
	approve.Action = "approve"
	reject.Action = "reject"

	return Message{
		"type":    "flex",
		"altText": "📋 您有一筆新的請假申請待審核",
		"contents": Message{
			"type": "bubble",
			"body": Message{
				"type":   "box",
				"layout": "vertical",
				"contents": append([]Message{
					{"type": "text", "text": "請假審核", "weight": "bold", "size": "xs"},
					{"type": "text", "text": name, "weight": "bold", "size": "xl"},
					{"type": "text", "text": unit, "size": "sm"},
				}, fields...),
			},
			"footer": Message{
				"type":   "box",
				"layout": "horizontal",
				"contents": []Message{
					postbackButton("駁回", reject),
					postbackButton("核准", approve),
				},
			},
		},
	}
}

// LeaveReviewResult tells the applicant their application was decided.
func LeaveReviewResult(name, date string, approved bool) Message {
	verdict := "核准"
	if !approved {
		verdict = "駁回"
	}
	return Text(fmt.Sprintf("您的假單(%s) - %s 已被%s", name, date, verdict))
}

// CaseApprovalRequest asks a unit's reviewers to look at a new case
// application.
func CaseApprovalRequest(applicant, caseName, applyTypes string) Message {
	return Text(fmt.Sprintf("📋 新的個案申請待審核\n個案：%s\n申請人：%s\n項目：%s", caseName, applicant, applyTypes))
}

// CasePendingReminder nags a unit's reviewers about an intake application
// still pending after daysPending days.
func CasePendingReminder(applicant, caseName string, daysPending int) Message {
	return Text(fmt.Sprintf("⏰ 開案追蹤提醒：%s 已申請 %d 天\n申請人：%s，請確認服務狀況", caseName, daysPending, applicant))
}

// WhisperReceived tells a supervisor a private message arrived.
func WhisperReceived(senderName, subject string) Message {
	return Text(fmt.Sprintf("💬 %s 傳來悄悄話：%s", senderName, subject))
}

// WhisperReplied tells the original sender their message got an answer.
func WhisperReplied(replierName, subject string) Message {
	return Text(fmt.Sprintf("💬 %s 已回覆您的悄悄話：%s", replierName, subject))
}

func kv(label, value string) Message {
	return Message{
		"type":   "box",
		"layout": "baseline",
		"contents": []Message{
			{"type": "text", "text": label, "size": "xs", "flex": 2},
			{"type": "text", "text": value, "size": "sm", "flex": 5, "wrap": true},
		},
	}
}

func postbackButton(label string, pb PostbackData) Message {
	data, _ := json.Marshal(pb)
	return Message{
		"type": "button",
		"action": Message{
			"type":  "postback",
			"label": label,
			"data":  string(data),
		},
	}
}
