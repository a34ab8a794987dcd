package whisper

import (
	"context"
	"log"
	"strings"
	"time"

	"carelink-backend/internal/domain/records"
	"carelink-backend/internal/domain/staff"
	"carelink-backend/internal/domain/table"
	domain "carelink-backend/internal/domain/whisper"
	"carelink-backend/internal/notify"
	"carelink-backend/pkg/id"
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

// Recipient is a selectable whisper target: a unit's supervisor-class
// member with a bound chat identity.
type Recipient struct {
	Name string `json:"name"`
	UID  string `json:"uid"`
}

func (u *Usecase) Recipients(ctx context.Context, unit string) ([]Recipient, error) {
	members, err := u.dir.UnitMembers(ctx, unit)
	if err != nil {
		return nil, err
	}
	out := make([]Recipient, 0, len(members))
	for _, m := range members {
		out = append(out, Recipient{Name: m.Name, UID: m.UID})
	}
	return out, nil
}

type SubmitInput struct {
	SenderUID     string `json:"senderUid"`
	SenderName    string `json:"senderName"`
	Unit          string `json:"unit"`
	RecipientUID  string `json:"recipientUid"`
	RecipientName string `json:"recipientName"`
	Subject       string `json:"subject"`
	Content       string `json:"content"`
}

func (u *Usecase) Submit(ctx context.Context, in SubmitInput) (*Result, error) {
	switch {
	case strings.TrimSpace(in.SenderUID) == "" || strings.TrimSpace(in.SenderName) == "":
		return &Result{Success: false, Message: "缺少寄件人"}, nil
	case strings.TrimSpace(in.RecipientUID) == "":
		return &Result{Success: false, Message: "缺少收件人"}, nil
	case strings.TrimSpace(in.Content) == "":
		return &Result{Success: false, Message: "缺少內容"}, nil
	}

	row := []string{
		id.New(), records.LocalTimestamp(time.Now()),
		in.SenderUID, in.SenderName, in.Unit,
		in.RecipientUID, in.RecipientName,
		in.Subject, in.Content,
		string(domain.StatusUnread), "", "", "",
	}
	if err := u.store.Append(ctx, domain.Sheet, [][]string{row}); err != nil {
		return nil, err
	}

	if err := u.notifier.Push(ctx, in.RecipientUID, notify.WhisperReceived(in.SenderName, in.Subject)); err != nil {
		log.Printf("whisper: notification failed: %v", err)
	}
	return &Result{Success: true, Message: "悄悄話已送出"}, nil
}

// List returns the viewer's messages: staff see what they sent,
// supervisors see what was addressed to them. Soft-deleted messages are
// hidden from both sides.
func (u *Usecase) List(ctx context.Context, uid, role string) ([]domain.Message, error) {
	rows, err := u.store.Rows(ctx, domain.Sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return []domain.Message{}, nil
	}
	cm := table.MapHeaders(rows[0], domain.Schema).Apply(domain.DefaultColumns)

	supervisor := staff.IsReviewer(role)
	msgs := []domain.Message{}
	for i, r := range rows[1:] {
		if domain.Status(table.Cell(r, cm.Col("status"))) == domain.StatusDeleted {
			continue
		}
		if supervisor {
			if table.Cell(r, cm.Col("recipientUid")) != uid {
				continue
			}
		} else if table.Cell(r, cm.Col("senderUid")) != uid {
			continue
		}
		m := messageFromRow(r, cm)
		m.RowIndex = i + 2 // 1-based, after the header row
		msgs = append(msgs, m)
	}
	records.SortByTimestampDesc(msgs, func(m domain.Message) string { return m.Timestamp })
	return msgs, nil
}

func messageFromRow(r []string, cm table.ColumnMap) domain.Message {
	return domain.Message{
		ID:            table.Cell(r, cm.Col("id")),
		Timestamp:     table.Cell(r, cm.Col("timestamp")),
		SenderUID:     table.Cell(r, cm.Col("senderUid")),
		SenderName:    table.Cell(r, cm.Col("senderName")),
		Unit:          table.Cell(r, cm.Col("unit")),
		RecipientUID:  table.Cell(r, cm.Col("recipientUid")),
		RecipientName: table.Cell(r, cm.Col("recipientName")),
		Subject:       table.Cell(r, cm.Col("subject")),
		Content:       table.Cell(r, cm.Col("content")),
		Status:        domain.Status(table.Cell(r, cm.Col("status"))),
		ReplyContent:  table.Cell(r, cm.Col("replyContent")),
		ReplyTime:     table.Cell(r, cm.Col("replyTime")),
		ReplyAuthor:   table.Cell(r, cm.Col("replyAuthor")),
	}
}

type ReplyInput struct {
	ID           string `json:"id"`
	ReplyContent string `json:"replyContent"`
	ReplyAuthor  string `json:"replyAuthor"`
}

// Reply answers a message. Status and the three reply cells are adjacent
// in the sheet, so the write is one contiguous range update.
func (u *Usecase) Reply(ctx context.Context, in ReplyInput) (*Result, error) {
	rows, err := u.store.Rows(ctx, domain.Sheet)
	if err != nil {
		return nil, err
	}
	cm := columnsFor(rows)

	for i, r := range rows {
		if i == 0 || table.Cell(r, cm.Col("id")) != in.ID {
			continue
		}
		values := []string{
			string(domain.StatusReplied),
			in.ReplyContent,
			records.LocalTimestamp(time.Now()),
			in.ReplyAuthor,
		}
		if err := u.store.UpdateRange(ctx, domain.Sheet, i+1, cm.Col("status"), values); err != nil {
			return nil, err
		}
		senderUID := table.Cell(r, cm.Col("senderUid"))
		if err := u.notifier.Push(ctx, senderUID, notify.WhisperReplied(in.ReplyAuthor, table.Cell(r, cm.Col("subject")))); err != nil {
			log.Printf("whisper: reply notification failed: %v", err)
		}
		return &Result{Success: true, Message: "已回覆"}, nil
	}
	return &Result{Success: false, Message: "找不到該訊息"}, nil
}

// MarkRead flips an Unread message to Read. Replied messages keep their
// status.
func (u *Usecase) MarkRead(ctx context.Context, msgID string) (*Result, error) {
	rows, err := u.store.Rows(ctx, domain.Sheet)
	if err != nil {
		return nil, err
	}
	cm := columnsFor(rows)

	for i, r := range rows {
		if i == 0 || table.Cell(r, cm.Col("id")) != msgID {
			continue
		}
		if domain.Status(table.Cell(r, cm.Col("status"))) != domain.StatusUnread {
			return &Result{Success: true}, nil
		}
		if err := u.store.UpdateCell(ctx, domain.Sheet, i+1, cm.Col("status"), string(domain.StatusRead)); err != nil {
			return nil, err
		}
		return &Result{Success: true}, nil
	}
	return &Result{Success: false, Message: "找不到該訊息"}, nil
}

// Delete soft-deletes a message; only its sender may do so.
func (u *Usecase) Delete(ctx context.Context, uid, msgID string) (*Result, error) {
	rows, err := u.store.Rows(ctx, domain.Sheet)
	if err != nil {
		return nil, err
	}
	cm := columnsFor(rows)

	for i, r := range rows {
		if i == 0 || table.Cell(r, cm.Col("id")) != msgID {
			continue
		}
		if table.Cell(r, cm.Col("senderUid")) != uid {
			return &Result{Success: false, Message: "只能刪除自己的訊息"}, nil
		}
		if err := u.store.UpdateCell(ctx, domain.Sheet, i+1, cm.Col("status"), string(domain.StatusDeleted)); err != nil {
			return nil, err
		}
		return &Result{Success: true}, nil
	}
	return &Result{Success: false, Message: "找不到該訊息"}, nil
}

func columnsFor(rows [][]string) table.ColumnMap {
	if len(rows) == 0 {
		return table.ColumnMap{}.Apply(domain.DefaultColumns)
	}
	return table.MapHeaders(rows[0], domain.Schema).Apply(domain.DefaultColumns)
}
