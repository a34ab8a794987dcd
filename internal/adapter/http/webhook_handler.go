package http

import (
	"encoding/json"
	"log"
	"net/http"

	"carelink-backend/internal/notify"
	"carelink-backend/internal/usecase/leave"

	"github.com/labstack/echo/v4"
)

// WebhookHandler receives chat platform events. Reviewers can decide leave
// applications straight from the approval card's postback buttons; everyone
// else gets pointed back at the app.
type WebhookHandler struct {
	leaves   *leave.Usecase
	notifier *notify.Dispatcher
	appLink  string
}

func NewWebhookHandler(leaves *leave.Usecase, n *notify.Dispatcher, appLink string) *WebhookHandler {
	return &WebhookHandler{leaves: leaves, notifier: n, appLink: appLink}
}

type webhookEvent struct {
	Type       string `json:"type"`
	ReplyToken string `json:"replyToken"`
	Source     struct {
		UserID string `json:"userId"`
	} `json:"source"`
	Postback struct {
		Data string `json:"data"`
	} `json:"postback"`
	Message struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"message"`
}

type webhookReq struct {
	Events []webhookEvent `json:"events"`
}

// Handle always answers 200 so the platform does not retry delivery;
// per-event failures are logged and skipped.
func (h *WebhookHandler) Handle(c echo.Context) error {
	var req webhookReq
	if err := c.Bind(&req); err != nil {
		return c.String(http.StatusOK, "OK")
	}
	for _, ev := range req.Events {
		switch ev.Type {
		case "postback":
			h.handlePostback(c, ev)
		case "follow":
			h.reply(c, ev.ReplyToken, notify.Text("歡迎使用員工服務系統！\n"+h.appLink))
		case "message":
			if ev.Message.Type == "text" {
				h.reply(c, ev.ReplyToken, notify.Text("請透過系統操作：\n"+h.appLink))
			}
		}
	}
	return c.String(http.StatusOK, "OK")
}

func (h *WebhookHandler) handlePostback(c echo.Context, ev webhookEvent) {
	var pb notify.PostbackData
	if err := json.Unmarshal([]byte(ev.Postback.Data), &pb); err != nil {
		log.Printf("webhook: bad postback payload: %v", err)
		return
	}
	if pb.Action != "approve" && pb.Action != "reject" {
		return
	}
	res, err := h.leaves.Review(c.Request().Context(), leave.ReviewInput{
		UID:       ev.Source.UserID,
		TargetUID: pb.UID,
		Timestamp: pb.TS,
		Action:    pb.Action,
		Name:      pb.Name,
	})
	if err != nil {
		log.Printf("webhook: postback review failed: %v", err)
		return
	}
	if !res.Success {
		h.reply(c, ev.ReplyToken, notify.Text(res.Message))
		return
	}
	verdict := "已駁回"
	if pb.Action == "approve" {
		verdict = "已核准"
	}
	h.reply(c, ev.ReplyToken, notify.Text(verdict+" "+pb.Name+" 的假單（"+pb.Date+"）"))
}

func (h *WebhookHandler) reply(c echo.Context, token string, msg notify.Message) {
	if token == "" {
		return
	}
	if err := h.notifier.Reply(c.Request().Context(), token, msg); err != nil {
		log.Printf("webhook: reply failed: %v", err)
	}
}
