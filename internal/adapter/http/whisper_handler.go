package http

import (
	"net/http"

	"carelink-backend/internal/usecase/whisper"

	"github.com/labstack/echo/v4"
)

type WhisperHandler struct {
	uc    *whisper.Usecase
	guard *IdentityGuard
}

func NewWhisperHandler(uc *whisper.Usecase, guard *IdentityGuard) *WhisperHandler {
	return &WhisperHandler{uc: uc, guard: guard}
}

type whisperRecipientsReq struct {
	Unit string `json:"unit" validate:"required"`
}

func (h *WhisperHandler) Recipients(c echo.Context) error {
	var req whisperRecipientsReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	if err := c.Validate(&req); err != nil {
		return unprocessable(c, err)
	}
	recipients, err := h.uc.Recipients(c.Request().Context(), req.Unit)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "recipients": recipients})
}

func (h *WhisperHandler) Submit(c echo.Context) error {
	var req whisper.SubmitInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	res, err := h.uc.Submit(c.Request().Context(), req)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

type getWhispersReq struct {
	UID  string `json:"uid" validate:"required"`
	Role string `json:"role"`
}

func (h *WhisperHandler) List(c echo.Context) error {
	var req getWhispersReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	if err := c.Validate(&req); err != nil {
		return unprocessable(c, err)
	}
	messages, err := h.uc.List(c.Request().Context(), req.UID, req.Role)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "messages": messages})
}

type whisperReplyReq struct {
	ID           string `json:"id" validate:"required"`
	ReplyContent string `json:"replyContent" validate:"required"`
	ReplyAuthor  string `json:"replyAuthor"`
	IDToken      string `json:"idToken"`
}

func (h *WhisperHandler) Reply(c echo.Context) error {
	var req whisperReplyReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	if err := c.Validate(&req); err != nil {
		return unprocessable(c, err)
	}
	if _, err := h.guard.Resolve(c, req.IDToken, ""); err != nil {
		return unauthorized(c)
	}
	res, err := h.uc.Reply(c.Request().Context(), whisper.ReplyInput{
		ID:           req.ID,
		ReplyContent: req.ReplyContent,
		ReplyAuthor:  req.ReplyAuthor,
	})
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

type whisperReadReq struct {
	ID string `json:"id" validate:"required"`
}

func (h *WhisperHandler) MarkRead(c echo.Context) error {
	var req whisperReadReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	if err := c.Validate(&req); err != nil {
		return unprocessable(c, err)
	}
	res, err := h.uc.MarkRead(c.Request().Context(), req.ID)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

type whisperDeleteReq struct {
	UID     string `json:"uid"`
	ID      string `json:"id" validate:"required"`
	IDToken string `json:"idToken"`
}

func (h *WhisperHandler) Delete(c echo.Context) error {
	var req whisperDeleteReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	if err := c.Validate(&req); err != nil {
		return unprocessable(c, err)
	}
	uid, err := h.guard.Resolve(c, req.IDToken, req.UID)
	if err != nil {
		return unauthorized(c)
	}
	res, err := h.uc.Delete(c.Request().Context(), uid, req.ID)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
