package http

import (
	"net/http"

	"carelink-backend/internal/usecase/leave"

	"github.com/labstack/echo/v4"
)

type LeaveHandler struct {
	uc    *leave.Usecase
	guard *IdentityGuard
}

func NewLeaveHandler(uc *leave.Usecase, guard *IdentityGuard) *LeaveHandler {
	return &LeaveHandler{uc: uc, guard: guard}
}

func (h *LeaveHandler) Submit(c echo.Context) error {
	var req leave.SubmitInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	res, err := h.uc.Submit(c.Request().Context(), req)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

type getLeavesReq struct {
	UID string `json:"uid" validate:"required"`
}

func (h *LeaveHandler) List(c echo.Context) error {
	var req getLeavesReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	if err := c.Validate(&req); err != nil {
		return unprocessable(c, err)
	}
	leaves, err := h.uc.List(c.Request().Context(), req.UID)
	if leave.IsNotFound(err) {
		return c.JSON(http.StatusOK, map[string]any{"success": false, "message": "找不到使用者資料"})
	}
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "leaves": leaves})
}

type reviewLeaveReq struct {
	UID       string `json:"uid"`
	TargetUID string `json:"targetUid" validate:"required"`
	Timestamp string `json:"timestamp" validate:"required"`
	Action    string `json:"action"    validate:"required,oneof=approve reject"`
	Name      string `json:"name"`
	IDToken   string `json:"idToken"`
}

func (h *LeaveHandler) Review(c echo.Context) error {
	var req reviewLeaveReq
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
	res, err := h.uc.Review(c.Request().Context(), leave.ReviewInput{
		UID:       uid,
		TargetUID: req.TargetUID,
		Timestamp: req.Timestamp,
		Action:    req.Action,
		Name:      req.Name,
	})
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

type cancelLeaveReq struct {
	UID       string `json:"uid"`
	Timestamp string `json:"timestamp" validate:"required"`
	IDToken   string `json:"idToken"`
}

func (h *LeaveHandler) Cancel(c echo.Context) error {
	var req cancelLeaveReq
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
	res, err := h.uc.Cancel(c.Request().Context(), uid, req.Timestamp)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
