package http

import (
	"errors"
	"net/http"

	"carelink-backend/internal/domain/staff"
	"carelink-backend/internal/usecase/caseapp"

	"github.com/labstack/echo/v4"
)

type CaseHandler struct {
	uc    *caseapp.Usecase
	guard *IdentityGuard
}

func NewCaseHandler(uc *caseapp.Usecase, guard *IdentityGuard) *CaseHandler {
	return &CaseHandler{uc: uc, guard: guard}
}

func (h *CaseHandler) Submit(c echo.Context) error {
	var req caseapp.SubmitInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	res, err := h.uc.Submit(c.Request().Context(), req)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

type getCasesReq struct {
	UID string `json:"uid" validate:"required"`
}

func (h *CaseHandler) List(c echo.Context) error {
	var req getCasesReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	if err := c.Validate(&req); err != nil {
		return unprocessable(c, err)
	}
	out, err := h.uc.List(c.Request().Context(), req.UID)
	if errors.Is(err, staff.ErrNotFound) {
		return c.JSON(http.StatusOK, map[string]any{"success": false, "message": "找不到使用者資料"})
	}
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success":    true,
		"cases":      out.Cases,
		"isReviewer": out.IsReviewer,
	})
}

type reviewCaseReq struct {
	UID              string `json:"uid"`
	Timestamp        string `json:"timestamp" validate:"required"`
	Action           string `json:"action"    validate:"required,oneof=approve reject accept"`
	ReviewerName     string `json:"reviewerName"`
	FirstServiceDate string `json:"firstServiceDate"`
	IDToken          string `json:"idToken"`
}

func (h *CaseHandler) Review(c echo.Context) error {
	var req reviewCaseReq
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
	res, err := h.uc.Review(c.Request().Context(), caseapp.ReviewInput{
		UID:              uid,
		Timestamp:        req.Timestamp,
		Action:           req.Action,
		ReviewerName:     req.ReviewerName,
		FirstServiceDate: req.FirstServiceDate,
	})
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

type revokeCaseReq struct {
	UID       string `json:"uid"`
	Applicant string `json:"applicant" validate:"required"`
	Timestamp string `json:"timestamp" validate:"required"`
	IDToken   string `json:"idToken"`
}

func (h *CaseHandler) Revoke(c echo.Context) error {
	var req revokeCaseReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	if err := c.Validate(&req); err != nil {
		return unprocessable(c, err)
	}
	if _, err := h.guard.Resolve(c, req.IDToken, req.UID); err != nil {
		return unauthorized(c)
	}
	res, err := h.uc.Revoke(c.Request().Context(), req.Applicant, req.Timestamp)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

type caseRankingReq struct {
	UID   string `json:"uid"`
	Month string `json:"month" validate:"omitempty,month"`
}

func (h *CaseHandler) Ranking(c echo.Context) error {
	var req caseRankingReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	if err := c.Validate(&req); err != nil {
		return unprocessable(c, err)
	}
	ranking, err := h.uc.Ranking(c.Request().Context(), req.Month)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "ranking": ranking})
}
