package http

import (
	"errors"
	"net/http"

	"carelink-backend/internal/domain/staff"
	"carelink-backend/internal/usecase/bulletin"

	"github.com/labstack/echo/v4"
)

type BulletinHandler struct {
	uc    *bulletin.Usecase
	guard *IdentityGuard
}

func NewBulletinHandler(uc *bulletin.Usecase, guard *IdentityGuard) *BulletinHandler {
	return &BulletinHandler{uc: uc, guard: guard}
}

func (h *BulletinHandler) List(c echo.Context) error {
	var req bulletin.ListInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	bulletins, err := h.uc.List(c.Request().Context(), req)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "bulletins": bulletins})
}

type createBulletinReq struct {
	UID           string `json:"uid"`
	Author        string `json:"author"`
	Role          string `json:"role"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	Category      string `json:"category"`
	Priority      string `json:"priority"`
	TargetUnit    string `json:"targetUnit"`
	Status        string `json:"status"`
	ScheduledTime string `json:"scheduledTime"`
	IDToken       string `json:"idToken"`
}

// Create trusts the body's author and role only when no verifier is
// configured; otherwise both come from the verified caller's directory row.
func (h *BulletinHandler) Create(c echo.Context) error {
	var req createBulletinReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	author, role := req.Author, req.Role
	if h.guard.Enabled() {
		uid, err := h.guard.Resolve(c, req.IDToken, req.UID)
		if err != nil {
			return unauthorized(c)
		}
		member, err := h.guard.Member(c, uid)
		if errors.Is(err, staff.ErrNotFound) {
			return c.JSON(http.StatusOK, map[string]any{"success": false, "message": "無權限建立公告"})
		}
		if err != nil {
			return internalError(c, err)
		}
		author, role = member.Name, member.Role
	}
	res, err := h.uc.Create(c.Request().Context(), bulletin.CreateInput{
		Author:        author,
		Role:          role,
		Title:         req.Title,
		Content:       req.Content,
		Category:      req.Category,
		Priority:      req.Priority,
		TargetUnit:    req.TargetUnit,
		Status:        req.Status,
		ScheduledTime: req.ScheduledTime,
	})
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

type deleteBulletinReq struct {
	ID       string `json:"id" validate:"required"`
	UID      string `json:"uid"`
	Role     string `json:"role"`
	UserName string `json:"userName"`
	IDToken  string `json:"idToken"`
}

func (h *BulletinHandler) Delete(c echo.Context) error {
	var req deleteBulletinReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	if err := c.Validate(&req); err != nil {
		return unprocessable(c, err)
	}
	role, userName := req.Role, req.UserName
	if h.guard.Enabled() {
		uid, err := h.guard.Resolve(c, req.IDToken, req.UID)
		if err != nil {
			return unauthorized(c)
		}
		member, err := h.guard.Member(c, uid)
		if errors.Is(err, staff.ErrNotFound) {
			return c.JSON(http.StatusOK, map[string]any{"success": false, "message": "無權限刪除公告"})
		}
		if err != nil {
			return internalError(c, err)
		}
		role, userName = member.Role, member.Name
	}
	res, err := h.uc.Delete(c.Request().Context(), req.ID, role, userName)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

type signBulletinReq struct {
	ID   string `json:"id" validate:"required"`
	UID  string `json:"uid" validate:"required"`
	Name string `json:"name"`
}

func (h *BulletinHandler) Sign(c echo.Context) error {
	var req signBulletinReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	if err := c.Validate(&req); err != nil {
		return unprocessable(c, err)
	}
	res, err := h.uc.Sign(c.Request().Context(), req.ID, req.UID, req.Name)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

type bulletinStatsReq struct {
	ID   string `json:"id" validate:"required"`
	Role string `json:"role"`
}

func (h *BulletinHandler) SignStats(c echo.Context) error {
	var req bulletinStatsReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	if err := c.Validate(&req); err != nil {
		return unprocessable(c, err)
	}
	stats, err := h.uc.SignStats(c.Request().Context(), req.ID, req.Role)
	if errors.Is(err, bulletin.ErrForbidden) {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "無權限查看簽收統計"})
	}
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "count": stats.Count, "signs": stats.Signs})
}
