package http

import (
	"net/http"

	"carelink-backend/internal/usecase/user"

	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	uc    *user.Usecase
	guard *IdentityGuard
}

func NewUserHandler(uc *user.Usecase, guard *IdentityGuard) *UserHandler {
	return &UserHandler{uc: uc, guard: guard}
}

type checkUserReq struct {
	UID string `json:"uid" validate:"required"`
}

func (h *UserHandler) CheckUser(c echo.Context) error {
	var req checkUserReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	if err := c.Validate(&req); err != nil {
		return unprocessable(c, err)
	}
	out, err := h.uc.Check(c.Request().Context(), req.UID)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type bindUserReq struct {
	UID     string `json:"uid"`
	Unit    string `json:"unit"`
	Name    string `json:"name"`
	StaffID string `json:"staffId"`
	IDToken string `json:"idToken"`
}

func (h *UserHandler) BindUser(c echo.Context) error {
	var req bindUserReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	uid, err := h.guard.Resolve(c, req.IDToken, req.UID)
	if err != nil {
		return unauthorized(c)
	}
	res, err := h.uc.Bind(c.Request().Context(), user.BindInput{
		UID:     uid,
		Unit:    req.Unit,
		Name:    req.Name,
		StaffID: req.StaffID,
	})
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
