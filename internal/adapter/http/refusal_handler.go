package http

import (
	"net/http"

	"carelink-backend/internal/usecase/refusal"

	"github.com/labstack/echo/v4"
)

type RefusalHandler struct{ uc *refusal.Usecase }

func NewRefusalHandler(uc *refusal.Usecase) *RefusalHandler { return &RefusalHandler{uc: uc} }

func (h *RefusalHandler) Submit(c echo.Context) error {
	var req refusal.SubmitInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	res, err := h.uc.Submit(c.Request().Context(), req)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *RefusalHandler) Stats(c echo.Context) error {
	stats, err := h.uc.Stats(c.Request().Context())
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "stats": stats})
}
