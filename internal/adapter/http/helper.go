package http

import (
	"net/http"
	"strings"

	"carelink-backend/internal/auth"
	"carelink-backend/internal/domain/staff"

	"github.com/labstack/echo/v4"
)

// IdentityGuard resolves the acting user of privileged requests. With a
// verifier configured the caller-supplied uid is ignored: the id token must
// verify and its subject becomes the acting uid. Without a verifier (local
// development) the body uid passes through unchanged.
type IdentityGuard struct {
	verifier auth.Verifier
	audience string
	dir      *staff.Directory
}

func NewIdentityGuard(v auth.Verifier, audience string, dir *staff.Directory) *IdentityGuard {
	return &IdentityGuard{verifier: v, audience: audience, dir: dir}
}

func (g *IdentityGuard) Enabled() bool { return g != nil && g.verifier != nil }

// Resolve returns the acting uid for a privileged request.
func (g *IdentityGuard) Resolve(c echo.Context, idToken, fallbackUID string) (string, error) {
	if !g.Enabled() {
		return fallbackUID, nil
	}
	if strings.TrimSpace(idToken) == "" {
		return "", auth.ErrInvalidToken
	}
	p, err := g.verifier.Verify(c.Request().Context(), idToken, g.audience)
	if err != nil {
		return "", err
	}
	return p.Sub, nil
}

// Member looks the resolved uid up in the staff directory, for handlers
// that need the verified caller's role or name rather than body fields.
func (g *IdentityGuard) Member(c echo.Context, uid string) (*staff.Member, error) {
	return g.dir.FindByUID(c.Request().Context(), uid)
}

// ---- helpers ----

func badRequest(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, map[string]string{"error": "identity verification failed"})
}

func internalError(c echo.Context, err error) error {
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func unprocessable(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Details: ToFieldErrors(err),
	})
}
