package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pinglayer/pinglayer-api/internal/api/middleware"
	"github.com/pinglayer/pinglayer-api/internal/auth"
)

// ctxIdentity extracts the identity injected by the Auth middleware and
// fast-fails before any service call. Presence of the identity proves the
// middleware ran; handlers must never fall back to request parameters for
// tenant scoping.
func ctxIdentity(c echo.Context) (auth.Identity, error) {
	identity, ok := c.Get(middleware.IdentityKey).(auth.Identity)
	if !ok || identity.UserID == "" || identity.CompanyID == "" {
		return auth.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return identity, nil
}
