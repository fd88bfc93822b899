package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pinglayer/pinglayer-api/internal/api/metrics"
	"github.com/pinglayer/pinglayer-api/internal/auth"
	"github.com/pinglayer/pinglayer-api/internal/core/domain"
	"github.com/pinglayer/pinglayer-api/internal/core/ports"
)

// IdentityKey is the echo context key under which Auth stores the resolved
// identity.
const IdentityKey = "identity"

// Auth resolves the bearer token into a verified identity and stores it on
// the request context. The chain is: extract bearer (absent header is its
// own failure), verify signature/expiry/claims, re-read the user record to
// confirm it still exists and is active. CompanyID and email are taken from
// the token claims, not the store; the staleness window is bounded by the
// token TTL.
func Auth(codec *auth.Codec, repo ports.AuthRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := resolve(c, codec, repo)
			if err != nil {
				return err
			}
			c.Set(IdentityKey, *identity)
			return next(c)
		}
	}
}

// OptionalAuth runs the same resolution chain but treats every failure,
// including a missing header, as an anonymous request. Used for endpoints
// with mixed public/private behaviour.
func OptionalAuth(codec *auth.Codec, repo ports.AuthRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if identity, err := resolve(c, codec, repo); err == nil {
				c.Set(IdentityKey, *identity)
			}
			return next(c)
		}
	}
}

// RequireAdmin gates admin-only operations. Unlike ordinary resolution it
// re-reads the user record fresh: privilege must reflect current state, not
// a potentially stale token claim.
func RequireAdmin(repo ports.AuthRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := c.Get(IdentityKey).(auth.Identity)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}

			user, err := repo.FindUserByID(c.Request().Context(), identity.UserID)
			if err != nil {
				// A vanished record means no privilege; anything else is a
				// store failure for the central handler to log and map.
				if errors.Is(err, domain.ErrUserNotFound) {
					metrics.AuthFailuresTotal.WithLabelValues("admin_required").Inc()
					return echo.NewHTTPError(http.StatusForbidden, "admin access required")
				}
				return err
			}
			if !user.IsAdmin {
				metrics.AuthFailuresTotal.WithLabelValues("admin_required").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "admin access required")
			}
			return next(c)
		}
	}
}

func resolve(c echo.Context, codec *auth.Codec, repo ports.AuthRepository) (*auth.Identity, error) {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}

	claims, err := codec.Verify(parts[1])
	if err != nil {
		if errors.Is(err, domain.ErrTokenExpired) {
			metrics.AuthFailuresTotal.WithLabelValues("token_expired").Inc()
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "token expired")
		}
		metrics.AuthFailuresTotal.WithLabelValues("token_invalid").Inc()
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	// The subject must still exist: a valid token for a deleted user must
	// not silently succeed.
	user, err := repo.FindUserByID(c.Request().Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.AuthFailuresTotal.WithLabelValues("user_missing").Inc()
			return nil, echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return nil, err
	}
	if !user.IsActive {
		metrics.AuthFailuresTotal.WithLabelValues("user_inactive").Inc()
		return nil, echo.NewHTTPError(http.StatusForbidden, "user account is inactive")
	}

	return &auth.Identity{
		UserID:    claims.Subject,
		CompanyID: claims.CompanyID,
		Email:     claims.Email,
	}, nil
}
