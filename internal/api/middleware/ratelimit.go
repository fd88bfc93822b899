package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/pinglayer/pinglayer-api/internal/api/metrics"
	"github.com/pinglayer/pinglayer-api/internal/auth"
)

const rateLimitWindow = time.Minute

// Limiter is the sliding-window counter behind the rate limit middleware.
// Backed by Redis so the limit holds across processes.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit rejects callers exceeding perMinute requests in a sliding
// one-minute window. Authenticated requests are keyed by user id, anonymous
// ones by client IP. A limiter backend failure fails open: the request
// proceeds and the outage is logged.
func RateLimit(limiter Limiter, perMinute int, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP()
			if identity, ok := c.Get(IdentityKey).(auth.Identity); ok {
				key = identity.UserID
			}

			allowed, err := limiter.Allow(c.Request().Context(), key, perMinute, rateLimitWindow)
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}
			if !allowed {
				metrics.RateLimitRejectedTotal.Inc()
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
