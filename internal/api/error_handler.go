package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/pinglayer/pinglayer-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, middleware rejections).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrUserInactive),
		errors.Is(err, domain.ErrAdminRequired):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrCompanyNotFound),
		errors.Is(err, domain.ErrCampaignNotFound),
		errors.Is(err, domain.ErrRecipientNotFound),
		errors.Is(err, domain.ErrLinkNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrWeakPassword),
		errors.Is(err, domain.ErrEmailExists),
		errors.Is(err, domain.ErrCompanyExists),
		errors.Is(err, domain.ErrRecipientExists),
		errors.Is(err, domain.ErrPhoneRequired),
		errors.Is(err, domain.ErrInvalidCSV),
		errors.Is(err, domain.ErrCampaignNotEditable),
		errors.Is(err, domain.ErrCampaignNotSendable),
		errors.Is(err, domain.ErrCampaignSending),
		errors.Is(err, domain.ErrCampaignFinished):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrLinkInactive),
		errors.Is(err, domain.ErrLinkExpired):
		return http.StatusGone, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
