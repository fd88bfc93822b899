package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pinglayer/pinglayer-api/internal/core/ports"
	"github.com/pinglayer/pinglayer-api/internal/infrastructure/queue"
)

type SmartLinkHandler struct {
	service    ports.SmartLinkService
	dispatcher *queue.Dispatcher
}

func NewSmartLinkHandler(service ports.SmartLinkService, dispatcher *queue.Dispatcher) *SmartLinkHandler {
	return &SmartLinkHandler{service: service, dispatcher: dispatcher}
}

type createLinkRequest struct {
	CampaignID     string     `json:"campaign_id"     validate:"required"`
	DestinationURL string     `json:"destination_url" validate:"required,url"`
	Title          string     `json:"title"           validate:"max=255"`
	ExpiresAt      *time.Time `json:"expires_at"`
}

type updateLinkRequest struct {
	Title    *string `json:"title"     validate:"omitempty,max=255"`
	IsActive *bool   `json:"is_active"`
}

// Create handles POST /api/links.
//
// @Summary      Create a smart link for a campaign
// @Tags         links
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createLinkRequest  true  "Link"
// @Success      201   {object}  domain.SmartLink
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/links [post]
func (h *SmartLinkHandler) Create(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createLinkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	link, err := h.service.Create(c.Request().Context(), identity, req.CampaignID, ports.CreateLinkInput{
		DestinationURL: req.DestinationURL,
		Title:          req.Title,
		ExpiresAt:      req.ExpiresAt,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, link)
}

// ListByCampaign handles GET /api/campaigns/:id/links.
//
// @Summary      List a campaign's smart links
// @Tags         links
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Campaign ID"
// @Success      200  {array}   domain.SmartLink
// @Failure      404  {object}  map[string]string
// @Router       /api/campaigns/{id}/links [get]
func (h *SmartLinkHandler) ListByCampaign(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	links, err := h.service.ListByCampaign(c.Request().Context(), identity, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, links)
}

// Stats handles GET /api/links/:id/stats.
//
// @Summary      Click analytics for one smart link
// @Tags         links
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Link ID"
// @Success      200  {object}  ports.LinkStats
// @Failure      404  {object}  map[string]string
// @Router       /api/links/{id}/stats [get]
func (h *SmartLinkHandler) Stats(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	stats, err := h.service.Stats(c.Request().Context(), identity, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// Update handles PATCH /api/links/:id.
//
// @Summary      Update a smart link's title or active flag
// @Tags         links
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Link ID"
// @Param        body  body      updateLinkRequest  true  "Fields to change"
// @Success      200   {object}  domain.SmartLink
// @Failure      404   {object}  map[string]string
// @Router       /api/links/{id} [patch]
func (h *SmartLinkHandler) Update(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateLinkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	link, err := h.service.Update(c.Request().Context(), identity, c.Param("id"), ports.UpdateLinkInput{
		Title:    req.Title,
		IsActive: req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, link)
}

// Redirect handles the public GET /s/:code. The click is enqueued for the
// analytics workers and the response returns immediately; a slow Mongo write
// must never delay the redirect.
//
// @Summary      Resolve a short code and redirect
// @Tags         links
// @Param        code  path  string  true  "Short code"
// @Success      302
// @Failure      404  {object}  map[string]string
// @Failure      410  {object}  map[string]string
// @Router       /s/{code} [get]
func (h *SmartLinkHandler) Redirect(c echo.Context) error {
	code := c.Param("code")

	link, err := h.service.Resolve(c.Request().Context(), code)
	if err != nil {
		return err
	}

	h.dispatcher.Enqueue(ports.ClickInput{
		ShortCode: code,
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
		Referrer:  c.Request().Referer(),
		Timestamp: time.Now().UTC(),
	})

	return c.Redirect(http.StatusFound, link.DestinationURL)
}
