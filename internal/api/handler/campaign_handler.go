package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pinglayer/pinglayer-api/internal/core/domain"
	"github.com/pinglayer/pinglayer-api/internal/core/ports"
)

type CampaignHandler struct {
	service ports.CampaignService
}

func NewCampaignHandler(service ports.CampaignService) *CampaignHandler {
	return &CampaignHandler{service: service}
}

type createCampaignRequest struct {
	Name              string            `json:"name"               validate:"required,max=255"`
	Description       string            `json:"description"        validate:"max=2000"`
	MessageTemplate   string            `json:"message_template"   validate:"required"`
	TemplateVariables map[string]string `json:"template_variables"`
	ScheduledAt       *time.Time        `json:"scheduled_at"`
}

type updateCampaignRequest struct {
	Name              *string           `json:"name"`
	Description       *string           `json:"description"`
	MessageTemplate   *string           `json:"message_template"`
	TemplateVariables map[string]string `json:"template_variables"`
	ScheduledAt       *time.Time        `json:"scheduled_at"`
}

// campaignResponse augments the domain entity with its derived rates.
type campaignResponse struct {
	*domain.Campaign
	SuccessRate        float64 `json:"success_rate"`
	ProgressPercentage float64 `json:"progress_percentage"`
}

func toCampaignResponse(c *domain.Campaign) campaignResponse {
	return campaignResponse{
		Campaign:           c,
		SuccessRate:        c.SuccessRate(),
		ProgressPercentage: c.Progress(),
	}
}

// Create handles POST /api/campaigns.
//
// @Summary      Create a campaign
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCampaignRequest  true  "Campaign details"
// @Success      201   {object}  campaignResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/campaigns [post]
func (h *CampaignHandler) Create(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createCampaignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	campaign, err := h.service.Create(c.Request().Context(), identity, ports.CreateCampaignInput{
		Name:              req.Name,
		Description:       req.Description,
		MessageTemplate:   req.MessageTemplate,
		TemplateVariables: req.TemplateVariables,
		ScheduledAt:       req.ScheduledAt,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCampaignResponse(campaign))
}

// List handles GET /api/campaigns?status=.
//
// @Summary      List the company's campaigns
// @Tags         campaigns
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status"
// @Success      200     {array}   campaignResponse
// @Router       /api/campaigns [get]
func (h *CampaignHandler) List(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	status := domain.CampaignStatus(c.QueryParam("status"))
	if status != "" && !status.IsValid() {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown campaign status")
	}

	campaigns, err := h.service.List(c.Request().Context(), identity, status)
	if err != nil {
		return err
	}

	out := make([]campaignResponse, 0, len(campaigns))
	for _, campaign := range campaigns {
		out = append(out, toCampaignResponse(campaign))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /api/campaigns/:id.
//
// @Summary      Get a campaign
// @Tags         campaigns
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Campaign ID"
// @Success      200  {object}  campaignResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/campaigns/{id} [get]
func (h *CampaignHandler) Get(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	campaign, err := h.service.Get(c.Request().Context(), identity, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCampaignResponse(campaign))
}

// Update handles PATCH /api/campaigns/:id. Only draft and scheduled
// campaigns may be edited.
//
// @Summary      Update a campaign
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Campaign ID"
// @Param        body  body      updateCampaignRequest  true  "Fields to update"
// @Success      200   {object}  campaignResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/campaigns/{id} [patch]
func (h *CampaignHandler) Update(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateCampaignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	campaign, err := h.service.Update(c.Request().Context(), identity, c.Param("id"), ports.UpdateCampaignInput{
		Name:              req.Name,
		Description:       req.Description,
		MessageTemplate:   req.MessageTemplate,
		TemplateVariables: req.TemplateVariables,
		ScheduledAt:       req.ScheduledAt,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCampaignResponse(campaign))
}

// Delete handles DELETE /api/campaigns/:id.
//
// @Summary      Delete a campaign
// @Tags         campaigns
// @Security     BearerAuth
// @Param        id  path  string  true  "Campaign ID"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/campaigns/{id} [delete]
func (h *CampaignHandler) Delete(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), identity, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Send handles POST /api/campaigns/:id/send.
//
// @Summary      Queue a campaign for sending
// @Tags         campaigns
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Campaign ID"
// @Success      200  {object}  ports.SendResult
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/campaigns/{id}/send [post]
func (h *CampaignHandler) Send(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	result, err := h.service.Send(c.Request().Context(), identity, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Cancel handles POST /api/campaigns/:id/cancel.
//
// @Summary      Cancel a campaign
// @Tags         campaigns
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Campaign ID"
// @Success      200  {object}  campaignResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/campaigns/{id}/cancel [post]
func (h *CampaignHandler) Cancel(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	campaign, err := h.service.Cancel(c.Request().Context(), identity, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCampaignResponse(campaign))
}

type messagePage struct {
	Items []*domain.MessageLog `json:"items"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

// ListMessages handles GET /api/campaigns/:id/messages. The message log is
// written by the delivery pipeline; this surface is read-only.
//
// @Summary      List a campaign's message log
// @Tags         campaigns
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string  true   "Campaign ID"
// @Param        status  query     string  false  "Filter by message status"
// @Param        page    query     int     false  "Page (1-based)"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  messagePage
// @Failure      404     {object}  map[string]string
// @Router       /api/campaigns/{id}/messages [get]
func (h *CampaignHandler) ListMessages(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	status := domain.MessageStatus(c.QueryParam("status"))
	if status != "" && !status.IsValid() {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown message status")
	}
	page, limit := pageParams(c)

	items, total, err := h.service.ListMessages(c.Request().Context(), identity, c.Param("id"), status, page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messagePage{Items: items, Total: total, Page: page, Limit: limit})
}
