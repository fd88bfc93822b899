package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pinglayer/pinglayer-api/internal/core/ports"
)

type RecipientHandler struct {
	service ports.RecipientService
}

func NewRecipientHandler(service ports.RecipientService) *RecipientHandler {
	return &RecipientHandler{service: service}
}

type recipientRequest struct {
	PhoneNumber string            `json:"phone_number" validate:"required,max=20"`
	Name        string            `json:"name"         validate:"max=255"`
	Email       string            `json:"email"        validate:"omitempty,email"`
	CustomData  map[string]string `json:"custom_data"`
}

type bulkRecipientsRequest struct {
	Recipients []recipientRequest `json:"recipients" validate:"required,min=1,dive"`
}

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// pageParams reads ?page= and ?limit= and clamps them to sane bounds.
func pageParams(c echo.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

// Add handles POST /api/campaigns/:id/recipients.
//
// @Summary      Add one recipient to a campaign
// @Tags         recipients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Campaign ID"
// @Param        body  body      recipientRequest  true  "Recipient"
// @Success      201   {object}  domain.Recipient
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/campaigns/{id}/recipients [post]
func (h *RecipientHandler) Add(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req recipientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	recipient, err := h.service.Add(c.Request().Context(), identity, c.Param("id"), ports.RecipientInput{
		PhoneNumber: req.PhoneNumber,
		Name:        req.Name,
		Email:       req.Email,
		CustomData:  req.CustomData,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, recipient)
}

// AddBulk handles POST /api/campaigns/:id/recipients/bulk.
//
// @Summary      Add recipients in bulk (JSON)
// @Tags         recipients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Campaign ID"
// @Param        body  body      bulkRecipientsRequest  true  "Recipients"
// @Success      200   {object}  ports.UploadResult
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/campaigns/{id}/recipients/bulk [post]
func (h *RecipientHandler) AddBulk(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req bulkRecipientsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	inputs := make([]ports.RecipientInput, 0, len(req.Recipients))
	for _, r := range req.Recipients {
		inputs = append(inputs, ports.RecipientInput{
			PhoneNumber: r.PhoneNumber,
			Name:        r.Name,
			Email:       r.Email,
			CustomData:  r.CustomData,
		})
	}

	result, err := h.service.AddBulk(c.Request().Context(), identity, c.Param("id"), inputs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Upload handles POST /api/campaigns/:id/recipients/upload (multipart CSV).
//
// @Summary      Upload recipients from a CSV file
// @Tags         recipients
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true  "Campaign ID"
// @Param        file  formData  file    true  "CSV with a phone_number column"
// @Success      200   {object}  ports.UploadResult
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/campaigns/{id}/recipients/upload [post]
func (h *RecipientHandler) Upload(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing file upload")
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".csv") {
		return echo.NewHTTPError(http.StatusBadRequest, "file must be a CSV file")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read CSV file")
	}
	defer f.Close()

	result, err := h.service.UploadCSV(c.Request().Context(), identity, c.Param("id"), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// List handles GET /api/campaigns/:id/recipients.
//
// @Summary      List a campaign's recipients
// @Tags         recipients
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Campaign ID"
// @Param        page   query     int     false  "Page (1-based)"
// @Param        limit  query     int     false  "Page size"
// @Success      200    {object}  ports.RecipientPage
// @Failure      404    {object}  map[string]string
// @Router       /api/campaigns/{id}/recipients [get]
func (h *RecipientHandler) List(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	page, limit := pageParams(c)
	result, err := h.service.List(c.Request().Context(), identity, c.Param("id"), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Get handles GET /api/campaigns/:id/recipients/:recipientID.
//
// @Summary      Get one recipient
// @Tags         recipients
// @Produce      json
// @Security     BearerAuth
// @Param        id           path      string  true  "Campaign ID"
// @Param        recipientID  path      string  true  "Recipient ID"
// @Success      200          {object}  domain.Recipient
// @Failure      404          {object}  map[string]string
// @Router       /api/campaigns/{id}/recipients/{recipientID} [get]
func (h *RecipientHandler) Get(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	recipient, err := h.service.Get(c.Request().Context(), identity, c.Param("id"), c.Param("recipientID"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, recipient)
}

// Delete handles DELETE /api/campaigns/:id/recipients/:recipientID.
//
// @Summary      Remove one recipient
// @Tags         recipients
// @Security     BearerAuth
// @Param        id           path  string  true  "Campaign ID"
// @Param        recipientID  path  string  true  "Recipient ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/campaigns/{id}/recipients/{recipientID} [delete]
func (h *RecipientHandler) Delete(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), identity, c.Param("id"), c.Param("recipientID")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

type clearRecipientsResponse struct {
	CampaignID   string `json:"campaign_id"`
	DeletedCount int64  `json:"deleted_count"`
}

// DeleteAll handles DELETE /api/campaigns/:id/recipients.
//
// @Summary      Remove all recipients from a campaign
// @Tags         recipients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Campaign ID"
// @Success      200  {object}  clearRecipientsResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/campaigns/{id}/recipients [delete]
func (h *RecipientHandler) DeleteAll(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	deleted, err := h.service.DeleteAll(c.Request().Context(), identity, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clearRecipientsResponse{
		CampaignID:   c.Param("id"),
		DeletedCount: deleted,
	})
}
