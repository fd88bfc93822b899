package ports

import (
	"context"
	"time"

	"github.com/pinglayer/pinglayer-api/internal/auth"
	"github.com/pinglayer/pinglayer-api/internal/core/domain"
)

// CreateCampaignInput carries the data needed to create a campaign.
type CreateCampaignInput struct {
	Name              string
	Description       string
	MessageTemplate   string
	TemplateVariables map[string]string
	ScheduledAt       *time.Time
}

// UpdateCampaignInput is a partial update; nil fields are left unchanged.
type UpdateCampaignInput struct {
	Name              *string
	Description       *string
	MessageTemplate   *string
	TemplateVariables map[string]string
	ScheduledAt       *time.Time
}

// SendResult is the placeholder response returned when a campaign is handed
// to the (absent) delivery pipeline.
type SendResult struct {
	CampaignID      string `json:"campaign_id"`
	Status          string `json:"status"`
	Message         string `json:"message"`
	TotalRecipients int64  `json:"total_recipients"`
}

// CampaignService defines the campaign use-cases. Every operation is scoped
// to the identity's company.
type CampaignService interface {
	Create(ctx context.Context, identity auth.Identity, input CreateCampaignInput) (*domain.Campaign, error)
	List(ctx context.Context, identity auth.Identity, status domain.CampaignStatus) ([]*domain.Campaign, error)
	Get(ctx context.Context, identity auth.Identity, campaignID string) (*domain.Campaign, error)
	Update(ctx context.Context, identity auth.Identity, campaignID string, input UpdateCampaignInput) (*domain.Campaign, error)
	Delete(ctx context.Context, identity auth.Identity, campaignID string) error
	Send(ctx context.Context, identity auth.Identity, campaignID string) (*SendResult, error)
	Cancel(ctx context.Context, identity auth.Identity, campaignID string) (*domain.Campaign, error)
	ListMessages(ctx context.Context, identity auth.Identity, campaignID string, status domain.MessageStatus, page, limit int) ([]*domain.MessageLog, int64, error)
}
