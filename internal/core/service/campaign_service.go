package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pinglayer/pinglayer-api/internal/api/metrics"
	"github.com/pinglayer/pinglayer-api/internal/auth"
	"github.com/pinglayer/pinglayer-api/internal/core/domain"
	"github.com/pinglayer/pinglayer-api/internal/core/ports"
)

type campaignService struct {
	repo     ports.CampaignRepository
	messages ports.MessageLogRepository
	log      zerolog.Logger
}

// NewCampaignService returns a CampaignService implementation.
func NewCampaignService(repo ports.CampaignRepository, messages ports.MessageLogRepository, log zerolog.Logger) ports.CampaignService {
	return &campaignService{repo: repo, messages: messages, log: log}
}

func (s *campaignService) Create(ctx context.Context, identity auth.Identity, input ports.CreateCampaignInput) (*domain.Campaign, error) {
	status := domain.CampaignDraft
	if input.ScheduledAt != nil {
		status = domain.CampaignScheduled
	}

	now := time.Now().UTC()
	campaign, err := s.repo.Create(ctx, &domain.Campaign{
		Name:              input.Name,
		Description:       input.Description,
		CompanyID:         identity.CompanyID,
		CreatedBy:         identity.UserID,
		Status:            status,
		MessageTemplate:   input.MessageTemplate,
		TemplateVariables: input.TemplateVariables,
		ScheduledAt:       input.ScheduledAt,
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	if err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}

	metrics.CampaignsCreatedTotal.Inc()
	s.log.Info().
		Str("campaign_id", campaign.ID).
		Str("company_id", identity.CompanyID).
		Str("status", string(status)).
		Msg("campaign created")
	return campaign, nil
}

func (s *campaignService) List(ctx context.Context, identity auth.Identity, status domain.CampaignStatus) ([]*domain.Campaign, error) {
	return s.repo.List(ctx, identity.CompanyID, status)
}

func (s *campaignService) Get(ctx context.Context, identity auth.Identity, campaignID string) (*domain.Campaign, error) {
	return s.repo.FindByID(ctx, identity.CompanyID, campaignID)
}

func (s *campaignService) Update(ctx context.Context, identity auth.Identity, campaignID string, input ports.UpdateCampaignInput) (*domain.Campaign, error) {
	campaign, err := s.repo.FindByID(ctx, identity.CompanyID, campaignID)
	if err != nil {
		return nil, err
	}
	if !campaign.IsEditable() {
		return nil, fmt.Errorf("%w: status is %s", domain.ErrCampaignNotEditable, campaign.Status)
	}

	if input.Name != nil {
		campaign.Name = *input.Name
	}
	if input.Description != nil {
		campaign.Description = *input.Description
	}
	if input.MessageTemplate != nil {
		campaign.MessageTemplate = *input.MessageTemplate
	}
	if input.TemplateVariables != nil {
		campaign.TemplateVariables = input.TemplateVariables
	}
	if input.ScheduledAt != nil {
		campaign.ScheduledAt = input.ScheduledAt
		campaign.Status = domain.CampaignScheduled
	}
	campaign.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, campaign); err != nil {
		return nil, fmt.Errorf("update campaign: %w", err)
	}
	return campaign, nil
}

func (s *campaignService) Delete(ctx context.Context, identity auth.Identity, campaignID string) error {
	campaign, err := s.repo.FindByID(ctx, identity.CompanyID, campaignID)
	if err != nil {
		return err
	}
	if campaign.Status == domain.CampaignSending {
		return domain.ErrCampaignSending
	}
	return s.repo.Delete(ctx, identity.CompanyID, campaignID)
}

// Send flips the campaign into the sending state and returns a placeholder
// response. The actual delivery pipeline (queueing, per-recipient dispatch,
// message log writes, webhook-driven stats) lives outside this service.
//
// TODO: hand the campaign to the delivery worker once one exists.
func (s *campaignService) Send(ctx context.Context, identity auth.Identity, campaignID string) (*ports.SendResult, error) {
	campaign, err := s.repo.FindByID(ctx, identity.CompanyID, campaignID)
	if err != nil {
		return nil, err
	}
	if !campaign.IsSendable() {
		return nil, fmt.Errorf("%w: status %s, %d recipients",
			domain.ErrCampaignNotSendable, campaign.Status, campaign.TotalRecipients)
	}

	now := time.Now().UTC()
	campaign.Status = domain.CampaignSending
	campaign.StartedAt = &now
	campaign.UpdatedAt = now
	if err := s.repo.Update(ctx, campaign); err != nil {
		return nil, fmt.Errorf("send campaign: %w", err)
	}

	metrics.CampaignsSentTotal.Inc()
	s.log.Info().
		Str("campaign_id", campaign.ID).
		Str("company_id", identity.CompanyID).
		Int64("recipients", campaign.TotalRecipients).
		Msg("campaign queued for sending")

	return &ports.SendResult{
		CampaignID:      campaign.ID,
		Status:          string(domain.CampaignSending),
		Message:         "Campaign queued for sending",
		TotalRecipients: campaign.TotalRecipients,
	}, nil
}

func (s *campaignService) Cancel(ctx context.Context, identity auth.Identity, campaignID string) (*domain.Campaign, error) {
	campaign, err := s.repo.FindByID(ctx, identity.CompanyID, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign.Status == domain.CampaignCompleted || campaign.Status == domain.CampaignCancelled {
		return nil, fmt.Errorf("%w: %s", domain.ErrCampaignFinished, campaign.Status)
	}

	campaign.Status = domain.CampaignCancelled
	campaign.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, campaign); err != nil {
		return nil, fmt.Errorf("cancel campaign: %w", err)
	}

	s.log.Info().
		Str("campaign_id", campaign.ID).
		Str("company_id", identity.CompanyID).
		Msg("campaign cancelled")
	return campaign, nil
}

func (s *campaignService) ListMessages(ctx context.Context, identity auth.Identity, campaignID string, status domain.MessageStatus, page, limit int) ([]*domain.MessageLog, int64, error) {
	// Tenant gate: the campaign must belong to the caller's company.
	if _, err := s.repo.FindByID(ctx, identity.CompanyID, campaignID); err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return s.messages.ListByCampaign(ctx, campaignID, status, page, limit)
}
