package ports

import (
	"context"

	"github.com/pinglayer/pinglayer-api/internal/core/domain"
)

// CampaignRepository persists campaigns. Every method that touches an
// existing campaign takes companyID and filters by it; a campaign belonging
// to another tenant is indistinguishable from one that does not exist.
type CampaignRepository interface {
	Create(ctx context.Context, campaign *domain.Campaign) (*domain.Campaign, error)
	FindByID(ctx context.Context, companyID, campaignID string) (*domain.Campaign, error)
	// List returns the company's campaigns, newest first, optionally
	// filtered by status (empty status = all).
	List(ctx context.Context, companyID string, status domain.CampaignStatus) ([]*domain.Campaign, error)
	Update(ctx context.Context, campaign *domain.Campaign) error
	Delete(ctx context.Context, companyID, campaignID string) error
	// SetRecipientTotal resyncs the denormalised recipient counter.
	SetRecipientTotal(ctx context.Context, campaignID string, total int64) error
}

// MessageLogRepository reads the delivery audit trail. Entries are produced
// by the (external) delivery pipeline; the API surface is read-only.
type MessageLogRepository interface {
	ListByCampaign(ctx context.Context, campaignID string, status domain.MessageStatus, page, limit int) ([]*domain.MessageLog, int64, error)
}
