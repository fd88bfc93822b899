package ports

import (
	"context"

	"github.com/pinglayer/pinglayer-api/internal/core/domain"
)

// RecipientRepository persists campaign recipients. Tenant scoping happens
// one level up: the service resolves the campaign under the caller's
// company before any recipient operation, so these methods key by campaign.
type RecipientRepository interface {
	// Insert adds a recipient; a duplicate (campaign, phone) pair yields
	// domain.ErrRecipientExists.
	Insert(ctx context.Context, recipient *domain.Recipient) (*domain.Recipient, error)
	FindByID(ctx context.Context, campaignID, recipientID string) (*domain.Recipient, error)
	List(ctx context.Context, campaignID string, page, limit int) ([]*domain.Recipient, int64, error)
	Count(ctx context.Context, campaignID string) (int64, error)
	Delete(ctx context.Context, campaignID, recipientID string) error
	DeleteAll(ctx context.Context, campaignID string) (int64, error)
}
