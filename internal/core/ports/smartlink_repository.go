package ports

import (
	"context"

	"github.com/pinglayer/pinglayer-api/internal/core/domain"
)

// SmartLinkRepository persists smart links and their click events. Lookups
// by short code are global (the public redirect carries no tenant context);
// everything else is tenant-gated through the owning campaign.
type SmartLinkRepository interface {
	Create(ctx context.Context, link *domain.SmartLink) (*domain.SmartLink, error)
	FindByID(ctx context.Context, linkID string) (*domain.SmartLink, error)
	FindByCode(ctx context.Context, code string) (*domain.SmartLink, error)
	ListByCampaign(ctx context.Context, campaignID string) ([]*domain.SmartLink, error)
	Update(ctx context.Context, link *domain.SmartLink) error

	// IncrementClicks bumps click_count and, when unique is true,
	// unique_click_count in one atomic update.
	IncrementClicks(ctx context.Context, linkID string, unique bool) error
	InsertClick(ctx context.Context, event *domain.ClickEvent) error
	RecentClicks(ctx context.Context, linkID string, limit int) ([]*domain.ClickEvent, error)
}
