package ports

import (
	"context"
	"time"

	"github.com/pinglayer/pinglayer-api/internal/auth"
	"github.com/pinglayer/pinglayer-api/internal/core/domain"
)

// CreateLinkInput carries the data needed to create a smart link.
type CreateLinkInput struct {
	DestinationURL string
	Title          string
	ExpiresAt      *time.Time
}

// UpdateLinkInput is a partial update; nil fields are left unchanged.
type UpdateLinkInput struct {
	Title    *string
	IsActive *bool
}

// LinkStats is the analytics view of one smart link.
type LinkStats struct {
	Link         *domain.SmartLink    `json:"link"`
	ShortURL     string               `json:"short_url"`
	RecentClicks []*domain.ClickEvent `json:"recent_clicks"`
}

// SmartLinkService manages trackable short links.
type SmartLinkService interface {
	Create(ctx context.Context, identity auth.Identity, campaignID string, input CreateLinkInput) (*domain.SmartLink, error)
	ListByCampaign(ctx context.Context, identity auth.Identity, campaignID string) ([]*domain.SmartLink, error)
	Stats(ctx context.Context, identity auth.Identity, linkID string) (*LinkStats, error)
	Update(ctx context.Context, identity auth.Identity, linkID string, input UpdateLinkInput) (*domain.SmartLink, error)
	// Resolve returns the link behind a short code for the public redirect.
	// Inactive links yield domain.ErrLinkInactive, expired ones
	// domain.ErrLinkExpired.
	Resolve(ctx context.Context, code string) (*domain.SmartLink, error)
}

// ClickInput is the DTO passed from the redirect handler to the click
// pipeline.
type ClickInput struct {
	ShortCode string
	IPAddress string
	UserAgent string
	Referrer  string
	Timestamp time.Time
}

// ClickService processes click events off the request path.
type ClickService interface {
	Process(ctx context.Context, click ClickInput) error
}
