package ports

import (
	"context"
	"io"

	"github.com/pinglayer/pinglayer-api/internal/auth"
	"github.com/pinglayer/pinglayer-api/internal/core/domain"
)

// RecipientInput is one recipient to add to a campaign.
type RecipientInput struct {
	PhoneNumber string
	Name        string
	Email       string
	CustomData  map[string]string
}

// UploadResult summarises a bulk or CSV ingestion. Row-level failures are
// collected, not fatal.
type UploadResult struct {
	CampaignID     string   `json:"campaign_id"`
	AddedCount     int      `json:"added_count"`
	DuplicateCount int      `json:"duplicate_count"`
	ErrorCount     int      `json:"error_count"`
	Errors         []string `json:"errors,omitempty"`
}

// RecipientPage is one page of a campaign's recipient list.
type RecipientPage struct {
	Items []*domain.Recipient `json:"items"`
	Total int64               `json:"total"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
}

// RecipientService manages campaign recipients. Every operation first
// resolves the campaign under the identity's company.
type RecipientService interface {
	Add(ctx context.Context, identity auth.Identity, campaignID string, input RecipientInput) (*domain.Recipient, error)
	AddBulk(ctx context.Context, identity auth.Identity, campaignID string, inputs []RecipientInput) (*UploadResult, error)
	// UploadCSV ingests a CSV stream: phone_number column required,
	// name/email optional, remaining columns become custom data.
	UploadCSV(ctx context.Context, identity auth.Identity, campaignID string, r io.Reader) (*UploadResult, error)
	List(ctx context.Context, identity auth.Identity, campaignID string, page, limit int) (*RecipientPage, error)
	Get(ctx context.Context, identity auth.Identity, campaignID, recipientID string) (*domain.Recipient, error)
	Delete(ctx context.Context, identity auth.Identity, campaignID, recipientID string) error
	DeleteAll(ctx context.Context, identity auth.Identity, campaignID string) (int64, error)
}
