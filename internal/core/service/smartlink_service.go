package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pinglayer/pinglayer-api/internal/auth"
	"github.com/pinglayer/pinglayer-api/internal/core/domain"
	"github.com/pinglayer/pinglayer-api/internal/core/ports"
)

const (
	shortCodeLength   = 8
	shortCodeAttempts = 5
	recentClicksLimit = 50
)

type smartLinkService struct {
	campaigns ports.CampaignRepository
	repo      ports.SmartLinkRepository
	baseURL   string
	log       zerolog.Logger
}

// NewSmartLinkService returns a SmartLinkService implementation. baseURL is
// the public prefix under which short codes resolve (e.g. https://png.lk/s).
func NewSmartLinkService(campaigns ports.CampaignRepository, repo ports.SmartLinkRepository, baseURL string, log zerolog.Logger) ports.SmartLinkService {
	return &smartLinkService{campaigns: campaigns, repo: repo, baseURL: baseURL, log: log}
}

func (s *smartLinkService) Create(ctx context.Context, identity auth.Identity, campaignID string, input ports.CreateLinkInput) (*domain.SmartLink, error) {
	if _, err := s.campaigns.FindByID(ctx, identity.CompanyID, campaignID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	link := &domain.SmartLink{
		CampaignID:     campaignID,
		DestinationURL: input.DestinationURL,
		Title:          input.Title,
		IsActive:       true,
		ExpiresAt:      input.ExpiresAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// Retry on the (unlikely) short-code collision; the unique index on
	// short_code is the arbiter.
	var created *domain.SmartLink
	var err error
	for attempt := 0; attempt < shortCodeAttempts; attempt++ {
		link.ShortCode, err = generateShortCode()
		if err != nil {
			return nil, fmt.Errorf("create smart link: %w", err)
		}
		created, err = s.repo.Create(ctx, link)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrLinkExists) {
			return nil, fmt.Errorf("create smart link: %w", err)
		}
	}
	if created == nil {
		return nil, fmt.Errorf("create smart link: could not allocate short code: %w", err)
	}

	s.log.Info().
		Str("link_id", created.ID).
		Str("short_code", created.ShortCode).
		Str("campaign_id", campaignID).
		Msg("smart link created")
	return created, nil
}

func (s *smartLinkService) ListByCampaign(ctx context.Context, identity auth.Identity, campaignID string) ([]*domain.SmartLink, error) {
	if _, err := s.campaigns.FindByID(ctx, identity.CompanyID, campaignID); err != nil {
		return nil, err
	}
	return s.repo.ListByCampaign(ctx, campaignID)
}

func (s *smartLinkService) Stats(ctx context.Context, identity auth.Identity, linkID string) (*ports.LinkStats, error) {
	link, err := s.guardLink(ctx, identity, linkID)
	if err != nil {
		return nil, err
	}

	clicks, err := s.repo.RecentClicks(ctx, link.ID, recentClicksLimit)
	if err != nil {
		return nil, fmt.Errorf("link stats: %w", err)
	}
	return &ports.LinkStats{
		Link:         link,
		ShortURL:     s.baseURL + "/" + link.ShortCode,
		RecentClicks: clicks,
	}, nil
}

func (s *smartLinkService) Update(ctx context.Context, identity auth.Identity, linkID string, input ports.UpdateLinkInput) (*domain.SmartLink, error) {
	link, err := s.guardLink(ctx, identity, linkID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		link.Title = *input.Title
	}
	if input.IsActive != nil {
		link.IsActive = *input.IsActive
	}
	link.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, link); err != nil {
		return nil, fmt.Errorf("update smart link: %w", err)
	}
	return link, nil
}

// Resolve looks up the link behind a public short code. The redirect
// endpoint is anonymous, so there is no tenant context to check.
func (s *smartLinkService) Resolve(ctx context.Context, code string) (*domain.SmartLink, error) {
	link, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !link.IsActive {
		return nil, domain.ErrLinkInactive
	}
	if link.IsExpired(time.Now().UTC()) {
		return nil, domain.ErrLinkExpired
	}
	return link, nil
}

// guardLink resolves a link and verifies, through its campaign, that it
// belongs to the caller's company.
func (s *smartLinkService) guardLink(ctx context.Context, identity auth.Identity, linkID string) (*domain.SmartLink, error) {
	link, err := s.repo.FindByID(ctx, linkID)
	if err != nil {
		return nil, err
	}
	if _, err := s.campaigns.FindByID(ctx, identity.CompanyID, link.CampaignID); err != nil {
		// The campaign filter hides foreign links entirely.
		return nil, domain.ErrLinkNotFound
	}
	return link, nil
}

// generateShortCode returns an 8-character URL-safe random code.
func generateShortCode() (string, error) {
	buf := make([]byte, shortCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf)[:shortCodeLength], nil
}
