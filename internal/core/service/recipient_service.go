package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pinglayer/pinglayer-api/internal/auth"
	"github.com/pinglayer/pinglayer-api/internal/core/domain"
	"github.com/pinglayer/pinglayer-api/internal/core/ports"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 500
)

type recipientService struct {
	campaigns ports.CampaignRepository
	repo      ports.RecipientRepository
	log       zerolog.Logger
}

// NewRecipientService returns a RecipientService implementation.
func NewRecipientService(campaigns ports.CampaignRepository, repo ports.RecipientRepository, log zerolog.Logger) ports.RecipientService {
	return &recipientService{campaigns: campaigns, repo: repo, log: log}
}

// guardCampaign resolves the campaign under the caller's company. Every
// recipient operation goes through here; a foreign campaign is a 404.
func (s *recipientService) guardCampaign(ctx context.Context, identity auth.Identity, campaignID string) (*domain.Campaign, error) {
	return s.campaigns.FindByID(ctx, identity.CompanyID, campaignID)
}

func (s *recipientService) Add(ctx context.Context, identity auth.Identity, campaignID string, input ports.RecipientInput) (*domain.Recipient, error) {
	if _, err := s.guardCampaign(ctx, identity, campaignID); err != nil {
		return nil, err
	}

	phone := strings.TrimSpace(input.PhoneNumber)
	if phone == "" {
		return nil, domain.ErrPhoneRequired
	}

	recipient, err := s.repo.Insert(ctx, &domain.Recipient{
		CampaignID:  campaignID,
		PhoneNumber: phone,
		Name:        input.Name,
		Email:       input.Email,
		CustomData:  input.CustomData,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	if err := s.syncTotal(ctx, campaignID); err != nil {
		s.log.Warn().Err(err).Str("campaign_id", campaignID).Msg("failed to sync recipient total")
	}
	return recipient, nil
}

func (s *recipientService) AddBulk(ctx context.Context, identity auth.Identity, campaignID string, inputs []ports.RecipientInput) (*ports.UploadResult, error) {
	if _, err := s.guardCampaign(ctx, identity, campaignID); err != nil {
		return nil, err
	}

	result := &ports.UploadResult{CampaignID: campaignID}
	now := time.Now().UTC()
	for i, in := range inputs {
		phone := strings.TrimSpace(in.PhoneNumber)
		if phone == "" {
			result.ErrorCount++
			result.Errors = append(result.Errors, fmt.Sprintf("recipient %d: missing phone_number", i+1))
			continue
		}
		_, err := s.repo.Insert(ctx, &domain.Recipient{
			CampaignID:  campaignID,
			PhoneNumber: phone,
			Name:        in.Name,
			Email:       in.Email,
			CustomData:  in.CustomData,
			CreatedAt:   now,
		})
		switch {
		case err == nil:
			result.AddedCount++
		case errors.Is(err, domain.ErrRecipientExists):
			result.DuplicateCount++
		default:
			result.ErrorCount++
			result.Errors = append(result.Errors, fmt.Sprintf("recipient %d: %v", i+1, err))
		}
	}

	if err := s.syncTotal(ctx, campaignID); err != nil {
		s.log.Warn().Err(err).Str("campaign_id", campaignID).Msg("failed to sync recipient total")
	}
	return result, nil
}

// UploadCSV ingests recipients from a CSV stream. The phone_number column
// is required; name and email are recognised when present; every other
// column becomes a custom-data template variable. Row failures are
// collected with their row number and do not abort the upload.
func (s *recipientService) UploadCSV(ctx context.Context, identity auth.Identity, campaignID string, r io.Reader) (*ports.UploadResult, error) {
	if _, err := s.guardCampaign(ctx, identity, campaignID); err != nil {
		return nil, err
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: unable to read header", domain.ErrInvalidCSV)
	}

	phoneCol := -1
	for i, name := range header {
		header[i] = strings.TrimSpace(name)
		if header[i] == "phone_number" {
			phoneCol = i
		}
	}
	if phoneCol == -1 {
		return nil, fmt.Errorf("%w: missing required column phone_number", domain.ErrInvalidCSV)
	}

	result := &ports.UploadResult{CampaignID: campaignID}
	now := time.Now().UTC()
	rowNum := 1 // header is row 1
	for {
		rowNum++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.ErrorCount++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}

		recipient := domain.Recipient{CampaignID: campaignID, CreatedAt: now}
		custom := map[string]string{}
		for i, value := range row {
			if i >= len(header) {
				break
			}
			value = strings.TrimSpace(value)
			switch header[i] {
			case "phone_number":
				recipient.PhoneNumber = value
			case "name":
				recipient.Name = value
			case "email":
				recipient.Email = value
			default:
				if value != "" {
					custom[header[i]] = value
				}
			}
		}
		if len(custom) > 0 {
			recipient.CustomData = custom
		}

		if recipient.PhoneNumber == "" {
			result.ErrorCount++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: missing phone_number", rowNum))
			continue
		}

		_, err = s.repo.Insert(ctx, &recipient)
		switch {
		case err == nil:
			result.AddedCount++
		case errors.Is(err, domain.ErrRecipientExists):
			result.DuplicateCount++
		default:
			result.ErrorCount++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
		}
	}

	if err := s.syncTotal(ctx, campaignID); err != nil {
		s.log.Warn().Err(err).Str("campaign_id", campaignID).Msg("failed to sync recipient total")
	}

	s.log.Info().
		Str("campaign_id", campaignID).
		Int("added", result.AddedCount).
		Int("duplicates", result.DuplicateCount).
		Int("errors", result.ErrorCount).
		Msg("csv upload processed")
	return result, nil
}

func (s *recipientService) List(ctx context.Context, identity auth.Identity, campaignID string, page, limit int) (*ports.RecipientPage, error) {
	if _, err := s.guardCampaign(ctx, identity, campaignID); err != nil {
		return nil, err
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

	items, total, err := s.repo.List(ctx, campaignID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("list recipients: %w", err)
	}
	return &ports.RecipientPage{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *recipientService) Get(ctx context.Context, identity auth.Identity, campaignID, recipientID string) (*domain.Recipient, error) {
	if _, err := s.guardCampaign(ctx, identity, campaignID); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, campaignID, recipientID)
}

func (s *recipientService) Delete(ctx context.Context, identity auth.Identity, campaignID, recipientID string) error {
	if _, err := s.guardCampaign(ctx, identity, campaignID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, campaignID, recipientID); err != nil {
		return err
	}
	if err := s.syncTotal(ctx, campaignID); err != nil {
		s.log.Warn().Err(err).Str("campaign_id", campaignID).Msg("failed to sync recipient total")
	}
	return nil
}

func (s *recipientService) DeleteAll(ctx context.Context, identity auth.Identity, campaignID string) (int64, error) {
	if _, err := s.guardCampaign(ctx, identity, campaignID); err != nil {
		return 0, err
	}
	deleted, err := s.repo.DeleteAll(ctx, campaignID)
	if err != nil {
		return 0, err
	}
	if err := s.campaigns.SetRecipientTotal(ctx, campaignID, 0); err != nil {
		s.log.Warn().Err(err).Str("campaign_id", campaignID).Msg("failed to sync recipient total")
	}
	return deleted, nil
}

// syncTotal recomputes the campaign's denormalised recipient counter.
func (s *recipientService) syncTotal(ctx context.Context, campaignID string) error {
	total, err := s.repo.Count(ctx, campaignID)
	if err != nil {
		return err
	}
	return s.campaigns.SetRecipientTotal(ctx, campaignID, total)
}
