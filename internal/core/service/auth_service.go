package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pinglayer/pinglayer-api/internal/auth"
	"github.com/pinglayer/pinglayer-api/internal/core/domain"
	"github.com/pinglayer/pinglayer-api/internal/core/ports"
)

// AuthService implements registration, login, and user administration.
type AuthService struct {
	repo  ports.AuthRepository
	codec *auth.Codec
	log   zerolog.Logger
}

func NewAuthService(repo ports.AuthRepository, codec *auth.Codec, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, codec: codec, log: log}
}

// Register creates a new company with its first (admin) user and returns a
// minted token. Company creation and user creation are not a single
// transaction; a failed user insert triggers a compensating company delete
// so no tenant record survives a partial registration.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	if input.Email == "" || input.FullName == "" || input.CompanyName == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if err := auth.ValidatePasswordStrength(input.Password); err != nil {
		return nil, err
	}

	slug := domain.Slugify(input.CompanyName)
	if slug == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if _, err := s.repo.FindCompanyBySlug(ctx, slug); err == nil {
		return nil, domain.ErrCompanyExists
	} else if !isNotFound(err) {
		return nil, fmt.Errorf("register: check company slug: %w", err)
	}
	if _, err := s.repo.FindUserByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrEmailExists
	} else if !isNotFound(err) {
		return nil, fmt.Errorf("register: check email: %w", err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	now := time.Now().UTC()
	company, err := s.repo.CreateCompany(ctx, &domain.Company{
		Name:      input.CompanyName,
		Slug:      slug,
		IsActive:  true,
		Plan:      domain.DefaultPlan,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	user, err := s.repo.CreateUser(ctx, &domain.User{
		Email:        input.Email,
		FullName:     input.FullName,
		PasswordHash: hash,
		CompanyID:    company.ID,
		IsActive:     true,
		IsAdmin:      true, // first user owns the tenant
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if delErr := s.repo.DeleteCompany(ctx, company.ID); delErr != nil {
			s.log.Error().Err(delErr).
				Str("company_id", company.ID).
				Msg("failed to roll back company after user creation failure")
		}
		return nil, err
	}

	token, err := s.codec.Mint(user.ID, company.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("register: mint token: %w", err)
	}

	s.log.Info().
		Str("user_id", user.ID).
		Str("company_id", company.ID).
		Str("slug", slug).
		Msg("company registered")

	return &ports.AuthResult{Token: token, User: user, Company: company}, nil
}

// Login verifies credentials and mints a token carrying the user's tenant
// binding. An unknown email and a wrong password are indistinguishable.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	token, err := s.codec.Mint(user.ID, user.CompanyID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("login: mint token: %w", err)
	}

	company, err := s.repo.FindCompanyByID(ctx, user.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("login: load company: %w", err)
	}

	return &ports.AuthResult{Token: token, User: user, Company: company}, nil
}

// CurrentUser returns the fresh store record for the token subject.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindUserByID(ctx, userID)
}

// ListUsers returns every user of the company. Admin-only.
func (s *AuthService) ListUsers(ctx context.Context, companyID string) ([]*domain.User, error) {
	return s.repo.ListUsersByCompany(ctx, companyID)
}

// SetUserActive suspends or reinstates a user of the company. Admin-only.
func (s *AuthService) SetUserActive(ctx context.Context, companyID, userID string, active bool) (*domain.User, error) {
	if err := s.repo.SetUserActive(ctx, companyID, userID, active); err != nil {
		return nil, err
	}
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("user_id", userID).
		Str("company_id", companyID).
		Bool("active", active).
		Msg("user active flag changed")
	return user, nil
}

// isNotFound groups the repository not-found sentinels the registration
// pre-checks treat as "free to take".
func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrCompanyNotFound)
}
