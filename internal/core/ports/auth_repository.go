package ports

import (
	"context"

	"github.com/pinglayer/pinglayer-api/internal/core/domain"
)

// AuthRepository persists users and companies. Company-scoped methods take
// the tenant id explicitly; lookups by token subject are global because the
// token itself carries the tenant binding.
type AuthRepository interface {
	CreateCompany(ctx context.Context, company *domain.Company) (*domain.Company, error)
	// DeleteCompany removes a company record. Used only to compensate a
	// failed registration; never exposed as an API operation.
	DeleteCompany(ctx context.Context, companyID string) error
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)
	FindCompanyBySlug(ctx context.Context, slug string) (*domain.Company, error)

	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsersByCompany(ctx context.Context, companyID string) ([]*domain.User, error)
	// SetUserActive flips the soft-delete flag. The company filter prevents
	// cross-tenant suspension.
	SetUserActive(ctx context.Context, companyID, userID string, active bool) error
}
