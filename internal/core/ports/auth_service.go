package ports

import (
	"context"

	"github.com/pinglayer/pinglayer-api/internal/core/domain"
)

// RegisterInput carries a self-service registration: the first user of a new
// company, created as its admin.
type RegisterInput struct {
	FullName    string
	Email       string
	Password    string
	CompanyName string
}

// AuthResult is returned after a successful login or registration.
type AuthResult struct {
	Token   string
	User    *domain.User
	Company *domain.Company
}

// AuthService implements registration, login, and user administration.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// CurrentUser returns the fresh store record for the token subject.
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)

	// Admin-only operations; callers must pass the RequireAdmin guard.
	ListUsers(ctx context.Context, companyID string) ([]*domain.User, error)
	SetUserActive(ctx context.Context, companyID, userID string, active bool) (*domain.User, error)
}
