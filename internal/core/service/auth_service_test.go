package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/pinglayer/pinglayer-api/internal/auth"
	"github.com/pinglayer/pinglayer-api/internal/core/domain"
	"github.com/pinglayer/pinglayer-api/internal/core/ports"
)

const testSecret = "test-secret-that-is-long-enough!"

func newTestAuthService(repo *stubAuthRepo) *AuthService {
	codec := auth.NewCodec(testSecret, time.Hour)
	return NewAuthService(repo, codec, zerolog.Nop())
}

func registerInput() ports.RegisterInput {
	return ports.RegisterInput{
		FullName:    "Alice Example",
		Email:       "alice@example.com",
		Password:    "Str0ngPass",
		CompanyName: "Acme Corp",
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(repo)

	result, err := svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if result.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if result.Company.Slug != "acme-corp" {
		t.Fatalf("unexpected slug: %s", result.Company.Slug)
	}
	if result.Company.Plan != domain.DefaultPlan {
		t.Fatalf("unexpected plan: %s", result.Company.Plan)
	}
	if !result.User.IsAdmin {
		t.Fatalf("first user must be admin")
	}
	if !result.User.IsActive {
		t.Fatalf("first user must be active")
	}
	if result.User.PasswordHash == "Str0ngPass" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(result.User.PasswordHash), []byte("Str0ngPass")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(result.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["sub"] != result.User.ID {
		t.Fatalf("token subject %v, want %s", claims["sub"], result.User.ID)
	}
	if claims["company_id"] != result.Company.ID {
		t.Fatalf("token company %v, want %s", claims["company_id"], result.Company.ID)
	}
}

func TestAuthService_Register_WeakPasswordLeavesNoRecord(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(repo)

	input := registerInput()
	input.Password = "alllowercase1" // no uppercase

	if _, err := svc.Register(context.Background(), input); !errors.Is(err, domain.ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if len(repo.companies) != 0 || len(repo.users) != 0 {
		t.Fatalf("rejected registration must leave no records: %d companies, %d users",
			len(repo.companies), len(repo.users))
	}
}

func TestAuthService_Register_SlugCollision(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(repo)

	if _, err := svc.Register(context.Background(), registerInput()); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	// Case and spacing variants collapse to the same slug.
	for _, name := range []string{"Acme Corp", "ACME CORP", "acme   corp"} {
		input := registerInput()
		input.Email = "other@example.com"
		input.CompanyName = name
		if _, err := svc.Register(context.Background(), input); !errors.Is(err, domain.ErrCompanyExists) {
			t.Fatalf("company %q: expected ErrCompanyExists, got %v", name, err)
		}
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(repo)

	if _, err := svc.Register(context.Background(), registerInput()); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	input := registerInput()
	input.CompanyName = "Other Company"
	if _, err := svc.Register(context.Background(), input); !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestAuthService_Register_CompensatesFailedUserInsert(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(repo)

	repo.failUserInsert = true
	if _, err := svc.Register(context.Background(), registerInput()); err == nil {
		t.Fatalf("expected error")
	}
	if len(repo.companies) != 0 {
		t.Fatalf("company must be rolled back after user insert failure, %d left", len(repo.companies))
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(repo)

	registered, err := svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	result, err := svc.Login(context.Background(), "alice@example.com", "Str0ngPass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected token")
	}
	if result.User.ID != registered.User.ID {
		t.Fatalf("unexpected user: %+v", result.User)
	}
	if result.Company.ID != registered.Company.ID {
		t.Fatalf("unexpected company: %+v", result.Company)
	}
}

func TestAuthService_Login_WrongPasswordAndUnknownEmailAlike(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(repo)

	if _, err := svc.Register(context.Background(), registerInput()); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := svc.Login(context.Background(), "alice@example.com", "WrongPass1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "ghost@example.com", "WrongPass1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(repo)

	registered, err := svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := repo.SetUserActive(context.Background(), registered.Company.ID, registered.User.ID, false); err != nil {
		t.Fatalf("suspend failed: %v", err)
	}

	if _, err := svc.Login(context.Background(), "alice@example.com", "Str0ngPass"); !errors.Is(err, domain.ErrUserInactive) {
		t.Fatalf("expected ErrUserInactive, got %v", err)
	}
}

func TestAuthService_SetUserActive_CrossTenant(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(repo)

	registered, err := svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := svc.SetUserActive(context.Background(), "other-company", registered.User.ID, false); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for foreign tenant, got %v", err)
	}

	fresh, err := repo.FindUserByID(context.Background(), registered.User.ID)
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if !fresh.IsActive {
		t.Fatalf("cross-tenant call must not flip the flag")
	}
}
