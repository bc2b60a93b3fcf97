package ports

import (
	"context"

	"github.com/Fedi-Riahi/mar/internal/domains/users/domain"
	"github.com/Fedi-Riahi/mar/internal/shared/auth"
)

// RegisterInput is the command for creating an account. A non-empty
// BusinessName marks the registration as an artisan application.
type RegisterInput struct {
	Name         string
	Email        string
	Password     string
	Phone        string
	BusinessName string
	Bio          string
	Location     string
}

// LoginResult carries the issued token alongside the authenticated account.
type LoginResult struct {
	Token string
	User  *domain.User
}

// Service exposes user bounded context use cases to adapters.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, caller auth.Caller)
	// Authenticate verifies a bearer token and returns the caller identity.
	Authenticate(ctx context.Context, token string) (auth.Caller, error)
	GetByID(ctx context.Context, caller auth.Caller, id string) (*domain.User, error)
	List(ctx context.Context, caller auth.Caller) ([]*domain.User, error)
	SetRole(ctx context.Context, caller auth.Caller, id string, role auth.Role) (*domain.User, error)
	Delete(ctx context.Context, caller auth.Caller, id string) error
}
