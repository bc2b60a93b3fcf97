package application

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Fedi-Riahi/mar/internal/domains/users/domain"
	"github.com/Fedi-Riahi/mar/internal/domains/users/ports"
	"github.com/Fedi-Riahi/mar/internal/shared/auth"
)

// Service exposes user bounded context use cases.
type Service struct {
	repo     ports.Repository
	sessions ports.SessionStore
	tokens   *TokenIssuer
}

func NewService(repo ports.Repository, sessions ports.SessionStore, tokens *TokenIssuer) *Service {
	if sessions == nil {
		sessions = ports.NoopSessionStore
	}
	return &Service{repo: repo, sessions: sessions, tokens: tokens}
}

// Register creates an account with a bcrypt-hashed password. Registrations
// carrying a business name are artisan applications and start pending review.
func (s *Service) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, mapError(err)
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if existing, err := s.repo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ports.ErrEmailTaken
	} else if err != nil && !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	role := auth.RoleUser
	if strings.TrimSpace(input.BusinessName) != "" {
		role = auth.RoleArtisanPending
	}
	user, err := domain.NewUser(input.Name, email, string(hash), role)
	if err != nil {
		return nil, mapError(err)
	}
	user.UpdateProfile(input.Phone, input.BusinessName, input.Bio, input.Location)
	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// Login verifies credentials, issues a token, and records the session.
func (s *Service) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, mapError(ports.ErrInvalidCredentials)
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	if s.tokens == nil {
		return nil, errors.New("token issuer not configured")
	}
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, user.ID, token); err != nil {
		return nil, err
	}
	return &ports.LoginResult{Token: token, User: user}, nil
}

// Logout drops the caller's server-side session. Token expiry still applies.
func (s *Service) Logout(ctx context.Context, caller auth.Caller) {
	if !caller.Authenticated() {
		return
	}
	_ = s.sessions.Delete(ctx, caller.UserID)
}

// Authenticate verifies a bearer token and returns the caller identity.
func (s *Service) Authenticate(_ context.Context, token string) (auth.Caller, error) {
	if s.tokens == nil {
		return auth.Caller{}, errors.New("token issuer not configured")
	}
	caller, err := s.tokens.Parse(strings.TrimSpace(token))
	if err != nil {
		return auth.Caller{}, mapError(err)
	}
	return caller, nil
}

// GetByID loads an account. Owners see themselves; admins see anyone.
func (s *Service) GetByID(ctx context.Context, caller auth.Caller, id string) (*domain.User, error) {
	if err := auth.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	if caller.UserID != id && !caller.IsAdmin() {
		return nil, auth.ErrForbidden
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return user, nil
}

// List returns every account for administrative review.
func (s *Service) List(ctx context.Context, caller auth.Caller) ([]*domain.User, error) {
	if err := auth.RequireAdmin(caller); err != nil {
		return nil, err
	}
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return users, nil
}

// SetRole grants a new role to an account. Administrators only.
func (s *Service) SetRole(ctx context.Context, caller auth.Caller, id string, role auth.Role) (*domain.User, error) {
	if err := auth.RequireAdmin(caller); err != nil {
		return nil, err
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	if err := user.SetRole(role); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// Delete removes an account and its session. Administrators only.
func (s *Service) Delete(ctx context.Context, caller auth.Caller, id string) error {
	if err := auth.RequireAdmin(caller); err != nil {
		return err
	}
	_ = s.sessions.Delete(ctx, id)
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapError(err)
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
