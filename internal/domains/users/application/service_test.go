package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	usermemory "github.com/Fedi-Riahi/mar/internal/domains/users/adapters/memory"
	"github.com/Fedi-Riahi/mar/internal/domains/users/domain"
	"github.com/Fedi-Riahi/mar/internal/domains/users/ports"
	"github.com/Fedi-Riahi/mar/internal/shared/auth"
)

// recordingSessionStore captures session writes so tests can observe them.
type recordingSessionStore struct {
	saved   map[string]string
	deleted []string
}

func newRecordingSessionStore() *recordingSessionStore {
	return &recordingSessionStore{saved: map[string]string{}}
}

func (s *recordingSessionStore) Save(_ context.Context, userID, token string) error {
	s.saved[userID] = token
	return nil
}

func (s *recordingSessionStore) Delete(_ context.Context, userID string) error {
	delete(s.saved, userID)
	s.deleted = append(s.deleted, userID)
	return nil
}

func newUserService(t *testing.T) (*Service, *recordingSessionStore) {
	t.Helper()
	tokens, err := NewTokenIssuer("test-signing-secret", DefaultTokenTTL)
	require.NoError(t, err)
	sessions := newRecordingSessionStore()
	return NewService(usermemory.NewRepository(), sessions, tokens), sessions
}

func registerInput() ports.RegisterInput {
	return ports.RegisterInput{
		Name:     "Amina Trabelsi",
		Email:    "amina@example.com",
		Password: "correct-horse",
	}
}

func registerAdmin(t *testing.T, svc *Service) auth.Caller {
	t.Helper()
	input := registerInput()
	input.Email = "root@example.com"
	user, err := svc.Register(context.Background(), input)
	require.NoError(t, err)
	user.Role = auth.RoleAdmin
	saved, err := svc.repo.Save(context.Background(), user)
	require.NoError(t, err)
	return auth.Caller{UserID: saved.ID, Email: saved.Email, Role: saved.Role}
}

func TestRegister_HashesPasswordAndNormalizesEmail(t *testing.T) {
	svc, _ := newUserService(t)

	input := registerInput()
	input.Email = "  Amina@Example.COM "
	user, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, "amina@example.com", user.Email)
	assert.Equal(t, auth.RoleUser, user.Role)
	assert.NotEqual(t, input.Password, user.PasswordHash)
	assert.NotEmpty(t, user.ID)
}

func TestRegister_BusinessNameStartsArtisanApplication(t *testing.T) {
	svc, _ := newUserService(t)

	input := registerInput()
	input.BusinessName = "Atelier Sidi Bou"
	input.Bio = "Hand-thrown ceramics"
	input.Location = "Tunis"
	user, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, auth.RoleArtisanPending, user.Role)
	assert.Equal(t, "Atelier Sidi Bou", user.BusinessName)
	assert.Equal(t, "Tunis", user.Location)
}

func TestRegister_RejectsWeakPassword(t *testing.T) {
	svc, _ := newUserService(t)

	input := registerInput()
	input.Password = "short"
	_, err := svc.Register(context.Background(), input)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrWeakPassword)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newUserService(t)

	_, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	input := registerInput()
	input.Email = "AMINA@example.com"
	_, err = svc.Register(context.Background(), input)
	require.ErrorIs(t, err, ports.ErrEmailTaken)
}

func TestLogin_IssuesTokenAndRecordsSession(t *testing.T) {
	svc, sessions := newUserService(t)

	user, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), "amina@example.com", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, user.ID, result.User.ID)
	assert.Equal(t, result.Token, sessions.saved[user.ID])

	caller, err := svc.Authenticate(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, caller.UserID)
	assert.Equal(t, user.Email, caller.Email)
	assert.Equal(t, auth.RoleUser, caller.Role)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _ := newUserService(t)

	_, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "amina@example.com", "wrong-password")
	require.ErrorIs(t, err, ErrAuthentication)

	_, err = svc.Login(context.Background(), "nobody@example.com", "correct-horse")
	require.ErrorIs(t, err, ErrAuthentication)

	_, err = svc.Login(context.Background(), "", "")
	require.ErrorIs(t, err, ErrAuthentication)
}

func TestAuthenticate_RejectsTamperedToken(t *testing.T) {
	svc, _ := newUserService(t)

	_, err := svc.Authenticate(context.Background(), "not-a-token")
	require.ErrorIs(t, err, ErrAuthentication)
	require.ErrorIs(t, err, ErrInvalidToken)

	otherIssuer, err := NewTokenIssuer("a-different-secret", DefaultTokenTTL)
	require.NoError(t, err)
	user, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	foreign, err := otherIssuer.Issue(user)
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), foreign)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogout_DropsSession(t *testing.T) {
	svc, sessions := newUserService(t)

	user, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	_, err = svc.Login(context.Background(), user.Email, "correct-horse")
	require.NoError(t, err)

	svc.Logout(context.Background(), auth.Caller{UserID: user.ID, Role: auth.RoleUser})
	assert.Empty(t, sessions.saved)

	// Anonymous logout is a no-op.
	svc.Logout(context.Background(), auth.Caller{})
}

func TestGetByID_OwnerOrAdmin(t *testing.T) {
	svc, _ := newUserService(t)
	adminCaller := registerAdmin(t, svc)

	user, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	owner := auth.Caller{UserID: user.ID, Role: auth.RoleUser}

	fetched, err := svc.GetByID(context.Background(), owner, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, fetched.ID)

	_, err = svc.GetByID(context.Background(), owner, adminCaller.UserID)
	require.ErrorIs(t, err, auth.ErrForbidden)

	_, err = svc.GetByID(context.Background(), adminCaller, user.ID)
	require.NoError(t, err)

	_, err = svc.GetByID(context.Background(), auth.Caller{}, user.ID)
	require.ErrorIs(t, err, auth.ErrUnauthenticated)
}

func TestList_AdminOnly(t *testing.T) {
	svc, _ := newUserService(t)
	adminCaller := registerAdmin(t, svc)

	user, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	_, err = svc.List(context.Background(), auth.Caller{UserID: user.ID, Role: auth.RoleUser})
	require.ErrorIs(t, err, auth.ErrForbidden)

	users, err := svc.List(context.Background(), adminCaller)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestSetRole_ApprovesArtisan(t *testing.T) {
	svc, _ := newUserService(t)
	adminCaller := registerAdmin(t, svc)

	input := registerInput()
	input.BusinessName = "Atelier Sidi Bou"
	user, err := svc.Register(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, auth.RoleArtisanPending, user.Role)

	_, err = svc.SetRole(context.Background(), auth.Caller{UserID: user.ID, Role: auth.RoleUser}, user.ID, auth.RoleArtisan)
	require.ErrorIs(t, err, auth.ErrForbidden)

	_, err = svc.SetRole(context.Background(), adminCaller, user.ID, auth.Role("SUPERUSER"))
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidRole)

	approved, err := svc.SetRole(context.Background(), adminCaller, user.ID, auth.RoleArtisan)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleArtisan, approved.Role)

	_, err = svc.SetRole(context.Background(), adminCaller, "missing", auth.RoleUser)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestDelete_AdminOnlyAndDropsSession(t *testing.T) {
	svc, sessions := newUserService(t)
	adminCaller := registerAdmin(t, svc)

	user, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	_, err = svc.Login(context.Background(), user.Email, "correct-horse")
	require.NoError(t, err)

	err = svc.Delete(context.Background(), auth.Caller{UserID: user.ID, Role: auth.RoleUser}, user.ID)
	require.ErrorIs(t, err, auth.ErrForbidden)

	require.NoError(t, svc.Delete(context.Background(), adminCaller, user.ID))
	assert.Contains(t, sessions.deleted, user.ID)

	_, err = svc.GetByID(context.Background(), adminCaller, user.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
}
