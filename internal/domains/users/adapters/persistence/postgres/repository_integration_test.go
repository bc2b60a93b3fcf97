//go:build integration

package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Fedi-Riahi/mar/internal/domains/users/domain"
	"github.com/Fedi-Riahi/mar/internal/domains/users/ports"
	"github.com/Fedi-Riahi/mar/internal/platform/migrations"
	"github.com/Fedi-Riahi/mar/internal/shared/auth"
)

func setupUsersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("marketplace_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func newAccount(t *testing.T, email string) *domain.User {
	t.Helper()
	user, err := domain.NewUser("Amina Trabelsi", email, "$2a$10$fakedigestfortesting00000000000000000000000000000000", auth.RoleUser)
	require.NoError(t, err)
	return user
}

func TestRepository_SaveAndGetByEmail(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	user := newAccount(t, "amina@example.com")
	user.UpdateProfile("21612345", "Atelier Sidi Bou", "Hand-thrown ceramics", "Tunis")

	saved, err := repo.Save(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, user.ID, saved.ID)
	assert.Equal(t, "Atelier Sidi Bou", saved.BusinessName)

	fetched, err := repo.GetByEmail(ctx, "  AMINA@example.com ")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, fetched.ID)
	assert.Equal(t, "amina@example.com", fetched.Email)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_SaveUpsertsRole(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	user := newAccount(t, "amina@example.com")
	_, err := repo.Save(ctx, user)
	require.NoError(t, err)

	require.NoError(t, user.SetRole(auth.RoleArtisan))
	user.UpdateProfile("21612345", "Atelier Sidi Bou", "", "Sidi Bou Said")

	updated, err := repo.Save(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleArtisan, updated.Role)
	assert.Equal(t, "Sidi Bou Said", updated.Location)

	fetched, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleArtisan, fetched.Role)
}

func TestRepository_ListAndDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	var second *domain.User
	for i := 1; i <= 3; i++ {
		user := newAccount(t, fmt.Sprintf("user%d@example.com", i))
		if i == 2 {
			second = user
		}
		_, err := repo.Save(ctx, user)
		require.NoError(t, err)
	}

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)

	err = repo.Delete(ctx, second.ID)
	require.NoError(t, err)
	_, err = repo.GetByID(ctx, second.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	err = repo.Delete(ctx, second.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestSessionStore_SaveDeletePurge(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewRepository(db)
	user := newAccount(t, "amina@example.com")
	_, err := repo.Save(ctx, user)
	require.NoError(t, err)

	store := NewSessionStore(db, time.Hour)
	require.NoError(t, store.Save(ctx, user.ID, "token-one"))
	// Re-login replaces the expiry on the same token.
	require.NoError(t, store.Save(ctx, user.ID, "token-one"))
	require.NoError(t, store.Save(ctx, user.ID, "token-two"))

	var count int64
	require.NoError(t, db.Model(&sessionRecord{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	require.NoError(t, store.Delete(ctx, user.ID))
	require.NoError(t, db.Model(&sessionRecord{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	expired := NewSessionStore(db, time.Nanosecond)
	require.NoError(t, expired.Save(ctx, user.ID, "stale-token"))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, expired.PurgeExpired(ctx))
	require.NoError(t, db.Model(&sessionRecord{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
