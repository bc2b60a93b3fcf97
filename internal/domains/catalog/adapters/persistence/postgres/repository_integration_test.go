//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Fedi-Riahi/mar/internal/domains/catalog/domain"
	"github.com/Fedi-Riahi/mar/internal/domains/catalog/ports"
	"github.com/Fedi-Riahi/mar/internal/platform/migrations"
)

func setupCatalogPostgresContainer(t *testing.T) (*gorm.DB, func()) {
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

func newListing(t *testing.T, ownerID string) *domain.Product {
	t.Helper()
	product, err := domain.NewProduct(
		"Olive Wood Bowl",
		"Hand carved in Sfax",
		49.5,
		7,
		"kitchen",
		ownerID,
		[]string{"https://media.test/products/bowl.png"},
	)
	require.NoError(t, err)
	return product
}

func TestRepository_SaveAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	product := newListing(t, uuid.NewString())
	saved, err := repo.Save(ctx, product)
	require.NoError(t, err)
	assert.Equal(t, product.ID, saved.Entity.ID)
	assert.False(t, saved.Metadata.CreatedAt.IsZero())

	fetched, err := repo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Olive Wood Bowl", fetched.Entity.Name)
	assert.Equal(t, []string{"https://media.test/products/bowl.png"}, fetched.Entity.Pictures)
	assert.Equal(t, 7, fetched.Entity.Stock)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_SaveUpserts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	product := newListing(t, uuid.NewString())
	_, err := repo.Save(ctx, product)
	require.NoError(t, err)

	require.NoError(t, product.Reprice(59))
	require.NoError(t, product.Restock(3))
	product.ReplacePictures([]string{"https://media.test/products/bowl-v2.png"})

	updated, err := repo.Save(ctx, product)
	require.NoError(t, err)
	assert.InDelta(t, 59.0, updated.Entity.Price, 1e-9)
	assert.Equal(t, 3, updated.Entity.Stock)
	assert.Equal(t, []string{"https://media.test/products/bowl-v2.png"}, updated.Entity.Pictures)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRepository_ListAndDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	ownerID := uuid.NewString()
	first := newListing(t, ownerID)
	_, err := repo.Save(ctx, first)
	require.NoError(t, err)

	second := newListing(t, ownerID)
	require.NoError(t, second.Rename("Woven Basket"))
	_, err = repo.Save(ctx, second)
	require.NoError(t, err)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	err = repo.Delete(ctx, first.ID)
	require.NoError(t, err)
	_, err = repo.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	err = repo.Delete(ctx, first.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
