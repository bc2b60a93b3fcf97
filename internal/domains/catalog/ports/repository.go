package ports

import (
	"context"
	"errors"

	"github.com/Fedi-Riahi/mar/internal/domains/catalog/domain"
	"github.com/Fedi-Riahi/mar/internal/shared/projection"
)

var ErrNotFound = errors.New("product not found")

// Repository persists catalog listings.
type Repository interface {
	Save(ctx context.Context, product *domain.Product) (*projection.Projection[*domain.Product], error)
	GetByID(ctx context.Context, id string) (*projection.Projection[*domain.Product], error)
	Delete(ctx context.Context, id string) error
	// List returns listings newest first.
	List(ctx context.Context) ([]*projection.Projection[*domain.Product], error)
}
