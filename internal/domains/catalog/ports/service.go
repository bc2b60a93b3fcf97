package ports

import (
	"context"
	"io"

	"github.com/Fedi-Riahi/mar/internal/domains/catalog/domain"
	"github.com/Fedi-Riahi/mar/internal/shared/auth"
	"github.com/Fedi-Riahi/mar/internal/shared/projection"
)

// ImageUpload carries one picture to be stored alongside a listing.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// CreateProductInput is the command for publishing a new listing.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Stock       int
	Category    string
	Images      []ImageUpload
}

// UpdateProductInput carries a partial mutation; nil fields stay untouched.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
	Category    *string
	Images      []ImageUpload
}

// Service exposes catalog use cases to adapters.
type Service interface {
	List(ctx context.Context) ([]*projection.Projection[*domain.Product], error)
	GetByID(ctx context.Context, id string) (*projection.Projection[*domain.Product], error)
	Create(ctx context.Context, caller auth.Caller, input CreateProductInput) (*projection.Projection[*domain.Product], error)
	Update(ctx context.Context, caller auth.Caller, id string, input UpdateProductInput) (*projection.Projection[*domain.Product], error)
	Delete(ctx context.Context, caller auth.Caller, id string) error
}
