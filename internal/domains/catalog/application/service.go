package application

import (
	"context"
	"fmt"
	"path"

	"github.com/google/uuid"

	"github.com/Fedi-Riahi/mar/internal/domains/catalog/domain"
	"github.com/Fedi-Riahi/mar/internal/domains/catalog/ports"
	"github.com/Fedi-Riahi/mar/internal/shared/auth"
	"github.com/Fedi-Riahi/mar/internal/shared/projection"
)

// Service orchestrates the catalog bounded context use cases.
type Service struct {
	repo  ports.Repository
	media ports.MediaStore
}

type Option func(*Service)

// WithMediaStore enables picture uploads for listings.
func WithMediaStore(store ports.MediaStore) Option {
	return func(s *Service) {
		s.media = store
	}
}

// NewService wires the catalog service with its dependencies.
func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// List returns all listings, newest first.
func (s *Service) List(ctx context.Context) ([]*projection.Projection[*domain.Product], error) {
	result, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// GetByID loads a single listing.
func (s *Service) GetByID(ctx context.Context, id string) (*projection.Projection[*domain.Product], error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// Create publishes a new listing. Administrators only.
func (s *Service) Create(ctx context.Context, caller auth.Caller, input ports.CreateProductInput) (*projection.Projection[*domain.Product], error) {
	if err := auth.RequireAdmin(caller); err != nil {
		return nil, err
	}
	pictures, err := s.storeImages(ctx, input.Images)
	if err != nil {
		return nil, err
	}
	product, err := domain.NewProduct(input.Name, input.Description, input.Price, input.Stock, input.Category, caller.UserID, pictures)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// Update applies a partial mutation to an existing listing. Administrators only.
func (s *Service) Update(ctx context.Context, caller auth.Caller, id string, input ports.UpdateProductInput) (*projection.Projection[*domain.Product], error) {
	if err := auth.RequireAdmin(caller); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	product := existing.Entity
	if input.Name != nil {
		if err := product.Rename(*input.Name); err != nil {
			return nil, mapError(err)
		}
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		if err := product.Reprice(*input.Price); err != nil {
			return nil, mapError(err)
		}
	}
	if input.Stock != nil {
		if err := product.Restock(*input.Stock); err != nil {
			return nil, mapError(err)
		}
	}
	if input.Category != nil {
		product.Category = *input.Category
		if err := product.Validate(); err != nil {
			return nil, mapError(err)
		}
	}
	if len(input.Images) > 0 {
		pictures, err := s.storeImages(ctx, input.Images)
		if err != nil {
			return nil, err
		}
		product.ReplacePictures(pictures)
	}
	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// Delete removes a listing. Administrators only.
func (s *Service) Delete(ctx context.Context, caller auth.Caller, id string) error {
	if err := auth.RequireAdmin(caller); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapError(err)
	}
	return nil
}

func (s *Service) storeImages(ctx context.Context, images []ports.ImageUpload) ([]string, error) {
	if len(images) == 0 {
		return nil, nil
	}
	if s.media == nil {
		return nil, fmt.Errorf("media store not configured")
	}
	urls := make([]string, 0, len(images))
	for _, image := range images {
		objectName := fmt.Sprintf("products/%s%s", uuid.NewString(), path.Ext(image.Filename))
		url, err := s.media.Upload(ctx, objectName, image.Reader, image.Size, image.ContentType)
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", image.Filename, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

var _ ports.Service = (*Service)(nil)
