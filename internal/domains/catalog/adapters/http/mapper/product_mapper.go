package mapper

import (
	"time"

	catalogdomain "github.com/Fedi-Riahi/mar/internal/domains/catalog/domain"
	"github.com/Fedi-Riahi/mar/internal/shared/projection"
)

// Product is the transport-layer shape of a catalog listing.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Category    string    `json:"category"`
	Pictures    []string  `json:"pictures"`
	OwnerID     string    `json:"ownerId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FromProjection converts a persisted listing to the transport representation.
func FromProjection(p *projection.Projection[*catalogdomain.Product]) Product {
	if p == nil || p.Entity == nil {
		return Product{}
	}
	product := p.Entity
	return Product{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		Category:    product.Category,
		Pictures:    append([]string{}, product.Pictures...),
		OwnerID:     product.OwnerID,
		CreatedAt:   p.Metadata.CreatedAt,
		UpdatedAt:   p.Metadata.UpdatedAt,
	}
}

// FromProjections converts a listing page to transport shapes.
func FromProjections(list []*projection.Projection[*catalogdomain.Product]) []Product {
	result := make([]Product, 0, len(list))
	for _, p := range list {
		result = append(result, FromProjection(p))
	}
	return result
}
