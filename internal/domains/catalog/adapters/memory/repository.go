package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Fedi-Riahi/mar/internal/domains/catalog/domain"
	"github.com/Fedi-Riahi/mar/internal/domains/catalog/ports"
	ordersdomain "github.com/Fedi-Riahi/mar/internal/domains/orders/domain"
	"github.com/Fedi-Riahi/mar/internal/shared/projection"
)

var (
	_ ports.Repository = (*Repository)(nil)
	_ ports.Inventory  = (*Repository)(nil)
)

// Repository is an in-memory catalog persistence adapter. The single mutex
// serializes reservations, so concurrent placements cannot oversell.
type Repository struct {
	mu       sync.RWMutex
	products map[string]*entry
}

type entry struct {
	product  domain.Product
	metadata projection.Metadata
}

func NewRepository() *Repository {
	return &Repository{products: map[string]*entry{}}
}

func (r *Repository) Save(_ context.Context, product *domain.Product) (*projection.Projection[*domain.Product], error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	clone := cloneProduct(product)
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	existing, ok := r.products[clone.ID]
	metadata := projection.Metadata{CreatedAt: now, UpdatedAt: now}
	if ok {
		metadata.CreatedAt = existing.metadata.CreatedAt
	}
	r.products[clone.ID] = &entry{product: *clone, metadata: metadata}
	return &projection.Projection[*domain.Product]{Entity: cloneProduct(clone), Metadata: metadata}, nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*projection.Projection[*domain.Product], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	existing, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &projection.Projection[*domain.Product]{Entity: cloneProduct(&existing.product), Metadata: existing.metadata}, nil
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *Repository) List(_ context.Context) ([]*projection.Projection[*domain.Product], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*projection.Projection[*domain.Product], 0, len(r.products))
	for _, existing := range r.products {
		list = append(list, &projection.Projection[*domain.Product]{Entity: cloneProduct(&existing.product), Metadata: existing.metadata})
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Metadata.CreatedAt.After(list[j].Metadata.CreatedAt)
	})
	return list, nil
}

// ReserveAll takes stock for every reservation or none of it. The first
// missing product or short stock aborts the whole batch.
func (r *Repository) ReserveAll(_ context.Context, reservations []domain.Reservation) ([]domain.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshots := make([]domain.Snapshot, 0, len(reservations))
	for _, reservation := range reservations {
		existing, ok := r.products[reservation.ProductID]
		if !ok {
			return nil, ordersdomain.ProductNotFoundError{ProductID: reservation.ProductID}
		}
		if existing.product.Stock < reservation.Quantity {
			return nil, ordersdomain.InsufficientStockError{
				ProductID:   existing.product.ID,
				ProductName: existing.product.Name,
				Requested:   reservation.Quantity,
				Available:   existing.product.Stock,
			}
		}
		snapshots = append(snapshots, domain.Snapshot{
			ProductID: existing.product.ID,
			Name:      existing.product.Name,
			Price:     existing.product.Price,
		})
	}
	for _, reservation := range reservations {
		r.products[reservation.ProductID].product.Stock -= reservation.Quantity
	}
	return snapshots, nil
}

// RestockAll returns previously reserved stock to the catalog. Products
// deleted in the meantime are skipped.
func (r *Repository) RestockAll(_ context.Context, reservations []domain.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reservation := range reservations {
		if existing, ok := r.products[reservation.ProductID]; ok {
			existing.product.Stock += reservation.Quantity
		}
	}
	return nil
}

func cloneProduct(product *domain.Product) *domain.Product {
	clone := *product
	clone.Pictures = append([]string{}, product.Pictures...)
	return &clone
}
