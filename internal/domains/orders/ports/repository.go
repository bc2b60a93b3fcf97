package ports

import (
	"context"
	"errors"

	"github.com/Fedi-Riahi/mar/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// Repository persists orders and owns the stock reservation boundary.
type Repository interface {
	// Place snapshots catalog prices, decrements stock, and persists the
	// resulting pending order as one atomic effect. Implementations must
	// serialize the stock check and decrement per product so concurrent
	// placements never oversell.
	Place(ctx context.Context, userID string, cart []domain.CartItem) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error)
	// DeleteRestocking returns every line quantity to its product and removes
	// the order, atomically. Fails with domain.ErrNotPending unless the order
	// is still pending.
	DeleteRestocking(ctx context.Context, id string) error
}
