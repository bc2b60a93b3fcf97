package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	catalogdomain "github.com/Fedi-Riahi/mar/internal/domains/catalog/domain"
	catalogports "github.com/Fedi-Riahi/mar/internal/domains/catalog/ports"
	"github.com/Fedi-Riahi/mar/internal/domains/orders/domain"
	"github.com/Fedi-Riahi/mar/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter. Stock moves through
// the catalog inventory, whose batch operations are atomic, so the reserve
// step either fully succeeds or leaves the catalog untouched.
type Repository struct {
	mu        sync.RWMutex
	orders    map[string]*domain.Order
	inventory catalogports.Inventory
}

func NewRepository(inventory catalogports.Inventory) *Repository {
	return &Repository{orders: map[string]*domain.Order{}, inventory: inventory}
}

func (r *Repository) Place(ctx context.Context, userID string, cart []domain.CartItem) (*domain.Order, error) {
	if r.inventory == nil {
		return nil, errors.New("order repository inventory not configured")
	}
	reservations := toReservations(cart)
	snapshots, err := r.inventory.ReserveAll(ctx, reservations)
	if err != nil {
		return nil, err
	}
	items := make([]domain.OrderItem, 0, len(cart))
	for i, line := range cart {
		items = append(items, domain.OrderItem{
			ID:          uuid.NewString(),
			ProductID:   snapshots[i].ProductID,
			ProductName: snapshots[i].Name,
			UnitPrice:   snapshots[i].Price,
			Quantity:    line.Quantity,
		})
	}
	order, err := domain.NewOrder(userID, items)
	if err != nil {
		_ = r.inventory.RestockAll(ctx, reservations)
		return nil, err
	}
	order.CreatedAt = time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := cloneOrder(order)
	r.orders[clone.ID] = clone
	return cloneOrder(clone), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (r *Repository) ListByUser(_ context.Context, userID string) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0)
	for _, order := range r.orders {
		if order.UserID == userID {
			list = append(list, cloneOrder(order))
		}
	}
	sortByCreatedAt(list)
	return list, nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		list = append(list, cloneOrder(order))
	}
	sortByCreatedAt(list)
	return list, nil
}

func (r *Repository) UpdateStatus(_ context.Context, id string, status domain.Status) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if err := order.UpdateStatus(status); err != nil {
		return nil, err
	}
	return cloneOrder(order), nil
}

func (r *Repository) DeleteRestocking(ctx context.Context, id string) error {
	r.mu.Lock()
	order, ok := r.orders[id]
	if !ok {
		r.mu.Unlock()
		return ports.ErrNotFound
	}
	if err := order.Deletable(); err != nil {
		r.mu.Unlock()
		return err
	}
	reservations := make([]catalogdomain.Reservation, 0, len(order.Items))
	for _, item := range order.Items {
		reservations = append(reservations, catalogdomain.Reservation{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	delete(r.orders, id)
	r.mu.Unlock()
	if r.inventory != nil {
		return r.inventory.RestockAll(ctx, reservations)
	}
	return nil
}

func toReservations(cart []domain.CartItem) []catalogdomain.Reservation {
	reservations := make([]catalogdomain.Reservation, 0, len(cart))
	for _, line := range cart {
		reservations = append(reservations, catalogdomain.Reservation{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	return reservations
}

func sortByCreatedAt(list []*domain.Order) {
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone := *order
	clone.Items = append([]domain.OrderItem{}, order.Items...)
	return &clone
}
