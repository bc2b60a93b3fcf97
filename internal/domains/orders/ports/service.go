package ports

import (
	"context"

	"github.com/Fedi-Riahi/mar/internal/domains/orders/domain"
	"github.com/Fedi-Riahi/mar/internal/shared/auth"
)

// Service exposes order use cases to adapters.
type Service interface {
	Place(ctx context.Context, caller auth.Caller, cart []domain.CartItem) (*domain.Order, error)
	GetByID(ctx context.Context, caller auth.Caller, id string) (*domain.Order, error)
	ListMine(ctx context.Context, caller auth.Caller) ([]*domain.Order, error)
	ListAll(ctx context.Context, caller auth.Caller) ([]*domain.Order, error)
	SetStatus(ctx context.Context, caller auth.Caller, id string, status domain.Status) (*domain.Order, error)
	Delete(ctx context.Context, caller auth.Caller, id string) error
}
