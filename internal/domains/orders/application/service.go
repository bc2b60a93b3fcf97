package application

import (
	"context"

	"github.com/Fedi-Riahi/mar/internal/domains/orders/domain"
	"github.com/Fedi-Riahi/mar/internal/domains/orders/ports"
	"github.com/Fedi-Riahi/mar/internal/shared/auth"
)

// Service orchestrates the orders bounded context use cases.
type Service struct {
	repo ports.Repository
}

// NewService wires the orders service with its dependencies.
func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// Place validates the cart and delegates the atomic reserve-and-persist to
// the repository. Any authenticated caller may place an order.
func (s *Service) Place(ctx context.Context, caller auth.Caller, cart []domain.CartItem) (*domain.Order, error) {
	if err := auth.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	if err := domain.ValidateCart(cart); err != nil {
		return nil, mapError(err)
	}
	order, err := s.repo.Place(ctx, caller.UserID, cart)
	if err != nil {
		return nil, mapError(err)
	}
	return order, nil
}

// GetByID loads a single order. Owners see their own orders; admins see all.
func (s *Service) GetByID(ctx context.Context, caller auth.Caller, id string) (*domain.Order, error) {
	if err := auth.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	if order.UserID != caller.UserID && !caller.IsAdmin() {
		return nil, auth.ErrForbidden
	}
	return order, nil
}

// ListMine returns the caller's own orders.
func (s *Service) ListMine(ctx context.Context, caller auth.Caller) ([]*domain.Order, error) {
	if err := auth.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	orders, err := s.repo.ListByUser(ctx, caller.UserID)
	if err != nil {
		return nil, mapError(err)
	}
	return orders, nil
}

// ListAll returns every order for administrative review.
func (s *Service) ListAll(ctx context.Context, caller auth.Caller) ([]*domain.Order, error) {
	if err := auth.RequireAdmin(caller); err != nil {
		return nil, err
	}
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return orders, nil
}

// SetStatus applies an administrative status transition.
func (s *Service) SetStatus(ctx context.Context, caller auth.Caller, id string, status domain.Status) (*domain.Order, error) {
	if err := auth.RequireAdmin(caller); err != nil {
		return nil, err
	}
	if !domain.ValidStatus(status) {
		return nil, mapError(domain.ErrInvalidStatus)
	}
	order, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, mapError(err)
	}
	return order, nil
}

// Delete removes a pending order and returns its stock to the catalog.
func (s *Service) Delete(ctx context.Context, caller auth.Caller, id string) error {
	if err := auth.RequireAdmin(caller); err != nil {
		return err
	}
	if err := s.repo.DeleteRestocking(ctx, id); err != nil {
		return mapError(err)
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
