package ports

import (
	"context"

	"github.com/Fedi-Riahi/mar/internal/domains/catalog/domain"
)

// Inventory is the stock reservation surface other contexts draw on.
// ReserveAll grants every reservation or none.
type Inventory interface {
	ReserveAll(ctx context.Context, reservations []domain.Reservation) ([]domain.Snapshot, error)
	RestockAll(ctx context.Context, reservations []domain.Reservation) error
}
