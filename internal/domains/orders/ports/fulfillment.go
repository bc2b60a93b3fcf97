package ports

import (
	"context"

	"github.com/Fedi-Riahi/mar/internal/domains/orders/domain"
)

// FulfillmentNotifier defines outbound integration for announcing placed
// orders to the fulfillment provider.
type FulfillmentNotifier interface {
	NotifyPlaced(ctx context.Context, order *domain.Order) error
}
