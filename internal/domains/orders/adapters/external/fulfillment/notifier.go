package fulfillment

import (
	"context"
	"errors"

	fulfillmentclient "github.com/Fedi-Riahi/mar/internal/clients/http/fulfillment"
	"github.com/Fedi-Riahi/mar/internal/domains/orders/domain"
	"github.com/Fedi-Riahi/mar/internal/domains/orders/ports"
)

// Notifier implements the outbound fulfillment port.
type Notifier struct {
	client *fulfillmentclient.Client
}

// NewNotifier wires a fulfillment HTTP client into a notifier adapter.
func NewNotifier(client *fulfillmentclient.Client) *Notifier {
	return &Notifier{client: client}
}

// NotifyPlaced pushes the order aggregate to the fulfillment API.
func (n *Notifier) NotifyPlaced(ctx context.Context, order *domain.Order) error {
	if n == nil || n.client == nil {
		return errors.New("fulfillment notifier not configured")
	}
	if order == nil {
		return errors.New("order is nil")
	}
	return n.client.AnnounceOrder(ctx, ToPayload(order))
}

var _ ports.FulfillmentNotifier = (*Notifier)(nil)
