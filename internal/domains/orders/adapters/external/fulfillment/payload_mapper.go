package fulfillment

import (
	fulfillmentclient "github.com/Fedi-Riahi/mar/internal/clients/http/fulfillment"
	"github.com/Fedi-Riahi/mar/internal/domains/orders/domain"
)

// ToPayload converts an order aggregate to the fulfillment wire shape.
func ToPayload(order *domain.Order) fulfillmentclient.OrderPayload {
	if order == nil {
		return fulfillmentclient.OrderPayload{}
	}
	lines := make([]fulfillmentclient.OrderLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, fulfillmentclient.OrderLine{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}
	return fulfillmentclient.OrderPayload{
		Reference:  order.ID,
		UserID:     order.UserID,
		TotalPrice: order.TotalPrice,
		Lines:      lines,
	}
}
