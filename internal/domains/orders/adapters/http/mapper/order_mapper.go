package mapper

import (
	"time"

	ordersdomain "github.com/Fedi-Riahi/mar/internal/domains/orders/domain"
)

// CartItem is the transport shape of one requested purchase line.
type CartItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// OrderItem is the transport shape of one priced order line.
type OrderItem struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	UnitPrice   float64 `json:"unitPrice"`
	Quantity    int     `json:"quantity"`
}

// Order is the transport shape of an order aggregate.
type Order struct {
	ID         string      `json:"id"`
	UserID     string      `json:"userId"`
	Status     string      `json:"status"`
	TotalPrice float64     `json:"totalPrice"`
	Items      []OrderItem `json:"items"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// ToDomainCart converts transport cart lines into domain cart items.
func ToDomainCart(items []CartItem) []ordersdomain.CartItem {
	cart := make([]ordersdomain.CartItem, 0, len(items))
	for _, item := range items {
		cart = append(cart, ordersdomain.CartItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return cart
}

// FromDomainOrder converts a domain order to the transport representation.
func FromDomainOrder(order *ordersdomain.Order) Order {
	if order == nil {
		return Order{}
	}
	items := make([]OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItem{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}
	return Order{
		ID:         order.ID,
		UserID:     order.UserID,
		Status:     string(order.Status),
		TotalPrice: order.TotalPrice,
		Items:      items,
		CreatedAt:  order.CreatedAt,
	}
}

// FromDomainOrders converts a list of orders to transport shapes.
func FromDomainOrders(orders []*ordersdomain.Order) []Order {
	result := make([]Order, 0, len(orders))
	for _, order := range orders {
		result = append(result, FromDomainOrder(order))
	}
	return result
}
