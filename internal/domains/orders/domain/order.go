package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status enumerates order progression.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

var (
	ErrInvalidUserID = errors.New("order user id is required")
	ErrNoItems       = errors.New("order must contain at least one item")
	ErrInvalidStatus = errors.New("order status is invalid")
	ErrNotPending    = errors.New("only pending orders can be deleted")
)

// OrderItem is one purchased line. UnitPrice is the catalog price captured at
// placement time and is never recomputed afterwards.
type OrderItem struct {
	ID          string
	ProductID   string
	ProductName string
	UnitPrice   float64
	Quantity    int
}

// Subtotal is the line contribution to the order total.
func (i OrderItem) Subtotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// Order models the purchase aggregate.
type Order struct {
	ID         string
	UserID     string
	Status     Status
	TotalPrice float64
	Items      []OrderItem
	CreatedAt  time.Time
}

// NewOrder constructs a pending order from priced line items and derives the
// total from them.
func NewOrder(userID string, items []OrderItem) (*Order, error) {
	order := &Order{
		ID:     uuid.NewString(),
		UserID: userID,
		Status: StatusPending,
		Items:  items,
	}
	order.TotalPrice = order.ComputeTotal()
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// ComputeTotal sums the line subtotals.
func (o *Order) ComputeTotal() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.Subtotal()
	}
	return total
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if o.UserID == "" {
		return ErrInvalidUserID
	}
	if len(o.Items) == 0 {
		return ErrNoItems
	}
	for _, item := range o.Items {
		if item.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	if !ValidStatus(o.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// UpdateStatus applies a status transition after checking the policy.
func (o *Order) UpdateStatus(status Status) error {
	if !CanTransition(o.Status, status) {
		return ErrInvalidStatus
	}
	o.Status = status
	return nil
}

// CanTransition is the single transition policy. Any known status may follow
// any other, which lets administrators correct mistakes freely.
func CanTransition(_, to Status) bool {
	return ValidStatus(to)
}

// Deletable reports whether the order may still be removed. Completed and
// cancelled orders are kept for the record.
func (o *Order) Deletable() error {
	if o.Status != StatusPending {
		return ErrNotPending
	}
	return nil
}

// ValidStatus reports whether the status is one of the known order states.
func ValidStatus(status Status) bool {
	switch status {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}
