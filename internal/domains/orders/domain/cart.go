package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart        = errors.New("cart must contain at least one item")
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
	ErrInvalidProductID = errors.New("product id is required")
)

// CartItem is an unpriced purchase request line.
type CartItem struct {
	ProductID string
	Quantity  int
}

// DuplicateProductError reports a cart listing the same product twice.
type DuplicateProductError struct {
	ProductID string
}

func (e DuplicateProductError) Error() string {
	return fmt.Sprintf("product %s appears more than once in the cart", e.ProductID)
}

// ValidateCart rejects empty carts, non-positive quantities, and duplicate
// product lines before any stock is touched.
func ValidateCart(items []CartItem) error {
	if len(items) == 0 {
		return ErrEmptyCart
	}
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item.ProductID == "" {
			return ErrInvalidProductID
		}
		if item.Quantity <= 0 {
			return ErrInvalidQuantity
		}
		if _, ok := seen[item.ProductID]; ok {
			return DuplicateProductError{ProductID: item.ProductID}
		}
		seen[item.ProductID] = struct{}{}
	}
	return nil
}
