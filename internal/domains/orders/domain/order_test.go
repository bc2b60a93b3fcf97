package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pricedItems() []OrderItem {
	return []OrderItem{
		{ID: "line-1", ProductID: "prod-1", ProductName: "Olive Wood Bowl", UnitPrice: 49.5, Quantity: 2},
		{ID: "line-2", ProductID: "prod-2", ProductName: "Woven Basket", UnitPrice: 30, Quantity: 1},
	}
}

func TestNewOrder_DerivesTotalFromItems(t *testing.T) {
	order, err := NewOrder("user-1", pricedItems())
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, StatusPending, order.Status)
	assert.InDelta(t, 129.0, order.TotalPrice, 1e-9)
	assert.InDelta(t, order.ComputeTotal(), order.TotalPrice, 1e-9)
}

func TestNewOrder_RequiresUserAndItems(t *testing.T) {
	_, err := NewOrder("", pricedItems())
	require.ErrorIs(t, err, ErrInvalidUserID)

	_, err = NewOrder("user-1", nil)
	require.ErrorIs(t, err, ErrNoItems)

	_, err = NewOrder("user-1", []OrderItem{{ProductID: "prod-1", Quantity: 0}})
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestUpdateStatus_AllowsAnyKnownStatus(t *testing.T) {
	order, err := NewOrder("user-1", pricedItems())
	require.NoError(t, err)

	require.NoError(t, order.UpdateStatus(StatusCompleted))
	assert.Equal(t, StatusCompleted, order.Status)

	// Administrators may move an order back to correct a mistake.
	require.NoError(t, order.UpdateStatus(StatusPending))
	assert.Equal(t, StatusPending, order.Status)

	require.NoError(t, order.UpdateStatus(StatusCancelled))
	assert.Equal(t, StatusCancelled, order.Status)
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	order, err := NewOrder("user-1", pricedItems())
	require.NoError(t, err)

	err = order.UpdateStatus(Status("SHIPPED"))
	require.ErrorIs(t, err, ErrInvalidStatus)
	assert.Equal(t, StatusPending, order.Status)
}

func TestDeletable_OnlyWhilePending(t *testing.T) {
	order, err := NewOrder("user-1", pricedItems())
	require.NoError(t, err)
	require.NoError(t, order.Deletable())

	require.NoError(t, order.UpdateStatus(StatusCompleted))
	require.ErrorIs(t, order.Deletable(), ErrNotPending)

	require.NoError(t, order.UpdateStatus(StatusCancelled))
	require.ErrorIs(t, order.Deletable(), ErrNotPending)
}

func TestValidateCart(t *testing.T) {
	require.ErrorIs(t, ValidateCart(nil), ErrEmptyCart)

	err := ValidateCart([]CartItem{{ProductID: "", Quantity: 1}})
	require.ErrorIs(t, err, ErrInvalidProductID)

	err = ValidateCart([]CartItem{{ProductID: "prod-1", Quantity: 0}})
	require.ErrorIs(t, err, ErrInvalidQuantity)

	err = ValidateCart([]CartItem{
		{ProductID: "prod-1", Quantity: 1},
		{ProductID: "prod-1", Quantity: 2},
	})
	var duplicate DuplicateProductError
	require.ErrorAs(t, err, &duplicate)
	assert.Equal(t, "prod-1", duplicate.ProductID)

	require.NoError(t, ValidateCart([]CartItem{
		{ProductID: "prod-1", Quantity: 1},
		{ProductID: "prod-2", Quantity: 3},
	}))
}
