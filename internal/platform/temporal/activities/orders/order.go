package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	ordersdomain "github.com/Fedi-Riahi/mar/internal/domains/orders/domain"
	ordersports "github.com/Fedi-Riahi/mar/internal/domains/orders/ports"
	"github.com/Fedi-Riahi/mar/internal/shared/auth"
)

const (
	// PlaceOrderActivityName reserves stock and persists the pending order.
	PlaceOrderActivityName = "orders.activities.PlaceOrder"
	// NotifyFulfillmentActivityName announces an existing order downstream.
	NotifyFulfillmentActivityName = "orders.activities.NotifyFulfillment"
)

// PlaceOrderInput is the command payload of the placement activity.
type PlaceOrderInput struct {
	Caller auth.Caller
	Cart   []ordersdomain.CartItem
}

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	placeService ordersports.Service
	repo         ordersports.Repository
	notifier     ordersports.FulfillmentNotifier
}

// NewActivities wires the orders collaborators into the Temporal activities bundle.
func NewActivities(placeService ordersports.Service, repo ordersports.Repository, notifier ordersports.FulfillmentNotifier) *Activities {
	return &Activities{
		placeService: placeService,
		repo:         repo,
		notifier:     notifier,
	}
}

// PlaceOrder validates the cart and runs the atomic reserve-and-persist.
func (a *Activities) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*ordersdomain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.placeService == nil {
		logger.Error("order placement activity not initialized", "userId", input.Caller.UserID)
		return nil, errors.New("order placement activity not initialized")
	}
	logger.Info("PlaceOrder activity started", "userId", input.Caller.UserID)
	order, err := a.placeService.Place(ctx, input.Caller, input.Cart)
	if err != nil {
		logger.Error("PlaceOrder activity failed", "userId", input.Caller.UserID, "error", err)
		return nil, encodePlacementError(err)
	}
	logger.Info("PlaceOrder activity completed", "orderId", order.ID)
	return order, nil
}

// NotifyFulfillment loads an order and pushes it to the configured provider.
func (a *Activities) NotifyFulfillment(ctx context.Context, orderID string) error {
	logger := activity.GetLogger(ctx)
	if a == nil {
		logger.Error("fulfillment notify activity not initialized", "orderId", orderID)
		return errors.New("fulfillment notify activity not initialized")
	}
	if a.notifier == nil {
		logger.Info("fulfillment notifier not configured; skipping", "orderId", orderID)
		return nil
	}
	if a.repo == nil {
		logger.Error("order repository not configured for fulfillment notify", "orderId", orderID)
		return errors.New("order repository not configured for fulfillment notify")
	}

	var hb notifyHeartbeat
	if activity.HasHeartbeatDetails(ctx) {
		_ = activity.GetHeartbeatDetails(ctx, &hb)
	}
	if hb.Completed {
		logger.Info("NotifyFulfillment already completed in prior attempt; skipping", "orderId", orderID)
		return nil
	}

	logger.Info("NotifyFulfillment activity started", "orderId", orderID)
	order, err := a.repo.GetByID(ctx, orderID)
	if err != nil {
		logger.Error("NotifyFulfillment failed to load order", "orderId", orderID, "error", err)
		return err
	}
	if err := a.notifier.NotifyPlaced(ctx, order); err != nil {
		logger.Error("NotifyFulfillment failed", "orderId", orderID, "error", err)
		return err
	}
	activity.RecordHeartbeat(ctx, notifyHeartbeat{Completed: true})
	logger.Info("NotifyFulfillment activity completed", "orderId", orderID)
	return nil
}

type notifyHeartbeat struct {
	Completed bool
}

// encodePlacementError converts typed placement failures into application
// errors so the error type and its fields survive the workflow boundary.
func encodePlacementError(err error) error {
	var insufficient ordersdomain.InsufficientStockError
	if errors.As(err, &insufficient) {
		return temporal.NewApplicationError(insufficient.Error(), "InsufficientStockError", insufficient)
	}
	var missing ordersdomain.ProductNotFoundError
	if errors.As(err, &missing) {
		return temporal.NewApplicationError(missing.Error(), "ProductNotFoundError", missing)
	}
	return err
}
