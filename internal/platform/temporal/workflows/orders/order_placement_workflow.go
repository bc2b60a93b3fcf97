package orders

import (
	"go.temporal.io/sdk/workflow"

	ordersdomain "github.com/Fedi-Riahi/mar/internal/domains/orders/domain"
	orderactivities "github.com/Fedi-Riahi/mar/internal/platform/temporal/activities/orders"
	"github.com/Fedi-Riahi/mar/internal/platform/temporal/sequences"
	"github.com/Fedi-Riahi/mar/internal/shared/auth"
)

const (
	// OrderPlacementWorkflowName is the public identifier for registering the workflow.
	OrderPlacementWorkflowName = "orders.workflows.Placement"
	// OrderPlacementTaskQueue is the queue consumed by the worker processing order workflows.
	OrderPlacementTaskQueue = "ORDER_PLACEMENT"
)

// OrderPlacementWorkflowInput captures the payload required to place an order.
type OrderPlacementWorkflowInput struct {
	Caller  auth.Caller
	Cart    []ordersdomain.CartItem
	TraceID string
}

// OrderPlacementWorkflow orchestrates the activities needed to place an order
// and announce it downstream.
func OrderPlacementWorkflow(ctx workflow.Context, input OrderPlacementWorkflowInput) (*ordersdomain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("OrderPlacementWorkflow started", withTraceID(input.TraceID, "userId", input.Caller.UserID)...)
	order, err := sequences.RunOrderPlacementSequence(ctx, orderactivities.PlaceOrderInput{Caller: input.Caller, Cart: input.Cart})
	if err != nil {
		logger.Error("OrderPlacementWorkflow failed", withTraceID(input.TraceID, "userId", input.Caller.UserID, "error", err)...)
		return nil, err
	}
	if order != nil {
		logger.Info("OrderPlacementWorkflow completed", withTraceID(input.TraceID, "orderId", order.ID)...)
	} else {
		logger.Info("OrderPlacementWorkflow completed", withTraceID(input.TraceID)...)
	}
	return order, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
