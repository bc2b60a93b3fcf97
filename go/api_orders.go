package marserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	orderhttpmapper "github.com/Fedi-Riahi/mar/internal/domains/orders/adapters/http/mapper"
	ordersapp "github.com/Fedi-Riahi/mar/internal/domains/orders/application"
	ordersdomain "github.com/Fedi-Riahi/mar/internal/domains/orders/domain"
	ordersports "github.com/Fedi-Riahi/mar/internal/domains/orders/ports"
	"github.com/Fedi-Riahi/mar/internal/shared/auth"
	apierrors "github.com/Fedi-Riahi/mar/internal/shared/errors"
)

// OrderAPI wires HTTP transport with the orders bounded context service and workflows.
type OrderAPI struct {
	service   ordersports.Service
	workflows ordersports.WorkflowOrchestrator
}

// NewOrderAPI creates an OrderAPI backed by the provided service.
func NewOrderAPI(service ordersports.Service, workflows ordersports.WorkflowOrchestrator) OrderAPI {
	return OrderAPI{service: service, workflows: workflows}
}

// PlaceOrderRequest is the checkout payload.
type PlaceOrderRequest struct {
	Items []orderhttpmapper.CartItem `json:"items"`
}

// UpdateOrderStatusRequest carries the target lifecycle status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// Post /v1/orders
// Place an order for the items in the cart
func (api *OrderAPI) PlaceOrder(c *gin.Context) {
	var payload PlaceOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	cart := orderhttpmapper.ToDomainCart(payload.Items)
	order, err := api.placeOrder(c.Request.Context(), callerFrom(c), cart)
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, orderhttpmapper.FromDomainOrder(order))
}

func (api *OrderAPI) placeOrder(ctx context.Context, caller auth.Caller, cart []ordersdomain.CartItem) (*ordersdomain.Order, error) {
	if api.workflows != nil {
		return api.workflows.PlaceOrder(ctx, caller, cart)
	}
	return api.service.Place(ctx, caller, cart)
}

// Get /v1/orders
// Lists the caller's own orders, newest first
func (api *OrderAPI) ListMyOrders(c *gin.Context) {
	result, err := api.service.ListMine(c.Request.Context(), callerFrom(c))
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrders(result))
}

// Get /v1/orders/all
// Lists every order across accounts
func (api *OrderAPI) ListAllOrders(c *gin.Context) {
	result, err := api.service.ListAll(c.Request.Context(), callerFrom(c))
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrders(result))
}

// Get /v1/orders/:orderId
// Find an order by ID
func (api *OrderAPI) GetOrderById(c *gin.Context) {
	id := c.Param("orderId")
	order, err := api.service.GetByID(c.Request.Context(), callerFrom(c), id)
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrder(order))
}

// Patch /v1/orders/:orderId/status
// Move an order through its lifecycle
func (api *OrderAPI) UpdateOrderStatus(c *gin.Context) {
	id := c.Param("orderId")
	var payload UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	updated, err := api.service.SetStatus(c.Request.Context(), callerFrom(c), id, ordersdomain.Status(payload.Status))
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrder(updated))
}

// Delete /v1/orders/:orderId
// Cancel a pending order and return its items to stock
func (api *OrderAPI) DeleteOrder(c *gin.Context) {
	id := c.Param("orderId")
	if err := api.service.Delete(c.Request.Context(), callerFrom(c), id); err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func respondOrderServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	if respondAuthError(c, err) {
		return
	}
	var productMissing ordersdomain.ProductNotFoundError
	var insufficient ordersdomain.InsufficientStockError
	switch {
	case errors.Is(err, ordersports.ErrNotFound):
		respondProblem(c, apierrors.ErrNotFound.WithDetail(err.Error()))
	case errors.As(err, &productMissing):
		respondProblem(c, apierrors.ErrNotFound.WithDetail(err.Error()))
	case errors.As(err, &insufficient):
		respondProblem(c, apierrors.ErrValidation.WithDetail(err.Error()).
			WithExtension("productId", insufficient.ProductID).
			WithExtension("requested", insufficient.Requested).
			WithExtension("available", insufficient.Available))
	case errors.Is(err, ordersdomain.ErrNotPending):
		respondProblem(c, apierrors.ErrValidation.WithDetail(err.Error()))
	case errors.Is(err, ordersapp.ErrInvalidInput):
		respondProblem(c, apierrors.ErrValidation.WithDetail(err.Error()))
	default:
		respondProblem(c, apierrors.ErrInternal.WithDetail(err.Error()))
	}
}
