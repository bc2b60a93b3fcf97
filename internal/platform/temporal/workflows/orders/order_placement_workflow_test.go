package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"

	catalogmemory "github.com/Fedi-Riahi/mar/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/Fedi-Riahi/mar/internal/domains/catalog/domain"
	ordersmemory "github.com/Fedi-Riahi/mar/internal/domains/orders/adapters/memory"
	ordersapp "github.com/Fedi-Riahi/mar/internal/domains/orders/application"
	ordersdomain "github.com/Fedi-Riahi/mar/internal/domains/orders/domain"
	orderactivities "github.com/Fedi-Riahi/mar/internal/platform/temporal/activities/orders"
	"github.com/Fedi-Riahi/mar/internal/shared/auth"
)

var workflowBuyer = auth.Caller{UserID: "user-1", Email: "buyer@example.com", Role: auth.RoleUser}

// newPlacementTestEnv registers the workflow and activities under the same
// names the worker uses, so starting by name resolves exactly as in production.
func newPlacementTestEnv(t *testing.T, stock int) (*testsuite.TestWorkflowEnvironment, *catalogmemory.Repository) {
	t.Helper()

	catalogRepo := catalogmemory.NewRepository()
	product := &catalogdomain.Product{
		ID:       "prod-1",
		Name:     "Olive Wood Bowl",
		Price:    49.5,
		Stock:    stock,
		Category: "kitchen",
	}
	_, err := catalogRepo.Save(context.Background(), product)
	require.NoError(t, err)

	orderRepo := ordersmemory.NewRepository(catalogRepo)
	acts := orderactivities.NewActivities(ordersapp.NewService(orderRepo), orderRepo, nil)

	suite := &testsuite.WorkflowTestSuite{}
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterWorkflowWithOptions(OrderPlacementWorkflow, workflow.RegisterOptions{Name: OrderPlacementWorkflowName})
	env.RegisterActivityWithOptions(acts.PlaceOrder, activity.RegisterOptions{Name: orderactivities.PlaceOrderActivityName})
	env.RegisterActivityWithOptions(acts.NotifyFulfillment, activity.RegisterOptions{Name: orderactivities.NotifyFulfillmentActivityName})
	return env, catalogRepo
}

func TestOrderPlacementWorkflow_StartedByName(t *testing.T) {
	env, catalogRepo := newPlacementTestEnv(t, 5)

	env.ExecuteWorkflow(OrderPlacementWorkflowName, OrderPlacementWorkflowInput{
		Caller: workflowBuyer,
		Cart:   []ordersdomain.CartItem{{ProductID: "prod-1", Quantity: 2}},
	})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var order ordersdomain.Order
	require.NoError(t, env.GetWorkflowResult(&order))
	assert.Equal(t, workflowBuyer.UserID, order.UserID)
	assert.Equal(t, ordersdomain.StatusPending, order.Status)
	assert.InDelta(t, 99.0, order.TotalPrice, 1e-9)

	remaining, err := catalogRepo.GetByID(context.Background(), "prod-1")
	require.NoError(t, err)
	assert.Equal(t, 3, remaining.Entity.Stock)
}

func TestOrderPlacementWorkflow_InsufficientStockKeepsType(t *testing.T) {
	env, catalogRepo := newPlacementTestEnv(t, 1)

	env.ExecuteWorkflow(OrderPlacementWorkflowName, OrderPlacementWorkflowInput{
		Caller: workflowBuyer,
		Cart:   []ordersdomain.CartItem{{ProductID: "prod-1", Quantity: 3}},
	})

	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)

	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "InsufficientStockError", appErr.Type())

	var insufficient ordersdomain.InsufficientStockError
	require.NoError(t, appErr.Details(&insufficient))
	assert.Equal(t, "prod-1", insufficient.ProductID)
	assert.Equal(t, 3, insufficient.Requested)
	assert.Equal(t, 1, insufficient.Available)

	remaining, repoErr := catalogRepo.GetByID(context.Background(), "prod-1")
	require.NoError(t, repoErr)
	assert.Equal(t, 1, remaining.Entity.Stock)
}
