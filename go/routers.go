package marserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route binds an HTTP method and path pattern to a handler.
type Route struct {
	Name        string
	Method      string
	Pattern     string
	HandlerFunc gin.HandlerFunc
}

// Routes is a collection of Route.
type Routes []Route

// ApiHandleFunctions groups the handler sets for every API section.
type ApiHandleFunctions struct {
	ProductAPI ProductAPI
	OrderAPI   OrderAPI
	UserAPI    UserAPI
}

// NewRouter returns a new router with all API routes registered. Middleware
// passed here runs before route handlers, which lets the caller install the
// authentication guard ahead of the protected sections.
func NewRouter(handleFunctions ApiHandleFunctions, middleware ...gin.HandlerFunc) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions, middleware...)
}

// NewRouterWithGinEngine adds the API routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions, middleware ...gin.HandlerFunc) *gin.Engine {
	for _, m := range middleware {
		router.Use(m)
	}
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = defaultHandler
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodPatch:
			router.PATCH(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

func defaultHandler(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{})
}

func getRoutes(handleFunctions ApiHandleFunctions) Routes {
	return Routes{
		{
			"ListProducts",
			http.MethodGet,
			"/v1/products",
			handleFunctions.ProductAPI.ListProducts,
		},
		{
			"GetProductById",
			http.MethodGet,
			"/v1/products/:productId",
			handleFunctions.ProductAPI.GetProductById,
		},
		{
			"CreateProduct",
			http.MethodPost,
			"/v1/products",
			handleFunctions.ProductAPI.CreateProduct,
		},
		{
			"UpdateProduct",
			http.MethodPut,
			"/v1/products/:productId",
			handleFunctions.ProductAPI.UpdateProduct,
		},
		{
			"DeleteProduct",
			http.MethodDelete,
			"/v1/products/:productId",
			handleFunctions.ProductAPI.DeleteProduct,
		},
		{
			"PlaceOrder",
			http.MethodPost,
			"/v1/orders",
			handleFunctions.OrderAPI.PlaceOrder,
		},
		{
			"ListMyOrders",
			http.MethodGet,
			"/v1/orders",
			handleFunctions.OrderAPI.ListMyOrders,
		},
		{
			"ListAllOrders",
			http.MethodGet,
			"/v1/orders/all",
			handleFunctions.OrderAPI.ListAllOrders,
		},
		{
			"GetOrderById",
			http.MethodGet,
			"/v1/orders/:orderId",
			handleFunctions.OrderAPI.GetOrderById,
		},
		{
			"UpdateOrderStatus",
			http.MethodPatch,
			"/v1/orders/:orderId/status",
			handleFunctions.OrderAPI.UpdateOrderStatus,
		},
		{
			"DeleteOrder",
			http.MethodDelete,
			"/v1/orders/:orderId",
			handleFunctions.OrderAPI.DeleteOrder,
		},
		{
			"RegisterUser",
			http.MethodPost,
			"/v1/users/register",
			handleFunctions.UserAPI.RegisterUser,
		},
		{
			"LoginUser",
			http.MethodPost,
			"/v1/users/login",
			handleFunctions.UserAPI.LoginUser,
		},
		{
			"LogoutUser",
			http.MethodPost,
			"/v1/users/logout",
			handleFunctions.UserAPI.LogoutUser,
		},
		{
			"ListUsers",
			http.MethodGet,
			"/v1/users",
			handleFunctions.UserAPI.ListUsers,
		},
		{
			"GetUserById",
			http.MethodGet,
			"/v1/users/:userId",
			handleFunctions.UserAPI.GetUserById,
		},
		{
			"UpdateUserRole",
			http.MethodPatch,
			"/v1/users/:userId/role",
			handleFunctions.UserAPI.UpdateUserRole,
		},
		{
			"DeleteUser",
			http.MethodDelete,
			"/v1/users/:userId",
			handleFunctions.UserAPI.DeleteUser,
		},
	}
}
