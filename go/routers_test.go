package marserver_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	marserver "github.com/Fedi-Riahi/mar/go"
	catalogmemory "github.com/Fedi-Riahi/mar/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Fedi-Riahi/mar/internal/domains/catalog/application"
)

// Middleware handed to the router constructor must run for every registered
// route; gin snapshots each route's handler chain at registration time, so
// installing middleware after registration would silently skip it.
func TestNewRouterWithGinEngine_MiddlewareRunsForRegisteredRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var order []string
	first := func(c *gin.Context) {
		order = append(order, "first")
		c.Header("X-Trace", "seen")
		c.Next()
	}
	second := func(c *gin.Context) {
		order = append(order, "second")
		c.Next()
	}

	handlers := marserver.ApiHandleFunctions{
		ProductAPI: marserver.NewProductAPI(catalogapp.NewService(catalogmemory.NewRepository())),
	}
	router := marserver.NewRouterWithGinEngine(gin.New(), handlers, first, second)

	req, err := http.NewRequest(http.MethodGet, "/v1/products", nil)
	require.NoError(t, err)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	// The route handler responded, so the middleware ran ahead of it rather
	// than being dropped.
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "seen", recorder.Header().Get("X-Trace"))
	assert.Equal(t, []string{"first", "second"}, order)
}
