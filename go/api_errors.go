package marserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Fedi-Riahi/mar/internal/shared/auth"
	apierrors "github.com/Fedi-Riahi/mar/internal/shared/errors"
)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	apierrors.Respond(c, problem)
}

// respondError preserves status-first call sites while returning RFC 7807 responses.
func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		return
	}
	var problem apierrors.ProblemDetail
	switch status {
	case http.StatusBadRequest:
		problem = apierrors.ErrBadRequest.WithDetail(err.Error())
	case http.StatusNotFound:
		problem = apierrors.ErrNotFound.WithDetail(err.Error())
	case http.StatusUnauthorized:
		problem = apierrors.ErrUnauthorized.WithDetail(err.Error())
	case http.StatusForbidden:
		problem = apierrors.ErrForbidden.WithDetail(err.Error())
	case http.StatusConflict:
		problem = apierrors.ErrConflict.WithDetail(err.Error())
	default:
		problem = apierrors.ErrInternal.WithDetail(err.Error())
	}
	respondProblem(c, problem)
}

// respondAuthError handles the capability failures every section shares.
// It reports whether the error was one of them.
func respondAuthError(c *gin.Context, err error) bool {
	if errors.Is(err, auth.ErrUnauthenticated) {
		respondProblem(c, apierrors.ErrUnauthorized.WithDetail(err.Error()))
		return true
	}
	if errors.Is(err, auth.ErrForbidden) {
		respondProblem(c, apierrors.ErrForbidden.WithDetail(err.Error()))
		return true
	}
	return false
}
