package marserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	userhttpmapper "github.com/Fedi-Riahi/mar/internal/domains/users/adapters/http/mapper"
	userapp "github.com/Fedi-Riahi/mar/internal/domains/users/application"
	userports "github.com/Fedi-Riahi/mar/internal/domains/users/ports"
	"github.com/Fedi-Riahi/mar/internal/shared/auth"
	apierrors "github.com/Fedi-Riahi/mar/internal/shared/errors"
)

// UserAPI wires HTTP transport with the users bounded context service.
type UserAPI struct {
	service userports.Service
}

// NewUserAPI creates a UserAPI backed by the provided service.
func NewUserAPI(service userports.Service) UserAPI {
	return UserAPI{service: service}
}

// RegisterRequest is the account creation payload. A non-empty businessName
// files the registration as an artisan application.
type RegisterRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Phone        string `json:"phone"`
	BusinessName string `json:"businessName"`
	Bio          string `json:"bio"`
	Location     string `json:"location"`
}

// LoginRequest carries the credentials for a login attempt.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse returns the bearer token with the authenticated account.
type LoginResponse struct {
	Token string              `json:"token"`
	User  userhttpmapper.User `json:"user"`
}

// UpdateUserRoleRequest carries the role an admin grants to an account.
type UpdateUserRoleRequest struct {
	Role string `json:"role"`
}

// Post /v1/users/register
// Create an account
func (api *UserAPI) RegisterUser(c *gin.Context) {
	var payload RegisterRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	created, err := api.service.Register(c.Request.Context(), userports.RegisterInput{
		Name:         payload.Name,
		Email:        payload.Email,
		Password:     payload.Password,
		Phone:        payload.Phone,
		BusinessName: payload.BusinessName,
		Bio:          payload.Bio,
		Location:     payload.Location,
	})
	if err != nil {
		respondUserServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, userhttpmapper.FromDomainUser(created))
}

// Post /v1/users/login
// Log into the system
func (api *UserAPI) LoginUser(c *gin.Context) {
	var payload LoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	result, err := api.service.Login(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		respondUserServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, LoginResponse{
		Token: result.Token,
		User:  userhttpmapper.FromDomainUser(result.User),
	})
}

// Post /v1/users/logout
// Drop the caller's server-side session
func (api *UserAPI) LogoutUser(c *gin.Context) {
	api.service.Logout(c.Request.Context(), callerFrom(c))
	c.JSON(http.StatusOK, gin.H{"message": "logout successful"})
}

// Get /v1/users
// Lists every account
func (api *UserAPI) ListUsers(c *gin.Context) {
	result, err := api.service.List(c.Request.Context(), callerFrom(c))
	if err != nil {
		respondUserServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, userhttpmapper.FromDomainUsers(result))
}

// Get /v1/users/:userId
// Find an account by ID
func (api *UserAPI) GetUserById(c *gin.Context) {
	id := c.Param("userId")
	user, err := api.service.GetByID(c.Request.Context(), callerFrom(c), id)
	if err != nil {
		respondUserServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, userhttpmapper.FromDomainUser(user))
}

// Patch /v1/users/:userId/role
// Grant an account a different role
func (api *UserAPI) UpdateUserRole(c *gin.Context) {
	id := c.Param("userId")
	var payload UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	updated, err := api.service.SetRole(c.Request.Context(), callerFrom(c), id, auth.Role(payload.Role))
	if err != nil {
		respondUserServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, userhttpmapper.FromDomainUser(updated))
}

// Delete /v1/users/:userId
// Remove an account
func (api *UserAPI) DeleteUser(c *gin.Context) {
	id := c.Param("userId")
	if err := api.service.Delete(c.Request.Context(), callerFrom(c), id); err != nil {
		respondUserServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func respondUserServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	if respondAuthError(c, err) {
		return
	}
	switch {
	case errors.Is(err, userports.ErrNotFound):
		respondProblem(c, apierrors.ErrNotFound.WithDetail(err.Error()))
	case errors.Is(err, userports.ErrEmailTaken):
		respondProblem(c, apierrors.ErrConflict.WithDetail(err.Error()))
	case errors.Is(err, userapp.ErrAuthentication):
		respondProblem(c, apierrors.ErrUnauthorized.WithDetail("invalid credentials"))
	case errors.Is(err, userapp.ErrInvalidInput):
		respondProblem(c, apierrors.ErrValidation.WithDetail(err.Error()))
	default:
		respondProblem(c, apierrors.ErrInternal.WithDetail(err.Error()))
	}
}
