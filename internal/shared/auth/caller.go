// Package auth carries the authenticated caller identity across layers and
// centralizes role capability checks.
package auth

import "errors"

// Role enumerates account capabilities.
type Role string

const (
	RoleUser           Role = "USER"
	RoleArtisan        Role = "ARTISAN"
	RoleAdmin          Role = "ADMIN"
	RoleArtisanPending Role = "ARTISAN_PENDING"
)

var (
	ErrUnauthenticated = errors.New("caller is not authenticated")
	ErrForbidden       = errors.New("caller lacks the required role")
)

// ValidRole reports whether the role is one of the known account roles.
func ValidRole(role Role) bool {
	switch role {
	case RoleUser, RoleArtisan, RoleAdmin, RoleArtisanPending:
		return true
	default:
		return false
	}
}

// AssignableRoles lists the roles an admin may grant to an account.
func AssignableRoles() []Role {
	return []Role{RoleUser, RoleArtisan, RoleAdmin, RoleArtisanPending}
}

// Caller identifies the authenticated principal of a request.
// A zero Caller is anonymous.
type Caller struct {
	UserID string
	Email  string
	Role   Role
}

// Authenticated reports whether the caller carries a verified identity.
func (c Caller) Authenticated() bool {
	return c.UserID != ""
}

// IsAdmin reports whether the caller holds the admin role.
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// RequireAuthenticated rejects anonymous callers.
func RequireAuthenticated(c Caller) error {
	if !c.Authenticated() {
		return ErrUnauthenticated
	}
	return nil
}

// RequireRole rejects callers that are anonymous or hold a different role.
func RequireRole(c Caller, role Role) error {
	if err := RequireAuthenticated(c); err != nil {
		return err
	}
	if c.Role != role {
		return ErrForbidden
	}
	return nil
}

// RequireAdmin is the capability check for administrative operations.
func RequireAdmin(c Caller) error {
	return RequireRole(c, RoleAdmin)
}
