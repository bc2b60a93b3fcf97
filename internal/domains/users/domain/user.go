package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/Fedi-Riahi/mar/internal/shared/auth"
)

var (
	ErrEmptyName     = errors.New("name is required")
	ErrEmptyEmail    = errors.New("email is required")
	ErrInvalidEmail  = errors.New("email must contain '@'")
	ErrEmptyPassword = errors.New("password is required")
	ErrWeakPassword  = errors.New("password must be at least 8 characters")
	ErrInvalidRole   = errors.New("role is invalid")
)

// User represents a marketplace account. PasswordHash always holds the bcrypt
// digest, never the raw password.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	Role         auth.Role
	BusinessName string
	Bio          string
	Location     string
}

// NewUser builds a user ensuring required invariants. The password hash is
// produced by the caller.
func NewUser(name, email, passwordHash string, role auth.Role) (*User, error) {
	user := &User{ID: uuid.NewString(), PasswordHash: passwordHash, Role: role}
	if err := user.SetName(name); err != nil {
		return nil, err
	}
	if err := user.SetEmail(email); err != nil {
		return nil, err
	}
	if user.PasswordHash == "" {
		return nil, ErrEmptyPassword
	}
	if !auth.ValidRole(user.Role) {
		return nil, ErrInvalidRole
	}
	return user, nil
}

// SetName trims and validates the display name.
func (u *User) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	u.Name = name
	return nil
}

// SetEmail normalizes and validates the email address.
func (u *User) SetEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ErrEmptyEmail
	}
	if !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	u.Email = email
	return nil
}

// SetRole applies a role change.
func (u *User) SetRole(role auth.Role) error {
	if !auth.ValidRole(role) {
		return ErrInvalidRole
	}
	u.Role = role
	return nil
}

// UpdateProfile applies optional artisan profile fields.
func (u *User) UpdateProfile(phone, businessName, bio, location string) {
	u.Phone = strings.TrimSpace(phone)
	u.BusinessName = strings.TrimSpace(businessName)
	u.Bio = strings.TrimSpace(bio)
	u.Location = strings.TrimSpace(location)
}

// Validate re-applies core invariants for persistence.
func (u *User) Validate() error {
	if err := u.SetName(u.Name); err != nil {
		return err
	}
	if err := u.SetEmail(u.Email); err != nil {
		return err
	}
	if u.PasswordHash == "" {
		return ErrEmptyPassword
	}
	if !auth.ValidRole(u.Role) {
		return ErrInvalidRole
	}
	return nil
}

// ValidatePassword enforces raw password strength before hashing.
func ValidatePassword(password string) error {
	password = strings.TrimSpace(password)
	if password == "" {
		return ErrEmptyPassword
	}
	if len(password) < 8 {
		return ErrWeakPassword
	}
	return nil
}
