package auth

import (
	"errors"
	"strings"
	"time"
)

// User is an account allowed to log in and obtain a bearer token.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	DisplayName  string     `json:"display_name"`
	PasswordHash string     `json:"-"` // never serialised
	IsActive     bool       `json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Principal is the identity carried by a verified bearer token.
type Principal struct {
	UserID string
	Email  string
}

// NormaliseEmail lower-cases and trims an email address for lookups.
func NormaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Sentinel errors for auth operations.
var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrUserNotFound       = errors.New("auth: user not found")
	ErrUserInactive       = errors.New("auth: user account is inactive")
	ErrEmailExists        = errors.New("auth: email already exists")
	ErrTokenInvalid       = errors.New("auth: invalid token")
)
