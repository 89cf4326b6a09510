package identity

import (
	"errors"
	"time"
)

var (
	// ErrNotFound indicates the user does not exist.
	ErrNotFound = errors.New("user not found")

	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("a user with this email already exists")

	// ErrInvalidCredentials indicates a failed email/password check.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// User represents a registered account.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Credentials carries a login attempt.
type Credentials struct {
	Email    string
	Password string
}
