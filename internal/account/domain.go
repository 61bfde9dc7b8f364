// internal/account/domain.go
package account

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMissingFields      = errors.New("all fields are required")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidPassword    = errors.New("invalid current password")
	ErrRateLimited        = errors.New("rate limit exceeded")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserNotFound       = errors.New("user not found")
)

// User is the public profile of a shopper.
type User struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// Session is the result of a successful login or registration.
type Session struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// userRecord is the persisted shape of a user, credentials included.
type userRecord struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Salt         string    `json:"salt"`
	CreatedAt    time.Time `json:"created_at"`
}

func (r userRecord) user() User {
	return User{ID: r.ID, Name: r.Name, Email: r.Email}
}
