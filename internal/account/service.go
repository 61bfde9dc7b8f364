// internal/account/service.go
package account

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the interface for the account service. The backend is
// mocked: operations resolve after a configurable simulated latency, and no
// real identity provider is involved.
type Service interface {
	Register(ctx context.Context, name, email, password string) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, current, updated string) error
	ResetPassword(ctx context.Context, email string) error
	VerifyToken(token string) (*User, error)
}
