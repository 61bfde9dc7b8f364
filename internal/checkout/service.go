// internal/checkout/service.go
package checkout

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentService is the payment capability. The shipped implementation
// simulates a gateway round trip; tests swap in an immediate one.
type PaymentService interface {
	Charge(ctx context.Context, amount decimal.Decimal, card CardDetails) (confirmationID string, err error)
}

// Service defines the interface for the checkout service.
type Service interface {
	Submit(ctx context.Context, cartID, userID uuid.UUID, shipping ShippingDetails, card CardDetails) (*Order, error)
	Orders(ctx context.Context, userID uuid.UUID) ([]Order, error)
}
