// internal/cart/service.go
package cart

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the interface for the cart service. Carts are keyed by a
// client-held ID; an ID that was never written resolves to an empty cart.
type Service interface {
	CreateCart(ctx context.Context) (uuid.UUID, error)
	GetCart(ctx context.Context, cartID uuid.UUID) (Cart, OrderTotals, error)
	AddItem(ctx context.Context, cartID uuid.UUID, volumeID, qty int) (Cart, error)
	SetQuantity(ctx context.Context, cartID uuid.UUID, volumeID, qty int) (Cart, error)
	RemoveItem(ctx context.Context, cartID uuid.UUID, volumeID int) (Cart, error)
	ClearCart(ctx context.Context, cartID uuid.UUID) error
	Totals(ctx context.Context, cartID uuid.UUID) (OrderTotals, error)
	Rules() PricingRules
}
