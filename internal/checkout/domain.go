// internal/checkout/domain.go
package checkout

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Sullpe/OtakuShop/internal/cart"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrPaymentRejected = errors.New("payment rejected")
)

// Line is a snapshot of one purchased volume. Orders keep their own copy of
// title and price so later catalog changes cannot rewrite history.
type Line struct {
	VolumeID  int             `json:"volume_id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// ShippingDetails is the delivery form of the checkout page.
type ShippingDetails struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// CardDetails is the payment form. Nothing here is ever charged for real.
type CardDetails struct {
	HolderName string `json:"holder_name"`
	Number     string `json:"number"`
	Expiry     string `json:"expiry"`
	CVC        string `json:"cvc"`
}

// Order is a completed purchase.
type Order struct {
	ID             uuid.UUID        `json:"id"`
	UserID         uuid.UUID        `json:"user_id,omitempty"`
	Lines          []Line           `json:"lines"`
	Totals         cart.OrderTotals `json:"totals"`
	Shipping       ShippingDetails  `json:"shipping"`
	ConfirmationID string           `json:"confirmation_id"`
	CreatedAt      time.Time        `json:"created_at"`
}
