// internal/checkout/payment.go
package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// simulatedPayment approves every well-formed charge after a fixed delay.
// It stands in for a real gateway client; there is no retry or cancellation
// beyond the context.
type simulatedPayment struct {
	latency time.Duration
}

// NewSimulatedPayment creates the mock payment gateway.
func NewSimulatedPayment(latency time.Duration) PaymentService {
	return &simulatedPayment{latency: latency}
}

func (p *simulatedPayment) Charge(ctx context.Context, amount decimal.Decimal, card CardDetails) (string, error) {
	if card.Number == "" || card.HolderName == "" {
		return "", fmt.Errorf("%w: card details are incomplete", ErrPaymentRejected)
	}
	if amount.IsNegative() {
		return "", fmt.Errorf("%w: negative amount", ErrPaymentRejected)
	}

	if p.latency > 0 {
		select {
		case <-time.After(p.latency):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	return uuid.NewString(), nil
}
