// internal/checkout/implementation.go
package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sullpe/OtakuShop/internal/cart"
	"github.com/Sullpe/OtakuShop/internal/catalog"
	"github.com/Sullpe/OtakuShop/pkg/statestore"
)

// service implements the Service interface.
type service struct {
	store   *statestore.Store
	catalog catalog.Service
	carts   cart.Service
	payment PaymentService
	tracer  trace.Tracer
}

// NewService creates a new checkout service instance.
func NewService(store *statestore.Store, catalogSvc catalog.Service, cartSvc cart.Service, payment PaymentService) Service {
	return &service{
		store:   store,
		catalog: catalogSvc,
		carts:   cartSvc,
		payment: payment,
		tracer:  otel.Tracer("otakushop/checkout"),
	}
}

func orderKey(id uuid.UUID) string {
	return "order:" + id.String()
}

func orderIndexKey(userID uuid.UUID) string {
	return "orders:user:" + userID.String()
}

// Submit runs the checkout: price the cart, charge the simulated gateway,
// record the order, and clear the cart unconditionally on success. Cart
// entries whose volume no longer resolves are excluded from the order, same
// as from the totals.
func (s *service) Submit(ctx context.Context, cartID, userID uuid.UUID, shipping ShippingDetails, card CardDetails) (*Order, error) {
	const op = "checkout.service.Submit"
	log := slog.With("op", op)

	ctx, span := s.tracer.Start(ctx, "checkout.submit",
		trace.WithAttributes(
			attribute.String("cart.id", cartID.String()),
		),
	)
	defer span.End()

	c, totals, err := s.carts.GetCart(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	lines := s.resolveLines(ctx, c)
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	confirmationID, err := s.payment.Charge(ctx, totals.GrandTotal, card)
	if err != nil {
		return nil, fmt.Errorf("failed to charge payment: %w", err)
	}

	order := &Order{
		ID:             uuid.New(),
		UserID:         userID,
		Lines:          lines,
		Totals:         totals,
		Shipping:       shipping,
		ConfirmationID: confirmationID,
		CreatedAt:      time.Now(),
	}
	span.SetAttributes(attribute.String("order.id", order.ID.String()))

	if err := s.store.Save(ctx, orderKey(order.ID), order); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}
	if userID != uuid.Nil {
		if err := s.appendToIndex(ctx, userID, order.ID); err != nil {
			return nil, err
		}
	}

	// The cart is cleared regardless of who owns it; the original storefront
	// empties the cart after the confirmation screen, always.
	if err := s.carts.ClearCart(ctx, cartID); err != nil {
		log.Error("failed to clear cart after checkout", "err", err, "cartID", cartID)
	}

	log.Info("order placed", "orderID", order.ID, "grandTotal", totals.GrandTotal)
	return order, nil
}

// resolveLines joins cart entries to the catalog, dropping stale references.
func (s *service) resolveLines(ctx context.Context, c cart.Cart) []Line {
	var lines []Line
	for _, e := range c.Entries {
		v, err := s.catalog.Get(ctx, e.VolumeID)
		if err != nil {
			continue
		}
		lines = append(lines, Line{
			VolumeID:  v.ID,
			Title:     v.Title,
			UnitPrice: v.Price,
			Quantity:  e.Quantity,
		})
	}
	return lines
}

func (s *service) appendToIndex(ctx context.Context, userID, orderID uuid.UUID) error {
	var ids []uuid.UUID
	if _, err := s.store.Load(ctx, orderIndexKey(userID), &ids); err != nil {
		return fmt.Errorf("failed to load order index: %w", err)
	}
	ids = append(ids, orderID)
	if err := s.store.Save(ctx, orderIndexKey(userID), ids); err != nil {
		return fmt.Errorf("failed to persist order index: %w", err)
	}
	return nil
}

// Orders lists a user's past orders, newest first.
func (s *service) Orders(ctx context.Context, userID uuid.UUID) ([]Order, error) {
	var ids []uuid.UUID
	if _, err := s.store.Load(ctx, orderIndexKey(userID), &ids); err != nil {
		return nil, fmt.Errorf("failed to load order index: %w", err)
	}

	orders := make([]Order, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		var order Order
		found, err := s.store.Load(ctx, orderKey(ids[i]), &order)
		if err != nil {
			return nil, fmt.Errorf("failed to load order: %w", err)
		}
		if found {
			orders = append(orders, order)
		}
	}
	return orders, nil
}
