// internal/cart/implementation.go
package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Sullpe/OtakuShop/internal/catalog"
	"github.com/Sullpe/OtakuShop/pkg/statestore"
)

// service implements the Service interface. Every mutation mirrors the cart
// document to the state store, matching the original storefront's
// write-through to local storage.
type service struct {
	mu      sync.Mutex
	store   *statestore.Store
	catalog catalog.Service
	rules   PricingRules
}

// NewService creates a cart service backed by the given state store.
func NewService(store *statestore.Store, catalogSvc catalog.Service, rules PricingRules) Service {
	return &service{
		store:   store,
		catalog: catalogSvc,
		rules:   rules,
	}
}

func cartKey(cartID uuid.UUID) string {
	return "cart:" + cartID.String()
}

// CreateCart allocates a new cart ID and persists an empty cart under it.
func (s *service) CreateCart(ctx context.Context) (uuid.UUID, error) {
	id := uuid.New()
	if err := s.store.Save(ctx, cartKey(id), Cart{}); err != nil {
		return uuid.Nil, fmt.Errorf("failed to persist cart: %w", err)
	}
	return id, nil
}

// load restores a cart from the state store. Missing or corrupt documents
// fall back to an empty cart; callers hold the lock when mutating.
func (s *service) load(ctx context.Context, cartID uuid.UUID) (Cart, error) {
	var c Cart
	if _, err := s.store.Load(ctx, cartKey(cartID), &c); err != nil {
		return Cart{}, fmt.Errorf("failed to load cart: %w", err)
	}
	return c, nil
}

func (s *service) save(ctx context.Context, cartID uuid.UUID, c Cart) error {
	if err := s.store.Save(ctx, cartKey(cartID), c); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}

// GetCart returns the cart with its derived totals.
func (s *service) GetCart(ctx context.Context, cartID uuid.UUID) (Cart, OrderTotals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(ctx, cartID)
	if err != nil {
		return Cart{}, OrderTotals{}, err
	}
	return c, c.Totals(s.priceLookup(ctx), s.rules), nil
}

// AddItem increases the quantity for volumeID, validating that the volume
// exists. Stock availability is deliberately not checked: out-of-stock
// volumes may still be added.
func (s *service) AddItem(ctx context.Context, cartID uuid.UUID, volumeID, qty int) (Cart, error) {
	if _, err := s.catalog.Get(ctx, volumeID); err != nil {
		return Cart{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(ctx, cartID)
	if err != nil {
		return Cart{}, err
	}
	c, err = c.Add(volumeID, qty)
	if err != nil {
		return Cart{}, err
	}
	if err := s.save(ctx, cartID, c); err != nil {
		return Cart{}, err
	}
	return c, nil
}

// SetQuantity replaces the quantity for an existing entry; zero or less
// removes it. Entries the cart never held stay absent, so no catalog lookup
// is needed here.
func (s *service) SetQuantity(ctx context.Context, cartID uuid.UUID, volumeID, qty int) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(ctx, cartID)
	if err != nil {
		return Cart{}, err
	}
	c = c.SetQuantity(volumeID, qty)
	if err := s.save(ctx, cartID, c); err != nil {
		return Cart{}, err
	}
	return c, nil
}

// RemoveItem drops the entry for volumeID; absent entries are a no-op.
func (s *service) RemoveItem(ctx context.Context, cartID uuid.UUID, volumeID int) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(ctx, cartID)
	if err != nil {
		return Cart{}, err
	}
	c = c.Remove(volumeID)
	if err := s.save(ctx, cartID, c); err != nil {
		return Cart{}, err
	}
	return c, nil
}

// ClearCart empties the cart unconditionally.
func (s *service) ClearCart(ctx context.Context, cartID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(ctx, cartID, Cart{})
}

// Totals derives the order totals for the cart.
func (s *service) Totals(ctx context.Context, cartID uuid.UUID) (OrderTotals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(ctx, cartID)
	if err != nil {
		return OrderTotals{}, err
	}
	return c.Totals(s.priceLookup(ctx), s.rules), nil
}

func (s *service) Rules() PricingRules {
	return s.rules
}

func (s *service) priceLookup(ctx context.Context) PriceLookup {
	return func(volumeID int) (decimal.Decimal, bool) {
		v, err := s.catalog.Get(ctx, volumeID)
		if err != nil {
			return decimal.Zero, false
		}
		return v.Price, true
	}
}
