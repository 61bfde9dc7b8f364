// internal/cart/domain.go
package cart

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// Entry is one cart line: a volume and how many copies of it. Quantity is
// always at least 1; an entry reaching 0 is removed, never stored.
type Entry struct {
	VolumeID int `json:"volume_id"`
	Quantity int `json:"quantity"`
}

// Cart is the ordered entry list for one shopper. All operations are value
// operations returning a new cart; the receiver is never mutated.
type Cart struct {
	Entries []Entry `json:"entries"`
}

// Add increases the quantity for volumeID by qty, appending a new entry on
// first add. Quantities are additive, never replaced.
func (c Cart) Add(volumeID, qty int) (Cart, error) {
	if qty < 1 {
		return Cart{}, ErrInvalidQuantity
	}
	out := c.clone()
	for i := range out.Entries {
		if out.Entries[i].VolumeID == volumeID {
			out.Entries[i].Quantity += qty
			return out, nil
		}
	}
	out.Entries = append(out.Entries, Entry{VolumeID: volumeID, Quantity: qty})
	return out, nil
}

// SetQuantity replaces the quantity for an existing entry exactly. A quantity
// of zero or less removes the entry. Setting an absent entry is a no-op; only
// Add creates entries.
func (c Cart) SetQuantity(volumeID, qty int) Cart {
	if qty <= 0 {
		return c.Remove(volumeID)
	}
	out := c.clone()
	for i := range out.Entries {
		if out.Entries[i].VolumeID == volumeID {
			out.Entries[i].Quantity = qty
			break
		}
	}
	return out
}

// Remove drops the entry for volumeID; removing an absent entry is a no-op.
func (c Cart) Remove(volumeID int) Cart {
	out := Cart{Entries: make([]Entry, 0, len(c.Entries))}
	for _, e := range c.Entries {
		if e.VolumeID != volumeID {
			out.Entries = append(out.Entries, e)
		}
	}
	return out
}

// TotalItems is the sum of all quantities, not the distinct entry count.
func (c Cart) TotalItems() int {
	var total int
	for _, e := range c.Entries {
		total += e.Quantity
	}
	return total
}

// IsEmpty reports whether the cart holds no entries.
func (c Cart) IsEmpty() bool {
	return len(c.Entries) == 0
}

func (c Cart) clone() Cart {
	out := Cart{Entries: make([]Entry, len(c.Entries))}
	copy(out.Entries, c.Entries)
	return out
}

// PricingRules are the checkout constants: orders above the threshold ship
// free, everything else pays the flat fee plus tax on the subtotal.
type PricingRules struct {
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
	TaxRate               decimal.Decimal
}

// OrderTotals is the derived subtotal/shipping/tax breakdown for a cart. It
// is computed on demand and never persisted.
type OrderTotals struct {
	Subtotal     decimal.Decimal
	ShippingCost decimal.Decimal
	TaxAmount    decimal.Decimal
	GrandTotal   decimal.Decimal
}

// PriceLookup resolves a volume ID to its price. The second return reports
// whether the volume still exists in the catalog.
type PriceLookup func(volumeID int) (decimal.Decimal, bool)

// Totals joins cart entries to catalog prices and derives the order totals.
// Entries whose volume no longer resolves are silently excluded; stale
// persisted references must not break checkout. No intermediate rounding is
// applied. An empty (or fully unresolved) cart totals to zero across the
// board, flat shipping fee included.
func (c Cart) Totals(price PriceLookup, rules PricingRules) OrderTotals {
	subtotal := decimal.Zero
	resolved := false
	for _, e := range c.Entries {
		p, ok := price(e.VolumeID)
		if !ok {
			continue
		}
		resolved = true
		subtotal = subtotal.Add(p.Mul(decimal.NewFromInt(int64(e.Quantity))))
	}

	if !resolved {
		return OrderTotals{
			Subtotal:     decimal.Zero,
			ShippingCost: decimal.Zero,
			TaxAmount:    decimal.Zero,
			GrandTotal:   decimal.Zero,
		}
	}

	shipping := rules.FlatShippingFee
	if subtotal.GreaterThan(rules.FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(rules.TaxRate)

	return OrderTotals{
		Subtotal:     subtotal,
		ShippingCost: shipping,
		TaxAmount:    tax,
		GrandTotal:   subtotal.Add(shipping).Add(tax),
	}
}
