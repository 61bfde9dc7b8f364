// internal/cart/domain_test.go
package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func testRules() PricingRules {
	return PricingRules{
		FreeShippingThreshold: decimal.NewFromInt(50),
		FlatShippingFee:       decimal.RequireFromString("5.99"),
		TaxRate:               decimal.RequireFromString("0.08"),
	}
}

func fixedPrices(prices map[int]string) PriceLookup {
	return func(volumeID int) (decimal.Decimal, bool) {
		p, ok := prices[volumeID]
		if !ok {
			return decimal.Zero, false
		}
		return decimal.RequireFromString(p), true
	}
}

func quantityOf(c Cart, volumeID int) int {
	for _, e := range c.Entries {
		if e.VolumeID == volumeID {
			return e.Quantity
		}
	}
	return 0
}

func TestAddAppendsThenAccumulates(t *testing.T) {
	c, err := Cart{}.Add(1, 1)
	require.NoError(t, err)
	c, err = c.Add(1, 2)
	require.NoError(t, err)

	assert.Equal(t, 3, quantityOf(c, 1))
	assert.Len(t, c.Entries, 1)

	single, err := Cart{}.Add(1, 3)
	require.NoError(t, err)
	assert.Equal(t, single, c)
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	_, err := Cart{}.Add(1, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = Cart{}.Add(1, -2)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestAddDoesNotMutateReceiver(t *testing.T) {
	base, err := Cart{}.Add(1, 1)
	require.NoError(t, err)

	_, err = base.Add(1, 5)
	require.NoError(t, err)

	assert.Equal(t, 1, quantityOf(base, 1))
}

func TestSetQuantityReplacesExactly(t *testing.T) {
	c, err := Cart{}.Add(1, 4)
	require.NoError(t, err)

	c = c.SetQuantity(1, 2)

	assert.Equal(t, 2, quantityOf(c, 1))
}

func TestSetQuantityAbsentIsNoop(t *testing.T) {
	c, err := Cart{}.Add(1, 2)
	require.NoError(t, err)

	assert.Equal(t, c.Entries, c.SetQuantity(7, 3).Entries)
	assert.Equal(t, 0, quantityOf(c.SetQuantity(7, 3), 7))
}

func TestSetQuantityZeroEqualsRemove(t *testing.T) {
	c, err := Cart{}.Add(1, 2)
	require.NoError(t, err)
	c, err = c.Add(2, 1)
	require.NoError(t, err)

	assert.Equal(t, c.Remove(1), c.SetQuantity(1, 0))
	assert.Equal(t, c.Remove(1), c.SetQuantity(1, -3))
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	c, err := Cart{}.Add(1, 2)
	require.NoError(t, err)

	assert.Equal(t, c.Entries, c.Remove(99).Entries)
}

func TestTotalItemsSumsQuantities(t *testing.T) {
	c, err := Cart{}.Add(1, 2)
	require.NoError(t, err)
	c, err = c.Add(2, 3)
	require.NoError(t, err)

	assert.Equal(t, 5, c.TotalItems())
}

func TestAddCumulativeProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		id := rapid.IntRange(1, 10).Draw(t, "id")
		quantities := rapid.SliceOfN(rapid.IntRange(1, 20), 1, 10).Draw(t, "quantities")

		c := Cart{}
		total := 0
		for _, q := range quantities {
			var err error
			c, err = c.Add(id, q)
			if err != nil {
				t.Fatalf("Add: %v", err)
			}
			total += q
		}

		single, err := Cart{}.Add(id, total)
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
		if quantityOf(c, id) != quantityOf(single, id) {
			t.Fatalf("cumulative adds diverge: %d vs %d", quantityOf(c, id), quantityOf(single, id))
		}
	})
}

func TestTotalsWorkedExampleFlatShipping(t *testing.T) {
	c, err := Cart{}.Add(1, 2)
	require.NoError(t, err)

	totals := c.Totals(fixedPrices(map[int]string{1: "10.00"}), testRules())

	assert.Equal(t, "20.00", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "5.99", totals.ShippingCost.StringFixed(2))
	assert.Equal(t, "1.60", totals.TaxAmount.StringFixed(2))
	assert.Equal(t, "27.59", totals.GrandTotal.StringFixed(2))
}

func TestTotalsWorkedExampleFreeShipping(t *testing.T) {
	c, err := Cart{}.Add(7, 1)
	require.NoError(t, err)

	totals := c.Totals(fixedPrices(map[int]string{7: "60.00"}), testRules())

	assert.Equal(t, "60.00", totals.Subtotal.StringFixed(2))
	assert.True(t, totals.ShippingCost.IsZero())
	assert.Equal(t, "4.80", totals.TaxAmount.StringFixed(2))
	assert.Equal(t, "64.80", totals.GrandTotal.StringFixed(2))
}

func TestTotalsThresholdIsExclusive(t *testing.T) {
	c, err := Cart{}.Add(1, 1)
	require.NoError(t, err)

	// Exactly at the threshold still pays shipping; only above it is free.
	totals := c.Totals(fixedPrices(map[int]string{1: "50.00"}), testRules())

	assert.Equal(t, "5.99", totals.ShippingCost.StringFixed(2))
}

func TestTotalsDropsStaleEntries(t *testing.T) {
	c, err := Cart{}.Add(1, 1)
	require.NoError(t, err)
	c, err = c.Add(99, 5)
	require.NoError(t, err)

	totals := c.Totals(fixedPrices(map[int]string{1: "10.00"}), testRules())

	assert.Equal(t, "10.00", totals.Subtotal.StringFixed(2))
}

func TestTotalsEmptyCartIsZero(t *testing.T) {
	totals := Cart{}.Totals(fixedPrices(nil), testRules())

	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.ShippingCost.IsZero())
	assert.True(t, totals.TaxAmount.IsZero())
	assert.True(t, totals.GrandTotal.IsZero())
}

func TestTotalsFullyStaleCartIsZero(t *testing.T) {
	c, err := Cart{}.Add(99, 3)
	require.NoError(t, err)

	totals := c.Totals(fixedPrices(nil), testRules())

	assert.True(t, totals.GrandTotal.IsZero())
}
