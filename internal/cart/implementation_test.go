// internal/cart/implementation_test.go
package cart

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sullpe/OtakuShop/internal/catalog"
	"github.com/Sullpe/OtakuShop/pkg/statestore"
)

func testCatalog(t *testing.T) catalog.Service {
	t.Helper()
	svc, err := catalog.NewService([]catalog.Volume{
		{ID: 1, Title: "Berserk", Price: decimal.RequireFromString("24.99"), InStock: true},
		{ID: 2, Title: "Chainsaw Man", Price: decimal.RequireFromString("9.99"), InStock: true},
		{ID: 5, Title: "Uzumaki", Price: decimal.RequireFromString("27.99"), InStock: false},
	})
	require.NoError(t, err)
	return svc
}

func newCartService(t *testing.T, storePath string) Service {
	t.Helper()
	return NewService(statestore.Open(storePath), testCatalog(t), testRules())
}

func TestServiceAddAndGet(t *testing.T) {
	ctx := context.Background()
	svc := newCartService(t, filepath.Join(t.TempDir(), "state.json"))

	cartID, err := svc.CreateCart(ctx)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, cartID, 1, 2)
	require.NoError(t, err)
	c, err := svc.AddItem(ctx, cartID, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, c.TotalItems())

	_, totals, err := svc.GetCart(ctx, cartID)
	require.NoError(t, err)
	// 2*24.99 + 9.99 = 59.97, above the free-shipping threshold.
	assert.Equal(t, "59.97", totals.Subtotal.StringFixed(2))
	assert.True(t, totals.ShippingCost.IsZero())
}

func TestServiceAddUnknownVolume(t *testing.T) {
	ctx := context.Background()
	svc := newCartService(t, filepath.Join(t.TempDir(), "state.json"))

	cartID, err := svc.CreateCart(ctx)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, cartID, 99, 1)
	assert.ErrorIs(t, err, catalog.ErrVolumeNotFound)
}

func TestServiceAddOutOfStockVolume(t *testing.T) {
	ctx := context.Background()
	svc := newCartService(t, filepath.Join(t.TempDir(), "state.json"))

	cartID, err := svc.CreateCart(ctx)
	require.NoError(t, err)

	// Stock is advisory only; out-of-stock volumes are still addable.
	c, err := svc.AddItem(ctx, cartID, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, c.TotalItems())
}

func TestServiceSetQuantityAndRemove(t *testing.T) {
	ctx := context.Background()
	svc := newCartService(t, filepath.Join(t.TempDir(), "state.json"))

	cartID, err := svc.CreateCart(ctx)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, cartID, 1, 3)
	require.NoError(t, err)

	c, err := svc.SetQuantity(ctx, cartID, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, c.TotalItems())

	c, err = svc.SetQuantity(ctx, cartID, 1, 0)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	c, err = svc.RemoveItem(ctx, cartID, 42)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestServiceSetQuantityAbsentEntryIsNoop(t *testing.T) {
	ctx := context.Background()
	svc := newCartService(t, filepath.Join(t.TempDir(), "state.json"))

	cartID, err := svc.CreateCart(ctx)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, cartID, 1, 2)
	require.NoError(t, err)

	// Setting a quantity for a volume the cart never held must not create an
	// entry, even for a volume absent from the catalog.
	c, err := svc.SetQuantity(ctx, cartID, 2, 5)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{VolumeID: 1, Quantity: 2}}, c.Entries)

	c, err = svc.SetQuantity(ctx, cartID, 999, 5)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{VolumeID: 1, Quantity: 2}}, c.Entries)

	c, _, err = svc.GetCart(ctx, cartID)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{VolumeID: 1, Quantity: 2}}, c.Entries)
}

func TestServiceClearCart(t *testing.T) {
	ctx := context.Background()
	svc := newCartService(t, filepath.Join(t.TempDir(), "state.json"))

	cartID, err := svc.CreateCart(ctx)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, cartID, 1, 2)
	require.NoError(t, err)

	require.NoError(t, svc.ClearCart(ctx, cartID))

	c, _, err := svc.GetCart(ctx, cartID)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestServicePersistsAcrossRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")

	svc := newCartService(t, path)
	cartID, err := svc.CreateCart(ctx)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, cartID, 1, 2)
	require.NoError(t, err)

	// A fresh service over the same file restores the mirrored cart.
	restored := newCartService(t, path)
	c, _, err := restored.GetCart(ctx, cartID)
	require.NoError(t, err)
	assert.Equal(t, 2, c.TotalItems())
}

func TestServiceUnknownCartIsEmpty(t *testing.T) {
	ctx := context.Background()
	svc := newCartService(t, filepath.Join(t.TempDir(), "state.json"))

	c, totals, err := svc.GetCart(ctx, uuid.New())
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
	assert.True(t, totals.GrandTotal.IsZero())
}
