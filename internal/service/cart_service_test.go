package service

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/izerwaren/dealerapi/internal/domain"
	"github.com/izerwaren/dealerapi/pkg/errors"
)

func TestCartService_AddItemMergesAndReprices(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, f.dealerID, AddItemRequest{ShopifyVariantID: 11, Quantity: 3})
	require.NoError(t, err)

	cart, err := f.carts.AddItem(ctx, f.dealerID, AddItemRequest{ShopifyVariantID: 11, Quantity: 4})
	require.NoError(t, err)

	require.Len(t, cart.Summary.Items, 1)
	item := cart.Summary.Items[0]
	assert.Equal(t, 7, item.Quantity)
	assert.Equal(t, int64(1), item.ShopifyProductID)
	assert.Equal(t, "92.00", item.UnitPrice.StringFixed(2))
	assert.Equal(t, "644.00", cart.Summary.Subtotal.StringFixed(2))
	assert.Equal(t, "56.00", cart.Summary.TotalDiscount.StringFixed(2))
	assert.Empty(t, cart.Validations)
}

func TestCartService_AddItemRejectsBadInput(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, f.dealerID, AddItemRequest{ShopifyVariantID: 11, Quantity: 0})
	var validation *errors.ErrValidation
	assert.True(t, stderrors.As(err, &validation))

	_, err = f.carts.AddItem(ctx, f.dealerID, AddItemRequest{ShopifyVariantID: 999, Quantity: 1})
	var notFound *errors.ErrNotFound
	assert.True(t, stderrors.As(err, &notFound))

	_, err = f.carts.AddItem(ctx, f.dealerID, AddItemRequest{ShopifyVariantID: 33, Quantity: 1})
	assert.True(t, stderrors.As(err, &validation))
	assert.Equal(t, "shopify_variant_id", validation.Field)

	lines, _ := f.items.ListByDealer(ctx, f.dealerID)
	assert.Empty(t, lines)
}

func TestCartService_UpdateAndRemove(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, f.dealerID, AddItemRequest{ShopifyVariantID: 11, Quantity: 1})
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, f.dealerID, AddItemRequest{ShopifyVariantID: 22, Quantity: 3})
	require.NoError(t, err)

	cart, err := f.carts.UpdateQuantity(ctx, f.dealerID, 22, 12)
	require.NoError(t, err)
	assert.Equal(t, 13, cart.Summary.TotalQuantity)
	// 1 * 97.00 + 12 * 17.40
	assert.Equal(t, "305.80", cart.Summary.Subtotal.StringFixed(2))

	_, err = f.carts.UpdateQuantity(ctx, f.dealerID, 22, -1)
	var validation *errors.ErrValidation
	assert.True(t, stderrors.As(err, &validation))

	cart, err = f.carts.RemoveItem(ctx, f.dealerID, 11)
	require.NoError(t, err)
	require.Len(t, cart.Summary.Items, 1)
	assert.Equal(t, "HG-200", cart.Summary.Items[0].SKU)

	_, err = f.carts.RemoveItem(ctx, f.dealerID, 11)
	var notFound *errors.ErrNotFound
	assert.True(t, stderrors.As(err, &notFound))
}

func TestCartService_GetCartReportsValidations(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, f.dealerID, AddItemRequest{ShopifyVariantID: 22, Quantity: 3})
	require.NoError(t, err)

	_, err = f.carts.AddItem(ctx, f.dealerID, AddItemRequest{ShopifyVariantID: 11, Quantity: 1})
	require.NoError(t, err)

	// discontinued after it was added
	f.catalog.entries[11].IsActive = false

	cart, err := f.carts.GetCart(ctx, f.dealerID)
	require.NoError(t, err)
	assert.Equal(t, 1, cart.Summary.ItemCount)
	require.Len(t, cart.Validations, 2)
	assert.Equal(t, domain.ValidationMinimumQuantity, cart.Validations[0].Type)
	assert.Equal(t, domain.ValidationDiscontinued, cart.Validations[1].Type)
}

func TestCartService_ClearEmptiesCart(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, f.dealerID, AddItemRequest{ShopifyVariantID: 11, Quantity: 2})
	require.NoError(t, err)
	require.NoError(t, f.carts.Clear(ctx, f.dealerID))

	cart, err := f.carts.GetCart(ctx, f.dealerID)
	require.NoError(t, err)
	assert.Empty(t, cart.Summary.Items)
	assert.True(t, cart.Summary.Subtotal.IsZero())
}

func TestCartService_PriceDoesNotPersist(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	cart, err := f.carts.Price(ctx, f.dealerID, PriceRequest{Lines: []PriceLine{
		{ItemID: "a", ShopifyVariantID: 11, Quantity: 10},
		{ItemID: "b", ShopifyVariantID: 404, Quantity: 1},
	}})
	require.NoError(t, err)
	assert.Equal(t, "a", cart.Summary.Items[0].ID)
	assert.Equal(t, "870.00", cart.Summary.Subtotal.StringFixed(2))
	require.Len(t, cart.Validations, 1)
	assert.Equal(t, "b", cart.Validations[0].ItemID)

	lines, _ := f.items.ListByDealer(ctx, f.dealerID)
	assert.Empty(t, lines)
}

func TestCartService_PriceUnknownDealer(t *testing.T) {
	f := newFixture()

	_, err := f.carts.Price(context.Background(), f.dealerID, PriceRequest{Lines: []PriceLine{{ShopifyVariantID: 11, Quantity: 1}}})
	require.NoError(t, err)

	other := newFixture()
	_, err = other.carts.Price(context.Background(), f.dealerID, PriceRequest{Lines: []PriceLine{{ShopifyVariantID: 11, Quantity: 1}}})
	var notFound *errors.ErrNotFound
	assert.True(t, stderrors.As(err, &notFound))
}

func TestCartService_BulkUploadMergesAcceptedRows(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, f.dealerID, AddItemRequest{ShopifyVariantID: 11, Quantity: 2})
	require.NoError(t, err)

	outcome, err := f.carts.BulkUpload(ctx, f.dealerID, []domain.BulkUploadRow{
		{Row: 1, SKU: "ML-100", Quantity: 3},
		{Row: 2, SKU: "NOPE", Quantity: 1},
		{Row: 3, SKU: "HG-200", Quantity: 10},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, outcome.Report.Successful)
	assert.Equal(t, 1, outcome.Report.Failed)
	require.Len(t, outcome.Cart.Summary.Items, 2)
	assert.Equal(t, 5, outcome.Cart.Summary.Items[0].Quantity)
	assert.Equal(t, 10, outcome.Cart.Summary.Items[1].Quantity)
}

func TestCartService_BulkUploadMergeFailureLeavesCartUntouched(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, f.dealerID, AddItemRequest{ShopifyVariantID: 11, Quantity: 2})
	require.NoError(t, err)
	f.items.failVariant = 22

	_, err = f.carts.BulkUpload(ctx, f.dealerID, []domain.BulkUploadRow{
		{Row: 1, SKU: "ML-100", Quantity: 3},
		{Row: 2, SKU: "HG-200", Quantity: 10},
	})
	require.Error(t, err)

	f.items.failVariant = 0
	cart, err := f.carts.GetCart(ctx, f.dealerID)
	require.NoError(t, err)
	require.Len(t, cart.Summary.Items, 1)
	assert.Equal(t, int64(11), cart.Summary.Items[0].ShopifyVariantID)
	assert.Equal(t, 2, cart.Summary.Items[0].Quantity)
}
