package service

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/izerwaren/dealerapi/internal/domain"
	"github.com/izerwaren/dealerapi/internal/shopify"
	"github.com/izerwaren/dealerapi/pkg/errors"
)

type recordingShopify struct {
	inputs []shopify.DraftOrderInput
	err    error
}

func (r *recordingShopify) CreateDraftOrder(_ context.Context, input shopify.DraftOrderInput) (*shopify.DraftOrder, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.inputs = append(r.inputs, input)
	return &shopify.DraftOrder{ID: 987, GID: "gid://shopify/DraftOrder/987", Name: "#D12"}, nil
}

func newCheckout(f *fixture, shop *recordingShopify) *checkoutService {
	return NewCheckoutService(f.carts, NewShopifyService(shop, zap.NewNop()), zap.NewNop())
}

func dealerFor(f *fixture) *domain.Dealer {
	return &domain.Dealer{ID: f.dealerID, Name: "Harbor Supply", Tier: "gold", TierDiscountPercent: decimal.NewFromInt(3), IsActive: true}
}

func TestCheckout_CreatesDraftOrderAndClearsCart(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	shop := &recordingShopify{}

	_, err := f.carts.AddItem(ctx, f.dealerID, AddItemRequest{ShopifyVariantID: 11, Quantity: 7})
	require.NoError(t, err)

	note := "Deliver to dock 4"
	result, err := newCheckout(f, shop).Checkout(ctx, dealerFor(f), CheckoutRequest{
		Note: &note,
		Shipping: &ShippingAddress{
			Name: "Ana Maria Lopez", Street: "1 Harbor Way", City: "Miami", PostalCode: "33101", Country: "US",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(987), result.DraftOrderID)
	assert.Equal(t, "644.00", result.Summary.Subtotal.StringFixed(2))

	require.Len(t, shop.inputs, 1)
	input := shop.inputs[0]
	assert.Equal(t, []string{"dealer:Harbor Supply", "tier:gold", "dealer_portal"}, input.Tags)
	assert.Contains(t, *input.Note, note)
	require.Len(t, input.LineItems, 1)
	assert.Equal(t, "gid://shopify/ProductVariant/11", input.LineItems[0].VariantID)
	assert.Equal(t, 7, input.LineItems[0].Quantity)
	require.NotNil(t, input.LineItems[0].AppliedDiscount)
	assert.Equal(t, 8.0, input.LineItems[0].AppliedDiscount.Value)
	require.NotNil(t, input.ShippingAddress)
	assert.Equal(t, "Ana", input.ShippingAddress.FirstName)
	assert.Equal(t, "Maria Lopez", *input.ShippingAddress.LastName)

	cart, err := f.carts.GetCart(ctx, f.dealerID)
	require.NoError(t, err)
	assert.Empty(t, cart.Summary.Items)
}

func TestCheckout_BlockedByValidationErrors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	shop := &recordingShopify{}

	_, err := f.carts.AddItem(ctx, f.dealerID, AddItemRequest{ShopifyVariantID: 22, Quantity: 3})
	require.NoError(t, err)

	_, err = newCheckout(f, shop).Checkout(ctx, dealerFor(f), CheckoutRequest{})
	var blocked *errors.ErrCheckoutBlocked
	require.True(t, stderrors.As(err, &blocked))
	require.Len(t, blocked.Reasons, 1)
	assert.Contains(t, blocked.Reasons[0], "minimum quantity of 10")
	assert.Empty(t, shop.inputs)

	cart, err := f.carts.GetCart(ctx, f.dealerID)
	require.NoError(t, err)
	assert.Len(t, cart.Summary.Items, 1)
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newFixture()

	_, err := newCheckout(f, &recordingShopify{}).Checkout(context.Background(), dealerFor(f), CheckoutRequest{})
	var validation *errors.ErrValidation
	assert.True(t, stderrors.As(err, &validation))
}

func TestCheckout_ShopifyFailureKeepsCart(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	shop := &recordingShopify{err: stderrors.New("shopify API error: status 503")}

	_, err := f.carts.AddItem(ctx, f.dealerID, AddItemRequest{ShopifyVariantID: 11, Quantity: 1})
	require.NoError(t, err)

	_, err = newCheckout(f, shop).Checkout(ctx, dealerFor(f), CheckoutRequest{})
	assert.Error(t, err)

	cart, err := f.carts.GetCart(ctx, f.dealerID)
	require.NoError(t, err)
	assert.Len(t, cart.Summary.Items, 1)
}

func TestShopifyService_NoDiscountWithoutPercent(t *testing.T) {
	shop := &recordingShopify{}
	svc := NewShopifyService(shop, zap.NewNop())

	summary := domain.CartSummary{Items: []domain.CartItem{
		{ShopifyVariantID: 5, SKU: "X", Quantity: 1, UnitPrice: decimal.NewFromInt(10), DiscountPercent: decimal.Zero},
	}}
	_, err := svc.CreateDraftOrder(context.Background(), &domain.Dealer{ID: uuid.New(), Name: "N", Tier: "base"}, summary, CheckoutRequest{})
	require.NoError(t, err)
	assert.Nil(t, shop.inputs[0].LineItems[0].AppliedDiscount)
	assert.Nil(t, shop.inputs[0].ShippingAddress)
}
