package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/izerwaren/dealerapi/internal/domain"
	"github.com/izerwaren/dealerapi/internal/shopify"
)

// DraftOrderCreator creates draft orders in Shopify
type DraftOrderCreator interface {
	CreateDraftOrder(ctx context.Context, input shopify.DraftOrderInput) (*shopify.DraftOrder, error)
}

type shopifyService struct {
	client DraftOrderCreator
	logger *zap.Logger
}

// NewShopifyService creates a new Shopify service
func NewShopifyService(client DraftOrderCreator, logger *zap.Logger) *shopifyService {
	return &shopifyService{
		client: client,
		logger: logger,
	}
}

// CreateDraftOrder creates a Shopify draft order from a priced dealer cart.
// Each line carries the dealer's combined discount so Shopify shows the same net price.
func (s *shopifyService) CreateDraftOrder(
	ctx context.Context,
	dealer *domain.Dealer,
	summary domain.CartSummary,
	req CheckoutRequest,
) (*shopify.DraftOrder, error) {
	// Build line items
	lineItems := make([]shopify.DraftOrderLineItemInput, 0, len(summary.Items))
	for _, item := range summary.Items {
		line := shopify.DraftOrderLineItemInput{
			VariantID: shopify.VariantGID(item.ShopifyVariantID),
			Quantity:  item.Quantity,
			CustomAttributes: []shopify.DraftOrderAttributeInput{
				{Key: "sku", Value: item.SKU},
				{Key: "dealer_unit_price", Value: item.UnitPrice.StringFixed(2)},
			},
		}
		if item.DiscountPercent.IsPositive() {
			line.AppliedDiscount = &shopify.AppliedDiscountInput{
				Title:     discountTitle(item),
				Value:     item.DiscountPercent.InexactFloat64(),
				ValueType: shopify.DiscountValueTypePercentage,
			}
		}
		lineItems = append(lineItems, line)
	}

	// Build tags
	tags := []string{
		fmt.Sprintf("dealer:%s", dealer.Name),
		fmt.Sprintf("tier:%s", dealer.Tier),
		"dealer_portal",
	}

	note := fmt.Sprintf("Dealer order for %s (%s tier)", dealer.Name, dealer.Tier)
	if req.Note != nil && strings.TrimSpace(*req.Note) != "" {
		note = note + "\n" + strings.TrimSpace(*req.Note)
	}

	input := shopify.DraftOrderInput{
		LineItems: lineItems,
		Email:     req.Email,
		Tags:      tags,
		Note:      &note,
		CustomAttributes: []shopify.DraftOrderAttributeInput{
			{Key: "dealer_id", Value: dealer.ID.String()},
		},
	}
	if req.Shipping != nil {
		input.ShippingAddress = shippingAddressInput(req.Shipping)
	}

	draft, err := s.client.CreateDraftOrder(ctx, input)
	if err != nil {
		s.logger.Error("Failed to create draft order",
			zap.String("dealer_id", dealer.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	return draft, nil
}

func discountTitle(item domain.CartItem) string {
	if item.VolumeDiscount != nil {
		return fmt.Sprintf("Dealer + volume discount (%d+)", item.VolumeDiscount.MinQuantity)
	}
	return "Dealer discount"
}

func shippingAddressInput(addr *ShippingAddress) *shopify.DraftOrderAddressInput {
	out := &shopify.DraftOrderAddressInput{
		Company:  addr.Company,
		Address1: addr.Street,
		Address2: addr.Street2,
		City:     addr.City,
		Province: addr.State,
		Zip:      addr.PostalCode,
		Country:  addr.Country,
		Phone:    addr.Phone,
	}

	// Parse name (assume "FirstName LastName" or just "Name")
	nameParts := strings.Fields(addr.Name)
	if len(nameParts) > 0 {
		out.FirstName = nameParts[0]
		if len(nameParts) > 1 {
			lastName := strings.Join(nameParts[1:], " ")
			out.LastName = &lastName
		}
	}

	return out
}
