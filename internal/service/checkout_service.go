package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/izerwaren/dealerapi/internal/domain"
	"github.com/izerwaren/dealerapi/internal/shopify"
	"github.com/izerwaren/dealerapi/pkg/errors"
)

// CartStore is the part of the cart service checkout and saved carts need
type CartStore interface {
	GetCart(ctx context.Context, dealerID uuid.UUID) (*CartView, error)
	Clear(ctx context.Context, dealerID uuid.UUID) error
}

// DraftOrderBuilder turns a priced cart into a Shopify draft order
type DraftOrderBuilder interface {
	CreateDraftOrder(ctx context.Context, dealer *domain.Dealer, summary domain.CartSummary, req CheckoutRequest) (*shopify.DraftOrder, error)
}

// CheckoutResult identifies the draft order created for a cart
type CheckoutResult struct {
	DraftOrderID   int64
	DraftOrderName string
	Summary        domain.CartSummary
}

type checkoutService struct {
	carts  CartStore
	orders DraftOrderBuilder
	logger *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(carts CartStore, orders DraftOrderBuilder, logger *zap.Logger) *checkoutService {
	return &checkoutService{
		carts:  carts,
		orders: orders,
		logger: logger,
	}
}

// Checkout reprices the active cart, refuses it while any validation blocks,
// creates the draft order and empties the cart.
func (s *checkoutService) Checkout(ctx context.Context, dealer *domain.Dealer, req CheckoutRequest) (*CheckoutResult, error) {
	cart, err := s.carts.GetCart(ctx, dealer.ID)
	if err != nil {
		return nil, err
	}

	var reasons []string
	for _, v := range cart.Validations {
		if v.Blocking() {
			reasons = append(reasons, v.Message)
		}
	}
	if len(reasons) > 0 {
		return nil, &errors.ErrCheckoutBlocked{Reasons: reasons}
	}
	if len(cart.Summary.Items) == 0 {
		return nil, &errors.ErrValidation{Field: "cart", Message: "cart is empty"}
	}

	draft, err := s.orders.CreateDraftOrder(ctx, dealer, cart.Summary, req)
	if err != nil {
		return nil, err
	}

	// the draft order exists at this point, a stale cart is only an inconvenience
	if err := s.carts.Clear(ctx, dealer.ID); err != nil {
		s.logger.Error("Failed to clear cart after checkout",
			zap.String("dealer_id", dealer.ID.String()),
			zap.Int64("draft_order_id", draft.ID),
			zap.Error(err),
		)
	}

	s.logger.Info("Draft order created",
		zap.String("dealer_id", dealer.ID.String()),
		zap.Int64("draft_order_id", draft.ID),
		zap.String("subtotal", cart.Summary.Subtotal.StringFixed(2)),
	)

	return &CheckoutResult{
		DraftOrderID:   draft.ID,
		DraftOrderName: draft.Name,
		Summary:        cart.Summary,
	}, nil
}
