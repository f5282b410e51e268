package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/izerwaren/dealerapi/internal/domain"
	"github.com/izerwaren/dealerapi/internal/repository"
	"github.com/izerwaren/dealerapi/pkg/errors"
)

const maxSavedCartNameLength = 100

// SavedCartDetail is a saved cart with its lines
type SavedCartDetail struct {
	Cart  *domain.SavedCart
	Items []*domain.SavedCartItem
}

type savedCartService struct {
	repos  *repository.Repositories
	carts  CartStore
	logger *zap.Logger
}

// NewSavedCartService creates a new saved cart service
func NewSavedCartService(repos *repository.Repositories, carts CartStore, logger *zap.Logger) *savedCartService {
	return &savedCartService{
		repos:  repos,
		carts:  carts,
		logger: logger,
	}
}

// Save snapshots the priced lines of the active cart under a name.
// Lines that no longer resolve are left out of the snapshot.
func (s *savedCartService) Save(ctx context.Context, dealerID uuid.UUID, name string) (*SavedCartDetail, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &errors.ErrValidation{Field: "name", Message: "is required"}
	}
	if utf8.RuneCountInString(name) > maxSavedCartNameLength {
		return nil, &errors.ErrValidation{Field: "name", Message: "must be at most 100 characters"}
	}

	cart, err := s.carts.GetCart(ctx, dealerID)
	if err != nil {
		return nil, err
	}
	if len(cart.Summary.Items) == 0 {
		return nil, &errors.ErrValidation{Field: "cart", Message: "cart is empty"}
	}

	saved := &domain.SavedCart{
		DealerID:   dealerID,
		Name:       name,
		ItemCount:  cart.Summary.ItemCount,
		TotalValue: cart.Summary.Subtotal,
	}
	items := make([]*domain.SavedCartItem, 0, len(cart.Summary.Items))
	for _, item := range cart.Summary.Items {
		items = append(items, &domain.SavedCartItem{
			ShopifyProductID: item.ShopifyProductID,
			ShopifyVariantID: item.ShopifyVariantID,
			SKU:              item.SKU,
			Quantity:         item.Quantity,
		})
	}

	if err := s.repos.SavedCart.Create(ctx, saved, items); err != nil {
		return nil, err
	}

	s.logger.Info("Cart saved",
		zap.String("dealer_id", dealerID.String()),
		zap.String("saved_cart_id", saved.ID.String()),
		zap.Int("items", len(items)),
	)

	return &SavedCartDetail{Cart: saved, Items: items}, nil
}

func (s *savedCartService) List(ctx context.Context, dealerID uuid.UUID) ([]*domain.SavedCart, error) {
	return s.repos.SavedCart.ListByDealer(ctx, dealerID)
}

// Get returns a saved cart owned by the dealer. Other dealers' carts are reported as not found.
func (s *savedCartService) Get(ctx context.Context, dealerID, id uuid.UUID) (*SavedCartDetail, error) {
	saved, err := s.owned(ctx, dealerID, id)
	if err != nil {
		return nil, err
	}

	items, err := s.repos.SavedCart.GetItems(ctx, saved.ID)
	if err != nil {
		return nil, err
	}

	return &SavedCartDetail{Cart: saved, Items: items}, nil
}

// Restore replaces the active cart with the saved lines and reprices it
func (s *savedCartService) Restore(ctx context.Context, dealerID, id uuid.UUID) (*CartView, error) {
	detail, err := s.Get(ctx, dealerID, id)
	if err != nil {
		return nil, err
	}

	lines := make([]*domain.CartLine, 0, len(detail.Items))
	for _, item := range detail.Items {
		lines = append(lines, &domain.CartLine{
			DealerID:         dealerID,
			ShopifyProductID: item.ShopifyProductID,
			ShopifyVariantID: item.ShopifyVariantID,
			Quantity:         item.Quantity,
		})
	}

	if err := s.repos.CartItem.Replace(ctx, dealerID, lines); err != nil {
		return nil, err
	}

	return s.carts.GetCart(ctx, dealerID)
}

func (s *savedCartService) Delete(ctx context.Context, dealerID, id uuid.UUID) error {
	if _, err := s.owned(ctx, dealerID, id); err != nil {
		return err
	}
	return s.repos.SavedCart.Delete(ctx, id)
}

func (s *savedCartService) owned(ctx context.Context, dealerID, id uuid.UUID) (*domain.SavedCart, error) {
	saved, err := s.repos.SavedCart.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if saved.DealerID != dealerID {
		return nil, &errors.ErrNotFound{Resource: "saved cart", ID: id.String()}
	}
	return saved, nil
}
