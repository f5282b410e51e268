package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/izerwaren/dealerapi/internal/domain"
)

// DealerRepository stores dealers and their tier discounts
type DealerRepository interface {
	GetByAPIKey(ctx context.Context, apiKey string) (*domain.Dealer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Dealer, error)
	Create(ctx context.Context, dealer *domain.Dealer) error
	TierDiscountFor(ctx context.Context, dealerID uuid.UUID) (decimal.Decimal, error)
}

// CatalogRepository stores the catalog snapshot synced from Shopify
type CatalogRepository interface {
	Resolve(ctx context.Context, productID, variantID int64) (*domain.CatalogEntry, error)
	ResolveSKU(ctx context.Context, sku string) (*domain.CatalogEntry, error)
	Upsert(ctx context.Context, entry *domain.CatalogEntry) error
	ListByFilter(ctx context.Context, filter string, limit, offset int) ([]*domain.CatalogEntry, error)
}

// CartItemRepository stores the lines of active carts, one row per (dealer, variant)
type CartItemRepository interface {
	ListByDealer(ctx context.Context, dealerID uuid.UUID) ([]*domain.CartLine, error)
	AddQuantity(ctx context.Context, line *domain.CartLine) error
	AddQuantities(ctx context.Context, dealerID uuid.UUID, lines []*domain.CartLine) error
	SetQuantity(ctx context.Context, dealerID uuid.UUID, variantID int64, quantity int) error
	Delete(ctx context.Context, dealerID uuid.UUID, variantID int64) error
	Clear(ctx context.Context, dealerID uuid.UUID) error
	Replace(ctx context.Context, dealerID uuid.UUID, lines []*domain.CartLine) error
}

// SavedCartRepository stores named cart snapshots
type SavedCartRepository interface {
	Create(ctx context.Context, cart *domain.SavedCart, items []*domain.SavedCartItem) error
	ListByDealer(ctx context.Context, dealerID uuid.UUID) ([]*domain.SavedCart, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.SavedCart, error)
	GetItems(ctx context.Context, savedCartID uuid.UUID) ([]*domain.SavedCartItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repositories groups every repository the services use
type Repositories struct {
	Dealer    DealerRepository
	Catalog   CatalogRepository
	CartItem  CartItemRepository
	SavedCart SavedCartRepository
}
