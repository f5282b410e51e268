package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Dealer represents a B2B customer buying at a tier discount
type Dealer struct {
	ID                  uuid.UUID
	Name                string
	APIKeyHash          string
	Tier                string
	TierDiscountPercent decimal.Decimal
	IsActive            bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// CatalogEntry is the authoritative price and stock snapshot of one Shopify variant
type CatalogEntry struct {
	ShopifyProductID   int64
	ShopifyVariantID   int64
	SKU                string
	Title              string
	CategoryName       string
	ListPrice          decimal.Decimal
	InStock            bool
	StockQuantity      *int
	MinimumQuantity    *int
	QuantityIncrements *int
	IsActive           bool
	UpdatedAt          time.Time
}

// CartLine is a persisted row of a dealer's active cart. Prices are never stored.
type CartLine struct {
	ID               uuid.UUID
	DealerID         uuid.UUID
	ShopifyProductID int64
	ShopifyVariantID int64
	Quantity         int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// VolumeDiscount is one step of a volume discount ladder
type VolumeDiscount struct {
	MinQuantity     int
	DiscountPercent decimal.Decimal
	AppliesTo       DiscountScope
}

// CartItem is a priced line of a cart
type CartItem struct {
	ID                 string
	ShopifyProductID   int64
	ShopifyVariantID   int64
	SKU                string
	Title              string
	Quantity           int
	UnitPrice          decimal.Decimal
	ListPrice          decimal.Decimal
	DiscountPercent    decimal.Decimal
	TotalPrice         decimal.Decimal
	MinimumQuantity    *int
	QuantityIncrements *int
	InStock            bool
	StockQuantity      *int
	VolumeDiscount     *VolumeDiscount
}

// CartSummary is derived from the cart items on every read and never persisted
type CartSummary struct {
	Items                  []CartItem
	ItemCount              int
	TotalQuantity          int
	Subtotal               decimal.Decimal
	TotalDiscount          decimal.Decimal
	TierDiscountPercent    decimal.Decimal
	VolumeDiscountsApplied []VolumeDiscount
	SavingsFromListPrice   decimal.Decimal
	TotalEstimated         decimal.Decimal
	EstimatedTax           *decimal.Decimal
	EstimatedShipping      *decimal.Decimal
}

// ValidationResult reports a business rule outcome for one cart line
type ValidationResult struct {
	ItemID          string
	LineIndex       int
	Type            ValidationType
	Message         string
	Severity        Severity
	SuggestedAction *string
}

// SavedCart is a named snapshot of a dealer's cart
type SavedCart struct {
	ID         uuid.UUID
	DealerID   uuid.UUID
	Name       string
	ItemCount  int
	TotalValue decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SavedCartItem is a line of a saved cart
type SavedCartItem struct {
	ID               uuid.UUID
	SavedCartID      uuid.UUID
	ShopifyProductID int64
	ShopifyVariantID int64
	SKU              string
	Quantity         int
	CreatedAt        time.Time
}

// BulkUploadRow is one (SKU, quantity) row of a bulk upload, 1-based
type BulkUploadRow struct {
	Row      int
	SKU      string
	Quantity int
}

// BulkRowIssue describes why a bulk upload row failed or was flagged
type BulkRowIssue struct {
	Row     int
	SKU     string
	Message string
}

// BulkUploadResult is returned once per bulk upload request
type BulkUploadResult struct {
	Successful int
	Failed     int
	Errors     []BulkRowIssue
	Warnings   []BulkRowIssue
}
