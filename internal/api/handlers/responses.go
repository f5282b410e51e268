package handlers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/izerwaren/dealerapi/internal/category"
	"github.com/izerwaren/dealerapi/internal/domain"
	"github.com/izerwaren/dealerapi/internal/service"
)

type VolumeDiscountResponse struct {
	MinQuantity     int     `json:"min_quantity"`
	DiscountPercent float64 `json:"discount_percent"`
	AppliesTo       string  `json:"applies_to"`
}

type CartItemResponse struct {
	ID                 string                  `json:"id"`
	ShopifyProductID   int64                   `json:"shopify_product_id"`
	ShopifyVariantID   int64                   `json:"shopify_variant_id"`
	SKU                string                  `json:"sku"`
	Title              string                  `json:"title"`
	Quantity           int                     `json:"quantity"`
	UnitPrice          float64                 `json:"unit_price"`
	ListPrice          float64                 `json:"list_price"`
	DiscountPercent    float64                 `json:"discount_percent"`
	TotalPrice         float64                 `json:"total_price"`
	MinimumQuantity    *int                    `json:"minimum_quantity,omitempty"`
	QuantityIncrements *int                    `json:"quantity_increments,omitempty"`
	InStock            bool                    `json:"in_stock"`
	StockQuantity      *int                    `json:"stock_quantity,omitempty"`
	VolumeDiscount     *VolumeDiscountResponse `json:"volume_discount,omitempty"`
}

type CartSummaryResponse struct {
	Items                  []CartItemResponse       `json:"items"`
	ItemCount              int                      `json:"item_count"`
	TotalQuantity          int                      `json:"total_quantity"`
	Subtotal               float64                  `json:"subtotal"`
	TotalDiscount          float64                  `json:"total_discount"`
	TierDiscountPercent    float64                  `json:"tier_discount_percent"`
	VolumeDiscountsApplied []VolumeDiscountResponse `json:"volume_discounts_applied"`
	SavingsFromListPrice   float64                  `json:"savings_from_list_price"`
	EstimatedTax           *float64                 `json:"estimated_tax,omitempty"`
	EstimatedShipping      *float64                 `json:"estimated_shipping,omitempty"`
	TotalEstimated         float64                  `json:"total_estimated"`
}

type ValidationResponse struct {
	ItemID          string  `json:"item_id"`
	Type            string  `json:"type"`
	Message         string  `json:"message"`
	Severity        string  `json:"severity"`
	SuggestedAction *string `json:"suggested_action,omitempty"`
}

// CartResponse is a priced cart as returned by every cart endpoint
type CartResponse struct {
	Summary     CartSummaryResponse  `json:"summary"`
	Validations []ValidationResponse `json:"validations"`
	CanCheckout bool                 `json:"can_checkout"`
}

type BulkRowIssueResponse struct {
	Row     int    `json:"row"`
	SKU     string `json:"sku"`
	Message string `json:"message"`
}

type BulkUploadResponse struct {
	Successful int                    `json:"successful"`
	Failed     int                    `json:"failed"`
	Errors     []BulkRowIssueResponse `json:"errors"`
	Warnings   []BulkRowIssueResponse `json:"warnings"`
	Cart       CartResponse           `json:"cart"`
}

type SavedCartResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ItemCount  int       `json:"item_count"`
	TotalValue float64   `json:"total_value"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type SavedCartItemResponse struct {
	ShopifyProductID int64  `json:"shopify_product_id"`
	ShopifyVariantID int64  `json:"shopify_variant_id"`
	SKU              string `json:"sku"`
	Quantity         int    `json:"quantity"`
}

type SavedCartDetailResponse struct {
	SavedCartResponse
	Items []SavedCartItemResponse `json:"items"`
}

type CategoryResponse struct {
	OwnerCategory string   `json:"owner_category"`
	DBCategories  []string `json:"db_categories"`
	ProductCount  int      `json:"product_count"`
	Description   *string  `json:"description,omitempty"`
	Mapped        bool     `json:"mapped"`
}

type CategorySummaryResponse struct {
	TotalMappedCategories      int     `json:"total_mapped_categories"`
	TotalMappedProducts        int     `json:"total_mapped_products"`
	MappingCoverage            float64 `json:"mapping_coverage"`
	AverageProductsPerCategory int     `json:"average_products_per_category"`
}

type CatalogEntryResponse struct {
	ShopifyProductID int64   `json:"shopify_product_id"`
	ShopifyVariantID int64   `json:"shopify_variant_id"`
	SKU              string  `json:"sku"`
	Title            string  `json:"title"`
	CategoryName     string  `json:"category_name"`
	ListPrice        float64 `json:"list_price"`
	InStock          bool    `json:"in_stock"`
	StockQuantity    *int    `json:"stock_quantity,omitempty"`
	MinimumQuantity  *int    `json:"minimum_quantity,omitempty"`
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func moneyPtr(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	v := money(*d)
	return &v
}

func toVolumeDiscountResponse(v domain.VolumeDiscount) VolumeDiscountResponse {
	return VolumeDiscountResponse{
		MinQuantity:     v.MinQuantity,
		DiscountPercent: v.DiscountPercent.InexactFloat64(),
		AppliesTo:       string(v.AppliesTo),
	}
}

func toCartResponse(view *service.CartView) CartResponse {
	s := view.Summary
	resp := CartResponse{
		Summary: CartSummaryResponse{
			Items:                  make([]CartItemResponse, 0, len(s.Items)),
			ItemCount:              s.ItemCount,
			TotalQuantity:          s.TotalQuantity,
			Subtotal:               money(s.Subtotal),
			TotalDiscount:          money(s.TotalDiscount),
			TierDiscountPercent:    s.TierDiscountPercent.InexactFloat64(),
			VolumeDiscountsApplied: make([]VolumeDiscountResponse, 0, len(s.VolumeDiscountsApplied)),
			SavingsFromListPrice:   money(s.SavingsFromListPrice),
			EstimatedTax:           moneyPtr(s.EstimatedTax),
			EstimatedShipping:      moneyPtr(s.EstimatedShipping),
			TotalEstimated:         money(s.TotalEstimated),
		},
		Validations: make([]ValidationResponse, 0, len(view.Validations)),
		CanCheckout: len(s.Items) > 0,
	}

	for _, item := range s.Items {
		ir := CartItemResponse{
			ID:                 item.ID,
			ShopifyProductID:   item.ShopifyProductID,
			ShopifyVariantID:   item.ShopifyVariantID,
			SKU:                item.SKU,
			Title:              item.Title,
			Quantity:           item.Quantity,
			UnitPrice:          money(item.UnitPrice),
			ListPrice:          money(item.ListPrice),
			DiscountPercent:    item.DiscountPercent.InexactFloat64(),
			TotalPrice:         money(item.TotalPrice),
			MinimumQuantity:    item.MinimumQuantity,
			QuantityIncrements: item.QuantityIncrements,
			InStock:            item.InStock,
			StockQuantity:      item.StockQuantity,
		}
		if item.VolumeDiscount != nil {
			vd := toVolumeDiscountResponse(*item.VolumeDiscount)
			ir.VolumeDiscount = &vd
		}
		resp.Summary.Items = append(resp.Summary.Items, ir)
	}

	for _, v := range s.VolumeDiscountsApplied {
		resp.Summary.VolumeDiscountsApplied = append(resp.Summary.VolumeDiscountsApplied, toVolumeDiscountResponse(v))
	}

	for _, v := range view.Validations {
		if v.Blocking() {
			resp.CanCheckout = false
		}
		resp.Validations = append(resp.Validations, ValidationResponse{
			ItemID:          v.ItemID,
			Type:            string(v.Type),
			Message:         v.Message,
			Severity:        string(v.Severity),
			SuggestedAction: v.SuggestedAction,
		})
	}

	return resp
}

func toIssues(issues []domain.BulkRowIssue) []BulkRowIssueResponse {
	out := make([]BulkRowIssueResponse, 0, len(issues))
	for _, i := range issues {
		out = append(out, BulkRowIssueResponse{Row: i.Row, SKU: i.SKU, Message: i.Message})
	}
	return out
}

func toSavedCartResponse(cart *domain.SavedCart) SavedCartResponse {
	return SavedCartResponse{
		ID:         cart.ID.String(),
		Name:       cart.Name,
		ItemCount:  cart.ItemCount,
		TotalValue: money(cart.TotalValue),
		CreatedAt:  cart.CreatedAt,
		UpdatedAt:  cart.UpdatedAt,
	}
}

func toSavedCartDetailResponse(detail *service.SavedCartDetail) SavedCartDetailResponse {
	resp := SavedCartDetailResponse{
		SavedCartResponse: toSavedCartResponse(detail.Cart),
		Items:             make([]SavedCartItemResponse, 0, len(detail.Items)),
	}
	for _, item := range detail.Items {
		resp.Items = append(resp.Items, SavedCartItemResponse{
			ShopifyProductID: item.ShopifyProductID,
			ShopifyVariantID: item.ShopifyVariantID,
			SKU:              item.SKU,
			Quantity:         item.Quantity,
		})
	}
	return resp
}

func toCategoryResponse(m category.Mapping) CategoryResponse {
	dbCategories := m.DBCategories
	if dbCategories == nil {
		dbCategories = []string{}
	}
	return CategoryResponse{
		OwnerCategory: m.OwnerCategory,
		DBCategories:  dbCategories,
		ProductCount:  m.ProductCount,
		Description:   m.Description,
		Mapped:        m.Mapped(),
	}
}

func toCatalogEntryResponse(e *domain.CatalogEntry) CatalogEntryResponse {
	return CatalogEntryResponse{
		ShopifyProductID: e.ShopifyProductID,
		ShopifyVariantID: e.ShopifyVariantID,
		SKU:              e.SKU,
		Title:            e.Title,
		CategoryName:     e.CategoryName,
		ListPrice:        money(e.ListPrice),
		InStock:          e.InStock,
		StockQuantity:    e.StockQuantity,
		MinimumQuantity:  e.MinimumQuantity,
	}
}
