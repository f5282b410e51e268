package service

import (
	"github.com/izerwaren/dealerapi/internal/domain"
	"github.com/izerwaren/dealerapi/internal/pricing"
)

// AddItemRequest adds a variant to the active cart
type AddItemRequest struct {
	ShopifyProductID int64 `json:"shopify_product_id"`
	ShopifyVariantID int64 `json:"shopify_variant_id" binding:"required"`
	Quantity         int   `json:"quantity"`
}

// UpdateQuantityRequest sets the quantity of a cart line
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type PriceLine struct {
	ItemID           string `json:"item_id,omitempty"`
	ShopifyProductID int64  `json:"shopify_product_id"`
	ShopifyVariantID int64  `json:"shopify_variant_id" binding:"required"`
	Quantity         int    `json:"quantity"`
}

// PriceRequest prices ad-hoc lines without touching the active cart
type PriceRequest struct {
	Lines       []PriceLine  `json:"lines" binding:"required,min=1"`
	Destination *Destination `json:"destination,omitempty"`
}

type Destination struct {
	Country    string `json:"country"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
}

type BulkRow struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// BulkUploadRequest is the JSON form of a bulk upload. Row numbers are 1-based positions.
type BulkUploadRequest struct {
	Rows []BulkRow `json:"rows" binding:"required"`
}

type SaveCartRequest struct {
	Name string `json:"name" binding:"required"`
}

// CheckoutRequest carries the optional draft order details
type CheckoutRequest struct {
	Email    *string          `json:"email,omitempty"`
	Note     *string          `json:"note,omitempty"`
	Shipping *ShippingAddress `json:"shipping,omitempty"`
}

type ShippingAddress struct {
	Name       string  `json:"name" binding:"required"`
	Company    *string `json:"company,omitempty"`
	Street     string  `json:"street" binding:"required"`
	Street2    *string `json:"street2,omitempty"`
	City       string  `json:"city" binding:"required"`
	State      *string `json:"state,omitempty"`
	PostalCode string  `json:"postal_code" binding:"required"`
	Country    string  `json:"country" binding:"required"`
	Phone      *string `json:"phone,omitempty"`
}

// ToCommandLines converts request lines to engine input, preserving order
func (r PriceRequest) ToCommandLines() []pricing.RequestedLine {
	lines := make([]pricing.RequestedLine, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, pricing.RequestedLine{
			ItemID:    l.ItemID,
			ProductID: l.ShopifyProductID,
			VariantID: l.ShopifyVariantID,
			Quantity:  l.Quantity,
		})
	}
	return lines
}

// ToDestination returns nil when no destination was sent
func (d *Destination) ToDestination() *pricing.Destination {
	if d == nil {
		return nil
	}
	return &pricing.Destination{Country: d.Country, Region: d.Region, PostalCode: d.PostalCode}
}

// ToRows numbers the rows from 1 in request order
func (r BulkUploadRequest) ToRows() []domain.BulkUploadRow {
	rows := make([]domain.BulkUploadRow, 0, len(r.Rows))
	for i, row := range r.Rows {
		rows = append(rows, domain.BulkUploadRow{Row: i + 1, SKU: row.SKU, Quantity: row.Quantity})
	}
	return rows
}
