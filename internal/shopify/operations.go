package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/izerwaren/dealerapi/pkg/errors"
)

// ProductStatusActive is the status of a product that can be sold
const ProductStatusActive = "ACTIVE"

type metafieldValue struct {
	Value string `json:"value"`
}

// Variant is a product variant as returned by the Admin API
type Variant struct {
	ID                string `json:"id"`
	SKU               string `json:"sku"`
	Title             string `json:"title"`
	Price             string `json:"price"`
	AvailableForSale  bool   `json:"availableForSale"`
	InventoryQuantity *int   `json:"inventoryQuantity"`
}

// Product is a product with its variants flattened out of the edge lists
type Product struct {
	ID                 string
	Title              string
	ProductType        string
	Status             string
	MinimumQuantity    *int
	QuantityIncrements *int
	Variants           []Variant
}

// ProductsPage is one page of ProductsQuery
type ProductsPage struct {
	Products    []Product
	HasNextPage bool
	EndCursor   string
}

// VariantMatch is a variant found by SKU together with its product
type VariantMatch struct {
	Variant     Variant
	ProductID   string
	Title       string
	ProductType string
	Status      string
}

// DraftOrder is the created draft order
type DraftOrder struct {
	ID         int64
	GID        string
	Name       string
	TotalPrice string
}

// FetchProducts returns one page of products. An empty after starts from the first page.
func (c *Client) FetchProducts(ctx context.Context, first int, after string) (*ProductsPage, error) {
	variables := map[string]interface{}{
		"first": first,
	}
	if after != "" {
		variables["after"] = after
	}

	resp, err := c.Execute(ctx, ProductsQuery, variables)
	if err != nil {
		return nil, err
	}

	var result struct {
		Products struct {
			PageInfo struct {
				HasNextPage bool   `json:"hasNextPage"`
				EndCursor   string `json:"endCursor"`
			} `json:"pageInfo"`
			Edges []struct {
				Node struct {
					ID                 string          `json:"id"`
					Title              string          `json:"title"`
					ProductType        string          `json:"productType"`
					Status             string          `json:"status"`
					MinimumQuantity    *metafieldValue `json:"minimumQuantity"`
					QuantityIncrements *metafieldValue `json:"quantityIncrements"`
					Variants           struct {
						Edges []struct {
							Node Variant `json:"node"`
						} `json:"edges"`
					} `json:"variants"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	}

	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse products response: %w", err)
	}

	page := &ProductsPage{
		Products:    make([]Product, 0, len(result.Products.Edges)),
		HasNextPage: result.Products.PageInfo.HasNextPage,
		EndCursor:   result.Products.PageInfo.EndCursor,
	}
	for _, edge := range result.Products.Edges {
		node := edge.Node
		product := Product{
			ID:                 node.ID,
			Title:              node.Title,
			ProductType:        node.ProductType,
			Status:             node.Status,
			MinimumQuantity:    metafieldInt(node.MinimumQuantity),
			QuantityIncrements: metafieldInt(node.QuantityIncrements),
			Variants:           make([]Variant, 0, len(node.Variants.Edges)),
		}
		for _, v := range node.Variants.Edges {
			product.Variants = append(product.Variants, v.Node)
		}
		page.Products = append(page.Products, product)
	}

	return page, nil
}

// FindVariantBySKU looks a variant up by exact SKU
func (c *Client) FindVariantBySKU(ctx context.Context, sku string) (*VariantMatch, error) {
	variables := map[string]interface{}{
		"query": fmt.Sprintf("sku:%q", sku),
	}

	resp, err := c.Execute(ctx, VariantBySKUQuery, variables)
	if err != nil {
		return nil, err
	}

	var result struct {
		ProductVariants struct {
			Edges []struct {
				Node struct {
					Variant
					Product struct {
						ID          string `json:"id"`
						Title       string `json:"title"`
						ProductType string `json:"productType"`
						Status      string `json:"status"`
					} `json:"product"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"productVariants"`
	}

	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse variant response: %w", err)
	}

	// the search syntax is fuzzy, so only an exact match counts
	for _, edge := range result.ProductVariants.Edges {
		if edge.Node.SKU != sku {
			continue
		}
		return &VariantMatch{
			Variant:     edge.Node.Variant,
			ProductID:   edge.Node.Product.ID,
			Title:       edge.Node.Product.Title,
			ProductType: edge.Node.Product.ProductType,
			Status:      edge.Node.Product.Status,
		}, nil
	}

	return nil, &errors.ErrNotFound{Resource: "sku", ID: sku}
}

// CreateDraftOrder runs DraftOrderCreateMutation and returns the created draft order
func (c *Client) CreateDraftOrder(ctx context.Context, input DraftOrderInput) (*DraftOrder, error) {
	variables := map[string]interface{}{
		"input": input,
	}

	resp, err := c.Execute(ctx, DraftOrderCreateMutation, variables)
	if err != nil {
		return nil, fmt.Errorf("failed to create draft order: %w", err)
	}

	var result struct {
		DraftOrderCreate struct {
			DraftOrder *struct {
				ID         string `json:"id"`
				Name       string `json:"name"`
				TotalPrice string `json:"totalPrice"`
			} `json:"draftOrder"`
			UserErrors []UserError `json:"userErrors"`
		} `json:"draftOrderCreate"`
	}

	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse draft order response: %w", err)
	}

	if len(result.DraftOrderCreate.UserErrors) > 0 {
		return nil, fmt.Errorf("shopify user errors: %v", result.DraftOrderCreate.UserErrors)
	}
	if result.DraftOrderCreate.DraftOrder == nil {
		return nil, fmt.Errorf("draft order missing from response")
	}

	draft := result.DraftOrderCreate.DraftOrder
	id, err := ExtractIDFromGID(draft.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to extract draft order ID: %w", err)
	}

	return &DraftOrder{
		ID:         id,
		GID:        draft.ID,
		Name:       draft.Name,
		TotalPrice: draft.TotalPrice,
	}, nil
}

// ExtractIDFromGID returns the numeric id of a GID such as gid://shopify/ProductVariant/123
func ExtractIDFromGID(gid string) (int64, error) {
	parts := strings.Split(gid, "/")
	if len(parts) < 4 {
		return 0, fmt.Errorf("invalid GID format: %s", gid)
	}

	id, err := strconv.ParseInt(parts[len(parts)-1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse ID from GID: %w", err)
	}

	return id, nil
}

// VariantGID builds the GID of a product variant
func VariantGID(variantID int64) string {
	return fmt.Sprintf("gid://shopify/ProductVariant/%d", variantID)
}

func metafieldInt(m *metafieldValue) *int {
	if m == nil {
		return nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(m.Value))
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}
