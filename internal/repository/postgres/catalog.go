package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/izerwaren/dealerapi/internal/domain"
	"github.com/izerwaren/dealerapi/pkg/errors"
)

type catalogRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCatalogRepository creates a new catalog snapshot repository
func NewCatalogRepository(db *sql.DB, logger *zap.Logger) *catalogRepository {
	return &catalogRepository{
		db:     db,
		logger: logger,
	}
}

const catalogColumns = `shopify_product_id, shopify_variant_id, sku, title, category_name, list_price,
	in_stock, stock_quantity, minimum_quantity, quantity_increments, is_active, updated_at`

func scanCatalogEntry(row interface{ Scan(...any) error }) (*domain.CatalogEntry, error) {
	var entry domain.CatalogEntry
	var category sql.NullString
	var stock, minimum, increments sql.NullInt64

	err := row.Scan(
		&entry.ShopifyProductID,
		&entry.ShopifyVariantID,
		&entry.SKU,
		&entry.Title,
		&category,
		&entry.ListPrice,
		&entry.InStock,
		&stock,
		&minimum,
		&increments,
		&entry.IsActive,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.CategoryName = category.String
	entry.StockQuantity = intFromNull(stock)
	entry.MinimumQuantity = intFromNull(minimum)
	entry.QuantityIncrements = intFromNull(increments)
	return &entry, nil
}

// Resolve looks a variant up by id. productID 0 skips the product check.
func (r *catalogRepository) Resolve(ctx context.Context, productID, variantID int64) (*domain.CatalogEntry, error) {
	query := `SELECT ` + catalogColumns + ` FROM catalog_variants
		WHERE shopify_variant_id = $1 AND ($2::bigint = 0 OR shopify_product_id = $2::bigint)`

	entry, err := scanCatalogEntry(r.db.QueryRowContext(ctx, query, variantID, productID))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "variant", ID: strconv.FormatInt(variantID, 10)}
	}
	if err != nil {
		r.logger.Error("Failed to resolve variant", zap.Int64("variant_id", variantID), zap.Error(err))
		return nil, err
	}

	return entry, nil
}

func (r *catalogRepository) ResolveSKU(ctx context.Context, sku string) (*domain.CatalogEntry, error) {
	query := `SELECT ` + catalogColumns + ` FROM catalog_variants WHERE sku = $1`

	entry, err := scanCatalogEntry(r.db.QueryRowContext(ctx, query, sku))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "sku", ID: sku}
	}
	if err != nil {
		r.logger.Error("Failed to resolve SKU", zap.String("sku", sku), zap.Error(err))
		return nil, err
	}

	return entry, nil
}

func (r *catalogRepository) Upsert(ctx context.Context, entry *domain.CatalogEntry) error {
	query := `
		INSERT INTO catalog_variants (` + catalogColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (shopify_variant_id) DO UPDATE SET
			shopify_product_id = EXCLUDED.shopify_product_id,
			sku = EXCLUDED.sku,
			title = EXCLUDED.title,
			category_name = EXCLUDED.category_name,
			list_price = EXCLUDED.list_price,
			in_stock = EXCLUDED.in_stock,
			stock_quantity = EXCLUDED.stock_quantity,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at
	`

	entry.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		entry.ShopifyProductID,
		entry.ShopifyVariantID,
		entry.SKU,
		entry.Title,
		sql.NullString{String: entry.CategoryName, Valid: entry.CategoryName != ""},
		entry.ListPrice,
		entry.InStock,
		nullInt(entry.StockQuantity),
		nullInt(entry.MinimumQuantity),
		nullInt(entry.QuantityIncrements),
		entry.IsActive,
		entry.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to upsert catalog variant", zap.String("sku", entry.SKU), zap.Error(err))
		return err
	}

	return nil
}

// ListByFilter returns active variants matching a predicate built by the category service.
// The filter is embedded as-is; it must come from category.Service, never from request input.
func (r *catalogRepository) ListByFilter(ctx context.Context, filter string, limit, offset int) ([]*domain.CatalogEntry, error) {
	if filter == "" {
		return []*domain.CatalogEntry{}, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM catalog_variants
		WHERE is_active = true AND %s
		ORDER BY title, sku
		LIMIT $1 OFFSET $2`, catalogColumns, filter)

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list catalog variants", zap.String("filter", filter), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.CatalogEntry, 0)
	for rows.Next() {
		entry, err := scanCatalogEntry(rows)
		if err != nil {
			r.logger.Error("Failed to scan catalog variant", zap.Error(err))
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
