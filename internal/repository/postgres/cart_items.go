package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/izerwaren/dealerapi/internal/domain"
	"github.com/izerwaren/dealerapi/pkg/errors"
)

type cartItemRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCartItemRepository creates a new active cart repository
func NewCartItemRepository(db *sql.DB, logger *zap.Logger) *cartItemRepository {
	return &cartItemRepository{
		db:     db,
		logger: logger,
	}
}

func (r *cartItemRepository) ListByDealer(ctx context.Context, dealerID uuid.UUID) ([]*domain.CartLine, error) {
	query := `
		SELECT id, dealer_id, shopify_product_id, shopify_variant_id, quantity, created_at, updated_at
		FROM cart_items
		WHERE dealer_id = $1
		ORDER BY created_at, shopify_variant_id
	`

	rows, err := r.db.QueryContext(ctx, query, dealerID)
	if err != nil {
		r.logger.Error("Failed to list cart items", zap.String("dealer_id", dealerID.String()), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	lines := make([]*domain.CartLine, 0)
	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(
			&line.ID,
			&line.DealerID,
			&line.ShopifyProductID,
			&line.ShopifyVariantID,
			&line.Quantity,
			&line.CreatedAt,
			&line.UpdatedAt,
		); err != nil {
			r.logger.Error("Failed to scan cart item", zap.Error(err))
			return nil, err
		}
		lines = append(lines, &line)
	}

	return lines, rows.Err()
}

const mergeCartItemQuery = `
	INSERT INTO cart_items (id, dealer_id, shopify_product_id, shopify_variant_id, quantity, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (dealer_id, shopify_variant_id) DO UPDATE SET
		quantity = cart_items.quantity + EXCLUDED.quantity,
		updated_at = EXCLUDED.updated_at
`

// AddQuantity inserts the line or adds its quantity to the existing row for the same variant
func (r *cartItemRepository) AddQuantity(ctx context.Context, line *domain.CartLine) error {
	now := time.Now()
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	line.CreatedAt = now
	line.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, mergeCartItemQuery,
		line.ID,
		line.DealerID,
		line.ShopifyProductID,
		line.ShopifyVariantID,
		line.Quantity,
		line.CreatedAt,
		line.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to add cart item", zap.Int64("variant_id", line.ShopifyVariantID), zap.Error(err))
		return err
	}

	return nil
}

// AddQuantities merges every line into the dealer's cart in one transaction.
// Either all lines are merged or none are.
func (r *cartItemRepository) AddQuantities(ctx context.Context, dealerID uuid.UUID, lines []*domain.CartLine) error {
	if len(lines) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	for i, line := range lines {
		if line.ID == uuid.Nil {
			line.ID = uuid.New()
		}
		line.DealerID = dealerID
		line.CreatedAt = now.Add(time.Duration(i) * time.Microsecond)
		line.UpdatedAt = line.CreatedAt

		if _, err := tx.ExecContext(ctx, mergeCartItemQuery,
			line.ID,
			line.DealerID,
			line.ShopifyProductID,
			line.ShopifyVariantID,
			line.Quantity,
			line.CreatedAt,
			line.UpdatedAt,
		); err != nil {
			r.logger.Error("Failed to merge cart item", zap.Int64("variant_id", line.ShopifyVariantID), zap.Error(err))
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit cart merge", zap.Error(err))
		return fmt.Errorf("failed to commit: %w", err)
	}

	return nil
}

func (r *cartItemRepository) SetQuantity(ctx context.Context, dealerID uuid.UUID, variantID int64, quantity int) error {
	query := `
		UPDATE cart_items SET quantity = $1, updated_at = $2
		WHERE dealer_id = $3 AND shopify_variant_id = $4
	`

	result, err := r.db.ExecContext(ctx, query, quantity, time.Now(), dealerID, variantID)
	if err != nil {
		r.logger.Error("Failed to update cart item quantity", zap.Int64("variant_id", variantID), zap.Error(err))
		return err
	}

	return r.requireAffected(result, variantID)
}

func (r *cartItemRepository) Delete(ctx context.Context, dealerID uuid.UUID, variantID int64) error {
	query := `DELETE FROM cart_items WHERE dealer_id = $1 AND shopify_variant_id = $2`

	result, err := r.db.ExecContext(ctx, query, dealerID, variantID)
	if err != nil {
		r.logger.Error("Failed to delete cart item", zap.Int64("variant_id", variantID), zap.Error(err))
		return err
	}

	return r.requireAffected(result, variantID)
}

func (r *cartItemRepository) Clear(ctx context.Context, dealerID uuid.UUID) error {
	query := `DELETE FROM cart_items WHERE dealer_id = $1`

	if _, err := r.db.ExecContext(ctx, query, dealerID); err != nil {
		r.logger.Error("Failed to clear cart", zap.String("dealer_id", dealerID.String()), zap.Error(err))
		return err
	}

	return nil
}

// Replace swaps the whole active cart for the given lines in one transaction
func (r *cartItemRepository) Replace(ctx context.Context, dealerID uuid.UUID, lines []*domain.CartLine) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE dealer_id = $1`, dealerID); err != nil {
		r.logger.Error("Failed to clear cart for replace", zap.Error(err))
		return err
	}

	insert := `
		INSERT INTO cart_items (id, dealer_id, shopify_product_id, shopify_variant_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (dealer_id, shopify_variant_id) DO UPDATE SET
			quantity = cart_items.quantity + EXCLUDED.quantity
	`
	now := time.Now()
	for i, line := range lines {
		if line.ID == uuid.Nil {
			line.ID = uuid.New()
		}
		line.DealerID = dealerID
		// keep the saved order stable under ORDER BY created_at
		line.CreatedAt = now.Add(time.Duration(i) * time.Microsecond)
		line.UpdatedAt = line.CreatedAt

		if _, err := tx.ExecContext(ctx, insert,
			line.ID,
			line.DealerID,
			line.ShopifyProductID,
			line.ShopifyVariantID,
			line.Quantity,
			line.CreatedAt,
			line.UpdatedAt,
		); err != nil {
			r.logger.Error("Failed to insert cart item", zap.Int64("variant_id", line.ShopifyVariantID), zap.Error(err))
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit cart replace", zap.Error(err))
		return fmt.Errorf("failed to commit: %w", err)
	}

	return nil
}

func (r *cartItemRepository) requireAffected(result sql.Result, variantID int64) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &errors.ErrNotFound{Resource: "cart item", ID: strconv.FormatInt(variantID, 10)}
	}
	return nil
}
