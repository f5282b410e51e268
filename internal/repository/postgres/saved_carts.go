package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/izerwaren/dealerapi/internal/domain"
	"github.com/izerwaren/dealerapi/pkg/errors"
)

type savedCartRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSavedCartRepository creates a new saved cart repository
func NewSavedCartRepository(db *sql.DB, logger *zap.Logger) *savedCartRepository {
	return &savedCartRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores the cart header and its items in one transaction.
// A name already used by the same dealer is a validation error.
func (r *savedCartRepository) Create(ctx context.Context, cart *domain.SavedCart, items []*domain.SavedCartItem) error {
	now := time.Now()
	if cart.ID == uuid.Nil {
		cart.ID = uuid.New()
	}
	cart.CreatedAt = now
	cart.UpdatedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO saved_carts (id, dealer_id, name, item_count, total_value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, cart.ID, cart.DealerID, cart.Name, cart.ItemCount, cart.TotalValue, cart.CreatedAt, cart.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return &errors.ErrValidation{Field: "name", Message: fmt.Sprintf("a saved cart named %q already exists", cart.Name)}
		}
		r.logger.Error("Failed to create saved cart", zap.Error(err))
		return err
	}

	for i, item := range items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.SavedCartID = cart.ID
		item.CreatedAt = now.Add(time.Duration(i) * time.Microsecond)

		_, err := tx.ExecContext(ctx, `
			INSERT INTO saved_cart_items (id, saved_cart_id, shopify_product_id, shopify_variant_id, sku, quantity, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, item.ID, item.SavedCartID, item.ShopifyProductID, item.ShopifyVariantID, item.SKU, item.Quantity, item.CreatedAt)
		if err != nil {
			r.logger.Error("Failed to create saved cart item", zap.Int64("variant_id", item.ShopifyVariantID), zap.Error(err))
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit saved cart", zap.Error(err))
		return fmt.Errorf("failed to commit: %w", err)
	}

	return nil
}

func (r *savedCartRepository) ListByDealer(ctx context.Context, dealerID uuid.UUID) ([]*domain.SavedCart, error) {
	query := `
		SELECT id, dealer_id, name, item_count, total_value, created_at, updated_at
		FROM saved_carts
		WHERE dealer_id = $1
		ORDER BY updated_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, dealerID)
	if err != nil {
		r.logger.Error("Failed to list saved carts", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	carts := make([]*domain.SavedCart, 0)
	for rows.Next() {
		var cart domain.SavedCart
		if err := rows.Scan(
			&cart.ID,
			&cart.DealerID,
			&cart.Name,
			&cart.ItemCount,
			&cart.TotalValue,
			&cart.CreatedAt,
			&cart.UpdatedAt,
		); err != nil {
			r.logger.Error("Failed to scan saved cart", zap.Error(err))
			return nil, err
		}
		carts = append(carts, &cart)
	}

	return carts, rows.Err()
}

func (r *savedCartRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SavedCart, error) {
	query := `
		SELECT id, dealer_id, name, item_count, total_value, created_at, updated_at
		FROM saved_carts
		WHERE id = $1
	`

	var cart domain.SavedCart
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&cart.ID,
		&cart.DealerID,
		&cart.Name,
		&cart.ItemCount,
		&cart.TotalValue,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "saved cart", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get saved cart", zap.Error(err))
		return nil, err
	}

	return &cart, nil
}

func (r *savedCartRepository) GetItems(ctx context.Context, savedCartID uuid.UUID) ([]*domain.SavedCartItem, error) {
	query := `
		SELECT id, saved_cart_id, shopify_product_id, shopify_variant_id, sku, quantity, created_at
		FROM saved_cart_items
		WHERE saved_cart_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query, savedCartID)
	if err != nil {
		r.logger.Error("Failed to list saved cart items", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	items := make([]*domain.SavedCartItem, 0)
	for rows.Next() {
		var item domain.SavedCartItem
		if err := rows.Scan(
			&item.ID,
			&item.SavedCartID,
			&item.ShopifyProductID,
			&item.ShopifyVariantID,
			&item.SKU,
			&item.Quantity,
			&item.CreatedAt,
		); err != nil {
			r.logger.Error("Failed to scan saved cart item", zap.Error(err))
			return nil, err
		}
		items = append(items, &item)
	}

	return items, rows.Err()
}

func (r *savedCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM saved_carts WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete saved cart", zap.Error(err))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &errors.ErrNotFound{Resource: "saved cart", ID: id.String()}
	}
	return nil
}
