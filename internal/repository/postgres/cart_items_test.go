package postgres

import (
	"context"
	stderrors "errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/izerwaren/dealerapi/internal/domain"
	"github.com/izerwaren/dealerapi/pkg/errors"
)

func TestCartItemListByDealer(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCartItemRepository(db, zap.NewNop())

	dealerID := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "dealer_id", "shopify_product_id", "shopify_variant_id", "quantity", "created_at", "updated_at"}).
		AddRow(uuid.New().String(), dealerID.String(), int64(1), int64(11), int64(3), now, now).
		AddRow(uuid.New().String(), dealerID.String(), int64(2), int64(22), int64(7), now, now)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM cart_items`)).
		WithArgs(dealerID).
		WillReturnRows(rows)

	lines, err := repo.ListByDealer(context.Background(), dealerID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, int64(22), lines[1].ShopifyVariantID)
	assert.Equal(t, 7, lines[1].Quantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartItemAddQuantity_Merges(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCartItemRepository(db, zap.NewNop())

	dealerID := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta(`quantity = cart_items.quantity + EXCLUDED.quantity`)).
		WithArgs(sqlmock.AnyArg(), dealerID, int64(1), int64(11), 4, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	line := &domain.CartLine{DealerID: dealerID, ShopifyProductID: 1, ShopifyVariantID: 11, Quantity: 4}
	require.NoError(t, repo.AddQuantity(context.Background(), line))
	assert.NotEqual(t, uuid.Nil, line.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartItemSetQuantity_Missing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCartItemRepository(db, zap.NewNop())

	dealerID := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE cart_items SET quantity`)).
		WithArgs(5, sqlmock.AnyArg(), dealerID, int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetQuantity(context.Background(), dealerID, 11, 5)
	var notFound *errors.ErrNotFound
	require.True(t, stderrors.As(err, &notFound))
	assert.Equal(t, "cart item", notFound.Resource)
}

func TestCartItemDelete(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCartItemRepository(db, zap.NewNop())

	dealerID := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM cart_items WHERE dealer_id = $1 AND shopify_variant_id = $2`)).
		WithArgs(dealerID, int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete(context.Background(), dealerID, 11))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartItemReplace_Transaction(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCartItemRepository(db, zap.NewNop())

	dealerID := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM cart_items WHERE dealer_id = $1`)).
		WithArgs(dealerID).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO cart_items`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO cart_items`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	lines := []*domain.CartLine{
		{ShopifyProductID: 1, ShopifyVariantID: 11, Quantity: 2},
		{ShopifyProductID: 2, ShopifyVariantID: 22, Quantity: 5},
	}
	require.NoError(t, repo.Replace(context.Background(), dealerID, lines))
	assert.Equal(t, dealerID, lines[1].DealerID)
	assert.True(t, lines[1].CreatedAt.After(lines[0].CreatedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartItemReplace_RollsBackOnFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCartItemRepository(db, zap.NewNop())

	dealerID := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM cart_items`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO cart_items`)).
		WillReturnError(stderrors.New("boom"))
	mock.ExpectRollback()

	err := repo.Replace(context.Background(), dealerID, []*domain.CartLine{{ShopifyVariantID: 1, Quantity: 1}})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartItemAddQuantities_Transaction(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCartItemRepository(db, zap.NewNop())

	dealerID := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`ON CONFLICT (dealer_id, shopify_variant_id) DO UPDATE SET`)).
		WithArgs(sqlmock.AnyArg(), dealerID, int64(1), int64(11), 3, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`ON CONFLICT (dealer_id, shopify_variant_id) DO UPDATE SET`)).
		WithArgs(sqlmock.AnyArg(), dealerID, int64(2), int64(22), 10, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	lines := []*domain.CartLine{
		{ShopifyProductID: 1, ShopifyVariantID: 11, Quantity: 3},
		{ShopifyProductID: 2, ShopifyVariantID: 22, Quantity: 10},
	}
	require.NoError(t, repo.AddQuantities(context.Background(), dealerID, lines))
	assert.Equal(t, dealerID, lines[0].DealerID)
	assert.NotEqual(t, uuid.Nil, lines[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartItemAddQuantities_RollsBackOnFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCartItemRepository(db, zap.NewNop())

	dealerID := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO cart_items`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO cart_items`)).
		WillReturnError(stderrors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.AddQuantities(context.Background(), dealerID, []*domain.CartLine{
		{ShopifyProductID: 1, ShopifyVariantID: 11, Quantity: 3},
		{ShopifyProductID: 2, ShopifyVariantID: 22, Quantity: 10},
	})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartItemAddQuantities_EmptyIsNoop(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCartItemRepository(db, zap.NewNop())

	require.NoError(t, repo.AddQuantities(context.Background(), uuid.New(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
