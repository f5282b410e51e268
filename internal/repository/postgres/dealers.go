package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/izerwaren/dealerapi/internal/domain"
	"github.com/izerwaren/dealerapi/pkg/errors"
)

type dealerRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDealerRepository creates a new dealer repository
func NewDealerRepository(db *sql.DB, logger *zap.Logger) *dealerRepository {
	return &dealerRepository{
		db:     db,
		logger: logger,
	}
}

const dealerColumns = `id, name, api_key_hash, tier, tier_discount_percent, is_active, created_at, updated_at`

func scanDealer(row interface{ Scan(...any) error }, dealer *domain.Dealer) error {
	return row.Scan(
		&dealer.ID,
		&dealer.Name,
		&dealer.APIKeyHash,
		&dealer.Tier,
		&dealer.TierDiscountPercent,
		&dealer.IsActive,
		&dealer.CreatedAt,
		&dealer.UpdatedAt,
	)
}

func (r *dealerRepository) GetByAPIKey(ctx context.Context, apiKey string) (*domain.Dealer, error) {
	// bcrypt hashes are salted, so every active dealer is checked in turn
	query := `SELECT ` + dealerColumns + ` FROM dealers WHERE is_active = true`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query dealers", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var dealer domain.Dealer
		if err := scanDealer(rows, &dealer); err != nil {
			r.logger.Warn("Failed to scan dealer", zap.Error(err))
			continue
		}

		if err := bcrypt.CompareHashAndPassword([]byte(dealer.APIKeyHash), []byte(apiKey)); err == nil {
			return &dealer, nil
		}
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Failed to iterate dealers", zap.Error(err))
		return nil, err
	}

	return nil, &errors.ErrUnauthorized{Message: "invalid API key"}
}

func (r *dealerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Dealer, error) {
	query := `SELECT ` + dealerColumns + ` FROM dealers WHERE id = $1`

	var dealer domain.Dealer
	err := scanDealer(r.db.QueryRowContext(ctx, query, id), &dealer)
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "dealer", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get dealer by ID", zap.Error(err))
		return nil, err
	}

	return &dealer, nil
}

func (r *dealerRepository) Create(ctx context.Context, dealer *domain.Dealer) error {
	query := `
		INSERT INTO dealers (` + dealerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	now := time.Now()
	if dealer.ID == uuid.Nil {
		dealer.ID = uuid.New()
	}
	if dealer.CreatedAt.IsZero() {
		dealer.CreatedAt = now
	}
	if dealer.UpdatedAt.IsZero() {
		dealer.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, query,
		dealer.ID,
		dealer.Name,
		dealer.APIKeyHash,
		dealer.Tier,
		dealer.TierDiscountPercent,
		dealer.IsActive,
		dealer.CreatedAt,
		dealer.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create dealer", zap.Error(err))
		return err
	}

	return nil
}

// TierDiscountFor returns the tier discount of an active dealer
func (r *dealerRepository) TierDiscountFor(ctx context.Context, dealerID uuid.UUID) (decimal.Decimal, error) {
	query := `SELECT tier_discount_percent FROM dealers WHERE id = $1 AND is_active = true`

	var percent decimal.Decimal
	err := r.db.QueryRowContext(ctx, query, dealerID).Scan(&percent)
	if err == sql.ErrNoRows {
		return decimal.Zero, &errors.ErrNotFound{Resource: "dealer", ID: dealerID.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get dealer tier discount", zap.Error(err))
		return decimal.Zero, err
	}

	return percent, nil
}
