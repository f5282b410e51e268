package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/izerwaren/dealerapi/internal/bulkupload"
	"github.com/izerwaren/dealerapi/internal/domain"
	"github.com/izerwaren/dealerapi/internal/pricing"
	"github.com/izerwaren/dealerapi/internal/repository"
	"github.com/izerwaren/dealerapi/pkg/errors"
)

// Pricer prices a set of lines for a dealer
type Pricer interface {
	PriceCart(ctx context.Context, cmd pricing.PriceCartCommand) (pricing.PriceCartResult, error)
}

// BulkReconciler resolves and prices bulk upload rows
type BulkReconciler interface {
	Reconcile(ctx context.Context, dealerID uuid.UUID, rows []domain.BulkUploadRow) (*bulkupload.Result, error)
}

// VariantResolver resolves a variant to its catalog entry
type VariantResolver interface {
	Resolve(ctx context.Context, productID, variantID int64) (*domain.CatalogEntry, error)
}

// CartView is a freshly priced cart
type CartView struct {
	Summary     domain.CartSummary
	Validations []domain.ValidationResult
}

// BulkUploadOutcome is the reconciliation report plus the cart after merging accepted rows
type BulkUploadOutcome struct {
	Report domain.BulkUploadResult
	Cart   *CartView
}

type cartService struct {
	repos      *repository.Repositories
	catalog    VariantResolver
	pricer     Pricer
	reconciler BulkReconciler
	logger     *zap.Logger
}

// NewCartService creates a new active cart service
func NewCartService(
	repos *repository.Repositories,
	catalog VariantResolver,
	pricer Pricer,
	reconciler BulkReconciler,
	logger *zap.Logger,
) *cartService {
	return &cartService{
		repos:      repos,
		catalog:    catalog,
		pricer:     pricer,
		reconciler: reconciler,
		logger:     logger,
	}
}

// GetCart loads the active cart and prices it. Totals are recomputed on every read.
func (s *cartService) GetCart(ctx context.Context, dealerID uuid.UUID) (*CartView, error) {
	lines, err := s.repos.CartItem.ListByDealer(ctx, dealerID)
	if err != nil {
		return nil, err
	}

	requested := make([]pricing.RequestedLine, 0, len(lines))
	for _, line := range lines {
		requested = append(requested, pricing.RequestedLine{
			ItemID:    line.ID.String(),
			ProductID: line.ShopifyProductID,
			VariantID: line.ShopifyVariantID,
			Quantity:  line.Quantity,
		})
	}

	return s.price(ctx, dealerID, requested, nil)
}

// AddItem merges quantity into the dealer's cart line for the variant
func (s *cartService) AddItem(ctx context.Context, dealerID uuid.UUID, req AddItemRequest) (*CartView, error) {
	if req.Quantity <= 0 {
		return nil, &errors.ErrValidation{Field: "quantity", Message: "must be greater than zero"}
	}

	entry, err := s.catalog.Resolve(ctx, req.ShopifyProductID, req.ShopifyVariantID)
	if err != nil {
		return nil, err
	}
	if !entry.IsActive {
		return nil, &errors.ErrValidation{
			Field:   "shopify_variant_id",
			Message: fmt.Sprintf("variant %d is discontinued", req.ShopifyVariantID),
		}
	}

	line := &domain.CartLine{
		DealerID:         dealerID,
		ShopifyProductID: entry.ShopifyProductID,
		ShopifyVariantID: entry.ShopifyVariantID,
		Quantity:         req.Quantity,
	}
	if err := s.repos.CartItem.AddQuantity(ctx, line); err != nil {
		return nil, err
	}

	s.logger.Info("Cart item added",
		zap.String("dealer_id", dealerID.String()),
		zap.Int64("variant_id", entry.ShopifyVariantID),
		zap.Int("quantity", req.Quantity),
	)

	return s.GetCart(ctx, dealerID)
}

// UpdateQuantity sets the quantity of an existing line
func (s *cartService) UpdateQuantity(ctx context.Context, dealerID uuid.UUID, variantID int64, quantity int) (*CartView, error) {
	if quantity <= 0 {
		return nil, &errors.ErrValidation{Field: "quantity", Message: "must be greater than zero"}
	}

	if err := s.repos.CartItem.SetQuantity(ctx, dealerID, variantID, quantity); err != nil {
		return nil, err
	}

	return s.GetCart(ctx, dealerID)
}

func (s *cartService) RemoveItem(ctx context.Context, dealerID uuid.UUID, variantID int64) (*CartView, error) {
	if err := s.repos.CartItem.Delete(ctx, dealerID, variantID); err != nil {
		return nil, err
	}

	return s.GetCart(ctx, dealerID)
}

func (s *cartService) Clear(ctx context.Context, dealerID uuid.UUID) error {
	return s.repos.CartItem.Clear(ctx, dealerID)
}

// Price prices ad-hoc lines without persisting them
func (s *cartService) Price(ctx context.Context, dealerID uuid.UUID, req PriceRequest) (*CartView, error) {
	return s.price(ctx, dealerID, req.ToCommandLines(), req.Destination.ToDestination())
}

// BulkUpload reconciles the rows and merges every accepted row into the active cart
func (s *cartService) BulkUpload(ctx context.Context, dealerID uuid.UUID, rows []domain.BulkUploadRow) (*BulkUploadOutcome, error) {
	result, err := s.reconciler.Reconcile(ctx, dealerID, rows)
	if err != nil {
		return nil, err
	}

	lines := make([]*domain.CartLine, 0, len(result.Accepted))
	for _, accepted := range result.Accepted {
		lines = append(lines, &domain.CartLine{
			DealerID:         dealerID,
			ShopifyProductID: accepted.Line.ProductID,
			ShopifyVariantID: accepted.Line.VariantID,
			Quantity:         accepted.Line.Quantity,
		})
	}
	if err := s.repos.CartItem.AddQuantities(ctx, dealerID, lines); err != nil {
		return nil, fmt.Errorf("failed to merge bulk upload: %w", err)
	}

	cart, err := s.GetCart(ctx, dealerID)
	if err != nil {
		return nil, err
	}

	return &BulkUploadOutcome{Report: result.Report, Cart: cart}, nil
}

func (s *cartService) price(ctx context.Context, dealerID uuid.UUID, lines []pricing.RequestedLine, destination *pricing.Destination) (*CartView, error) {
	result, err := s.pricer.PriceCart(ctx, pricing.PriceCartCommand{
		DealerID:    dealerID,
		Lines:       lines,
		Destination: destination,
	})
	if err != nil {
		var cfgErr *errors.ErrConfiguration
		if stderrors.As(err, &cfgErr) {
			s.logger.Error("Pricing configuration error", zap.String("dealer_id", dealerID.String()), zap.Error(err))
		}
		return nil, err
	}

	return &CartView{Summary: result.Summary, Validations: result.Validations}, nil
}
