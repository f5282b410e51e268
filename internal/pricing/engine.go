package pricing

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/izerwaren/dealerapi/internal/domain"
	"github.com/izerwaren/dealerapi/pkg/errors"
)

// CatalogResolver returns the authoritative price and stock of a variant.
// A missing variant is reported as *errors.ErrNotFound.
type CatalogResolver interface {
	Resolve(ctx context.Context, productID, variantID int64) (*domain.CatalogEntry, error)
}

// TierLookup returns a dealer's baseline discount percentage
type TierLookup interface {
	TierDiscountFor(ctx context.Context, dealerID uuid.UUID) (decimal.Decimal, error)
}

// RequestedLine is one line a dealer wants priced. ItemID is echoed back in results.
type RequestedLine struct {
	ItemID    string
	ProductID int64
	VariantID int64
	Quantity  int
}

// PriceCartCommand is the input of Engine.PriceCart
type PriceCartCommand struct {
	DealerID    uuid.UUID
	Lines       []RequestedLine
	Destination *Destination
}

// PriceCartResult holds the summary and the validation results in input order
type PriceCartResult struct {
	Summary     domain.CartSummary
	Validations []domain.ValidationResult
}

// Blocking returns the validations that must stop a checkout
func (r PriceCartResult) Blocking() []domain.ValidationResult {
	var out []domain.ValidationResult
	for _, v := range r.Validations {
		if v.Blocking() {
			out = append(out, v)
		}
	}
	return out
}

// EngineDeps wires an Engine
type EngineDeps struct {
	Catalog   CatalogResolver
	Tiers     TierLookup
	Estimator Estimator
	Ladder    *Ladder
	Logger    *zap.Logger
}

// Engine prices dealer carts. It holds no per-cart state and is safe for concurrent use.
type Engine struct {
	catalog   CatalogResolver
	tiers     TierLookup
	estimator Estimator
	ladder    *Ladder
	logger    *zap.Logger
}

// NewEngine creates a new pricing engine
func NewEngine(deps EngineDeps) (*Engine, error) {
	if deps.Catalog == nil {
		return nil, stderrors.New("pricing engine: catalog resolver is required")
	}
	if deps.Tiers == nil {
		return nil, stderrors.New("pricing engine: tier lookup is required")
	}
	ladder := deps.Ladder
	if ladder == nil {
		ladder = &Ladder{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{
		catalog:   deps.Catalog,
		tiers:     deps.Tiers,
		estimator: deps.Estimator,
		ladder:    ladder,
		logger:    logger,
	}, nil
}

type resolvedLine struct {
	index int
	line  RequestedLine
	entry *domain.CatalogEntry
}

// PriceCart resolves, validates and prices every line, then aggregates the summary.
// Unresolvable lines are reported as discontinued and left out of the totals.
func (e *Engine) PriceCart(ctx context.Context, cmd PriceCartCommand) (PriceCartResult, error) {
	if cmd.DealerID == uuid.Nil {
		return PriceCartResult{}, &errors.ErrValidation{Field: "dealer_id", Message: "is required"}
	}
	for i, line := range cmd.Lines {
		if line.Quantity <= 0 {
			return PriceCartResult{}, &errors.ErrValidation{
				Field:   fmt.Sprintf("lines[%d].quantity", i),
				Message: "must be greater than zero",
			}
		}
	}

	tierPercent, err := e.tiers.TierDiscountFor(ctx, cmd.DealerID)
	if err != nil {
		return PriceCartResult{}, err
	}
	if tierPercent.IsNegative() || tierPercent.GreaterThan(hundred) {
		return PriceCartResult{}, &errors.ErrConfiguration{
			Component: "dealer tier",
			Message:   fmt.Sprintf("tier discount %s%% is outside 0..100", tierPercent),
		}
	}

	var validations []domain.ValidationResult
	resolved := make([]resolvedLine, 0, len(cmd.Lines))
	cartQuantity := 0

	for i, line := range cmd.Lines {
		entry, err := e.catalog.Resolve(ctx, line.ProductID, line.VariantID)
		if err != nil {
			var notFound *errors.ErrNotFound
			if !stderrors.As(err, &notFound) {
				return PriceCartResult{}, fmt.Errorf("failed to resolve variant %d: %w", line.VariantID, err)
			}
			entry = nil
		}
		if entry == nil || !entry.IsActive {
			validations = append(validations, discontinued(i, line))
			continue
		}

		resolved = append(resolved, resolvedLine{index: i, line: line, entry: entry})
		cartQuantity += line.Quantity
	}

	summary := domain.CartSummary{
		Items:               make([]domain.CartItem, 0, len(resolved)),
		TierDiscountPercent: tierPercent,
		Subtotal:            decimal.Zero,
		TotalDiscount:       decimal.Zero,
	}
	listTotal := decimal.Zero
	applied := make(map[string]struct{})

	cartStep := e.ladder.Select(domain.DiscountScopeCart, cartQuantity)
	for _, r := range resolved {
		item := e.priceItem(r, tierPercent, cartStep)

		validations = append(validations, validateItem(r.index, item)...)

		if item.VolumeDiscount != nil {
			key := fmt.Sprintf("%s:%d", item.VolumeDiscount.AppliesTo, item.VolumeDiscount.MinQuantity)
			if _, seen := applied[key]; !seen {
				applied[key] = struct{}{}
				summary.VolumeDiscountsApplied = append(summary.VolumeDiscountsApplied, *item.VolumeDiscount)
			}
		}

		summary.Items = append(summary.Items, item)
		summary.TotalQuantity += item.Quantity
		summary.Subtotal = summary.Subtotal.Add(item.TotalPrice)
		listTotal = listTotal.Add(round2(item.ListPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))))
	}

	summary.ItemCount = len(summary.Items)
	summary.TotalDiscount = listTotal.Sub(summary.Subtotal)
	summary.SavingsFromListPrice = summary.TotalDiscount
	summary.TotalEstimated = summary.Subtotal

	if e.estimator != nil {
		estimate, err := e.estimator.Estimate(ctx, summary.Subtotal, cmd.Destination)
		if err != nil {
			return PriceCartResult{}, fmt.Errorf("failed to estimate tax and shipping: %w", err)
		}
		tax := round2(estimate.Tax)
		shipping := round2(estimate.Shipping)
		summary.EstimatedTax = &tax
		summary.EstimatedShipping = &shipping
		summary.TotalEstimated = summary.Subtotal.Add(tax).Add(shipping)
	}

	sort.SliceStable(validations, func(i, j int) bool {
		return validations[i].LineIndex < validations[j].LineIndex
	})

	return PriceCartResult{Summary: summary, Validations: validations}, nil
}

// priceItem combines the volume and tier discounts additively on list price, capped at 100%.
// Unit price is rounded first and the line total is rounded from the rounded unit price.
func (e *Engine) priceItem(r resolvedLine, tierPercent decimal.Decimal, cartStep *domain.VolumeDiscount) domain.CartItem {
	step := e.ladder.Select(domain.DiscountScopeItem, r.line.Quantity)
	if cartStep != nil && (step == nil || cartStep.DiscountPercent.GreaterThan(step.DiscountPercent)) {
		s := *cartStep
		step = &s
	}

	volumePercent := decimal.Zero
	if step != nil {
		volumePercent = step.DiscountPercent
	}

	combined := volumePercent.Add(tierPercent)
	if combined.GreaterThan(hundred) {
		e.logger.Debug("Combined discount clamped",
			zap.Int64("variant_id", r.entry.ShopifyVariantID),
			zap.String("volume_percent", volumePercent.String()),
			zap.String("tier_percent", tierPercent.String()),
		)
		combined = hundred
	}

	quantity := decimal.NewFromInt(int64(r.line.Quantity))
	unitPrice := round2(r.entry.ListPrice.Mul(hundred.Sub(combined)).Div(hundred))

	itemID := r.line.ItemID
	if itemID == "" {
		itemID = fmt.Sprintf("%d", r.entry.ShopifyVariantID)
	}

	return domain.CartItem{
		ID:                 itemID,
		ShopifyProductID:   r.entry.ShopifyProductID,
		ShopifyVariantID:   r.entry.ShopifyVariantID,
		SKU:                r.entry.SKU,
		Title:              r.entry.Title,
		Quantity:           r.line.Quantity,
		UnitPrice:          unitPrice,
		ListPrice:          r.entry.ListPrice,
		DiscountPercent:    combined,
		TotalPrice:         round2(unitPrice.Mul(quantity)),
		MinimumQuantity:    r.entry.MinimumQuantity,
		QuantityIncrements: r.entry.QuantityIncrements,
		InStock:            r.entry.InStock,
		StockQuantity:      r.entry.StockQuantity,
		VolumeDiscount:     step,
	}
}

func discontinued(index int, line RequestedLine) domain.ValidationResult {
	itemID := line.ItemID
	if itemID == "" {
		itemID = fmt.Sprintf("%d", line.VariantID)
	}
	return domain.ValidationResult{
		ItemID:          itemID,
		LineIndex:       index,
		Type:            domain.ValidationDiscontinued,
		Message:         fmt.Sprintf("variant %d is no longer available", line.VariantID),
		Severity:        domain.SeverityError,
		SuggestedAction: action("remove the item from the cart"),
	}
}

func validateItem(index int, item domain.CartItem) []domain.ValidationResult {
	var out []domain.ValidationResult

	if item.MinimumQuantity != nil && item.Quantity < *item.MinimumQuantity {
		out = append(out, domain.ValidationResult{
			ItemID:          item.ID,
			LineIndex:       index,
			Type:            domain.ValidationMinimumQuantity,
			Message:         fmt.Sprintf("%s requires a minimum quantity of %d", item.SKU, *item.MinimumQuantity),
			Severity:        domain.SeverityError,
			SuggestedAction: action(fmt.Sprintf("increase quantity to %d", *item.MinimumQuantity)),
		})
	}

	if inc := item.QuantityIncrements; inc != nil && *inc > 0 && item.Quantity%*inc != 0 {
		roundedUp := (item.Quantity / *inc + 1) * *inc
		out = append(out, domain.ValidationResult{
			ItemID:          item.ID,
			LineIndex:       index,
			Type:            domain.ValidationMinimumQuantity,
			Message:         fmt.Sprintf("%s is sold in multiples of %d", item.SKU, *inc),
			Severity:        domain.SeverityError,
			SuggestedAction: action(fmt.Sprintf("round up to nearest increment (%d)", roundedUp)),
		})
	}

	switch {
	case !item.InStock:
		out = append(out, domain.ValidationResult{
			ItemID:          item.ID,
			LineIndex:       index,
			Type:            domain.ValidationStock,
			Message:         fmt.Sprintf("%s is out of stock", item.SKU),
			Severity:        domain.SeverityError,
			SuggestedAction: action("remove the item or contact sales for lead time"),
		})
	case item.StockQuantity != nil && *item.StockQuantity < item.Quantity:
		out = append(out, domain.ValidationResult{
			ItemID:          item.ID,
			LineIndex:       index,
			Type:            domain.ValidationStock,
			Message:         fmt.Sprintf("only %d of %s in stock", *item.StockQuantity, item.SKU),
			Severity:        domain.SeverityWarning,
			SuggestedAction: action(fmt.Sprintf("reduce quantity to %d", *item.StockQuantity)),
		})
	}

	return out
}

func action(s string) *string {
	return &s
}
