package bulkupload

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/izerwaren/dealerapi/internal/domain"
	"github.com/izerwaren/dealerapi/internal/pricing"
	"github.com/izerwaren/dealerapi/pkg/errors"
)

const (
	MsgSKURequired     = "SKU is required"
	MsgInvalidQuantity = "invalid quantity"
	MsgSKUNotFound     = "SKU not found"
	MsgDiscontinued    = "SKU is discontinued"
	MsgLookupFailed    = "catalog lookup failed"
)

// SKUResolver resolves a SKU to its catalog entry, *errors.ErrNotFound when unknown
type SKUResolver interface {
	ResolveSKU(ctx context.Context, sku string) (*domain.CatalogEntry, error)
}

// Pricer prices a set of lines for a dealer
type Pricer interface {
	PriceCart(ctx context.Context, cmd pricing.PriceCartCommand) (pricing.PriceCartResult, error)
}

// AcceptedRow is a row that resolved and priced
type AcceptedRow struct {
	Row  int
	Line pricing.RequestedLine
}

// Result is the report plus what a caller needs to merge accepted rows into a cart
type Result struct {
	Report   domain.BulkUploadResult
	Accepted []AcceptedRow
}

type Reconciler struct {
	catalog SKUResolver
	pricer  Pricer
	maxRows int
	logger  *zap.Logger
}

// NewReconciler creates a new bulk upload reconciler. maxRows <= 0 means unlimited.
func NewReconciler(catalog SKUResolver, pricer Pricer, maxRows int, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		catalog: catalog,
		pricer:  pricer,
		maxRows: maxRows,
		logger:  logger,
	}
}

type issue struct {
	position int
	domain.BulkRowIssue
}

type pendingRow struct {
	position int
	row      domain.BulkUploadRow
	entry    *domain.CatalogEntry
}

// Reconcile resolves and prices every row independently; one row failing never aborts the batch.
// Only request-level problems (too many rows, unknown dealer, pricing failure) return an error.
func (r *Reconciler) Reconcile(ctx context.Context, dealerID uuid.UUID, rows []domain.BulkUploadRow) (*Result, error) {
	if r.maxRows > 0 && len(rows) > r.maxRows {
		return nil, &errors.ErrValidation{
			Field:   "rows",
			Message: fmt.Sprintf("upload has %d rows, the limit is %d", len(rows), r.maxRows),
		}
	}

	var failures, warnings []issue
	pending := make([]pendingRow, 0, len(rows))

	for pos, row := range rows {
		sku := strings.TrimSpace(row.SKU)
		row.SKU = sku

		switch {
		case sku == "":
			failures = append(failures, newIssue(pos, row, MsgSKURequired))
			continue
		case row.Quantity <= 0:
			failures = append(failures, newIssue(pos, row, MsgInvalidQuantity))
			continue
		}

		entry, err := r.catalog.ResolveSKU(ctx, sku)
		if err != nil {
			var notFound *errors.ErrNotFound
			if stderrors.As(err, &notFound) {
				failures = append(failures, newIssue(pos, row, MsgSKUNotFound))
			} else {
				r.logger.Error("Failed to resolve SKU",
					zap.Int("row", row.Row),
					zap.String("sku", sku),
					zap.Error(err),
				)
				failures = append(failures, newIssue(pos, row, MsgLookupFailed))
			}
			continue
		}
		if !entry.IsActive {
			failures = append(failures, newIssue(pos, row, MsgDiscontinued))
			continue
		}

		pending = append(pending, pendingRow{position: pos, row: row, entry: entry})
	}

	lines := make([]pricing.RequestedLine, len(pending))
	for i, p := range pending {
		lines[i] = pricing.RequestedLine{
			ItemID:    fmt.Sprintf("row-%d", p.row.Row),
			ProductID: p.entry.ShopifyProductID,
			VariantID: p.entry.ShopifyVariantID,
			Quantity:  p.row.Quantity,
		}
	}

	priced, err := r.pricer.PriceCart(ctx, pricing.PriceCartCommand{DealerID: dealerID, Lines: lines})
	if err != nil {
		return nil, err
	}

	rejected := make(map[int]bool)
	for _, v := range priced.Validations {
		p := pending[v.LineIndex]
		if v.Type == domain.ValidationDiscontinued {
			rejected[v.LineIndex] = true
			failures = append(failures, newIssue(p.position, p.row, MsgDiscontinued))
			continue
		}
		warnings = append(warnings, newIssue(p.position, p.row, v.Message))
	}

	result := &Result{}
	for i, p := range pending {
		if rejected[i] {
			continue
		}
		result.Accepted = append(result.Accepted, AcceptedRow{Row: p.row.Row, Line: lines[i]})
	}

	result.Report = domain.BulkUploadResult{
		Successful: len(result.Accepted),
		Failed:     len(failures),
		Errors:     flatten(failures),
		Warnings:   flatten(warnings),
	}

	r.logger.Info("Bulk upload reconciled",
		zap.String("dealer_id", dealerID.String()),
		zap.Int("rows", len(rows)),
		zap.Int("successful", result.Report.Successful),
		zap.Int("failed", result.Report.Failed),
		zap.Int("warnings", len(result.Report.Warnings)),
	)

	return result, nil
}

func newIssue(position int, row domain.BulkUploadRow, message string) issue {
	return issue{
		position:     position,
		BulkRowIssue: domain.BulkRowIssue{Row: row.Row, SKU: row.SKU, Message: message},
	}
}

// flatten orders issues by input position, keeping per-row order
func flatten(issues []issue) []domain.BulkRowIssue {
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].position < issues[j].position
	})
	out := make([]domain.BulkRowIssue, len(issues))
	for i, is := range issues {
		out[i] = is.BulkRowIssue
	}
	return out
}
