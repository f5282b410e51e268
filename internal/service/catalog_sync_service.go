package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/izerwaren/dealerapi/internal/domain"
	"github.com/izerwaren/dealerapi/internal/repository"
	"github.com/izerwaren/dealerapi/internal/shopify"
)

const defaultSyncPageSize = 50

// ProductSource pages through the Shopify catalog
type ProductSource interface {
	FetchProducts(ctx context.Context, first int, after string) (*shopify.ProductsPage, error)
}

// CacheInvalidator drops cached catalog entries after a write
type CacheInvalidator interface {
	Invalidate(ctx context.Context, entry *domain.CatalogEntry)
}

// SyncStats counts what a catalog sync did
type SyncStats struct {
	Products int
	Variants int
	Skipped  int
}

type catalogSyncService struct {
	source   ProductSource
	repos    *repository.Repositories
	cache    CacheInvalidator
	pageSize int
	logger   *zap.Logger
}

// NewCatalogSyncService creates a new catalog sync service. cache may be nil.
func NewCatalogSyncService(source ProductSource, repos *repository.Repositories, cache CacheInvalidator, logger *zap.Logger) *catalogSyncService {
	return &catalogSyncService{
		source:   source,
		repos:    repos,
		cache:    cache,
		pageSize: defaultSyncPageSize,
		logger:   logger,
	}
}

// Sync upserts every Shopify variant into the catalog snapshot.
// Variants without a SKU or with an unparseable id or price are skipped and counted.
func (s *catalogSyncService) Sync(ctx context.Context) (SyncStats, error) {
	var stats SyncStats
	after := ""

	for {
		page, err := s.source.FetchProducts(ctx, s.pageSize, after)
		if err != nil {
			return stats, fmt.Errorf("failed to fetch products: %w", err)
		}

		for _, product := range page.Products {
			stats.Products++
			for _, variant := range product.Variants {
				entry, err := catalogEntryFromVariant(product, variant)
				if err != nil {
					stats.Skipped++
					s.logger.Warn("Skipping variant",
						zap.String("product_id", product.ID),
						zap.String("variant_id", variant.ID),
						zap.Error(err),
					)
					continue
				}

				if err := s.repos.Catalog.Upsert(ctx, entry); err != nil {
					return stats, fmt.Errorf("failed to upsert variant %d: %w", entry.ShopifyVariantID, err)
				}
				if s.cache != nil {
					s.cache.Invalidate(ctx, entry)
				}
				stats.Variants++
			}
		}

		if !page.HasNextPage || page.EndCursor == "" {
			break
		}
		after = page.EndCursor
	}

	s.logger.Info("Catalog sync complete",
		zap.Int("products", stats.Products),
		zap.Int("variants", stats.Variants),
		zap.Int("skipped", stats.Skipped),
	)

	return stats, nil
}

func catalogEntryFromVariant(product shopify.Product, variant shopify.Variant) (*domain.CatalogEntry, error) {
	sku := strings.TrimSpace(variant.SKU)
	if sku == "" {
		return nil, fmt.Errorf("variant has no SKU")
	}

	productID, err := shopify.ExtractIDFromGID(product.ID)
	if err != nil {
		return nil, err
	}
	variantID, err := shopify.ExtractIDFromGID(variant.ID)
	if err != nil {
		return nil, err
	}

	price, err := decimal.NewFromString(variant.Price)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q: %w", variant.Price, err)
	}

	title := product.Title
	if variant.Title != "" && variant.Title != "Default Title" {
		title = fmt.Sprintf("%s - %s", product.Title, variant.Title)
	}

	return &domain.CatalogEntry{
		ShopifyProductID:   productID,
		ShopifyVariantID:   variantID,
		SKU:                sku,
		Title:              title,
		CategoryName:       product.ProductType,
		ListPrice:          price,
		InStock:            variant.AvailableForSale,
		StockQuantity:      variant.InventoryQuantity,
		MinimumQuantity:    product.MinimumQuantity,
		QuantityIncrements: product.QuantityIncrements,
		IsActive:           product.Status == shopify.ProductStatusActive,
	}, nil
}
