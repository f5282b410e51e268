package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/izerwaren/dealerapi/internal/domain"
	"github.com/izerwaren/dealerapi/internal/repository"
	"github.com/izerwaren/dealerapi/internal/shopify"
	"github.com/izerwaren/dealerapi/pkg/errors"
)

const (
	SKUSourceCatalog = "catalog"
	SKUSourceShopify = "shopify"
)

// SKUFinder looks a SKU up directly in Shopify
type SKUFinder interface {
	FindVariantBySKU(ctx context.Context, sku string) (*shopify.VariantMatch, error)
}

// SKULookup is where a SKU was found and what it resolves to
type SKULookup struct {
	Source string
	Entry  *domain.CatalogEntry
}

type skuService struct {
	repos  *repository.Repositories
	shop   SKUFinder
	logger *zap.Logger
}

// NewSKUService creates a new SKU service
func NewSKUService(repos *repository.Repositories, shop SKUFinder, logger *zap.Logger) *skuService {
	return &skuService{
		repos:  repos,
		shop:   shop,
		logger: logger,
	}
}

// Lookup checks the local catalog snapshot first and falls back to Shopify
func (s *skuService) Lookup(ctx context.Context, sku string) (*SKULookup, error) {
	entry, err := s.repos.Catalog.ResolveSKU(ctx, sku)
	if err == nil {
		return &SKULookup{Source: SKUSourceCatalog, Entry: entry}, nil
	}

	var notFound *errors.ErrNotFound
	if !stderrors.As(err, &notFound) {
		return nil, err
	}

	s.logger.Debug("SKU not in catalog snapshot, asking Shopify", zap.String("sku", sku))

	match, err := s.shop.FindVariantBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}

	entry, err = entryFromMatch(match)
	if err != nil {
		return nil, fmt.Errorf("failed to read Shopify variant: %w", err)
	}

	return &SKULookup{Source: SKUSourceShopify, Entry: entry}, nil
}

func entryFromMatch(match *shopify.VariantMatch) (*domain.CatalogEntry, error) {
	productID, err := shopify.ExtractIDFromGID(match.ProductID)
	if err != nil {
		return nil, err
	}
	variantID, err := shopify.ExtractIDFromGID(match.Variant.ID)
	if err != nil {
		return nil, err
	}
	price, err := decimal.NewFromString(match.Variant.Price)
	if err != nil {
		return nil, err
	}

	return &domain.CatalogEntry{
		ShopifyProductID: productID,
		ShopifyVariantID: variantID,
		SKU:              match.Variant.SKU,
		Title:            match.Title,
		CategoryName:     match.ProductType,
		ListPrice:        price,
		InStock:          match.Variant.AvailableForSale,
		StockQuantity:    match.Variant.InventoryQuantity,
		IsActive:         match.Status == shopify.ProductStatusActive,
	}, nil
}
