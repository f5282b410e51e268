package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/izerwaren/dealerapi/internal/config"
	"github.com/izerwaren/dealerapi/internal/repository/postgres"
	"github.com/izerwaren/dealerapi/internal/service"
	"github.com/izerwaren/dealerapi/internal/shopify"
	"github.com/izerwaren/dealerapi/pkg/errors"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/find-sku/main.go <sku>")
		fmt.Println("Example: go run cmd/find-sku/main.go ML-100-SS")
		os.Exit(1)
	}

	targetSKU := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	repos := postgres.NewRepositories(db, logger)
	skus := service.NewSKUService(repos, shopify.NewClient(cfg.Shopify, logger), logger)

	fmt.Printf("Searching for SKU: %s\n\n", targetSKU)

	found, err := skus.Lookup(context.Background(), targetSKU)
	if err != nil {
		var notFound *errors.ErrNotFound
		if stderrors.As(err, &notFound) {
			fmt.Printf("SKU '%s' not found in the catalog or in Shopify.\n", targetSKU)
			fmt.Printf("\nMake sure:\n")
			fmt.Printf("  1. The SKU is correct (case-sensitive)\n")
			fmt.Printf("  2. The product is published in Shopify\n")
			fmt.Printf("  3. The variant has a SKU assigned\n")
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Lookup failed: %v\n", err)
		os.Exit(1)
	}

	entry := found.Entry
	fmt.Printf("Found SKU in %s\n\n", found.Source)
	fmt.Printf("SKU: %s\n", entry.SKU)
	fmt.Printf("Title: %s\n", entry.Title)
	fmt.Printf("List Price: %s\n", entry.ListPrice.StringFixed(2))
	fmt.Printf("Active: %t\n", entry.IsActive)
	fmt.Printf("In Stock: %t\n", entry.InStock)
	if entry.StockQuantity != nil {
		fmt.Printf("Stock Quantity: %d\n", *entry.StockQuantity)
	}
	fmt.Printf("\nIDs:\n")
	fmt.Printf("  Product ID: %d\n", entry.ShopifyProductID)
	fmt.Printf("  Variant ID: %d\n", entry.ShopifyVariantID)

	if found.Source == service.SKUSourceShopify {
		fmt.Printf("\nThe variant is not in the local catalog yet. To import it, run:\n")
		fmt.Printf("go run cmd/sync-catalog/main.go\n")
	}
}
