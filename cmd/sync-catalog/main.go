package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/izerwaren/dealerapi/internal/catalog"
	"github.com/izerwaren/dealerapi/internal/config"
	"github.com/izerwaren/dealerapi/internal/repository/postgres"
	"github.com/izerwaren/dealerapi/internal/service"
	"github.com/izerwaren/dealerapi/internal/shopify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	repos := postgres.NewRepositories(db, logger)

	var cache service.CacheInvalidator
	if cfg.Redis.URL != "" {
		client, err := catalog.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to Redis: %v\n", err)
			os.Exit(1)
		}
		defer client.Close()
		cache = catalog.NewCachedResolver(repos.Catalog, client, cfg.Redis.CacheTTL, logger)
	}

	syncer := service.NewCatalogSyncService(shopify.NewClient(cfg.Shopify, logger), repos, cache, logger)

	fmt.Printf("Syncing catalog from %s\n", cfg.Shopify.ShopDomain)
	stats, err := syncer.Sync(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Catalog sync failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nProducts: %d\n", stats.Products)
	fmt.Printf("Variants upserted: %d\n", stats.Variants)
	fmt.Printf("Variants skipped: %d\n", stats.Skipped)
}
