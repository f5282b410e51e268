package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/izerwaren/dealerapi/internal/api"
	"github.com/izerwaren/dealerapi/internal/bulkupload"
	"github.com/izerwaren/dealerapi/internal/catalog"
	"github.com/izerwaren/dealerapi/internal/category"
	"github.com/izerwaren/dealerapi/internal/config"
	"github.com/izerwaren/dealerapi/internal/pricing"
	"github.com/izerwaren/dealerapi/internal/repository/postgres"
	"github.com/izerwaren/dealerapi/internal/service"
	"github.com/izerwaren/dealerapi/internal/shopify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	logger, err := newLogger(cfg)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	repos := postgres.NewRepositories(db, logger)

	mappings := category.DefaultMappings()
	if cfg.Catalog.CategoryMappingsFile != "" {
		mappings, err = category.LoadFile(cfg.Catalog.CategoryMappingsFile)
		if err != nil {
			return err
		}
	}
	categories, err := category.NewService(mappings, cfg.Catalog.CategoryFilterColumn)
	if err != nil {
		return err
	}

	ladder, err := pricing.ParseLadder(cfg.Pricing.VolumeDiscounts)
	if err != nil {
		return err
	}

	var resolver catalog.Resolver = repos.Catalog
	if cfg.Redis.URL != "" {
		client, err := catalog.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer client.Close()
		resolver = catalog.NewCachedResolver(repos.Catalog, client, cfg.Redis.CacheTTL, logger)
		logger.Info("Catalog cache enabled", zap.Duration("ttl", cfg.Redis.CacheTTL))
	}

	engine, err := pricing.NewEngine(pricing.EngineDeps{
		Catalog: resolver,
		Tiers:   repos.Dealer,
		Estimator: pricing.FlatRateEstimator{
			TaxRatePercent:        cfg.Pricing.TaxRatePercent,
			FlatShipping:          cfg.Pricing.FlatShipping,
			FreeShippingThreshold: cfg.Pricing.FreeShippingThreshold,
		},
		Ladder: ladder,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	reconciler := bulkupload.NewReconciler(resolver, engine, cfg.Pricing.MaxBulkRows, logger)
	shopifyClient := shopify.NewClient(cfg.Shopify, logger)

	carts := service.NewCartService(repos, resolver, engine, reconciler, logger)
	savedCarts := service.NewSavedCartService(repos, carts, logger)
	checkout := service.NewCheckoutService(carts, service.NewShopifyService(shopifyClient, logger), logger)

	router := api.NewRouter(cfg, api.Dependencies{
		Repos:      repos,
		Categories: categories,
		Carts:      carts,
		SavedCarts: savedCarts,
		Checkout:   checkout,
	}, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Port), zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewDevelopmentConfig()
	if cfg.Environment == "production" {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
