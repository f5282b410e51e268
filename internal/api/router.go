package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/izerwaren/dealerapi/internal/api/handlers"
	"github.com/izerwaren/dealerapi/internal/api/middleware"
	"github.com/izerwaren/dealerapi/internal/category"
	"github.com/izerwaren/dealerapi/internal/config"
	"github.com/izerwaren/dealerapi/internal/repository"
)

// Dependencies are the services the router hands to its handlers
type Dependencies struct {
	Repos      *repository.Repositories
	Categories *category.Service
	Carts      handlers.CartService
	SavedCarts handlers.SavedCartService
	Checkout   handlers.CheckoutService
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, deps Dependencies, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/v1")
	{
		// Category routes are public
		categories := v1.Group("/categories")
		{
			categories.GET("", handlers.HandleListCategories(deps.Categories))
			categories.GET("/db/:db", handlers.HandleLookupDbCategory(deps.Categories))
			categories.GET("/:owner", handlers.HandleGetCategory(deps.Categories))
			categories.GET("/:owner/filter", handlers.HandleGetCategoryFilter(deps.Categories))
			categories.GET("/:owner/products", handlers.HandleListCategoryProducts(deps.Categories, deps.Repos.Catalog, logger))
		}

		// Dealer routes (require authentication)
		dealerRoutes := v1.Group("")
		dealerRoutes.Use(middleware.AuthMiddleware(deps.Repos, logger))
		{
			dealerRoutes.GET("/cart", handlers.HandleGetCart(deps.Carts, logger))
			dealerRoutes.DELETE("/cart", handlers.HandleClearCart(deps.Carts, logger))
			dealerRoutes.POST("/cart/items", handlers.HandleAddCartItem(deps.Carts, logger))
			dealerRoutes.PATCH("/cart/items/:variant_id", handlers.HandleUpdateCartItem(deps.Carts, logger))
			dealerRoutes.DELETE("/cart/items/:variant_id", handlers.HandleRemoveCartItem(deps.Carts, logger))
			dealerRoutes.POST("/cart/price", handlers.HandlePriceCart(deps.Carts, logger))
			dealerRoutes.POST("/cart/bulk", handlers.HandleBulkUpload(deps.Carts, logger))
			dealerRoutes.POST("/cart/checkout", handlers.HandleCheckout(deps.Checkout, logger))

			dealerRoutes.GET("/saved-carts", handlers.HandleListSavedCarts(deps.SavedCarts, logger))
			dealerRoutes.POST("/saved-carts", handlers.HandleSaveCart(deps.SavedCarts, logger))
			dealerRoutes.GET("/saved-carts/:id", handlers.HandleGetSavedCart(deps.SavedCarts, logger))
			dealerRoutes.POST("/saved-carts/:id/restore", handlers.HandleRestoreSavedCart(deps.SavedCarts, logger))
			dealerRoutes.DELETE("/saved-carts/:id", handlers.HandleDeleteSavedCart(deps.SavedCarts, logger))
		}
	}

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
