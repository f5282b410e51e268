package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/izerwaren/dealerapi/internal/api/middleware"
	"github.com/izerwaren/dealerapi/internal/domain"
	"github.com/izerwaren/dealerapi/internal/service"
)

// CartService is the active cart surface the handlers need
type CartService interface {
	GetCart(ctx context.Context, dealerID uuid.UUID) (*service.CartView, error)
	AddItem(ctx context.Context, dealerID uuid.UUID, req service.AddItemRequest) (*service.CartView, error)
	UpdateQuantity(ctx context.Context, dealerID uuid.UUID, variantID int64, quantity int) (*service.CartView, error)
	RemoveItem(ctx context.Context, dealerID uuid.UUID, variantID int64) (*service.CartView, error)
	Clear(ctx context.Context, dealerID uuid.UUID) error
	Price(ctx context.Context, dealerID uuid.UUID, req service.PriceRequest) (*service.CartView, error)
	BulkUpload(ctx context.Context, dealerID uuid.UUID, rows []domain.BulkUploadRow) (*service.BulkUploadOutcome, error)
}

// HandleGetCart handles GET /v1/cart
func HandleGetCart(carts CartService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		dealer, ok := middleware.GetDealerFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		cart, err := carts.GetCart(c.Request.Context(), dealer.ID)
		if err != nil {
			respondError(c, logger, err, "Failed to get cart")
			return
		}

		c.JSON(http.StatusOK, toCartResponse(cart))
	}
}

// HandleAddCartItem handles POST /v1/cart/items
func HandleAddCartItem(carts CartService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		dealer, ok := middleware.GetDealerFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req service.AddItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}

		cart, err := carts.AddItem(c.Request.Context(), dealer.ID, req)
		if err != nil {
			respondError(c, logger, err, "Failed to add cart item")
			return
		}

		c.JSON(http.StatusOK, toCartResponse(cart))
	}
}

// HandleUpdateCartItem handles PATCH /v1/cart/items/:variant_id
func HandleUpdateCartItem(carts CartService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		dealer, ok := middleware.GetDealerFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		variantID, err := strconv.ParseInt(c.Param("variant_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid variant ID"})
			return
		}

		var req service.UpdateQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}

		cart, err := carts.UpdateQuantity(c.Request.Context(), dealer.ID, variantID, req.Quantity)
		if err != nil {
			respondError(c, logger, err, "Failed to update cart item")
			return
		}

		c.JSON(http.StatusOK, toCartResponse(cart))
	}
}

// HandleRemoveCartItem handles DELETE /v1/cart/items/:variant_id
func HandleRemoveCartItem(carts CartService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		dealer, ok := middleware.GetDealerFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		variantID, err := strconv.ParseInt(c.Param("variant_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid variant ID"})
			return
		}

		cart, err := carts.RemoveItem(c.Request.Context(), dealer.ID, variantID)
		if err != nil {
			respondError(c, logger, err, "Failed to remove cart item")
			return
		}

		c.JSON(http.StatusOK, toCartResponse(cart))
	}
}

// HandleClearCart handles DELETE /v1/cart
func HandleClearCart(carts CartService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		dealer, ok := middleware.GetDealerFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if err := carts.Clear(c.Request.Context(), dealer.ID); err != nil {
			respondError(c, logger, err, "Failed to clear cart")
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// HandlePriceCart handles POST /v1/cart/price
func HandlePriceCart(carts CartService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		dealer, ok := middleware.GetDealerFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req service.PriceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}

		cart, err := carts.Price(c.Request.Context(), dealer.ID, req)
		if err != nil {
			respondError(c, logger, err, "Failed to price cart")
			return
		}

		c.JSON(http.StatusOK, toCartResponse(cart))
	}
}
