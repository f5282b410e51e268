package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/izerwaren/dealerapi/internal/api/middleware"
	"github.com/izerwaren/dealerapi/internal/domain"
	"github.com/izerwaren/dealerapi/internal/service"
)

// CheckoutService turns the active cart into a Shopify draft order
type CheckoutService interface {
	Checkout(ctx context.Context, dealer *domain.Dealer, req service.CheckoutRequest) (*service.CheckoutResult, error)
}

// CheckoutResponse represents the response
type CheckoutResponse struct {
	DraftOrderID   int64   `json:"draft_order_id"`
	DraftOrderName string  `json:"draft_order_name"`
	Subtotal       float64 `json:"subtotal"`
	TotalEstimated float64 `json:"total_estimated"`
	ItemCount      int     `json:"item_count"`
}

// HandleCheckout handles POST /v1/cart/checkout
func HandleCheckout(checkout CheckoutService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		dealer, ok := middleware.GetDealerFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req service.CheckoutRequest
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				bindError(c, err)
				return
			}
		}

		result, err := checkout.Checkout(c.Request.Context(), dealer, req)
		if err != nil {
			respondError(c, logger, err, "Failed to check out cart")
			return
		}

		c.JSON(http.StatusCreated, CheckoutResponse{
			DraftOrderID:   result.DraftOrderID,
			DraftOrderName: result.DraftOrderName,
			Subtotal:       money(result.Summary.Subtotal),
			TotalEstimated: money(result.Summary.TotalEstimated),
			ItemCount:      result.Summary.ItemCount,
		})
	}
}
