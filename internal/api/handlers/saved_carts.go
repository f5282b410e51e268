package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/izerwaren/dealerapi/internal/api/middleware"
	"github.com/izerwaren/dealerapi/internal/domain"
	"github.com/izerwaren/dealerapi/internal/service"
)

// SavedCartService is the saved cart surface the handlers need
type SavedCartService interface {
	Save(ctx context.Context, dealerID uuid.UUID, name string) (*service.SavedCartDetail, error)
	List(ctx context.Context, dealerID uuid.UUID) ([]*domain.SavedCart, error)
	Get(ctx context.Context, dealerID, id uuid.UUID) (*service.SavedCartDetail, error)
	Restore(ctx context.Context, dealerID, id uuid.UUID) (*service.CartView, error)
	Delete(ctx context.Context, dealerID, id uuid.UUID) error
}

// HandleListSavedCarts handles GET /v1/saved-carts
func HandleListSavedCarts(saved SavedCartService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		dealer, ok := middleware.GetDealerFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		carts, err := saved.List(c.Request.Context(), dealer.ID)
		if err != nil {
			respondError(c, logger, err, "Failed to list saved carts")
			return
		}

		resp := make([]SavedCartResponse, 0, len(carts))
		for _, cart := range carts {
			resp = append(resp, toSavedCartResponse(cart))
		}

		c.JSON(http.StatusOK, gin.H{"saved_carts": resp})
	}
}

// HandleSaveCart handles POST /v1/saved-carts
func HandleSaveCart(saved SavedCartService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		dealer, ok := middleware.GetDealerFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req service.SaveCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}

		detail, err := saved.Save(c.Request.Context(), dealer.ID, req.Name)
		if err != nil {
			respondError(c, logger, err, "Failed to save cart")
			return
		}

		c.JSON(http.StatusCreated, toSavedCartDetailResponse(detail))
	}
}

// HandleGetSavedCart handles GET /v1/saved-carts/:id
func HandleGetSavedCart(saved SavedCartService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		dealer, ok := middleware.GetDealerFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid saved cart ID"})
			return
		}

		detail, err := saved.Get(c.Request.Context(), dealer.ID, id)
		if err != nil {
			respondError(c, logger, err, "Failed to get saved cart")
			return
		}

		c.JSON(http.StatusOK, toSavedCartDetailResponse(detail))
	}
}

// HandleRestoreSavedCart handles POST /v1/saved-carts/:id/restore
func HandleRestoreSavedCart(saved SavedCartService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		dealer, ok := middleware.GetDealerFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid saved cart ID"})
			return
		}

		cart, err := saved.Restore(c.Request.Context(), dealer.ID, id)
		if err != nil {
			respondError(c, logger, err, "Failed to restore saved cart")
			return
		}

		c.JSON(http.StatusOK, toCartResponse(cart))
	}
}

// HandleDeleteSavedCart handles DELETE /v1/saved-carts/:id
func HandleDeleteSavedCart(saved SavedCartService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		dealer, ok := middleware.GetDealerFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid saved cart ID"})
			return
		}

		if err := saved.Delete(c.Request.Context(), dealer.ID, id); err != nil {
			respondError(c, logger, err, "Failed to delete saved cart")
			return
		}

		c.Status(http.StatusNoContent)
	}
}
