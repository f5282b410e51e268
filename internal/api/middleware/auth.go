package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/izerwaren/dealerapi/internal/domain"
	"github.com/izerwaren/dealerapi/internal/repository"
	"github.com/izerwaren/dealerapi/pkg/errors"
)

const dealerContextKey = "dealer"

// AuthMiddleware authenticates dealers by API key.
// The key is read from "Authorization: Bearer <key>" or, failing that, "X-API-Key".
func AuthMiddleware(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := extractAPIKey(c.Request)
		if apiKey == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing API key"})
			return
		}

		dealer, err := repos.Dealer.GetByAPIKey(c.Request.Context(), apiKey)
		if err != nil {
			if _, ok := err.(*errors.ErrUnauthorized); ok {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
				return
			}
			logger.Error("Failed to authenticate dealer", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.Set(dealerContextKey, dealer)
		c.Next()
	}
}

// GetDealerFromContext returns the dealer stored by AuthMiddleware
func GetDealerFromContext(c *gin.Context) (*domain.Dealer, bool) {
	v, ok := c.Get(dealerContextKey)
	if !ok {
		return nil, false
	}
	dealer, ok := v.(*domain.Dealer)
	return dealer, ok
}

func extractAPIKey(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return strings.TrimSpace(r.Header.Get("X-API-Key"))
}
