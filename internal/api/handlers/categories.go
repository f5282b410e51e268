package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/izerwaren/dealerapi/internal/category"
	"github.com/izerwaren/dealerapi/internal/domain"
)

const (
	defaultProductPageSize = 50
	maxProductPageSize     = 250
)

// CatalogLister lists catalog rows matching a category filter fragment
type CatalogLister interface {
	ListByFilter(ctx context.Context, filter string, limit, offset int) ([]*domain.CatalogEntry, error)
}

// HandleListCategories handles GET /v1/categories
func HandleListCategories(categories *category.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		mappings := categories.OwnerCategories()
		items := make([]CategoryResponse, 0, len(mappings))
		for _, m := range mappings {
			items = append(items, toCategoryResponse(m))
		}

		summary := categories.GetMappingSummary()
		c.JSON(http.StatusOK, gin.H{
			"summary": CategorySummaryResponse{
				TotalMappedCategories:      summary.TotalMappedCategories,
				TotalMappedProducts:        summary.TotalMappedProducts,
				MappingCoverage:            summary.MappingCoverage,
				AverageProductsPerCategory: summary.AverageProductsPerCategory,
			},
			"categories": items,
		})
	}
}

// HandleGetCategory handles GET /v1/categories/:owner
func HandleGetCategory(categories *category.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		details := categories.GetOwnerCategoryDetails(c.Param("owner"))
		if details == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}

		c.JSON(http.StatusOK, toCategoryResponse(*details))
	}
}

// HandleGetCategoryFilter handles GET /v1/categories/:owner/filter
func HandleGetCategoryFilter(categories *category.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := c.Param("owner")
		if categories.GetOwnerCategoryDetails(owner) == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"owner_category": owner,
			"filter":         categories.GenerateOwnerCategoryFilter(owner),
		})
	}
}

// HandleListCategoryProducts handles GET /v1/categories/:owner/products
func HandleListCategoryProducts(categories *category.Service, catalog CatalogLister, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := c.Param("owner")
		if categories.GetOwnerCategoryDetails(owner) == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}

		limit := defaultProductPageSize
		if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 {
			limit = l
		}
		if limit > maxProductPageSize {
			limit = maxProductPageSize
		}
		offset := 0
		if o, err := strconv.Atoi(c.Query("offset")); err == nil && o > 0 {
			offset = o
		}

		entries, err := catalog.ListByFilter(c.Request.Context(), categories.GenerateOwnerCategoryFilter(owner), limit, offset)
		if err != nil {
			respondError(c, logger, err, "Failed to list category products")
			return
		}

		products := make([]CatalogEntryResponse, 0, len(entries))
		for _, e := range entries {
			products = append(products, toCatalogEntryResponse(e))
		}

		c.JSON(http.StatusOK, gin.H{
			"owner_category": owner,
			"products":       products,
			"limit":          limit,
			"offset":         offset,
		})
	}
}

// HandleLookupDbCategory handles GET /v1/categories/db/:db
func HandleLookupDbCategory(categories *category.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbCategory := c.Param("db")
		owner, ok := categories.MapDbCategoryToOwner(dbCategory)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "db category is not mapped"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"db_category":    dbCategory,
			"owner_category": owner,
		})
	}
}
