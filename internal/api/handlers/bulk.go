package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/izerwaren/dealerapi/internal/api/middleware"
	"github.com/izerwaren/dealerapi/internal/bulkupload"
	"github.com/izerwaren/dealerapi/internal/domain"
	"github.com/izerwaren/dealerapi/internal/service"
)

const maxBulkUploadBytes = 5 << 20

// HandleBulkUpload handles POST /v1/cart/bulk.
// It accepts a JSON body, a multipart form with a "file" field, or a raw text/csv body.
func HandleBulkUpload(carts CartService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		dealer, ok := middleware.GetDealerFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBulkUploadBytes)

		rows, err := readBulkRows(c)
		if err != nil {
			respondError(c, logger, err, "Failed to read bulk upload")
			return
		}

		outcome, err := carts.BulkUpload(c.Request.Context(), dealer.ID, rows)
		if err != nil {
			respondError(c, logger, err, "Failed to process bulk upload")
			return
		}

		c.JSON(http.StatusOK, BulkUploadResponse{
			Successful: outcome.Report.Successful,
			Failed:     outcome.Report.Failed,
			Errors:     toIssues(outcome.Report.Errors),
			Warnings:   toIssues(outcome.Report.Warnings),
			Cart:       toCartResponse(outcome.Cart),
		})
	}
}

func readBulkRows(c *gin.Context) ([]domain.BulkUploadRow, error) {
	contentType := c.ContentType()

	switch {
	case strings.HasPrefix(contentType, "multipart/form-data"):
		header, err := c.FormFile("file")
		if err != nil {
			return nil, validationError("file", "a CSV file is required")
		}
		f, err := header.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return bulkupload.ParseCSV(f)

	case contentType == "text/csv":
		return bulkupload.ParseCSV(c.Request.Body)

	default:
		var req service.BulkUploadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, validationError("rows", err.Error())
		}
		return req.ToRows(), nil
	}
}
