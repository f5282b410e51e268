package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/izerwaren/dealerapi/pkg/errors"
)

// respondError maps typed errors to status codes and hides everything else behind a 500
func respondError(c *gin.Context, logger *zap.Logger, err error, msg string) {
	var notFound *errors.ErrNotFound
	var unauthorized *errors.ErrUnauthorized
	var validation *errors.ErrValidation
	var blocked *errors.ErrCheckoutBlocked

	switch {
	case stderrors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case stderrors.As(err, &unauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": unauthorized.Error()})
	case stderrors.As(err, &validation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "validation failed",
			"field":   validation.Field,
			"details": validation.Error(),
		})
	case stderrors.As(err, &blocked):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "checkout blocked",
			"reasons": blocked.Reasons,
		})
	default:
		logger.Error(msg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":   "validation failed",
		"details": err.Error(),
	})
}

func validationError(field, message string) error {
	return &errors.ErrValidation{Field: field, Message: message}
}
