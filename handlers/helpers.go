package handlers

import (
	"errors"
	"log"
	"net/http"

	"finance-api/services"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors to HTTP statuses. Anything untyped is
// a storage/internal failure: the atomic unit already rolled back, the
// caller may retry.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("❌ Internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
