package handlers

import (
	"net/http"
	"time"

	"finance-api/middleware"
	"finance-api/services"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	Reports *services.ReportService
}

func NewReportHandler(reports *services.ReportService) *ReportHandler {
	return &ReportHandler{Reports: reports}
}

// GetMonthlyStats returns the aggregation for ?month=YYYY-MM (defaults to
// the current month).
func (h *ReportHandler) GetMonthlyStats(c *gin.Context) {
	userID := middleware.GetUserID(c)

	month := time.Now()
	if raw := c.Query("month"); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "month must be in YYYY-MM format"})
			return
		}
		month = parsed
	}

	stats, err := h.Reports.GetMonthlyStats(c.Request.Context(), userID, month)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
