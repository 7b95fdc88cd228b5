package handlers

import (
	"net/http"

	"finance-api/middleware"
	"finance-api/models"
	"finance-api/services"

	"github.com/gin-gonic/gin"
)

type BudgetHandler struct {
	Budgets *services.BudgetService
}

func NewBudgetHandler(budgets *services.BudgetService) *BudgetHandler {
	return &BudgetHandler{Budgets: budgets}
}

// GetBudget returns the user's budget with the current-month expense
// total of their default account.
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	userID := middleware.GetUserID(c)

	status, err := h.Budgets.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *BudgetHandler) UpsertBudget(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.UpsertBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	budget, err := h.Budgets.Upsert(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, budget)
}
