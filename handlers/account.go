package handlers

import (
	"net/http"

	"finance-api/middleware"
	"finance-api/models"
	"finance-api/services"

	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	Accounts *services.AccountService
}

func NewAccountHandler(accounts *services.AccountService) *AccountHandler {
	return &AccountHandler{Accounts: accounts}
}

func (h *AccountHandler) CreateAccount(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.Accounts.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, account)
}

func (h *AccountHandler) GetAccounts(c *gin.Context) {
	userID := middleware.GetUserID(c)

	accounts, err := h.Accounts.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, accounts)
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	userID := middleware.GetUserID(c)
	accountID := c.Param("id")

	account, err := h.Accounts.GetWithTransactions(c.Request.Context(), userID, accountID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

func (h *AccountHandler) SetDefaultAccount(c *gin.Context) {
	userID := middleware.GetUserID(c)
	accountID := c.Param("id")

	account, err := h.Accounts.SetDefault(c.Request.Context(), userID, accountID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}
