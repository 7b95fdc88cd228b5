package handlers

import (
	"encoding/base64"
	"io"
	"net/http"

	"finance-api/middleware"
	"finance-api/models"
	"finance-api/services"

	"github.com/gin-gonic/gin"
)

type TransactionHandler struct {
	Ledger  *services.LedgerService
	Scanner *services.ReceiptScanService
	WS      *WSHandler
}

func NewTransactionHandler(ledger *services.LedgerService, scanner *services.ReceiptScanService, ws *WSHandler) *TransactionHandler {
	return &TransactionHandler{Ledger: ledger, Scanner: scanner, WS: ws}
}

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	txn, err := h.Ledger.CreateTransaction(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.WS.BroadcastAccountUpdate(txn.AccountID, "transaction:created")
	c.JSON(http.StatusCreated, txn)
}

func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	userID := middleware.GetUserID(c)

	transactions, err := h.Ledger.GetTransactions(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactions)
}

func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID := middleware.GetUserID(c)
	transactionID := c.Param("id")

	var req models.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	txn, err := h.Ledger.UpdateTransaction(c.Request.Context(), userID, transactionID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.WS.BroadcastAccountUpdate(txn.AccountID, "transaction:updated")
	c.JSON(http.StatusOK, txn)
}

func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID := middleware.GetUserID(c)
	transactionID := c.Param("id")

	if err := h.Ledger.DeleteTransaction(c.Request.Context(), userID, transactionID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}

// BulkDeleteTransactions deletes a set of the caller's transactions.
// Unknown or foreign ids are ignored, so retrying a partially stale list
// still succeeds.
func (h *TransactionHandler) BulkDeleteTransactions(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Ledger.BulkDeleteTransactions(c.Request.Context(), userID, req.TransactionIDs); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transactions deleted successfully"})
}

// ScanReceipt accepts a multipart image upload and returns a prefilled
// transaction draft.
func (h *TransactionHandler) ScanReceipt(c *gin.Context) {
	file, header, err := c.Request.FormFile("receipt")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing receipt file"})
		return
	}
	defer file.Close()

	// 5 MB cap on uploads.
	data, err := io.ReadAll(io.LimitReader(file, 5*1024*1024+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read receipt file"})
		return
	}
	if len(data) > 5*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Receipt file too large (max 5MB)"})
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	draft, err := h.Scanner.ScanReceipt(c.Request.Context(), base64.StdEncoding.EncodeToString(data), mimeType)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Receipt scanning unavailable"})
		return
	}

	c.JSON(http.StatusOK, draft)
}
