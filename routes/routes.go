package routes

import (
	"database/sql"

	"finance-api/handlers"
	"finance-api/services"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up public authentication routes.
func SetupAuthRoutes(rg *gin.RouterGroup, db *sql.DB) {
	authHandler := &handlers.AuthHandler{DB: db}

	rg.POST("/auth/signup", authHandler.Signup)
	rg.POST("/auth/login", authHandler.Login)
}

// SetupUserRoutes sets up protected user profile and 2FA routes.
func SetupUserRoutes(rg *gin.RouterGroup, db *sql.DB) {
	userHandler := &handlers.UserHandler{DB: db}

	rg.GET("/user/profile", userHandler.GetProfile)
	rg.PUT("/user/profile", userHandler.UpdateProfile)
	rg.POST("/user/2fa/setup", userHandler.SetupTOTP)
	rg.POST("/user/2fa/verify", userHandler.VerifyTOTP)
	rg.POST("/user/2fa/disable", userHandler.DisableTOTP)
}

// SetupAccountRoutes sets up protected account routes.
func SetupAccountRoutes(rg *gin.RouterGroup, db *sql.DB) {
	h := handlers.NewAccountHandler(services.NewAccountService(db))

	rg.GET("/accounts", h.GetAccounts)
	rg.POST("/accounts", h.CreateAccount)
	rg.GET("/accounts/:id", h.GetAccount)
	rg.PUT("/accounts/:id/default", h.SetDefaultAccount)
}

// SetupTransactionRoutes sets up protected transaction routes.
func SetupTransactionRoutes(rg *gin.RouterGroup, db *sql.DB, ws *handlers.WSHandler) {
	h := handlers.NewTransactionHandler(
		services.NewLedgerService(db),
		services.NewReceiptScanService(),
		ws,
	)

	rg.GET("/transactions", h.GetTransactions)
	rg.POST("/transactions", h.CreateTransaction)
	rg.PUT("/transactions/:id", h.UpdateTransaction)
	rg.DELETE("/transactions/:id", h.DeleteTransaction)
	rg.POST("/transactions/bulk-delete", h.BulkDeleteTransactions)
	rg.POST("/transactions/scan-receipt", h.ScanReceipt)
}

// SetupBudgetRoutes sets up protected budget and report routes.
func SetupBudgetRoutes(rg *gin.RouterGroup, db *sql.DB, reports *services.ReportService) {
	budgetHandler := handlers.NewBudgetHandler(services.NewBudgetService(db))
	reportHandler := handlers.NewReportHandler(reports)

	rg.GET("/budget", budgetHandler.GetBudget)
	rg.PUT("/budget", budgetHandler.UpsertBudget)
	rg.GET("/reports/monthly", reportHandler.GetMonthlyStats)
}
