package api

import (
	"digital_wallet/internal/domain"     // Importing domain models
	"digital_wallet/internal/ledger"     // Ledger operation
	"digital_wallet/internal/middleware" // Current user helpers
	"digital_wallet/internal/store"      // Transaction store
	"net/http"                           // HTTP status codes

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Major-unit amounts
	"github.com/sirupsen/logrus"    // Logging library
)

// TransactionRequest represents a deposit or withdrawal; amount is in major units
type TransactionRequest struct {
	Amount      *decimal.Decimal `json:"amount" binding:"required"`                      // Amount, sign is taken from type
	Type        string           `json:"type" binding:"required,oneof=deposit withdraw"` // Transaction type
	Description string           `json:"description" binding:"max=255"`                  // Free text
}

// GetTransactionsHandler returns the current user's transactions, newest first
func GetTransactionsHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Get user loaded for this request
		if !ok {
			c.Status(http.StatusUnauthorized)
			return
		}
		txs, err := s.GetTransactions(c.Request.Context(), user.ID)
		if err != nil {
			respondError(c, err, logrus.Fields{"user_id": user.ID})
			return
		}
		c.JSON(http.StatusOK, txs) // Return transaction history
	}
}

// CreateTransactionHandler records a transaction and adjusts the balance
func CreateTransactionHandler(l *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Get user loaded for this request
		if !ok {
			c.Status(http.StatusUnauthorized)
			return
		}
		var req TransactionRequest // Bind JSON request to struct
		// Validate request
		if err := c.ShouldBindJSON(&req); err != nil {
			// If invalid, return field errors
			c.JSON(http.StatusBadRequest, bindingErrors(err).Fields)
			return
		}
		res, err := l.Submit(c.Request.Context(), user.ID, ledger.Request{
			Amount:      *req.Amount,
			Type:        domain.TransactionType(req.Type),
			Description: req.Description,
		})
		if err != nil {
			respondError(c, err, logrus.Fields{"user_id": user.ID, "type": req.Type})
			return
		}
		c.JSON(http.StatusOK, res.Transaction) // Return the created transaction
	}
}
