package handlers

import (
	"errors"
	"net/http"

	"finance_ledger/internal/domain"
	"finance_ledger/internal/logger"
	"finance_ledger/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ListTransactions returns the user's full history, newest first
func (h *Handler) ListTransactions(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	ctx := c.Request.Context()
	transactions, err := h.LedgerService.History(ctx, userID)
	if err != nil {
		logger.Error("fetch transactions failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error fetching transactions"})
		return
	}

	if transactions == nil {
		transactions = []*domain.Transaction{}
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

type CreateTransactionRequest struct {
	Amount *decimal.Decimal `json:"amount"`
	Type   string           `json:"type"`
	Reason string           `json:"reason"`
}

// CreateTransaction appends a credit or expense to the user's ledger
func (h *Handler) CreateTransaction(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req CreateTransactionRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if req.Amount == nil || req.Type == "" || req.Reason == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "please provide all required fields"})
		return
	}

	ctx := c.Request.Context()
	tx, err := h.LedgerService.Append(ctx, userID, *req.Amount, domain.TransactionType(req.Type), req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount),
			errors.Is(err, service.ErrInvalidType),
			errors.Is(err, service.ErrEmptyReason),
			errors.Is(err, service.ErrInsufficientBalance):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		default:
			logger.Error("append transaction failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server error adding transaction"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Transaction added successfully",
		"transaction": tx,
	})
}
