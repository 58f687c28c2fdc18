package handlers

import (
	"errors"
	"net/http"

	"finance_ledger/internal/logger"
	"finance_ledger/internal/repository"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Me(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.UserRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		logger.Error("fetch user failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error fetching user data"})
		return
	}

	balance, err := h.LedgerService.CurrentBalance(ctx, userID)
	if err != nil {
		logger.Error("fetch balance failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error fetching user data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":           user,
		"currentBalance": balance,
	})
}
