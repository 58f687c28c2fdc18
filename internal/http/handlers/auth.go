package handlers

import (
	"errors"
	"net/http"
	"time"

	"finance_ledger/internal/logger"
	"finance_ledger/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type SignupRequest struct {
	Name           string           `json:"name"`
	Email          string           `json:"email"`
	Password       string           `json:"password"`
	DOB            string           `json:"dob"`
	Address        string           `json:"address"`
	InitialBalance *decimal.Decimal `json:"initialBalance"`
}

func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" || req.InitialBalance == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "please provide all required fields"})
		return
	}

	var dob *time.Time
	if req.DOB != "" {
		parsed, err := time.Parse("2006-01-02", req.DOB)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "dob must be YYYY-MM-DD"})
			return
		}
		dob = &parsed
	}

	var address *string
	if req.Address != "" {
		address = &req.Address
	}

	ctx := c.Request.Context()
	user, err := h.AuthService.Signup(ctx, req.Name, req.Email, req.Password, dob, address, *req.InitialBalance)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNegativeBalance):
			c.JSON(http.StatusBadRequest, gin.H{"error": "initial balance cannot be negative"})
		case errors.Is(err, service.ErrDuplicateEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": "email already registered"})
		default:
			logger.Error("signup failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server error during signup"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"userId":  user.ID,
	})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "please provide email and password"})
		return
	}

	ctx := c.Request.Context()
	token, user, err := h.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		logger.Error("login failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error during login"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
	})
}
