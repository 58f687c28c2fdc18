package middleware

import (
	"net/http"
	"strings"

	"finance_ledger/internal/service"

	"github.com/gin-gonic/gin"
)

// JWT authenticates requests via the Authorization header and stores the
// token's identity in the gin context. Every failure gets the same 401.
func JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}

		userID, email, err := service.ParseJWT(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set("user_id", userID)
		c.Set("email", email)
		c.Next()
	}
}
