package middleware

import (
	"net/http"
	"strings"

	userapp "prolearn/internal/core/user/service"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID   = "userID"
	ContextUsername = "username"
)

// JWTAuthMiddleware توکن Bearer را بررسی و userID و username را در context قرار می‌دهد
func JWTAuthMiddleware(key []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required", "code": "unauthenticated"})
			return
		}
		claims, err := userapp.ParseToken(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")), key)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token", "code": "unauthenticated"})
			return
		}
		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextUsername, claims.Username)
		c.Next()
	}
}
