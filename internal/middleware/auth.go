// Package middleware provides the gin middleware shared by authenticated routes.
package middleware

import (
	"net/http"
	"strings"

	"district-analytics-api/internal/token"

	"github.com/gin-gonic/gin"
)

// UserIDKey is the gin context key under which the authenticated user id is stored.
const UserIDKey = "user_id"

// TokenVerifier validates a bearer token and returns the user id it carries.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (int64, error)
}

// Auth returns a middleware that requires a valid bearer token. Missing,
// malformed, expired, and otherwise-invalid tokens are all rejected with the
// same response.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c)
			return
		}

		userID, err := verifier.VerifyToken(strings.TrimSpace(parts[1]))
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
}

// UserID extracts the authenticated user id set by Auth.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(UserIDKey)
}

var _ TokenVerifier = (*token.JWTMaker)(nil)
