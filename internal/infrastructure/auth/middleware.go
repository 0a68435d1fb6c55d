package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextUserKey is the gin context key holding the authenticated user id.
const ContextUserKey = "auth_user_id"

// Middleware enforces a valid bearer credential on request/response
// endpoints. Invalid or expired tokens terminate the request with 401 so the
// client re-authenticates.
func Middleware(v *Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing credentials"})
			return
		}
		userID, err := v.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired credentials"})
			return
		}
		c.Set(ContextUserKey, userID)
		c.Next()
	}
}

// BearerToken extracts the credential from the Authorization header, falling
// back to the token query parameter for the websocket handshake (browser
// websocket clients cannot set headers).
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return strings.TrimSpace(c.Query("token"))
}

// UserID returns the authenticated user id set by Middleware.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserKey)
}
