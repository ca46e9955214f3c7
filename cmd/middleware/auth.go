// cmd/middleware/auth.go
package middleware

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
)

// UserIDKey is the gin context key the authenticated user id is stored under.
const UserIDKey = "user_id"

// SessionResolver turns a session token into a user id. AuthService
// implements it.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (string, bool, error)
}

// RequireAuth rejects requests without a live session cookie and puts the
// resolved user id into the request context.
func RequireAuth(resolver SessionResolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(401, gin.H{"error": "Unauthorized. Please log in."})
			return
		}

		userID, ok, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			log.Printf("[AUTH] session resolve failed: %v", err)
			c.AbortWithStatusJSON(401, gin.H{"error": "Unauthorized. Please log in."})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(401, gin.H{"error": "Unauthorized. Please log in."})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// UserID reads the authenticated user id set by RequireAuth.
func UserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return "", false
	}
	userID, ok := v.(string)
	return userID, ok && userID != ""
}
