package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tribune-social/backend/internal/auth"
)

const userIDKey = "user_id"

// Auth rejects requests without a valid bearer token. No handler behind
// it ever runs for an anonymous caller, so rejected requests have no
// side effects.
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := bearerUserID(c, secret)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// OptionalAuth attaches the user id when a valid token is present and
// lets the request through either way. Public reads use it so voteStatus
// can resolve for logged-in users and stay null for everyone else.
func OptionalAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := bearerUserID(c, secret); ok {
			c.Set(userIDKey, userID)
		}
		c.Next()
	}
}

func bearerUserID(c *gin.Context, secret []byte) (int, bool) {
	header := c.GetHeader("Authorization")
	tokenString, found := strings.CutPrefix(header, "Bearer ")
	if !found || tokenString == "" {
		return 0, false
	}
	userID, err := auth.ParseToken(secret, tokenString)
	if err != nil {
		return 0, false
	}
	return userID, true
}

// CurrentUserID returns the authenticated user's id, if any.
func CurrentUserID(c *gin.Context) (int, bool) {
	v, exists := c.Get(userIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok
}
