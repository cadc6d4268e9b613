package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/hottakes/hottakes-api/internal/auth"
)

// UserIDKey is the gin context key holding the authenticated user id.
const UserIDKey = "userID"

// AuthMiddleware rejects requests without a valid bearer token and exposes
// the caller's id to later handlers.
func AuthMiddleware(authenticator *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := authenticator.Authenticate(c.GetHeader("Authorization"))
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(UserIDKey, identity.UserID)
		c.Next()
	}
}

// UserID returns the id set by AuthMiddleware, or "" on public routes.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
