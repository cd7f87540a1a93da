package middlewares

import (
	"net/http"
	"strings"

	"crowdfix/internal/services"

	"github.com/gin-gonic/gin"
)

const (
	userContextKey     = "userID"
	usernameContextKey = "username"
)

// AuthMiddleware requires an "Authorization: Bearer <jwt>" header and puts
// the caller's id and username into the context.
func AuthMiddleware(tokenService *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
			c.Abort()
			return
		}

		claims, err := tokenService.ValidateToken(strings.TrimSpace(tokenString))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(userContextKey, claims.UserID)
		c.Set(usernameContextKey, claims.Username)
		c.Next()
	}
}

// CurrentUser returns what AuthMiddleware stored. ok is false on routes
// without the middleware.
func CurrentUser(c *gin.Context) (userID int64, username string, ok bool) {
	v, exists := c.Get(userContextKey)
	if !exists {
		return 0, "", false
	}
	userID, ok = v.(int64)
	return userID, c.GetString(usernameContextKey), ok
}
