package middleware

import (
	"net/http"
	"strings"

	"cookedhub/internal/httpapi/models"
	"cookedhub/internal/httpapi/repository"
	"cookedhub/internal/httpapi/service"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "currentUser"

// AuthMiddleware validates the bearer token and resolves its subject to a
// live user exactly once per request. Handlers downstream only ever see the
// typed *models.User, never a raw principal.
func AuthMiddleware(authService service.AuthService, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		user, err := users.FindByID(claims.Subject)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		if !user.IsEnabled() {
			c.JSON(http.StatusForbidden, gin.H{"error": "account disabled"})
			c.Abort()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RequireRole rejects callers whose role set lacks the capability.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || !user.Roles.Has(role) {
			c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireActive rejects accounts still pending cook profile completion.
func RequireActive() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || user.Status != models.StatusActive {
			c.JSON(http.StatusForbidden, gin.H{"error": "account not active"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the resolved principal set by AuthMiddleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
