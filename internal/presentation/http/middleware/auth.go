package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/logging"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/security"
	"github.com/sellermetrics/leadstack-go/pkg/config"
)

const (
	contextUserIDKey  = "userId"
	contextIsAdminKey = "isAdmin"
)

// AuthMiddleware validates the Bearer token and stores the caller's
// identity on the request context.
func AuthMiddleware(logger *logging.ChanneledLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			logger.Auth().Warn("Unauthorized access attempt", "path", c.Request.URL.Path, "reason", "missing_bearer")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		claims, err := security.ValidateJWT(strings.TrimPrefix(authHeader, "Bearer "), config.JWTSecret)
		if err != nil {
			logger.Auth().Warn("Unauthorized access attempt", "path", c.Request.URL.Path, "reason", "invalid_token")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		userID, _ := security.UserIDFromClaims(claims)
		c.Set(contextUserIDKey, userID)
		c.Set(contextIsAdminKey, security.IsAdminFromClaims(claims))
		c.Next()
	}
}

// AdminOnlyMiddleware rejects authenticated callers without the admin
// flag. Must run after AuthMiddleware.
func AdminOnlyMiddleware(logger *logging.ChanneledLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			logger.Auth().Warn("Unauthorized admin access attempt", "path", c.Request.URL.Path, "userId", UserID(c))
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user's ID, empty when anonymous.
func UserID(c *gin.Context) string {
	if v, exists := c.Get(contextUserIDKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// IsAdmin reports whether the authenticated caller is an admin.
func IsAdmin(c *gin.Context) bool {
	if v, exists := c.Get(contextIsAdminKey); exists {
		if isAdmin, ok := v.(bool); ok {
			return isAdmin
		}
	}
	return false
}
