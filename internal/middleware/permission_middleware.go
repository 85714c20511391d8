package middleware

import (
	"errors"
	"net/http"

	"cardstack/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequirePermission пропускает запрос только если эффективный набор
// разрешений пользователя содержит указанное разрешение. Решение об
// авторизации принимает резолвер, middleware лишь транслирует его в ответ.
func RequirePermission(resolver *rbac.Resolver, permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get(UserIDKey)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			c.Abort()
			return
		}

		authenticatedUserID, ok := userID.(uuid.UUID)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
			c.Abort()
			return
		}

		set, err := resolver.EffectivePermissions(c.Request.Context(), authenticatedUserID, nil)
		if err != nil {
			if errors.Is(err, rbac.ErrUserNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve permissions"})
			}
			c.Abort()
			return
		}

		if !set.Has(permission) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}

		c.Next()
	}
}
