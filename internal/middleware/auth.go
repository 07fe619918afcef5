package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/group-collab-api/internal/constants"
	apperrors "github.com/yukikurage/group-collab-api/internal/errors"
	"github.com/yukikurage/group-collab-api/internal/models"
)

// RequireAuth checks if the user is authenticated via session
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get(constants.ContextKeyUserID)
		userRole := session.Get(constants.ContextKeyUserRole)

		if userID == nil {
			apperrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, userID)
		if userRole != nil {
			c.Set(constants.ContextKeyUserRole, userRole)
		}
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// GetUserRole retrieves the current user role from context
func GetUserRole(c *gin.Context) models.UserRole {
	role, exists := c.Get(constants.ContextKeyUserRole)
	if !exists {
		return models.RoleStudent
	}

	switch v := role.(type) {
	case models.UserRole:
		return v
	case string:
		if r := models.UserRole(v); r.IsValid() {
			return r
		}
	}
	return models.RoleStudent
}
