package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/group-collab-api/internal/database"
	"github.com/yukikurage/group-collab-api/internal/models"
)

// RequireGroupAccess checks if the user is a member of the group.
// Admins may access any group.
func RequireGroupAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		groupIDStr := c.Param("id")
		groupID, err := strconv.ParseUint(groupIDStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		var group models.Group
		if err := database.GetDB().First(&group, groupID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
			c.Abort()
			return
		}

		if GetUserRole(c) != models.RoleAdmin {
			var member models.GroupMember
			err = database.GetDB().
				Where("group_id = ? AND user_id = ?", groupID, userID).
				First(&member).Error
			if err != nil {
				// 404 instead of 403 to avoid leaking group existence
				c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
				c.Abort()
				return
			}
			c.Set("group_member", member)
		}

		c.Set("group", group)
		c.Next()
	}
}
