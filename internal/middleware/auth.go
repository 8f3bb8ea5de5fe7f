package middleware

import (
	"net/http"
	"strings"

	"homecare-rental/internal/models"
	"homecare-rental/pkg/utils"

	"github.com/gin-gonic/gin"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.AbortResponse(c, http.StatusUnauthorized, "missing token")
			return
		}

		// 2. Must be "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.AbortResponse(c, http.StatusUnauthorized, "malformed token")
			return
		}

		// 3. Validate
		token, err := utils.ValidateToken(parts[1])
		if err != nil || !token.Valid {
			utils.AbortResponse(c, http.StatusUnauthorized, "invalid token")
			return
		}

		userID, roleID, ok := utils.ClaimsOf(token)
		if !ok {
			utils.AbortResponse(c, http.StatusUnauthorized, "invalid token claims")
			return
		}

		c.Set("userID", userID)
		c.Set("roleID", roleID)

		c.Next()
	}
}

// RequireRoles lets through only users whose role is listed.
func RequireRoles(roles ...uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get("roleID")
		if !ok {
			utils.AbortResponse(c, http.StatusForbidden, "access denied")
			return
		}
		id, _ := role.(uint)
		for _, r := range roles {
			if id == r {
				c.Next()
				return
			}
		}
		utils.AbortResponse(c, http.StatusForbidden, "access denied")
	}
}

func AdminOnly() gin.HandlerFunc {
	return RequireRoles(models.RoleAdmin)
}

// StaffOnly admits office staff and admins. Technicians only see the
// calendar and their notifications.
func StaffOnly() gin.HandlerFunc {
	return RequireRoles(models.RoleAdmin, models.RoleStaff)
}
