package middleware

import (
	"github.com/gin-gonic/gin"

	"nutrition-backend/internal/domains/user"
	"nutrition-backend/internal/shared/response"
)

// AdminMiddleware gates the admin route groups. It runs after
// AuthMiddleware, which stores the token's role in the context.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("role")
		if role != user.RoleAdmin {
			response.Forbidden(c, "Admin role required")
			c.Abort()
			return
		}

		c.Next()
	}
}
