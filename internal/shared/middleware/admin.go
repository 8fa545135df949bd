package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tourbooking-backend/internal/shared/response"
)

// AdminMiddleware gates the payment back-office routes. It relies on
// AuthMiddleware having already stored the token's role claim in the
// context.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get("role")
		if !ok {
			response.ErrorResponse(c, http.StatusForbidden, "AUTH_003", "Access denied: admin role required")
			c.Abort()
			return
		}

		if roleStr, ok := role.(string); !ok || roleStr != "admin" {
			response.ErrorResponse(c, http.StatusForbidden, "AUTH_003", "Access denied: admin role required")
			c.Abort()
			return
		}

		c.Next()
	}
}
