package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tourbooking-backend/internal/shared/response"
	"tourbooking-backend/pkg/jwt"
)

// AuthMiddleware validates the JWT bearer token on admin routes
func AuthMiddleware(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get token from Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.ErrorResponse(c, http.StatusUnauthorized, "AUTH_001", "Missing authorization header")
			c.Abort()
			return
		}

		// 2. Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.ErrorResponse(c, http.StatusUnauthorized, "AUTH_001", "Invalid authorization header format")
			c.Abort()
			return
		}

		// 3. Verify and parse JWT
		claims, err := jwtManager.ValidateToken(parts[1])
		if err != nil {
			response.ErrorResponse(c, http.StatusUnauthorized, "AUTH_002", "Invalid or expired token")
			c.Abort()
			return
		}

		// 4. Stash identity and role for downstream handlers
		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)

		c.Next()
	}
}
