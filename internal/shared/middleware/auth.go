package middleware

import (
	"net/http"
	"strings"

	"blog-backend/internal/shared/response"
	"blog-backend/pkg/jwt"
	"blog-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// TokenValidator verifies bearer tokens; *jwt.Manager satisfies it
type TokenValidator interface {
	ValidateAccessToken(token string) (*jwt.Claims, error)
}

// AuthMiddleware requires a valid "Authorization: Bearer <token>" header
// and stores the caller's id and role in the gin context.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, "missing authorization header")
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Abort(c, http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		claims, err := validator.ValidateAccessToken(parts[1])
		if err != nil {
			logger.Warn("Rejected bearer token", map[string]interface{}{
				"request_id": c.GetString(ContextRequestID),
				"error":      err.Error(),
			})
			response.Abort(c, http.StatusUnauthorized, "invalid token")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// UserID returns the authenticated caller id set by AuthMiddleware
func UserID(c *gin.Context) (string, bool) {
	id := c.GetString(ContextUserID)
	return id, id != ""
}
