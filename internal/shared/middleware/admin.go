package middleware

import (
	"net/http"

	"blog-backend/internal/shared/response"
	"blog-backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// AdminMiddleware must run after AuthMiddleware
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextRole) != jwt.RoleAdmin {
			response.Abort(c, http.StatusForbidden, "Admin resource. Access denied")
			return
		}

		c.Next()
	}
}
