package middleware

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
)

// AdminOnlyMiddleware checks the admin flag of the user snapshot loaded by RequireAuth
func AdminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c) // Get user loaded for this request
		// Check if an authenticated user exists in context
		if !ok {
			// If not, abort with unauthorized status
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		// Check if user is admin
		if !user.IsAdmin {
			// If not admin, abort with forbidden status
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Admin access required"})
			return
		}
		// If admin, proceed to the next handler
		c.Next()
	}
}
