package middleware

import (
	"digital_wallet/internal/domain" // Importing domain models
	"digital_wallet/internal/store"  // User store
	"errors"                         // Error inspection
	"net/http"                       // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// RequireAuth rejects anonymous requests with 401 and loads a fresh snapshot
// of the user for the rest of the chain. Flag changes made while the request
// runs are seen by the next request.
func RequireAuth(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c) // Get userID from context
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		user, err := s.GetUser(c.Request.Context(), userID)
		if errors.Is(err, domain.ErrNotFound) {
			// Session outlived its user
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Error("Failed to load user")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
			return
		}
		c.Set(ContextUser, user)
		c.Next()
	}
}

// NotBanned rejects banned users with 403. Must run after RequireAuth.
func NotBanned() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		if user.IsBanned {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Account is banned"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the snapshot loaded by RequireAuth
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok && user != nil
}
