package api

import (
	"digital_wallet/internal/middleware" // Current user helpers
	"digital_wallet/internal/store"      // User store
	"net/http"                           // HTTP status codes
	"strconv"                            // String conversion

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// BanRequest toggles a user's ban flag
type BanRequest struct {
	IsBanned *bool `json:"isBanned" binding:"required"` // New ban state
}

// ListUsersHandler returns all users
func ListUsersHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := s.ListUsers(c.Request.Context())
		if err != nil {
			respondError(c, err, nil)
			return
		}
		c.JSON(http.StatusOK, users) // Return the response
	}
}

// BanUserHandler sets the ban flag of the user in the path
func BanUserHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 0) // Parse user id from path
		if err != nil || id == 0 {
			c.JSON(http.StatusBadRequest, []gin.H{{"field": "id", "message": "must be a positive integer"}})
			return
		}
		var req BanRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, bindingErrors(err).Fields)
			return
		}
		if err := s.UpdateUserBanStatus(c.Request.Context(), uint(id), *req.IsBanned); err != nil {
			respondError(c, err, logrus.Fields{"target_user_id": id})
			return
		}
		admin, _ := middleware.CurrentUser(c)
		logrus.WithFields(logrus.Fields{
			"admin_id":       admin.ID, // Acting admin
			"target_user_id": id,       // Affected user
			"is_banned":      *req.IsBanned,
		}).Info("User ban status changed")
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// UsersByIPHandler lists accounts whose last login came from the given ip
func UsersByIPHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.Query("ip")
		if ip == "" {
			c.JSON(http.StatusBadRequest, []gin.H{{"field": "ip", "message": "is required"}})
			return
		}
		users, err := s.DetectMultipleAccounts(c.Request.Context(), ip)
		if err != nil {
			respondError(c, err, logrus.Fields{"ip": ip})
			return
		}
		c.JSON(http.StatusOK, users)
	}
}
