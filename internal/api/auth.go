package api

import (
	"digital_wallet/internal/auth"       // Auth service
	"digital_wallet/internal/middleware" // Session helpers
	"digital_wallet/internal/session"    // Session store
	"digital_wallet/internal/utils"      // Session token utility functions
	"net/http"                           // HTTP status codes
	"time"                               // Cookie max age

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// RegisterRequest is the registration body
type RegisterRequest struct {
	Username string `json:"username" binding:"required,alphanum,min=3,max=64"` // Username must be provided
	Email    string `json:"email" binding:"required,email,max=255"`            // Email must be a valid address
	Password string `json:"password" binding:"required,min=8,max=72"`          // Password within bcrypt limits
}

// LoginRequest is the login body
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// startSession creates a server-side session and sets the signed cookie
func startSession(c *gin.Context, sessions session.Store, cfg middleware.SessionConfig, userID uint) error {
	sess, err := sessions.Create(c.Request.Context(), userID)
	if err != nil {
		return err
	}
	token, err := utils.GenerateSessionToken(sess.ID, cfg.Secret, sess.ExpiresAt)
	if err != nil {
		_ = sessions.Destroy(c.Request.Context(), sess.ID)
		return err
	}
	maxAge := int(time.Until(sess.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.CookieName, token, maxAge, "/", "", cfg.Secure, true)
	return nil
}

// RegisterHandler creates a user and logs them in
func RegisterHandler(svc *auth.Service, sessions session.Store, cfg middleware.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return field errors
			c.JSON(http.StatusBadRequest, bindingErrors(err).Fields)
			return
		}
		user, err := svc.Register(c.Request.Context(), req.Username, req.Email, req.Password)
		if err != nil {
			respondError(c, err, logrus.Fields{"username": req.Username})
			return
		}
		if err := startSession(c, sessions, cfg, user.ID); err != nil {
			respondError(c, err, logrus.Fields{"user_id": user.ID})
			return
		}
		c.JSON(http.StatusOK, user) // Return the created user
	}
}

// LoginHandler verifies credentials, records the login and starts a session
func LoginHandler(svc *auth.Service, sessions session.Store, cfg middleware.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, bindingErrors(err).Fields)
			return
		}
		user, err := svc.Authenticate(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			respondError(c, err, logrus.Fields{"username": req.Username})
			return
		}
		// Record the login first, a failure here must not leave a session
		updated, err := svc.RecordLogin(c.Request.Context(), user.ID, c.ClientIP())
		if err != nil {
			respondError(c, err, logrus.Fields{"user_id": user.ID})
			return
		}
		// Replace any session this client already had
		if sid, ok := middleware.SessionID(c); ok {
			_ = sessions.Destroy(c.Request.Context(), sid)
		}
		if err := startSession(c, sessions, cfg, user.ID); err != nil {
			respondError(c, err, logrus.Fields{"user_id": user.ID})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id": updated.ID,
			"ip":      c.ClientIP(),
		}).Info("User logged in")
		c.JSON(http.StatusOK, updated)
	}
}

// LogoutHandler destroys the current session and clears the cookie
func LogoutHandler(sessions session.Store, cfg middleware.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sid, ok := middleware.SessionID(c); ok {
			if err := sessions.Destroy(c.Request.Context(), sid); err != nil {
				respondError(c, err, logrus.Fields{"session_id": sid})
				return
			}
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cfg.CookieName, "", -1, "/", "", cfg.Secure, true)
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// CurrentUserHandler returns the logged-in user
func CurrentUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.Status(http.StatusUnauthorized)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
