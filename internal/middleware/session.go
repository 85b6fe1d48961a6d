package middleware

import (
	"digital_wallet/internal/session" // Session store
	"digital_wallet/internal/utils"   // Session token utility functions
	"errors"                          // Error inspection

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Context keys set by the session and auth middleware
const (
	ContextUserID    = "userID"    // Logged-in user id
	ContextSessionID = "sessionID" // Server-side session id
	ContextUser      = "user"      // User snapshot loaded for this request
)

// SessionConfig describes the session cookie
type SessionConfig struct {
	CookieName string // Cookie holding the signed session token
	Secret     string // Token signing secret
	Secure     bool   // Send the cookie over HTTPS only
}

// SessionMiddleware resolves the session cookie to a user id. It never aborts:
// requests without a valid session continue as anonymous.
func SessionMiddleware(sessions session.Store, cfg SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(cfg.CookieName) // Get session cookie
		if err != nil || raw == "" {
			c.Next() // Anonymous request
			return
		}
		sessionID, err := utils.ParseSessionToken(raw, cfg.Secret) // Verify signature and expiry
		if err != nil {
			logrus.WithField("ip", c.ClientIP()).Debug("rejected session token")
			c.Next()
			return
		}
		sess, err := sessions.Get(c.Request.Context(), sessionID) // Look up the server-side record
		if err != nil {
			if !errors.Is(err, session.ErrSessionNotFound) {
				logrus.WithError(err).Error("session lookup failed")
			}
			c.Next()
			return
		}
		c.Set(ContextSessionID, sess.ID)  // Store session id in context
		c.Set(ContextUserID, sess.UserID) // Store userID in context
		c.Next()                          // Proceed to the next handler
	}
}

// UserID returns the logged-in user id, if any
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// SessionID returns the current session id, if any
func SessionID(c *gin.Context) (string, bool) {
	v, ok := c.Get(ContextSessionID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}
