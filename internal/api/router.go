package api

import (
	"digital_wallet/internal/auth"       // Auth service
	"digital_wallet/internal/ledger"     // Ledger operation
	"digital_wallet/internal/middleware" // Custom package for middleware
	"digital_wallet/internal/session"    // Session store
	"digital_wallet/internal/store"      // User and transaction store
	"net/http"                           // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
)

// Deps are the collaborators the HTTP layer is built from
type Deps struct {
	Store          store.Store
	Sessions       session.Store
	Auth           *auth.Service
	Ledger         *ledger.Service
	Session        middleware.SessionConfig
	TrustedProxies []string
}

// NewRouter wires every route onto a new gin engine
func NewRouter(d Deps) (*gin.Engine, error) {
	useJSONFieldNames()

	r := gin.New()                             // Gin router instance
	r.Use(gin.Recovery(), middleware.Logger()) // Recover from panics and log requests
	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies(d.TrustedProxies); err != nil {
		return nil, err
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := r.Group("/api")
	apiGroup.Use(middleware.SessionMiddleware(d.Sessions, d.Session)) // Resolve session cookie

	// Auth routes
	apiGroup.POST("/register", RegisterHandler(d.Auth, d.Sessions, d.Session))
	apiGroup.POST("/login", LoginHandler(d.Auth, d.Sessions, d.Session))
	apiGroup.POST("/logout", LogoutHandler(d.Sessions, d.Session))
	apiGroup.GET("/user", middleware.RequireAuth(d.Store), CurrentUserHandler())

	// Transaction routes (authenticated, not banned)
	txGroup := apiGroup.Group("/transactions")
	txGroup.Use(middleware.RequireAuth(d.Store), middleware.NotBanned())
	txGroup.GET("", GetTransactionsHandler(d.Store))
	txGroup.POST("", CreateTransactionHandler(d.Ledger))

	// Admin routes (authenticated, admin only)
	adminGroup := apiGroup.Group("/admin")
	adminGroup.Use(middleware.RequireAuth(d.Store), middleware.AdminOnlyMiddleware())
	adminGroup.GET("/users", ListUsersHandler(d.Store))
	adminGroup.GET("/multiple-accounts", UsersByIPHandler(d.Store))
	adminGroup.POST("/users/:id/ban", BanUserHandler(d.Store))

	return r, nil
}
