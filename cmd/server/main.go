package main

import (
	"context"                            // Context for startup and shutdown
	"digital_wallet/internal/api"        // Custom package for API handlers
	"digital_wallet/internal/auth"       // Auth service
	"digital_wallet/internal/config"     // Custom package for configuration
	"digital_wallet/internal/db"         // Database connection and migration
	"digital_wallet/internal/ledger"     // Ledger operation
	"digital_wallet/internal/middleware" // Custom package for middleware
	"digital_wallet/internal/session"    // Session stores
	"digital_wallet/internal/store"      // User and transaction stores
	"errors"                             // Error inspection
	"fmt"                                // Error formatting
	"net/http"                           // HTTP server
	"os"                                 // Signals
	"os/signal"                          // Signal notification
	"syscall"                            // SIGTERM
	"time"                               // Timeouts

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration
	config.SetupLogger(cfg)    // Setup logger
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(cfg)
	if err != nil {
		logrus.Fatalf("failed to open store: %v", err)
	}
	sessions, err := openSessions(ctx, cfg)
	if err != nil {
		logrus.Fatalf("failed to open session store: %v", err)
	}
	defer sessions.Close()

	authSvc := auth.NewService(st)
	// Create initial admin user if none exists
	if _, err := authSvc.BootstrapAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logrus.Fatalf("failed to bootstrap admin: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	router, err := api.NewRouter(api.Deps{
		Store:    st,
		Sessions: sessions,
		Auth:     authSvc,
		Ledger:   ledger.NewService(st, cfg.AllowNegativeBalance),
		Session: middleware.SessionConfig{
			CookieName: cfg.SessionCookie,
			Secret:     cfg.SessionSecret,
			Secure:     cfg.IsProd,
		},
		TrustedProxies: []string{"127.0.0.1"},
	})
	if err != nil {
		logrus.Fatalf("failed to build router: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logrus.WithField("port", cfg.AppPort).Info("Server running") // Log server start
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("graceful shutdown failed")
	}
}

// openStore selects the user and transaction backend
func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		logrus.Warn("Using in-memory store, all data is lost on restart")
		return store.NewMemoryStore(), nil
	case config.DriverMySQL:
		conn, err := db.Open(cfg.DSN(), cfg.IsProd) // Connect to the database
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(conn); err != nil {
			return nil, err
		}
		return store.NewGormStore(conn), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// openSessions selects the session backend
func openSessions(ctx context.Context, cfg *config.Config) (session.Store, error) {
	switch cfg.SessionDriver {
	case config.DriverMemory:
		return session.NewMemoryStore(cfg.SessionTTL, cfg.SessionSweepPeriod), nil
	case config.DriverRedis:
		// Setup Redis client
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		return session.NewRedisStore(redisClient, cfg.SessionTTL), nil
	default:
		return nil, fmt.Errorf("unknown session driver %q", cfg.SessionDriver)
	}
}
