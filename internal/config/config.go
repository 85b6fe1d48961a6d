package config

import (
	"errors"  // For validation errors
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"time"    // For durations

	"github.com/joho/godotenv"   // For loading .env files
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Store and session backends
const (
	DriverMemory = "memory"
	DriverMySQL  = "mysql"
	DriverRedis  = "redis"
)

// DefaultSessionSecret is the development signing secret used when SESSION_SECRET is unset
const DefaultSessionSecret = "change-me"

// ErrDefaultSessionSecret is returned by Validate in production without SESSION_SECRET
var ErrDefaultSessionSecret = errors.New("SESSION_SECRET must be set when IS_PROD=true")

// Config holds the application configuration
type Config struct {
	AppPort   string // Application port
	IsProd    bool   // Is production environment
	LogLevel  string // Logrus level name
	LogFormat string // text or json

	StoreDriver string // memory or mysql
	DBUser      string // Database user
	DBPassword  string // Database password
	DBHost      string // Database host
	DBPort      string // Database port
	DBName      string // Database name

	SessionDriver      string        // memory or redis
	SessionSecret      string        // Secret used to sign session cookies
	SessionCookie      string        // Session cookie name
	SessionTTL         time.Duration // Session lifetime
	SessionSweepPeriod time.Duration // Expired session sweep interval
	RedisAddr          string        // Redis server address
	RedisPass          string        // Redis password
	RedisDB            int           // Redis database number

	AllowNegativeBalance bool // Permit withdrawals below zero

	AdminUsername string // Bootstrap admin username
	AdminEmail    string // Bootstrap admin email
	AdminPassword string // Bootstrap admin password
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	return &Config{
		AppPort:   getEnv("APP_PORT", "8080"),
		IsProd:    os.Getenv("IS_PROD") == "true",
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		StoreDriver: getEnv("STORE_DRIVER", DriverMemory),
		DBUser:      os.Getenv("DB_USER"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBHost:      getEnv("DB_HOST", "127.0.0.1"),
		DBPort:      getEnv("DB_PORT", "3306"),
		DBName:      os.Getenv("DB_NAME"),

		SessionDriver:      getEnv("SESSION_DRIVER", DriverMemory),
		SessionSecret:      getEnv("SESSION_SECRET", DefaultSessionSecret),
		SessionCookie:      getEnv("SESSION_COOKIE", "wallet.sid"),
		SessionTTL:         getDuration("SESSION_TTL", 24*time.Hour),
		SessionSweepPeriod: getDuration("SESSION_SWEEP_PERIOD", 24*time.Hour),
		RedisAddr:          getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPass:          os.Getenv("REDIS_PASS"),
		RedisDB:            getInt("REDIS_DB", 0),

		AllowNegativeBalance: getBool("ALLOW_NEGATIVE_BALANCE", true),

		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@wallet.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
	}
}

// Validate rejects settings that are only acceptable in development
func (c *Config) Validate() error {
	if c.IsProd && c.SessionSecret == DefaultSessionSecret {
		return ErrDefaultSessionSecret // Cookies would be forgeable
	}
	return nil
}

// DSN builds the MySQL Data Source Name
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}

// SetupLogger applies the configured level and formatter to the standard logrus logger
func SetupLogger(c *Config) {
	if c.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		logrus.WithField("level", c.LogLevel).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
