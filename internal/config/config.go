package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type LogConfig struct {
	Level     string
	Format    string
	Component string
	Source    bool
}

type Config struct {
	App struct {
		ENV             string
		EmailSuffix     string
		FrontendURL     string
		VerificationTTL time.Duration
	}

	Log LogConfig

	DB struct {
		Driver   string
		DSN      string
		Host     string
		Port     string
		User     string
		Password string
		Name     string
	}

	Session struct {
		Backend string
		TTL     time.Duration
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	HTTP struct {
		Host          string
		Port          string
		AuthRateLimit float64
		CORSMaxAge    int
	}

	GRPC struct {
		Enabled bool
		Host    string
		Port    string
	}

	SMTP struct {
		Host     string
		Port     string
		User     string
		Password string
		From     string
	}
}

// Load reads an optional .env file into the process environment and builds the config.
func Load() *Config {
	_ = godotenv.Load()
	return New()
}

func New() *Config {
	cfg := &Config{}

	// App
	cfg.App.ENV = getEnvDefault("APP_ENV", "production")
	cfg.App.EmailSuffix = strings.ToLower(getEnvDefault("EMAIL_DOMAIN_SUFFIX", ".edu"))
	cfg.App.FrontendURL = strings.TrimRight(getEnvDefault("FRONTEND_URL", "http://localhost:5173"), "/")
	cfg.App.VerificationTTL = getDurationDefault("VERIFICATION_TTL", 24*time.Hour)

	// Logger
	cfg.Log.Level = getEnvDefault("LOG_LEVEL", "info")
	cfg.Log.Format = getEnvDefault("LOG_FORMAT", "text")
	cfg.Log.Component = getEnvDefault("LOG_COMPONENT", "liftlink_api")
	cfg.Log.Source = isTruthy(os.Getenv("LOG_SOURCE"))

	// Database
	cfg.DB.Driver = strings.ToLower(getEnvDefault("DB_DRIVER", "sqlite"))
	switch cfg.DB.Driver {
	case "mysql":
		cfg.DB.DSN = os.Getenv("MYSQL_DSN")
		if cfg.DB.DSN == "" {
			cfg.DB.Host = getEnvDefault("DB_HOST", "localhost")
			cfg.DB.Port = getEnvDefault("DB_PORT", "3306")
			cfg.DB.User = getEnvDefault("DB_USER", "root")
			cfg.DB.Password = getEnvDefault("DB_PASSWORD", "root")
			cfg.DB.Name = getEnvDefault("DB_NAME", "liftlink")

			cfg.DB.DSN = fmt.Sprintf(
				"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
				cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name,
			)
		}
	default:
		cfg.DB.Driver = "sqlite"
		cfg.DB.DSN = getEnvDefault("SQLITE_DSN", "file:liftlink?mode=memory&cache=shared")
	}

	// Sessions
	cfg.Session.Backend = strings.ToLower(getEnvDefault("SESSION_BACKEND", "memory"))
	cfg.Session.TTL = getDurationDefault("SESSION_TTL", 0)

	// Redis
	cfg.Redis.Addr = getEnvDefault("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnvDefault("REDIS_PASSWORD", "")
	if dbStr := getEnvDefault("REDIS_DB", "0"); dbStr != "" {
		if dbInt, err := strconv.Atoi(dbStr); err == nil {
			cfg.Redis.DB = dbInt
		}
	}

	// HTTP
	cfg.HTTP.Host = getEnvDefault("HTTP_HOST", "0.0.0.0")
	cfg.HTTP.Port = getEnvDefault("HTTP_PORT", "5001")
	cfg.HTTP.AuthRateLimit = 5
	if v := getEnvDefault("AUTH_RATE_LIMIT", ""); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.HTTP.AuthRateLimit = f
		}
	}
	cfg.HTTP.CORSMaxAge = 3600
	if v := getEnvDefault("CORS_MAX_AGE", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.CORSMaxAge = n
		}
	}

	// gRPC
	cfg.GRPC.Enabled = isTruthy(os.Getenv("GRPC_ENABLED"))
	cfg.GRPC.Host = getEnvDefault("GRPC_HOST", "127.0.0.1")
	cfg.GRPC.Port = getEnvDefault("GRPC_PORT", "50051")

	// SMTP
	cfg.SMTP.Host = getEnvDefault("SMTP_HOST", "")
	cfg.SMTP.Port = getEnvDefault("SMTP_PORT", "587")
	cfg.SMTP.User = getEnvDefault("SMTP_USER", "")
	cfg.SMTP.Password = getEnvDefault("SMTP_PASSWORD", "")
	cfg.SMTP.From = getEnvDefault("SMTP_FROM", "LiftLink <no-reply@liftlink.local>")

	return cfg
}

// IsDevelopment reports whether development-only routes may be mounted.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.App.ENV, "development")
}

func getEnvDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getDurationDefault(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}
