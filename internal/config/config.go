// Package config loads application settings from environment variables.
// Defaults come from struct tags and the result is validated on startup so
// misconfiguration fails fast.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Upload   UploadConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Audit    AuditConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`
	Port int    `env:"SERVER_PORT" default:"8080" validate:"min=1,max=65535"`

	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s" validate:"min=0"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s" validate:"min=0"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s" validate:"min=0"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s" validate:"gt=0"`

	// RequestTimeout bounds every request through chi's Timeout middleware.
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s" validate:"gt=0"`
}

// DatabaseConfig holds Postgres connection settings.
type DatabaseConfig struct {
	// URL accepts DATABASE_URL or DB_URL.
	URL string `env:"DATABASE_URL" envAlt:"DB_URL" required:"true" validate:"required"`

	MaxConns        int           `env:"DB_MAX_CONNS" default:"10" validate:"gt=0,gtefield=MinConns"`
	MinConns        int           `env:"DB_MIN_CONNS" default:"2" validate:"min=0"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// UploadConfig holds spreadsheet import settings.
type UploadConfig struct {
	// MaxFileSize is in bytes (default: 20MB).
	MaxFileSize   int64         `env:"UPLOAD_MAX_FILE_SIZE" default:"20971520" validate:"gt=0"`
	MaxConcurrent int           `env:"UPLOAD_MAX_CONCURRENT" default:"3" validate:"gt=0"`
	MaxWaitTime   time.Duration `env:"UPLOAD_MAX_WAIT_TIME" default:"30s" validate:"gt=0"`
	Timeout       time.Duration `env:"UPLOAD_TIMEOUT" default:"2m" validate:"gt=0"`
}

// RateLimitConfig holds per-IP request limits.
type RateLimitConfig struct {
	Enabled           bool `env:"RATE_LIMIT_ENABLED" default:"true"`
	RequestsPerMinute int  `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120" validate:"min=0"`
	UploadLimit       int  `env:"RATE_LIMIT_UPLOAD" default:"10" validate:"min=0"`

	// RedisURL shares counters across instances when set; otherwise limits
	// are kept in process memory.
	RedisURL string `env:"REDIS_URL"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of proxy CIDRs whose
	// X-Real-IP / X-Forwarded-For headers are honored.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	RequireAPIKey bool     `env:"REQUIRE_API_KEY" default:"false"`
	APIKeys       []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format string `env:"LOG_FORMAT" default:"text" validate:"oneof=text json"`
}

// AuditConfig holds audit log retention settings.
type AuditConfig struct {
	RetentionDays int           `env:"AUDIT_RETENTION_DAYS" default:"365" validate:"gt=0"`
	CheckInterval time.Duration `env:"AUDIT_CHECK_INTERVAL" default:"24h" validate:"gt=0"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
