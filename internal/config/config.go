// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
// All fields are populated from environment variables. The struct is built
// once at startup, passed by reference, and never mutated afterwards.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// Session tokens
	SecretKey string        `env:"SECRET_KEY,required,notEmpty"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"720h"`

	// Rate limiting. If RedisURL is set, counters live in a shared Redis
	// store; otherwise in process memory.
	RedisURL           string        `env:"REDIS_URL" envDefault:""`
	RedisPoolSize      int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	RedisMinIdleConns  int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"120"`
	RateLimitWindow    time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"60s"`

	// Transport security. When enabled, requests carrying an insecure
	// X-Forwarded-Proto are rejected unless the host is allow-listed.
	RequireHTTPS         bool   `env:"REQUIRE_HTTPS" envDefault:"true"`
	InsecureAllowedHosts string `env:"INSECURE_ALLOWED_HOSTS" envDefault:"127.0.0.1,localhost"`

	// Blob storage for receipts and logos. If S3Bucket is set, objects go
	// to S3 (or any MinIO-compatible endpoint); otherwise to UploadDir.
	S3Bucket    string `env:"S3_BUCKET" envDefault:""`
	S3Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint  string `env:"S3_ENDPOINT" envDefault:""`
	S3AccessKey string `env:"S3_ACCESS_KEY" envDefault:""`
	S3SecretKey string `env:"S3_SECRET_KEY" envDefault:""`
	UploadDir   string `env:"UPLOAD_DIR" envDefault:"uploads"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// GetInsecureAllowedHosts parses the comma-separated host list into a slice.
func (c *Config) GetInsecureAllowedHosts() []string {
	if c.InsecureAllowedHosts == "" {
		return nil
	}

	hosts := strings.Split(c.InsecureAllowedHosts, ",")
	result := make([]string, 0, len(hosts))

	for _, host := range hosts {
		trimmed := strings.TrimSpace(host)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Load parses environment variables and returns a Config.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
