package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/CarterPerez-dev/my-portfolio/pkg/config"
)

const defaultJWTSecret = "change-this-to-a-secure-secret"

// Config holds all configuration for the portfolio API.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// PostgreSQL
	PostgresHost          string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort          int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser          string `env:"POSTGRES_USER" envDefault:"portfolio"`
	PostgresPass          string `env:"POSTGRES_PASSWORD" envDefault:"portfolio_secret"`
	PostgresDB            string `env:"POSTGRES_DB" envDefault:"portfolio"`
	PostgresSSL           string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`
	DBMaxConns            int32  `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns            int32  `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetimeMins int    `env:"DB_MAX_CONN_LIFETIME_MINS" envDefault:"60"`
	DBMaxConnIdleTimeMins int    `env:"DB_MAX_CONN_IDLE_TIME_MINS" envDefault:"30"`
	SlowQueryThresholdMs  int    `env:"SLOW_QUERY_THRESHOLD_MS" envDefault:"200"`

	// Redis
	RedisHost         string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort         int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword     string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB           int    `env:"REDIS_DB" envDefault:"0"`
	CacheTTLSeconds   int    `env:"CONTENT_CACHE_TTL_SECONDS" envDefault:"300"`
	CacheEnabled      bool   `env:"CONTENT_CACHE_ENABLED" envDefault:"true"`
	PublicCacheMaxAge int    `env:"PUBLIC_CACHE_MAX_AGE_SECONDS" envDefault:"60"`

	// JWT
	JWTSecret        string `env:"JWT_SECRET" envDefault:"change-this-to-a-secure-secret"`
	JWTIssuer        string `env:"JWT_ISSUER" envDefault:"portfolio-api"`
	JWTAccessExpiry  string `env:"JWT_ACCESS_TOKEN_EXPIRY" envDefault:"15m"`
	JWTRefreshExpiry string `env:"JWT_REFRESH_TOKEN_EXPIRY" envDefault:"168h"`
	JWTResetExpiry   string `env:"JWT_RESET_TOKEN_EXPIRY" envDefault:"30m"`
	BcryptCost       int    `env:"BCRYPT_COST" envDefault:"12"`

	// Admin account seeded at startup when no user exists
	AdminEmail    string `env:"ADMIN_EMAIL" envDefault:""`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:""`
	AdminFullName string `env:"ADMIN_FULL_NAME" envDefault:"Portfolio Admin"`

	// Token sweeper
	SweepIntervalMins int `env:"TOKEN_SWEEP_INTERVAL_MINS" envDefault:"60"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Profiling
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load portfolio config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}

	// In non-development environments, require an explicitly set, strong JWT secret.
	if cfg.Environment != "development" {
		if cfg.JWTSecret == defaultJWTSecret {
			return nil, fmt.Errorf("JWT_SECRET must be explicitly set via environment variable in %q mode", cfg.Environment)
		}
		if len(cfg.JWTSecret) < 32 {
			return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters long, got %d", len(cfg.JWTSecret))
		}
	}

	if (cfg.AdminEmail == "") != (cfg.AdminPassword == "") {
		return nil, fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}

	return cfg, nil
}

// AccessTokenTTL parses the configured access token expiry.
func (c *Config) AccessTokenTTL() (time.Duration, error) {
	d, err := time.ParseDuration(c.JWTAccessExpiry)
	if err != nil {
		return 0, fmt.Errorf("parse JWT access expiry %q: %w", c.JWTAccessExpiry, err)
	}
	return d, nil
}

// RefreshTokenTTL parses the configured refresh token expiry.
func (c *Config) RefreshTokenTTL() (time.Duration, error) {
	d, err := time.ParseDuration(c.JWTRefreshExpiry)
	if err != nil {
		return 0, fmt.Errorf("parse JWT refresh expiry %q: %w", c.JWTRefreshExpiry, err)
	}
	return d, nil
}

// ResetTokenTTL parses the configured password reset token expiry.
func (c *Config) ResetTokenTTL() (time.Duration, error) {
	d, err := time.ParseDuration(c.JWTResetExpiry)
	if err != nil {
		return 0, fmt.Errorf("parse JWT reset expiry %q: %w", c.JWTResetExpiry, err)
	}
	return d, nil
}
