package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const defaultJWTSecret = "jwt-secret-key-change-in-production"

// Config is the full process configuration, read from the environment.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	DatabaseURL        string `env:"DATABASE_URL,required,notEmpty"`
	DBMaxOpenConns     int    `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns     int    `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DisableAutoMigrate bool   `env:"DISABLE_AUTOMIGRATE" envDefault:"false"`

	JWTSecret   string        `env:"JWT_SECRET_KEY" envDefault:"jwt-secret-key-change-in-production"`
	JWTLifetime time.Duration `env:"JWT_ACCESS_TOKEN_EXPIRES" envDefault:"720h"`

	FrontendURL    string   `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	AllowRegister    bool   `env:"ALLOW_REGISTER" envDefault:"false"`
	AdminUsername    string `env:"ADMIN_USERNAME"`
	AdminPassword    string `env:"ADMIN_PASSWORD"`
	AdminCompanyName string `env:"ADMIN_COMPANY_NAME" envDefault:"Admin"`

	RedactPublicContacts bool `env:"PUBLIC_GUESTS_REDACT_CONTACT" envDefault:"false"`

	DataEncryptionKey string `env:"DATA_ENCRYPTION_KEY"`

	ResendAPIKey string `env:"RESEND_API_KEY"`
	EmailFrom    string `env:"EMAIL_FROM" envDefault:"invitaciones@example.com"`

	SentryDSN string `env:"ERROR_TRACKING_DSN"`

	// TrustedProxies lists the proxy IPs or CIDRs whose X-Forwarded-For is
	// believed. Empty means the peer address is the client address.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	RateLimitPerMinute       int `env:"RATE_LIMIT_PER_MINUTE" envDefault:"100"`
	PublicRateLimitPerMinute int `env:"PUBLIC_RATE_LIMIT_PER_MINUTE" envDefault:"30"`
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Origins returns the CORS allow-list, always including the frontend.
func (c *Config) Origins() []string {
	origins := []string{c.FrontendURL}
	for _, o := range c.AllowedOrigins {
		if o != "" && o != c.FrontendURL {
			origins = append(origins, o)
		}
	}
	return origins
}

// Load reads .env (if any) and parses the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.JWTSecret == defaultJWTSecret && cfg.IsProduction() {
		return nil, fmt.Errorf("JWT_SECRET_KEY must be set in production")
	}

	return &cfg, nil
}
