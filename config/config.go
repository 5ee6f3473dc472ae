package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env      string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT" envDefault:"8080" validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	DatabaseURL    string `env:"DATABASE_URL,required" validate:"required"`
	DBMaxConns     int32  `env:"DB_MAX_CONNS" envDefault:"10" validate:"min=1,max=100"`
	DBMinConns     int32  `env:"DB_MIN_CONNS" envDefault:"2" validate:"min=0,ltefield=DBMaxConns"`
	MigrateOnStart bool   `env:"MIGRATE_ON_START" envDefault:"true"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	JWTSecret       string        `env:"JWT_SECRET,required" validate:"required,min=32"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL"    envDefault:"1h"   validate:"min=1m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL"   envDefault:"168h" validate:"gtfield=AccessTokenTTL"`
	BcryptCost      int           `env:"BCRYPT_COST"         envDefault:"10"   validate:"min=4,max=31"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"     validate:"required_if=Env production,required_if=Env staging"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET" validate:"required_if=Env production,required_if=Env staging"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL"  envDefault:"http://localhost:8080/login/oauth2/code/google" validate:"url"`

	// FrontendRedirectURL receives the social login outcome as query
	// parameters. Empty means the callback answers with JSON.
	FrontendRedirectURL string `env:"FRONTEND_REDIRECT_URL" validate:"omitempty,url"`

	ResendAPIKey string `env:"RESEND_API_KEY" validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom   string `env:"RESEND_FROM"    validate:"required_if=Env production,required_if=Env staging"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
