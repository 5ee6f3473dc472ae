package config_test

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/ErlanBelekov/vitaltrip-auth/config"
)

const secret = "0123456789abcdef0123456789abcdef"

func setBase(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/vitaltrip")
	t.Setenv("JWT_SECRET", secret)
}

func TestLoad_Defaults(t *testing.T) {
	setBase(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Env != "local" || cfg.Port != "8080" || cfg.MetricsPort != "9090" {
		t.Errorf("env/port defaults = %q %q %q", cfg.Env, cfg.Port, cfg.MetricsPort)
	}
	if cfg.AccessTokenTTL != time.Hour {
		t.Errorf("access ttl = %v, want 1h", cfg.AccessTokenTTL)
	}
	if cfg.RefreshTokenTTL != 7*24*time.Hour {
		t.Errorf("refresh ttl = %v, want 168h", cfg.RefreshTokenTTL)
	}
	if cfg.FrontendRedirectURL != "" {
		t.Errorf("frontend redirect = %q, want empty", cfg.FrontendRedirectURL)
	}
	if cfg.SlogLevel() != slog.LevelInfo {
		t.Errorf("log level = %v, want info", cfg.SlogLevel())
	}
}

func TestLoad_ShortSecret_Fails(t *testing.T) {
	setBase(t)
	t.Setenv("JWT_SECRET", "too-short")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for a secret under 32 characters")
	}
}

func TestLoad_MissingSecret_Fails(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/vitaltrip")
	t.Setenv("JWT_SECRET", "")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

func TestLoad_RefreshMustOutliveAccess(t *testing.T) {
	setBase(t)
	t.Setenv("ACCESS_TOKEN_TTL", "2h")
	t.Setenv("REFRESH_TOKEN_TTL", "1h")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error when refresh ttl <= access ttl")
	}
}

func TestLoad_ProductionRequiresProviderAndMail(t *testing.T) {
	setBase(t)
	t.Setenv("ENV", "production")

	_, err := config.Load()
	if err == nil {
		t.Fatal("expected error for production without google/resend settings")
	}
	if !strings.Contains(err.Error(), "GoogleClientID") {
		t.Errorf("error = %v, want it to name GoogleClientID", err)
	}
}

func TestLoad_ParsesOriginsAndLevel(t *testing.T) {
	setBase(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Errorf("origins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("level = %v, want debug", cfg.SlogLevel())
	}
}
