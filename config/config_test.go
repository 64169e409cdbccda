package config

import (
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestAppConfig_ParseAuthEnv(t *testing.T) {
	t.Setenv("OAUTH_CLIENT_ID", "app-client")
	t.Setenv("OAUTH_CLIENT_SECRET", "super-secret")
	t.Setenv("OAUTH_REDIRECT_URL", "https://app.example.com/auth/google/callback")
	t.Setenv("OAUTH_ISSUER_URL", "https://accounts.example.com")
	t.Setenv("SESSION_TTL", "4h")
	t.Setenv("SEED_ADMIN", "true")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	if cfg.Auth.OAuth.ClientID != "app-client" {
		t.Errorf("expected client id %q, got %q", "app-client", cfg.Auth.OAuth.ClientID)
	}
	if cfg.Auth.OAuth.ClientSecret != "super-secret" {
		t.Errorf("unexpected client secret %q", cfg.Auth.OAuth.ClientSecret)
	}
	if cfg.Auth.OAuth.RedirectURL != "https://app.example.com/auth/google/callback" {
		t.Errorf("unexpected redirect url %q", cfg.Auth.OAuth.RedirectURL)
	}
	if cfg.Auth.OAuth.IssuerURL != "https://accounts.example.com" {
		t.Errorf("unexpected issuer url %q", cfg.Auth.OAuth.IssuerURL)
	}
	if cfg.Auth.SessionTTL != 4*time.Hour {
		t.Errorf("expected session ttl 4h, got %v", cfg.Auth.SessionTTL)
	}
	if !cfg.Auth.SeedAdmin {
		t.Error("expected seed admin to be enabled")
	}
}

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("expected default addr :8080, got %q", cfg.HTTP.Addr)
	}
	if cfg.Postgres.Port != 5432 {
		t.Errorf("expected default db port 5432, got %d", cfg.Postgres.Port)
	}
	if cfg.Postgres.SSLMode != "disable" {
		t.Errorf("expected default sslmode disable, got %q", cfg.Postgres.SSLMode)
	}
	if !cfg.Postgres.RunMigrationsOnStart {
		t.Error("expected migrations to run on start by default")
	}
	if cfg.Redis.URI != "localhost:6379" {
		t.Errorf("unexpected default redis uri %q", cfg.Redis.URI)
	}
	if cfg.Auth.SessionTTL != 12*time.Hour {
		t.Errorf("expected default session ttl 12h, got %v", cfg.Auth.SessionTTL)
	}
	if cfg.Auth.OAuth.IssuerURL != "https://accounts.google.com" {
		t.Errorf("unexpected default issuer %q", cfg.Auth.OAuth.IssuerURL)
	}
}

func TestAuthConfig_Sanitize(t *testing.T) {
	cfg := AuthConfig{SessionTTL: time.Second}
	cfg.Sanitize()

	if cfg.SessionTTL != minSessionTTL {
		t.Errorf("expected session ttl clamped to %v, got %v", minSessionTTL, cfg.SessionTTL)
	}
	if cfg.OAuth.Timeout != 30*time.Second {
		t.Errorf("expected oauth timeout default, got %v", cfg.OAuth.Timeout)
	}
}

func TestHTTPConfig_Sanitize(t *testing.T) {
	cfg := HTTPConfig{ShutdownTimeout: -time.Second}
	cfg.Sanitize()

	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("expected shutdown timeout default, got %v", cfg.ShutdownTimeout)
	}
}
