package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("STORAGE", "memory")
	t.Setenv("JWT_SECRET", strings.Repeat("s", 40))
	t.Setenv("DIRECTIONS_TIMEOUT", "3s")
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ORIGINS", "http://localhost:5000, https://guide.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("port = %q, want 9090", cfg.Port)
	}
	if cfg.DirectionsTimeout != 3*time.Second {
		t.Errorf("directions timeout = %v, want 3s", cfg.DirectionsTimeout)
	}
	if cfg.JWTExpiration != 3*time.Hour {
		t.Errorf("jwt expiration = %v, want default 3h", cfg.JWTExpiration)
	}
	if cfg.ORSBaseURL != "https://api.openrouteservice.org" {
		t.Errorf("ors base url = %q", cfg.ORSBaseURL)
	}

	origins := cfg.AllowedOrigins()
	if len(origins) != 2 || origins[1] != "https://guide.example" {
		t.Errorf("origins = %v", origins)
	}
}

func TestValidate(t *testing.T) {
	base := defaults()
	base.Storage = StorageMemory
	base.JWTSecret = strings.Repeat("k", 32)
	if err := base.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	short := base
	short.JWTSecret = "too-short"
	if err := short.Validate(); err == nil {
		t.Error("expected error for short jwt secret")
	}

	pg := base
	pg.Storage = StoragePostgres
	pg.DatabaseURL = ""
	if err := pg.Validate(); err == nil {
		t.Error("expected error for postgres without DATABASE_URL")
	}

	unknown := base
	unknown.Storage = "sqlite"
	if err := unknown.Validate(); err == nil {
		t.Error("expected error for unknown storage")
	}

	unlimited := base
	unlimited.LoginRateLimit = 0
	if err := unlimited.Validate(); err != nil {
		t.Errorf("login rate limit 0 should disable limiting: %v", err)
	}

	negative := base
	negative.LoginRateLimit = -1
	if err := negative.Validate(); err == nil {
		t.Error("expected error for negative login rate limit")
	}
}
