// Package config loads service configuration.
//
// Sources are layered: built-in defaults, then an optional YAML file
// (CONFIG_PATH or ./config.yaml), then environment variables. A .env file in
// the working directory is loaded into the environment first.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	minJWTSecretLength = 32
)

type Config struct {
	Port        string `koanf:"port"`
	Storage     string `koanf:"storage"`
	DatabaseURL string `koanf:"database_url"`
	RedisURL    string `koanf:"redis_url"`
	UploadDir   string `koanf:"upload_dir"`
	CORSOrigins string `koanf:"cors_origins"`

	// LoginRateLimit is the number of login attempts allowed per IP per minute; 0 disables limiting.
	LoginRateLimit int `koanf:"login_rate_limit"`

	ORSAPIKey         string        `koanf:"ors_api_key"`
	ORSBaseURL        string        `koanf:"ors_base_url"`
	DirectionsTimeout time.Duration `koanf:"directions_timeout"`

	JWTSecret     string        `koanf:"jwt_secret"`
	JWTIssuer     string        `koanf:"jwt_issuer"`
	JWTAudience   string        `koanf:"jwt_audience"`
	JWTExpiration time.Duration `koanf:"jwt_expiration"`

	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`

	AdminUserName string `koanf:"admin_username"`
	AdminEmail    string `koanf:"admin_email"`
	AdminPassword string `koanf:"admin_password"`
	AdminFullName string `koanf:"admin_full_name"`
}

func defaults() Config {
	return Config{
		Port:              "8080",
		Storage:           StoragePostgres,
		UploadDir:         "wwwroot/Uploads",
		LoginRateLimit:    10,
		ORSBaseURL:        "https://api.openrouteservice.org",
		DirectionsTimeout: 10 * time.Second,
		JWTIssuer:         "tour-guide-service",
		JWTAudience:       "tour-guide-clients",
		JWTExpiration:     3 * time.Hour,
		LogLevel:          "info",
		LogFormat:         "json",
		AdminFullName:     "Administrator",
	}
}

// Load builds the configuration and validates it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load config: read .env: %w", err)
	}

	k := koanf.New(".")

	d := defaults()
	if err := k.Load(structs.Provider(&d, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load config: defaults: %w", err)
	}

	if path := configFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config: file %q: %w", path, err)
		}
	}

	// PORT -> port, JWT_SECRET -> jwt_secret
	envProvider := env.Provider("", ".", strings.ToLower)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load config: environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return &cfg, nil
}

func configFile() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	if _, err := os.Stat("config.yaml"); err == nil {
		return "config.yaml"
	}
	return ""
}

// Validate checks settings the server cannot start without.
func (c *Config) Validate() error {
	switch c.Storage {
	case StorageMemory:
	case StoragePostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return errors.New("DATABASE_URL is required for postgres storage")
		}
	default:
		return fmt.Errorf("STORAGE must be %q or %q, got %q", StoragePostgres, StorageMemory, c.Storage)
	}

	if len(c.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretLength)
	}
	if c.JWTExpiration <= 0 {
		return errors.New("JWT_EXPIRATION must be positive")
	}
	if c.DirectionsTimeout <= 0 {
		return errors.New("DIRECTIONS_TIMEOUT must be positive")
	}
	if c.LoginRateLimit < 0 {
		return errors.New("LOGIN_RATE_LIMIT must not be negative")
	}

	return nil
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
