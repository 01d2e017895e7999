package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/discoteque/discoteque-api/internal/core/domain"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "development" || cfg.LogLevel != "info" {
		t.Errorf("unexpected server defaults: %+v", cfg)
	}
	if cfg.StorageDriver != StoragePostgres {
		t.Errorf("expected postgres driver, got %q", cfg.StorageDriver)
	}
	if cfg.JWT.Issuer != "discoteque" || cfg.JWT.Audience != "discoteque-clients" {
		t.Errorf("unexpected jwt defaults: %+v", cfg.JWT)
	}
	if cfg.JWT.ExpirationMinutes != 30 {
		t.Errorf("expected 30 minutes, got %d", cfg.JWT.ExpirationMinutes)
	}
	if cfg.JWT.RefreshTokenTTL() != 7*24*time.Hour {
		t.Errorf("expected 7 days, got %v", cfg.JWT.RefreshTokenTTL())
	}
	if cfg.Login.MaxFailures != 5 || cfg.Login.Lockout != 15*time.Minute {
		t.Errorf("unexpected login defaults: %+v", cfg.Login)
	}
	if cfg.Mongo.URI != "" || cfg.Redis.Addr != "" {
		t.Error("optional dependencies must be disabled by default")
	}
	if cfg.AuditWorkers != 4 {
		t.Errorf("expected 4 audit workers, got %d", cfg.AuditWorkers)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"PORT":                   "9090",
		"JWT_KEY":                "k",
		"JWT_EXPIRATION_MINUTES": "5",
		"LOGIN_LOCKOUT":          "1h",
		"REDIS_ADDR":             "localhost:6379",
		"STORAGE_DRIVER":         "memory",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9090" || cfg.JWT.Key != "k" || cfg.JWT.ExpirationMinutes != 5 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Login.Lockout != time.Hour {
		t.Errorf("expected 1h lockout, got %v", cfg.Login.Lockout)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("expected redis addr, got %q", cfg.Redis.Addr)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("memory driver without DATABASE_URL must validate: %v", err)
	}
}

func TestLoad_BadValue(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"AUDIT_WORKERS": "many",
	}))
	if err == nil {
		t.Fatal("expected an error for a non-numeric AUDIT_WORKERS")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			StorageDriver: StoragePostgres,
			DatabaseURL:   "postgres://localhost/discoteque",
			JWT:           JWTConfig{Key: "k", ExpirationMinutes: 30, RefreshTokenDays: 7},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantKey string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing jwt key", func(c *Config) { c.JWT.Key = "" }, "JWT_KEY"},
		{"zero expiration", func(c *Config) { c.JWT.ExpirationMinutes = 0 }, "JWT_EXPIRATION_MINUTES"},
		{"zero refresh days", func(c *Config) { c.JWT.RefreshTokenDays = 0 }, "REFRESH_TOKEN_DAYS"},
		{"postgres without url", func(c *Config) { c.DatabaseURL = "" }, "DATABASE_URL"},
		{"unknown driver", func(c *Config) { c.StorageDriver = "sqlite" }, "STORAGE_DRIVER"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantKey == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, domain.ErrConfiguration) {
				t.Fatalf("expected configuration error, got %v", err)
			}
			var cerr *domain.ConfigurationError
			if !errors.As(err, &cerr) || cerr.Key != tt.wantKey {
				t.Errorf("expected key %s, got %v", tt.wantKey, err)
			}
		})
	}
}
