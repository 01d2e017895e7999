package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/discoteque/discoteque-api/internal/core/domain"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Port          string `env:"PORT,           default=8080"`
	Env           string `env:"ENV,            default=development"`
	LogLevel      string `env:"LOG_LEVEL,      default=info"`
	StorageDriver string `env:"STORAGE_DRIVER, default=postgres"`
	DatabaseURL   string `env:"DATABASE_URL"`

	JWT   JWTConfig
	Login LoginConfig
	Mongo MongoConfig
	Redis RedisConfig

	AuditWorkers int `env:"AUDIT_WORKERS, default=4"`
}

type JWTConfig struct {
	Key               string `env:"JWT_KEY"`
	Issuer            string `env:"JWT_ISSUER,             default=discoteque"`
	Audience          string `env:"JWT_AUDIENCE,           default=discoteque-clients"`
	ExpirationMinutes int    `env:"JWT_EXPIRATION_MINUTES, default=30"`
	RefreshTokenDays  int    `env:"REFRESH_TOKEN_DAYS,     default=7"`
}

// RefreshTokenTTL is the refresh token lifetime as a duration.
func (c JWTConfig) RefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshTokenDays) * 24 * time.Hour
}

type LoginConfig struct {
	MaxFailures int           `env:"LOGIN_MAX_FAILURES, default=5"`
	Lockout     time.Duration `env:"LOGIN_LOCKOUT,      default=15m"`
}

// MongoConfig is optional; an empty URI disables the audit trail.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=discoteque"`
}

// RedisConfig is optional; an empty address disables the login guard.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	if c.JWT.Key == "" {
		return &domain.ConfigurationError{Key: "JWT_KEY"}
	}
	if c.JWT.ExpirationMinutes <= 0 {
		return &domain.ConfigurationError{Key: "JWT_EXPIRATION_MINUTES", Reason: "must be positive"}
	}
	if c.JWT.RefreshTokenDays <= 0 {
		return &domain.ConfigurationError{Key: "REFRESH_TOKEN_DAYS", Reason: "must be positive"}
	}
	switch c.StorageDriver {
	case StorageMemory:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return &domain.ConfigurationError{Key: "DATABASE_URL"}
		}
	default:
		return &domain.ConfigurationError{Key: "STORAGE_DRIVER", Reason: fmt.Sprintf("unknown driver %q", c.StorageDriver)}
	}
	return nil
}

// IsDevelopment reports whether human-readable logging should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
