package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/propdata/property-api/internal/core/domain"
	"github.com/propdata/property-api/internal/ratelimit"
)

type Config struct {
	Port      string        `env:"PORT,       default=8080"`
	Env       string        `env:"ENV,        default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=15m"`
	LogLevel  string        `env:"LOG_LEVEL,  default=info"`

	// SearchRateLimit throttles POST /api/search, "N/period" form.
	SearchRateLimit string `env:"SEARCH_RATE_LIMIT, default=30/minute"`

	// IndexWorkers is the number of data-load dispatcher workers.
	IndexWorkers int `env:"INDEX_WORKERS, default=4"`

	// RateLimitStore selects where window counters live: "memory" (per
	// process) or "redis" (shared across instances).
	RateLimitStore string `env:"RATE_LIMIT_STORE, default=memory"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=property_api"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects a configuration the gateway cannot safely start with.
// These are the startup-fatal conditions; none of them can occur at
// request time.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("%w: JWT_SECRET is required", domain.ErrConfiguration)
	}
	if _, err := ratelimit.ParsePolicy(c.SearchRateLimit); err != nil {
		return err
	}
	if c.RateLimitStore != "memory" && c.RateLimitStore != "redis" {
		return fmt.Errorf("%w: RATE_LIMIT_STORE must be memory or redis, got %q", domain.ErrConfiguration, c.RateLimitStore)
	}
	return nil
}
