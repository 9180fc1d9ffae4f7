package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Upstream UpstreamConfig
	Redis    RedisConfig
	Public   PublicConfig
}

type UpstreamConfig struct {
	// BaseURL points at the collaborator platform API.
	BaseURL string `env:"UPSTREAM_BASE_URL, default=http://localhost:8081"`
	// CacheTTL bounds staleness of cached catalog/appointment/slot reads.
	CacheTTL time.Duration `env:"UPSTREAM_CACHE_TTL, default=5m"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type PublicConfig struct {
	// RatePerMinute limits unauthenticated storefront traffic per client IP.
	RatePerMinute int `env:"PUBLIC_RATE_PER_MINUTE, default=60"`
	RateBurst     int `env:"PUBLIC_RATE_BURST,      default=20"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(logger *slog.Logger) *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		logger.Error("Failed to load configuration", "error", err)
		panic(err)
	}
	return &cfg
}
