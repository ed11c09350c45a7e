package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	PasswordMinLength int `env:"PASSWORD_MIN_LENGTH, default=8"`
	AuditWorkers      int `env:"AUDIT_WORKERS,       default=4"`

	JWT       JWTConfig
	Lockout   LockoutConfig
	RateLimit RateLimitConfig
	Mongo     MongoConfig
	Redis     RedisConfig
}

type JWTConfig struct {
	Key           string `env:"JWT_KEY, required"`
	Issuer        string `env:"JWT_ISSUER,   default=account-service"`
	Audience      string `env:"JWT_AUDIENCE, default=account-clients"`
	ExpiresInDays int    `env:"JWT_EXPIRES_IN_DAYS, default=1"`
}

type LockoutConfig struct {
	MaxFailedAttempts int           `env:"LOCKOUT_MAX_FAILED_ATTEMPTS, default=3"`
	Duration          time.Duration `env:"LOCKOUT_DURATION, default=5m"`
}

type RateLimitConfig struct {
	Requests int           `env:"RATE_LIMIT_REQUESTS, default=20"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW,   default=1m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=account_service"`
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
	return &cfg, nil
}
