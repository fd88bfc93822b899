package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// minSecretLen is the minimum accepted length of the JWT signing secret.
// Anything shorter is a startup error, not a warning.
const minSecretLen = 32

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig

	// RateLimitPerMinute caps authenticated API calls per user (or per IP
	// for anonymous callers) within a sliding one-minute window.
	RateLimitPerMinute int `env:"RATE_LIMIT_PER_MINUTE, default=60"`

	// SmartLinkBaseURL is the public base under which short links are served.
	SmartLinkBaseURL string `env:"SMART_LINK_BASE_URL, default=http://localhost:8080/s"`
}

type AuthConfig struct {
	// JWTSecret signs every access token. Required, no default.
	JWTSecret string `env:"JWT_SECRET"`
	// TokenTTLMinutes bounds how long a minted token stays valid.
	TokenTTLMinutes int `env:"TOKEN_TTL_MINUTES, default=1440"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=pinglayer"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
	// PingTimeout bounds the startup connectivity check.
	PingTimeout time.Duration `env:"REDIS_PING_TIMEOUT, default=5s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// Validate enforces the invariants that make the process safe to start.
// A missing or short signing secret is fatal: tokens minted under a weak
// secret would outlive any fix.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < minSecretLen {
		return fmt.Errorf("config: JWT_SECRET must be at least %d characters", minSecretLen)
	}
	if c.Auth.TokenTTLMinutes <= 0 {
		return fmt.Errorf("config: TOKEN_TTL_MINUTES must be positive")
	}
	if c.Redis.PingTimeout <= 0 {
		return fmt.Errorf("config: REDIS_PING_TIMEOUT must be positive")
	}
	return nil
}

// TokenTTL returns the configured token lifetime as a duration.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLMinutes) * time.Minute
}

// IsProduction reports whether the process runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
