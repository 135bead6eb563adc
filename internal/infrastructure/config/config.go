package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	PAC       PACConfig
	Fetch     FetchConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8080"`
	Host string `envconfig:"HOST" default:"127.0.0.1"`
}

// PACConfig holds script and evaluator configuration.
type PACConfig struct {
	Script           string        `envconfig:"PAC_SCRIPT"`
	CacheSize        int           `envconfig:"PAC_CACHE_SIZE" default:"100"`
	MaxCallStackSize int           `envconfig:"PAC_MAX_CALL_STACK" default:"1024"`
	EvalTimeout      time.Duration `envconfig:"PAC_EVAL_TIMEOUT" default:"5s"`
	LoadTimeout      time.Duration `envconfig:"PAC_LOAD_TIMEOUT" default:"2m"`
	AllowEval        bool          `envconfig:"PAC_ALLOW_EVAL" default:"false"`
	Watch            bool          `envconfig:"PAC_WATCH" default:"true"`
}

// FetchConfig holds remote script retrieval configuration.
type FetchConfig struct {
	Timeout   time.Duration `envconfig:"FETCH_TIMEOUT" default:"30s"`
	Retries   int           `envconfig:"FETCH_RETRIES" default:"3"`
	UserAgent string        `envconfig:"FETCH_USER_AGENT" default:"pacd/1.0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
			Host: "127.0.0.1",
		},
		PAC: PACConfig{
			CacheSize:        100,
			MaxCallStackSize: 1024,
			EvalTimeout:      5 * time.Second,
			LoadTimeout:      2 * time.Minute,
			AllowEval:        false,
			Watch:            true,
		},
		Fetch: FetchConfig{
			Timeout:   30 * time.Second,
			Retries:   3,
			UserAgent: "pacd/1.0",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}
