package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "PHONESHOP"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	Metrics   MetricsConfig
	RateLimit RateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.HTTP.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid %s_HTTP_PORT %q", EnvPrefix, c.HTTP.Port)
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		return errors.New("max body bytes must be positive")
	}
	if c.RateLimit.WritesPerMinute < 0 {
		return errors.New("rate limit must not be negative")
	}
	return nil
}

type AppConfig struct {
	Env         string `envconfig:"PHONESHOP_APP_ENV" default:"dev"`
	LogLevel    string `envconfig:"PHONESHOP_LOG_LEVEL" default:"info"`
	SeedCatalog bool   `envconfig:"PHONESHOP_SEED_CATALOG" default:"true"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

type HTTPConfig struct {
	Port              string        `envconfig:"PHONESHOP_HTTP_PORT" default:"3000"`
	ReadHeaderTimeout time.Duration `envconfig:"PHONESHOP_HTTP_READ_HEADER_TIMEOUT" default:"5s"`
	ShutdownTimeout   time.Duration `envconfig:"PHONESHOP_HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
	MaxBodyBytes      int64         `envconfig:"PHONESHOP_HTTP_MAX_BODY_BYTES" default:"1048576"`
}

func (h HTTPConfig) Addr() string {
	return ":" + h.Port
}

type MetricsConfig struct {
	Enabled bool   `envconfig:"PHONESHOP_METRICS_ENABLED" default:"true"`
	Token   string `envconfig:"PHONESHOP_METRICS_TOKEN"`
}

type RateLimitConfig struct {
	WritesPerMinute int `envconfig:"PHONESHOP_RATE_LIMIT_WRITES_PER_MIN" default:"0"`
}

func (r RateLimitConfig) Enabled() bool {
	return r.WritesPerMinute > 0
}
