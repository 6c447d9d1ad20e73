package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	QueueBackendMemory = "memory"
	QueueBackendRedis  = "redis"

	maxJobWorkers = 32
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
	Port        string `env:"PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"text"`
	MetricsPath string `env:"METRICS_PATH" envDefault:"/metrics"`

	Import ImportOptions
	Jobs   JobOptions
}

type ImportOptions struct {
	FeedPath string `env:"FEED_PATH" envDefault:"data/nsi_export.xml"`
	AckPath  string `env:"ACK_PATH" envDefault:"data/nsi_ack.xml"`
	// StaleAfter of zero keeps a pending import until it is cleared by hand.
	StaleAfter time.Duration `env:"IMPORT_STALE_AFTER" envDefault:"0s"`
}

type JobOptions struct {
	Workers       int    `env:"JOB_WORKERS" envDefault:"4"`
	QueueSize     int    `env:"JOB_QUEUE_SIZE" envDefault:"128"`
	QueueBackend  string `env:"JOB_QUEUE_BACKEND" envDefault:"memory"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisQueueKey string `env:"REDIS_QUEUE_KEY" envDefault:"mathserver:calculations"`
}

// Load reads .env and .env.local when present, then the process environment.
func Load() (*Config, error) {
	if err := loadEnvFiles(".env", ".env.local"); err != nil {
		return nil, err
	}
	return parse(env.Options{})
}

// LoadFrom builds a Config from vars alone, ignoring the process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEnvFiles(files ...string) error {
	existing := make([]string, 0, len(files))
	for _, file := range files {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	// Later files do not override earlier ones, and neither overrides the
	// real environment.
	return godotenv.Load(existing...)
}

// Validate normalises the config and rejects values the server cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("%w: DATABASE_URL is required", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Import.FeedPath) == "" || strings.TrimSpace(c.Import.AckPath) == "" {
		return fmt.Errorf("%w: FEED_PATH and ACK_PATH must be set", ErrInvalidConfig)
	}
	if c.Import.StaleAfter < 0 {
		return fmt.Errorf("%w: IMPORT_STALE_AFTER must not be negative", ErrInvalidConfig)
	}
	if !strings.HasPrefix(c.MetricsPath, "/") {
		return fmt.Errorf("%w: METRICS_PATH must start with /", ErrInvalidConfig)
	}

	switch c.Jobs.QueueBackend {
	case QueueBackendMemory:
	case QueueBackendRedis:
		if strings.TrimSpace(c.Jobs.RedisAddr) == "" {
			return fmt.Errorf("%w: REDIS_ADDR is required for the redis queue", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: JOB_QUEUE_BACKEND must be %q or %q", ErrInvalidConfig, QueueBackendMemory, QueueBackendRedis)
	}

	if c.Jobs.Workers < 1 {
		c.Jobs.Workers = 1
	}
	if c.Jobs.Workers > maxJobWorkers {
		c.Jobs.Workers = maxJobWorkers
	}
	if c.Jobs.QueueSize < 1 {
		c.Jobs.QueueSize = 1
	}
	return nil
}
