package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/MichalMitros/cms-sync/internal/cms"
	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL     string        `env:"DATABASE_URL,required"`
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	CMS      cms.Config `envPrefix:"CMS_"`
	Sync     Sync       `envPrefix:"SYNC_"`
	Fallback Fallback   `envPrefix:"FALLBACK_"`
	Redis    Redis      `envPrefix:"REDIS_"`
	RabbitMQ RabbitMQ
}

// Sync holds synchronization configuration.
type Sync struct {
	// Interval between scheduled full synchronizations, zero disables scheduling.
	Interval     time.Duration `env:"INTERVAL" envDefault:"0s"`
	BatchSize    int           `env:"BATCH_SIZE" envDefault:"10"`
	PageSize     int           `env:"PAGE_SIZE" envDefault:"100"`
	ImageWidth   int           `env:"IMAGE_WIDTH" envDefault:"800"`
	ImageHeight  int           `env:"IMAGE_HEIGHT" envDefault:"600"`
	ImageQuality int           `env:"IMAGE_QUALITY" envDefault:"80"`
}

// Fallback holds fallback service configuration.
type Fallback struct {
	Strategy         string        `env:"STRATEGY" envDefault:"cms-first"`
	CacheTTL         time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	FailureThreshold int           `env:"FAILURE_THRESHOLD" envDefault:"5"`
	RecoveryTimeout  time.Duration `env:"RECOVERY_TIMEOUT" envDefault:"60s"`
}

// Redis holds Redis configuration. Empty address means in-memory caches.
type Redis struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// RabbitMQ holds RabbitMQ configuration. Empty URL disables sync commands consumer.
type RabbitMQ struct {
	URL         string `env:"RABBITMQ_URL"`
	Exchange    string `env:"RABBITMQ_EXCHANGE" envDefault:"cms-sync-ex"`
	Queue       string `env:"RABBITMQ_QUEUE" envDefault:"cms-sync.commands"`
	CommandsKey string `env:"RABBITMQ_COMMANDS_ROUTING_KEY" envDefault:"cms-sync.cmd.sync"`
	ResultsKey  string `env:"RABBITMQ_RESULTS_ROUTING_KEY" envDefault:"cms-sync.results"`
}

// Load reads configuration from environment. Variables from files are loaded first, missing files are ignored.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("can't load env file: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("can't parse env variables: %w", err)
	}

	return cfg, nil
}
