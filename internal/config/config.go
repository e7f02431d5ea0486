// Package config loads service settings from .env, the environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config stores settings shared by the HTTP service, the worker and the migration tool.
type Config struct {
	Port             int           `env:"PORT" envDefault:"8080"`
	OperationTimeout time.Duration `env:"OPERATION_TIMEOUT" envDefault:"3s"`

	DB        DB
	Kafka     Kafka     `envPrefix:"KAFKA_"`
	RabbitMQ  RabbitMQ  `envPrefix:"RABBITMQ_"`
	RateLimit RateLimit `envPrefix:"RATE_LIMIT_"`
	Log       Log       `envPrefix:"LOG_"`
	Pprof     Pprof     `envPrefix:"PPROF_"`
}

// DB holds Postgres connection settings.
type DB struct {
	URL            string `env:"DATABASE_URL"`
	Host           string `env:"POSTGRES_HOST" envDefault:"127.0.0.1"`
	Port           string `env:"POSTGRES_PORT" envDefault:"5432"`
	User           string `env:"POSTGRES_USER" envDefault:"myuser"`
	Pass           string `env:"POSTGRES_PASSWORD" envDefault:"mypassword"`
	Name           string `env:"POSTGRES_DB" envDefault:"delivery"`
	SSLMode        string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
	MaxConns       int32  `env:"DB_MAX_CONNS" envDefault:"10"`
	MigrateOnStart bool   `env:"DB_MIGRATE_ON_START" envDefault:"false"`
}

// DSN returns DATABASE_URL when set, otherwise a URL built from the POSTGRES_* settings.
func (d DB) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Pass),
		Host:     d.Host + ":" + d.Port,
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

// Kafka configures the order event consumer. An empty broker list disables it.
type Kafka struct {
	Brokers []string `env:"BROKERS" envSeparator:","`
	GroupID string   `env:"GROUP_ID" envDefault:"delivery-dispatch"`
	Topic   string   `env:"TOPIC" envDefault:"orders"`
}

// Enabled reports whether at least one broker is configured.
func (k Kafka) Enabled() bool {
	for _, b := range k.Brokers {
		if strings.TrimSpace(b) != "" {
			return true
		}
	}
	return false
}

// RabbitMQ configures assignment notifications. An empty URL disables publishing.
type RabbitMQ struct {
	URL      string `env:"URL"`
	Exchange string `env:"EXCHANGE" envDefault:"assignments_topic"`
}

// RateLimit configures the per-client limiter in front of the API.
type RateLimit struct {
	Enabled    bool          `env:"ENABLED" envDefault:"true"`
	Rate       float64       `env:"RATE" envDefault:"5"`
	Burst      int           `env:"BURST" envDefault:"10"`
	TTL        time.Duration `env:"TTL" envDefault:"5m"`
	MaxBuckets int           `env:"MAX_KEYS" envDefault:"10000"`
}

// Log selects the logging backend and level.
type Log struct {
	Level   string `env:"LEVEL" envDefault:"info"`
	Backend string `env:"BACKEND" envDefault:"slog"`
}

// Pprof configures the optional profiling listener.
type Pprof struct {
	Enabled bool   `env:"ENABLED" envDefault:"false"`
	Addr    string `env:"ADDR" envDefault:"127.0.0.1:6060"`
	User    string `env:"USER"`
	Pass    string `env:"PASS"`
}

// Load reads configuration in order: .env (if present), environment, flags.
// args are the command-line arguments without the program name.
func Load(args []string) (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load(".env")

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	fs := pflag.NewFlagSet("delivery", pflag.ContinueOnError)
	fs.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges that struct tags cannot express.
func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port: %d", c.Port))
	}
	if c.DB.URL == "" {
		if _, err := strconv.Atoi(c.DB.Port); err != nil {
			errs = append(errs, fmt.Errorf("invalid POSTGRES_PORT %q", c.DB.Port))
		}
	}
	if c.DB.MaxConns <= 0 {
		errs = append(errs, fmt.Errorf("invalid DB_MAX_CONNS: %d", c.DB.MaxConns))
	}
	if c.OperationTimeout <= 0 {
		errs = append(errs, fmt.Errorf("invalid OPERATION_TIMEOUT: %s", c.OperationTimeout))
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.Rate <= 0 || c.RateLimit.Burst <= 0 {
			errs = append(errs, errors.New("rate limit rate and burst must be positive"))
		}
		if c.RateLimit.TTL <= 0 {
			errs = append(errs, fmt.Errorf("invalid RATE_LIMIT_TTL: %s", c.RateLimit.TTL))
		}
	}
	if c.Pprof.Enabled && strings.TrimSpace(c.Pprof.Addr) == "" {
		errs = append(errs, errors.New("PPROF_ADDR is required when PPROF_ENABLED is set"))
	}
	switch c.Log.Backend {
	case "slog", "logrus":
	default:
		errs = append(errs, fmt.Errorf("unknown LOG_BACKEND %q", c.Log.Backend))
	}
	return errors.Join(errs...)
}
