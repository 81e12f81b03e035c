// Package config loads the service configuration from the environment.
//
// Variables use the SPORTSPREDICT_ prefix and "." for nesting, e.g.
// SPORTSPREDICT_DATABASE.HOST maps to Config.Database.Host. A `.env` file in
// the working directory is loaded first when present. Every option has a
// default except the database target.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/robfig/cron/v3"
)

const (
	EnvPrefix   = "SPORTSPREDICT_"
	ServiceName = "sportspredict"
)

type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Archive       ArchiveConfig        `koanf:"archive" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig configures the HTTP listener. Timeouts are in seconds.
type ServerConfig struct {
	Port         string `koanf:"port" validate:"required"`
	ReadTimeout  int    `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout int    `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout  int    `koanf:"idle_timeout" validate:"required,min=1"`

	// CORSAllowedOrigin is a comma separated list of origins, or "*".
	CORSAllowedOrigin string          `koanf:"cors_allowed_origin" validate:"required"`
	RateLimit         RateLimitConfig `koanf:"rate_limit" validate:"required"`
}

// AllowedOrigins splits CORSAllowedOrigin into its entries.
func (s ServerConfig) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(s.CORSAllowedOrigin, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// RateLimitConfig allows MaxRequests per client IP in every Window.
type RateLimitConfig struct {
	Enabled     bool          `koanf:"enabled"`
	Window      time.Duration `koanf:"window" validate:"min=1s"`
	MaxRequests int           `koanf:"max_requests" validate:"min=1"`
}

// DatabaseConfig holds the PostgreSQL target and pool bounds. URL, when set,
// takes precedence over the individual connection fields.
type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	Host            string        `koanf:"host" validate:"required_without=URL"`
	Port            int           `koanf:"port" validate:"required_without=URL"`
	User            string        `koanf:"user" validate:"required_without=URL"`
	Password        string        `koanf:"password"`
	Name            string        `koanf:"name" validate:"required_without=URL"`
	SSLMode         string        `koanf:"ssl_mode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	MinConns        int32         `koanf:"min_conns" validate:"min=0"`
	MaxConns        int32         `koanf:"max_conns" validate:"min=1,gtefield=MinConns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`

	// QueryTimeout bounds every single data-access call.
	QueryTimeout time.Duration `koanf:"query_timeout" validate:"min=1ms"`
}

type RedisConfig struct {
	Address  string `koanf:"address" validate:"required"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db" validate:"min=0"`
}

// ArchiveConfig drives the archival sweep.
type ArchiveConfig struct {
	Enabled       bool          `koanf:"enabled"`
	Schedule      string        `koanf:"schedule" validate:"required"`
	RetentionDays int           `koanf:"retention_days" validate:"min=1"`
	Timeout       time.Duration `koanf:"timeout" validate:"min=1s"`
}

// DefaultConfig returns the configuration used for every option the
// environment does not set.
func DefaultConfig() *Config {
	return &Config{
		Primary: Primary{Env: "development"},
		Server: ServerConfig{
			Port:              "8080",
			ReadTimeout:       30,
			WriteTimeout:      30,
			IdleTimeout:       60,
			CORSAllowedOrigin: "*",
			RateLimit: RateLimitConfig{
				Enabled:     true,
				Window:      15 * time.Minute,
				MaxRequests: 100,
			},
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			Name:            "sportspredict",
			SSLMode:         "disable",
			MinConns:        2,
			MaxConns:        10,
			ConnMaxLifetime: time.Hour,
			ConnMaxIdleTime: 30 * time.Minute,
			QueryTimeout:    250 * time.Millisecond,
		},
		Redis: RedisConfig{
			Address: "localhost:6379",
		},
		Archive: ArchiveConfig{
			Enabled:       true,
			Schedule:      "0 3 * * *",
			RetentionDays: 30,
			Timeout:       30 * time.Second,
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// LoadConfig reads SPORTSPREDICT_* variables over DefaultConfig and validates
// the result.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := DefaultConfig()
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Validate(); err != nil {
		return nil, err
	}

	return mainConfig, nil
}

// Validate checks struct tags, the archive cron expression and the
// observability block.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := cron.ParseStandard(c.Archive.Schedule); err != nil {
		return fmt.Errorf("invalid archive.schedule %q: %w", c.Archive.Schedule, err)
	}

	if c.Observability != nil {
		if err := c.Observability.Validate(); err != nil {
			return fmt.Errorf("invalid observability config: %w", err)
		}
	}

	return nil
}
