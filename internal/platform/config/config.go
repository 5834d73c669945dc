package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the fuel station backend.
// Values come from config.defaults.yaml (optional) overridden by APP_-prefixed
// environment variables, e.g. APP_POSTGRES_DSN, APP_COOLDOWN.
type Config struct {
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	PostgresDSN string `mapstructure:"POSTGRES_DSN"`
	MetricsAddr string `mapstructure:"METRICS_ADDR"`

	// REINIT_DB is a bootstrap switch: when true the schema is created and
	// the reference catalog seeded.
	ReinitDB bool `mapstructure:"REINIT_DB"`

	// Station ledger policy
	InitialStock     float64 `mapstructure:"INITIAL_STOCK"`
	RestockThreshold float64 `mapstructure:"RESTOCK_THRESHOLD"`
	RefillLevel      float64 `mapstructure:"REFILL_LEVEL"`

	// Reactivation scheduler
	Cooldown               time.Duration `mapstructure:"COOLDOWN"`
	ReactivationMaxRetries int           `mapstructure:"REACTIVATION_MAX_RETRIES"`
	ReactivationBackoff    time.Duration `mapstructure:"REACTIVATION_BACKOFF"`
}

// Load reads configuration from defaults, an optional yaml file and the
// environment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config.defaults")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.SetEnvPrefix("APP")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("POSTGRES_DSN", "host=localhost port=5432 user=postgres password=postgres dbname=fuelstation sslmode=disable")
	v.SetDefault("METRICS_ADDR", ":9090")
	v.SetDefault("REINIT_DB", false)

	v.SetDefault("INITIAL_STOCK", 1000.0)
	v.SetDefault("RESTOCK_THRESHOLD", 1000.0)
	v.SetDefault("REFILL_LEVEL", 1000.0)

	v.SetDefault("COOLDOWN", "10s")
	v.SetDefault("REACTIVATION_MAX_RETRIES", 5)
	v.SetDefault("REACTIVATION_BACKOFF", "500ms")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read configuration file: %w", err)
		}
		// No file is fine; defaults and environment apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if cfg.InitialStock < 0 || cfg.RestockThreshold < 0 || cfg.RefillLevel < 0 {
		return nil, fmt.Errorf("stock configuration values must be non-negative")
	}
	if cfg.Cooldown <= 0 {
		return nil, fmt.Errorf("COOLDOWN must be positive")
	}

	return &cfg, nil
}
