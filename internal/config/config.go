package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds the environment the three Lambda entrypoints and the seed
// CLI run with. Table names come from the provisioning stack; the rest has
// workable defaults.
type Config struct {
	LunchTable      string `env:"LUNCH_TABLE"`
	StateTable      string `env:"STATE_TABLE"`
	RestaurantTable string `env:"RESTAURANT_TABLE"`

	// ParamPrefix roots the SSM parameters for presentation config. Empty
	// disables the lookup and CardImageURL is used as-is.
	ParamPrefix  string `env:"PARAM_PREFIX"`
	CardImageURL string `env:"CARD_IMAGE_URL" envDefault:"https://example.com/lunch.jpg"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}
	return cfg, nil
}

// SlogLevel maps the configured level name to a slog level, defaulting to
// info for anything unrecognized.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
