// Package config loads the demo configuration from the environment, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Log output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

var (
	// ErrLoadingEnvFile is returned when an explicitly requested env file cannot be read.
	ErrLoadingEnvFile = errors.New("failed to load env file")

	// ErrParsingConfig is returned when environment variables cannot be parsed into the config struct.
	ErrParsingConfig = errors.New("failed to parse environment variables into config")

	// ErrInvalidConfig is returned when a parsed value is out of range.
	ErrInvalidConfig = errors.New("invalid config")
)

// Config drives the demo harness.
type Config struct {
	// MaxTicks bounds the number of updates before the demo gives up.
	MaxTicks int `env:"TICKFSM_MAX_TICKS" envDefault:"100"`
	// TickInterval is the cadence updates are driven at.
	TickInterval time.Duration `env:"TICKFSM_TICK_INTERVAL" envDefault:"10ms"`
	LogLevel     slog.Level    `env:"TICKFSM_LOG_LEVEL" envDefault:"info"`
	LogFormat    string        `env:"TICKFSM_LOG_FORMAT" envDefault:"text"`
	// MaxChain bounds transitions settled per update. Zero means unbounded.
	MaxChain int `env:"TICKFSM_MAX_CHAIN" envDefault:"0"`
}

// Load parses the environment into a Config.
//
// Without arguments an optional .env file in the working directory is read first; a missing file is not an error.
// Explicitly named env files must exist. Variables already set in the environment take precedence over env files.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		// Ignore errors - the .env file might not exist and that's ok
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFiles...); err != nil {
		return Config{}, errors.Join(ErrLoadingEnvFile, err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the parsed values.
func (c Config) Validate() error {
	switch {
	case c.MaxTicks <= 0:
		return fmt.Errorf("%w: max ticks must be positive, got %d", ErrInvalidConfig, c.MaxTicks)
	case c.TickInterval < 0:
		return fmt.Errorf("%w: tick interval must not be negative, got %s", ErrInvalidConfig, c.TickInterval)
	case c.MaxChain < 0:
		return fmt.Errorf("%w: max chain must not be negative, got %d", ErrInvalidConfig, c.MaxChain)
	case c.LogFormat != FormatText && c.LogFormat != FormatJSON:
		return fmt.Errorf("%w: log format %q must be %q or %q", ErrInvalidConfig, c.LogFormat, FormatText, FormatJSON)
	}
	return nil
}
