// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config collects all runtime settings. Credentials and the database target
// are injected here, never read from globals.
type Config struct {
	Addr string `env:"ADDR" envDefault:":8080"`
	DSN  string `env:"DATABASE_DSN,required,notEmpty"`

	LimiterWindow   time.Duration `env:"LIMITER_WINDOW" envDefault:"15m"`
	LimiterMaxFails int           `env:"LIMITER_MAX_FAILS" envDefault:"5"`
	LimiterBlockFor time.Duration `env:"LIMITER_BLOCK_FOR" envDefault:"15m"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// Load parses configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
