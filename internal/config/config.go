// Package config loads service configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr       string        `env:"HTTP_ADDR" envDefault:":8080"`
	DatabaseURL    string        `env:"DATABASE_URL,required,notEmpty"`
	SleeperBaseURL string        `env:"SLEEPER_BASE_URL" envDefault:"https://api.sleeper.app"`
	PollInterval   time.Duration `env:"POLL_INTERVAL" envDefault:"1m"`
	HTTPTimeout    time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`
	OpsChannelID   string        `env:"OPS_CHANNEL_ID"`
	LogDev         bool          `env:"LOG_DEV"`
}

func Load() (Config, error) {
	// Missing .env is fine; real deployments set the environment
	// directly.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
