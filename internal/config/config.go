package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/rooms.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	// RedisURL enables cross-instance snapshot fan-out; empty keeps the
	// in-process broker.
	RedisURL string `env:"REDIS_URL"`

	// CloseGrace is how long a closed room stays readable before deletion.
	CloseGrace time.Duration `env:"CLOSE_GRACE" envDefault:"5m"`

	// CreateRatePerMin caps room creations per client IP.
	CreateRatePerMin int `env:"CREATE_RATE_PER_MIN" envDefault:"10"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
