package main

import (
	"log/slog"
	"time"

	"github.com/fastprodman/keyshop/internal/config"
)

type apiConfig struct {
	Port            uint16        `env:"PORT" default:"5000"`
	LogLevel        slog.Level    `env:"APP_LOG_LEVEL" default:"INFO"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" default:"10s"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" default:"*"`
	// Empty disables the admin routes.
	AdminToken string `env:"ADMIN_TOKEN" default:""`
	Postgres   config.PostgresConfig
	Pricing    config.PricingConfig
}
