package config

import "time"

// PostgresConfig locates the store. DSN is the only required setting.
type PostgresConfig struct {
	DSN             string        `env:"PG_DSN"`
	MaxOpenConns    int           `env:"PG_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `env:"PG_MAX_IDLE_CONNS" default:"5"`
	ConnMaxIdleTime time.Duration `env:"PG_CONN_MAX_IDLE_TIME" default:"5m"`
	ConnMaxLifetime time.Duration `env:"PG_CONN_MAX_LIFETIME" default:"30m"`
}

type PricingConfig struct {
	Base      int64 `env:"PRICE_BASE" default:"100"`
	Increment int64 `env:"PRICE_INCREMENT" default:"10"`
}
