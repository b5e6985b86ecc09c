// Package configs handles environment based application configuration.
package configs

import (
	"time"

	"github.com/caarlos0/env/v6"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	// -- Server --

	Host                 string        `env:"HOST"`
	Port                 int           `env:"PORT" envDefault:"3000"`
	ServerRequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" envDefault:"60s"`

	// -- Database --

	DatabaseDSN     string `env:"DATABASE_DSN" envDefault:"pix.db"`
	DatabaseType    string `env:"DATABASE_TYPE" envDefault:"sqlite"`
	DatabaseVersion string `env:"DATABASE_VERSION" envDefault:""`

	// -- Idempotency middleware --

	DisableIdempotencyMiddleware      bool          `env:"DISABLE_IDEMPOTENCY_MIDDLEWARE" envDefault:"false"`
	IdempotencyMiddlewareDatabaseType string        `env:"IDEMPOTENCY_MIDDLEWARE_DATABASE_TYPE" envDefault:"local"`
	IdempotencyMiddlewareRedisURL     string        `env:"IDEMPOTENCY_MIDDLEWARE_REDIS_URL"`
	IdempotencyKeyExpiry              time.Duration `env:"IDEMPOTENCY_KEY_EXPIRY" envDefault:"1h"`

	// -- Misc --

	// Maximum requests per second, 0 disables request rate limiting.
	RequestRateLimit int    `env:"REQUEST_RATE_LIMIT" envDefault:"0"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
}

// Parse parses environment variables to a valid Config.
func Parse() (*Config, error) {
	cfg := Config{}
	err := env.Parse(&cfg, env.Options{Prefix: "PIX_"})
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func ConfigureLogger(logLevel string) {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})

	lvl, err := log.ParseLevel(logLevel)
	if err != nil {
		lvl = log.InfoLevel
	}

	log.SetLevel(lvl)
}
