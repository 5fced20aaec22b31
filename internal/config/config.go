// Package config loads service settings from PADDOCK_* environment
// variables.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

type Postgres struct {
	Host     string `env:"PADDOCK_PG_HOST" envDefault:"localhost"`
	Port     int    `env:"PADDOCK_PG_PORT" envDefault:"5432"`
	User     string `env:"PADDOCK_PG_USER" envDefault:"paddock"`
	Password string `env:"PADDOCK_PG_PASSWORD"`
	Database string `env:"PADDOCK_PG_DB" envDefault:"paddock"`
	SSLMode  string `env:"PADDOCK_PG_SSLMODE" envDefault:"disable"`
}

// DSN renders the connection URL shared by the GORM and sqlx pools.
func (p Postgres) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     fmt.Sprintf("%s:%d", p.Host, p.Port),
		Path:     "/" + p.Database,
		RawQuery: "sslmode=" + url.QueryEscape(p.SSLMode),
	}
	return u.String()
}

type Config struct {
	Env       string `env:"PADDOCK_ENV" envDefault:"development"`
	HTTPAddr  string `env:"PADDOCK_HTTP_ADDR" envDefault:":8080"`
	JWTSecret string `env:"PADDOCK_JWT_SECRET,required,notEmpty"`
	JWTIssuer string `env:"PADDOCK_JWT_ISSUER" envDefault:"paddock"`

	Postgres Postgres

	// Empty RedisAddr keeps the ban cache and payout queue in process.
	RedisAddr     string `env:"PADDOCK_REDIS_ADDR"`
	RedisPassword string `env:"PADDOCK_REDIS_PASSWORD"`
	RedisDB       int    `env:"PADDOCK_REDIS_DB" envDefault:"0"`

	BanCacheTTL time.Duration `env:"PADDOCK_BAN_CACHE_TTL" envDefault:"5m"`

	RateLimitRPS   float64 `env:"PADDOCK_RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst int     `env:"PADDOCK_RATE_LIMIT_BURST" envDefault:"20"`

	PayoutWorkers   int    `env:"PADDOCK_PAYOUT_WORKERS" envDefault:"2"`
	PayoutStream    string `env:"PADDOCK_PAYOUT_STREAM" envDefault:"payouts:instructions"`
	PayoutQueueSize int    `env:"PADDOCK_PAYOUT_QUEUE_SIZE" envDefault:"256"`

	// Sends per second across all payout workers; 0 means unthrottled.
	PayoutRate float64 `env:"PADDOCK_PAYOUT_RATE" envDefault:"10"`

	// Empty PaymentGatewayURL logs payouts instead of sending them.
	PaymentGatewayURL string `env:"PADDOCK_PAYMENT_GATEWAY_URL"`
	PaymentAPIKey     string `env:"PADDOCK_PAYMENT_API_KEY"`

	ShutdownTimeout time.Duration `env:"PADDOCK_SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
