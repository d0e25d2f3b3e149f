// Package config содержит логику чтения конфигурации сервиса аренды полей.
package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ErrNoDatabase возвращается, если адрес базы данных не задан ни флагом, ни переменной окружения.
var ErrNoDatabase = errors.New("database URI is required")

// Config содержит параметры конфигурации сервиса аренды полей.
type Config struct {
	RunAddress           string        `env:"RUN_ADDRESS"`
	DatabaseURI          string        `env:"DATABASE_URI"`
	NotifyServiceAddress string        `env:"NOTIFY_SERVICE_ADDRESS"`
	AMQPURL              string        `env:"AMQP_URL"`
	RedisAddr            string        `env:"REDIS_ADDR"`
	AuthSecret           string        `env:"AUTH_SECRET" envDefault:"pitchrent-secret"`
	SiteURL              string        `env:"SITE_URL" envDefault:"http://localhost:8080"`
	BookingRateLimit     int           `env:"BOOKING_RATE_LIMIT" envDefault:"10"`
	ReportInterval       time.Duration `env:"REPORT_INTERVAL" envDefault:"1h"`
	Timezone             string        `env:"TIMEZONE" envDefault:"UTC"`

	location *time.Location
}

// Location возвращает часовой пояс Timezone. В нём считаются границы месяцев и дни статистики.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDatabaseURI := cfg.DatabaseURI
	envNotifyAddress := cfg.NotifyServiceAddress

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.NotifyServiceAddress, "n", "", "notification service address")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}
	if envNotifyAddress != "" {
		cfg.NotifyServiceAddress = envNotifyAddress
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}
	if cfg.DatabaseURI == "" {
		return nil, ErrNoDatabase
	}
	if cfg.ReportInterval <= 0 {
		return nil, fmt.Errorf("report interval must be positive, got %s", cfg.ReportInterval)
	}
	if cfg.Timezone == "Local" {
		return nil, fmt.Errorf("timezone must be an IANA name, got %q", cfg.Timezone)
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}
	cfg.location = loc

	return cfg, nil
}
