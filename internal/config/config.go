package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"translatable/internal/infrastructure/locale"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type Config struct {
	StoreDriver    string `env:"STORE_DRIVER" envDefault:"postgres"`
	DatabaseURL    string `env:"DATABASE_URL"`
	SQLitePath     string `env:"SQLITE_PATH" envDefault:"translatable.db"`
	FallbackLocale string `env:"FALLBACK_LOCALE" envDefault:"en"`
	MessageLocale  string `env:"MESSAGE_LOCALE" envDefault:"en"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env is optional when the variables come from the environment (Docker, CI, etc.).
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate applies defaults and checks every rule on the loaded configuration.
// Locale codes are kept as written; stored records are keyed by the same text.
func (c *Config) validate() error {
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	if c.StoreDriver == "" {
		c.StoreDriver = DriverPostgres
	}
	c.FallbackLocale = strings.TrimSpace(c.FallbackLocale)
	if c.FallbackLocale == "" {
		c.FallbackLocale = "en"
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = "info"
	}

	switch c.StoreDriver {
	case DriverPostgres:
		if err := c.validateDatabaseURL(); err != nil {
			return err
		}
	case DriverSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("config: SQLITE_PATH is required with STORE_DRIVER=sqlite")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER (%q): want postgres, sqlite or memory", c.StoreDriver)
	}

	if !locale.Valid(c.FallbackLocale) {
		return fmt.Errorf("config: invalid FALLBACK_LOCALE (%q)", c.FallbackLocale)
	}

	c.MessageLocale = strings.TrimSpace(c.MessageLocale)
	if !locale.Valid(c.MessageLocale) {
		c.MessageLocale = c.FallbackLocale
	}

	if _, err := c.Level(); err != nil {
		return err
	}

	return nil
}

func (c *Config) validateDatabaseURL() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		// Local default when DATABASE_URL is not provided.
		c.DatabaseURL = "postgres://localhost:5432/translatable?sslmode=disable"
	}

	parsed, err := url.Parse(c.DatabaseURL)
	if err != nil {
		return fmt.Errorf("config: invalid DATABASE_URL (%q): %w", c.DatabaseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("config: invalid DATABASE_URL (%q): missing scheme or host", c.DatabaseURL)
	}
	return nil
}

// Level parses LOG_LEVEL.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: invalid LOG_LEVEL (%q): %w", c.LogLevel, err)
	}
	return level, nil
}
