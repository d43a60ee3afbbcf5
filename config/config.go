package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// yaml, postgres or sqlite3
	CatalogSource string `env:"CATALOG_SOURCE" envDefault:"yaml"`
	CatalogPath   string `env:"CATALOG_PATH" envDefault:"catalog.yaml"`
	CatalogDSN    string `env:"CATALOG_DSN"`

	// memory, redis or sqlite3
	StorageBackend string        `env:"STORAGE_BACKEND" envDefault:"memory"`
	RedisURL       string        `env:"REDIS_URL" envDefault:"redis://localhost:6379"`
	SQLitePath     string        `env:"SQLITE_PATH" envDefault:"storefront.db"`
	CartTTL        time.Duration `env:"CART_TTL" envDefault:"720h"`

	// In-memory sessions are dropped after CART_TTL of inactivity or when
	// SESSION_LIMIT is exceeded.
	SessionLimit int `env:"SESSION_LIMIT" envDefault:"10000"`

	TaxRate               string `env:"TAX_RATE" envDefault:"0.08"`
	FlatShipping          string `env:"FLAT_SHIPPING" envDefault:"9.99"`
	FreeShippingThreshold string `env:"FREE_SHIPPING_THRESHOLD" envDefault:"100"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads an optional .env file, then the environment.
func Load() (cfg Config, err error) {
	_ = godotenv.Load()
	if err = env.Parse(&cfg); err != nil {
		err = fmt.Errorf("parse env: %w", err)
		return
	}
	err = cfg.Validate()
	return
}

func (c Config) Validate() error {
	switch c.CatalogSource {
	case "yaml":
		if c.CatalogPath == "" {
			return fmt.Errorf("CATALOG_PATH is required for the yaml catalog")
		}
	case "postgres", "sqlite3":
		if c.CatalogDSN == "" {
			return fmt.Errorf("CATALOG_DSN is required for the %s catalog", c.CatalogSource)
		}
	default:
		return fmt.Errorf("unknown CATALOG_SOURCE %q", c.CatalogSource)
	}
	switch c.StorageBackend {
	case "memory", "redis", "sqlite3":
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	if c.CartTTL < 0 {
		return fmt.Errorf("CART_TTL must not be negative")
	}
	if c.SessionLimit <= 0 {
		return fmt.Errorf("SESSION_LIMIT must be positive")
	}
	_, err := c.Pricing()
	return err
}

// Pricing parses the checkout amounts.
func (c Config) Pricing() (p PricingValues, err error) {
	if p.TaxRate, err = parseAmount("TAX_RATE", c.TaxRate); err != nil {
		return
	}
	if p.FlatShipping, err = parseAmount("FLAT_SHIPPING", c.FlatShipping); err != nil {
		return
	}
	p.FreeShippingThreshold, err = parseAmount("FREE_SHIPPING_THRESHOLD", c.FreeShippingThreshold)
	return
}

type PricingValues struct {
	TaxRate               decimal.Decimal
	FlatShipping          decimal.Decimal
	FreeShippingThreshold decimal.Decimal
}

func parseAmount(name, v string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", name, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must not be negative", name)
	}
	return d, nil
}
