package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds all configuration for the catalog module.
type Config struct {
	// Content store
	ProjectID  string `env:"SANITY_PROJECT_ID,required"`
	Dataset    string `env:"SANITY_DATASET" envDefault:"production"`
	APIVersion string `env:"SANITY_API_VERSION" envDefault:"2021-10-21"`
	Token      string `env:"SANITY_API_TOKEN"`
	UseCDN     bool   `env:"SANITY_USE_CDN" envDefault:"true"`
	// APIHost overrides the computed API host, e.g. for a local proxy
	APIHost string `env:"SANITY_API_HOST"`
	CDNHost string `env:"SANITY_CDN_HOST" envDefault:"https://cdn.sanity.io"`

	RequestTimeout time.Duration `env:"SANITY_REQUEST_TIMEOUT" envDefault:"10s"`
	RetryCount     int           `env:"SANITY_RETRY_COUNT" envDefault:"2"`

	// Cache
	CacheTTL      time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"60s"`
	WebhookSecret string        `env:"CATALOG_WEBHOOK_SECRET"`
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load catalog configuration from environment: " + err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields env tags cannot express
func (c *Config) Validate() error {
	if c.ProjectID == "" {
		return errors.New("sanity_project_id is required")
	}
	if c.Dataset == "" {
		return errors.New("sanity_dataset is required")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("catalog_cache_ttl must not be negative, got %s", c.CacheTTL)
	}
	return nil
}

// APIBaseURL returns the versioned query API root
func (c *Config) APIBaseURL() string {
	host := c.APIHost
	if host == "" {
		sub := "api"
		// Authenticated requests always go to the live API
		if c.UseCDN && c.Token == "" {
			sub = "apicdn"
		}
		host = fmt.Sprintf("https://%s.%s.sanity.io", c.ProjectID, sub)
	}
	return strings.TrimRight(host, "/") + "/v" + strings.TrimPrefix(c.APIVersion, "v")
}
