package config

import (
	"errors"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds all configuration for the wallet session module.
type Config struct {
	// JWT Configuration
	JWTSecretKey string        `env:"WALLET_JWT_SECRET,required"`
	JWTIssuer    string        `env:"WALLET_JWT_ISSUER" envDefault:"nft-drop-wallet"`
	SessionTTL   time.Duration `env:"WALLET_SESSION_TTL" envDefault:"24h"`

	// Sign-in challenge
	ChallengeTTL time.Duration `env:"WALLET_CHALLENGE_TTL" envDefault:"5m"`
	SignInDomain string        `env:"WALLET_SIGNIN_DOMAIN" envDefault:"localhost:3000"`
	SignInURI    string        `env:"WALLET_SIGNIN_URI" envDefault:"http://localhost:3000"`

	// Cookie Configuration
	CookieName     string `env:"WALLET_COOKIE_NAME" envDefault:"nft_wallet_session"`
	CookiePath     string `env:"WALLET_COOKIE_PATH" envDefault:"/"`
	CookieDomain   string `env:"WALLET_COOKIE_DOMAIN" envDefault:""`
	CookieSecure   bool   `env:"WALLET_COOKIE_SECURE" envDefault:"false"`
	CookieHTTPOnly bool   `env:"WALLET_COOKIE_HTTP_ONLY" envDefault:"true"`
	CookieSameSite string `env:"WALLET_COOKIE_SAME_SITE" envDefault:"Lax"`
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load wallet configuration from environment: " + err.Error() +
			". Please ensure all required environment variables are set.")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required values and normalises CookieSameSite
func (c *Config) Validate() error {
	if c.JWTSecretKey == "" {
		return errors.New("wallet_jwt_secret is required")
	}
	if c.SessionTTL <= 0 {
		return errors.New("wallet_session_ttl must be positive")
	}
	if c.ChallengeTTL <= 0 {
		return errors.New("wallet_challenge_ttl must be positive")
	}

	switch strings.ToLower(c.CookieSameSite) {
	case "lax":
		c.CookieSameSite = "Lax"
	case "strict":
		c.CookieSameSite = "Strict"
	case "none":
		c.CookieSameSite = "None"
	default:
		return errors.New("wallet_cookie_same_site must be one of 'Lax', 'Strict', or 'None'")
	}
	return nil
}
