package config

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds the chain and drop settings
type Config struct {
	RPCURL  string `env:"DROP_RPC_URL,required"`
	ChainID int64  `env:"DROP_CHAIN_ID" envDefault:"0"` // 0 asks the node

	NativeSymbol string `env:"DROP_NATIVE_SYMBOL" envDefault:"ETH"`

	CallTimeout           time.Duration `env:"DROP_CALL_TIMEOUT" envDefault:"10s"`
	ReceiptTimeout        time.Duration `env:"DROP_RECEIPT_TIMEOUT" envDefault:"2m"`
	ReceiptPollInterval   time.Duration `env:"DROP_RECEIPT_POLL_INTERVAL" envDefault:"2s"`
	PollInterval          time.Duration `env:"DROP_POLL_INTERVAL" envDefault:"10s"`
	MaxQuantityPerRequest int64         `env:"DROP_MAX_QUANTITY" envDefault:"10"`

	// Token metadata
	IPFSGateway     string        `env:"DROP_IPFS_GATEWAY" envDefault:"https://ipfs.io/ipfs/"`
	MetadataTimeout time.Duration `env:"DROP_METADATA_TIMEOUT" envDefault:"10s"`
	MetadataRetries int           `env:"DROP_METADATA_RETRIES" envDefault:"2"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load drop configuration from environment: " + err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration and normalises the gateway URL
func (c *Config) Validate() error {
	if c.RPCURL == "" {
		return errors.New("drop_rpc_url is required")
	}
	if c.ChainID < 0 {
		return errors.New("drop_chain_id must not be negative")
	}
	if c.ReceiptTimeout <= 0 || c.ReceiptPollInterval <= 0 {
		return errors.New("drop receipt timeout and poll interval must be positive")
	}
	if c.PollInterval <= 0 {
		return errors.New("drop_poll_interval must be positive")
	}
	if c.MaxQuantityPerRequest < 1 {
		return errors.New("drop_max_quantity must be at least 1")
	}

	u, err := url.Parse(c.IPFSGateway)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("drop_ipfs_gateway must be an absolute URL")
	}
	if !strings.HasSuffix(c.IPFSGateway, "/") {
		c.IPFSGateway += "/"
	}
	return nil
}
