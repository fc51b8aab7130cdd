// Package config loads the YAML configuration and applies INTEGRITY_*
// environment overrides.
package config

import (
	"fmt"
	"integrity-chain-go/common"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DEFAULT_DB_PATH         = "integrity.db"
	DEFAULT_LEDGER_TIMEOUT  = 5 * time.Second
	DEFAULT_ANCHOR_INTERVAL = 30 * time.Second
	DEFAULT_TOKEN_PREFIX    = "TKN"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Ledger   LedgerConfig   `yaml:"ledger"`
	Anchor   AnchorConfig   `yaml:"anchor"`
	Crypto   CryptoConfig   `yaml:"crypto"`
	Token    TokenConfig    `yaml:"token"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LedgerConfig controls publication of block hashes to the local ledger.
type LedgerConfig struct {
	Enabled bool          `yaml:"enabled"`
	Timeout time.Duration `yaml:"timeout"`
}

type AnchorConfig struct {
	Interval time.Duration `yaml:"interval"`
}

type CryptoConfig struct {
	Key string `yaml:"key"`
}

type TokenConfig struct {
	Prefix string `yaml:"prefix"`
}

func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: DEFAULT_DB_PATH},
		Ledger:   LedgerConfig{Enabled: true, Timeout: DEFAULT_LEDGER_TIMEOUT},
		Anchor:   AnchorConfig{Interval: DEFAULT_ANCHOR_INTERVAL},
		Token:    TokenConfig{Prefix: DEFAULT_TOKEN_PREFIX},
	}
}

// Load reads path when it exists, then applies environment overrides and
// fills unset values with defaults. An empty or missing path is not an error.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" && common.ExistFile(path) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config load: %w", err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("config unmarshal: %w", err)
		}
	}
	if err := applyEnvOverrides(c); err != nil {
		return nil, err
	}
	applyDefaults(c)
	return c, nil
}

func applyEnvOverrides(c *Config) error {
	if v := os.Getenv("INTEGRITY_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("INTEGRITY_LEDGER_ENABLED"); v != "" {
		c.Ledger.Enabled = strings.ToLower(v) == "true" || v == "1"
	}
	if v := os.Getenv("INTEGRITY_LEDGER_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid INTEGRITY_LEDGER_TIMEOUT=%q", v)
		}
		c.Ledger.Timeout = d
	}
	if v := os.Getenv("INTEGRITY_ANCHOR_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid INTEGRITY_ANCHOR_INTERVAL=%q", v)
		}
		c.Anchor.Interval = d
	}
	if v := os.Getenv("INTEGRITY_CRYPTO_KEY"); v != "" {
		c.Crypto.Key = v
	}
	if v := os.Getenv("INTEGRITY_TOKEN_PREFIX"); v != "" {
		c.Token.Prefix = strings.ToUpper(v)
	}
	return nil
}

func applyDefaults(c *Config) {
	if c.Database.Path == "" {
		c.Database.Path = DEFAULT_DB_PATH
	}
	if c.Ledger.Timeout <= 0 {
		c.Ledger.Timeout = DEFAULT_LEDGER_TIMEOUT
	}
	if c.Anchor.Interval <= 0 {
		c.Anchor.Interval = DEFAULT_ANCHOR_INTERVAL
	}
	if c.Token.Prefix == "" {
		c.Token.Prefix = DEFAULT_TOKEN_PREFIX
	}
}
