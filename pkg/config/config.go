// Copyright 2026 Pangea Cyber Corporation
//
// Package config provides configuration for the audit verification client.
// It supports environment variables, YAML configuration files, and sensible
// defaults.
//
// SECURITY: the API token has no default. Call Validate() after Load() to
// ensure required configuration is present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pangeacyber/go-pangea/pkg/errors"
)

// DefaultArweaveBaseURL is the public gateway of the root-publication
// network.
const DefaultArweaveBaseURL = "https://arweave.net"

// Config holds all configuration for the audit client.
type Config struct {
	// Domain is the server origin, e.g. "pangea.cloud". The audit service
	// is reached at https://audit.{Domain}.
	Domain string `yaml:"domain"`

	// ConfigID, when set, is forwarded as the X-Pangea-Audit-Config-ID
	// header.
	ConfigID string `yaml:"config_id"`

	// Token is the bearer token. Loaded from PANGEA_TOKEN; never stored in
	// configuration files.
	Token string `yaml:"-"`

	// AllowServerRoots controls whether server-asserted roots are
	// acceptable for verification when the publication network has no
	// independently published root for a tree size.
	AllowServerRoots bool `yaml:"allow_server_roots"`

	// ArweaveBaseURL is the gateway of the root-publication network.
	ArweaveBaseURL string `yaml:"arweave_base_url"`

	// StrictConsistency upgrades an unverifiable consistency check (a
	// required root missing from every permitted source) from an in-band
	// annotation to a hard error.
	StrictConsistency bool `yaml:"strict_consistency"`

	// RootStateDir, when set, is where the client persists the last
	// verified root. Empty disables persistence.
	RootStateDir string `yaml:"root_state_dir"`

	// RequestTimeout bounds each outbound HTTP request.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// MaxRetries is the retry budget for transient transport failures.
	MaxRetries int `yaml:"max_retries"`

	// RetryBackoff is the base backoff between retries.
	RetryBackoff time.Duration `yaml:"retry_backoff"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns a configuration with production defaults. Domain and
// Token must still be provided.
func Default() *Config {
	return &Config{
		AllowServerRoots: true,
		ArweaveBaseURL:   DefaultArweaveBaseURL,
		RequestTimeout:   30 * time.Second,
		MaxRetries:       3,
		RetryBackoff:     time.Second,
		LogLevel:         "info",
	}
}

// Load reads configuration from environment variables on top of defaults.
//
// Recognized variables: PANGEA_TOKEN, PANGEA_DOMAIN, PANGEA_AUDIT_CONFIG_ID,
// PANGEA_ALLOW_SERVER_ROOTS, PANGEA_STRICT_CONSISTENCY,
// PANGEA_ROOT_STATE_DIR, ARWEAVE_BASE_URL, PANGEA_REQUEST_TIMEOUT,
// PANGEA_MAX_RETRIES, PANGEA_LOG_LEVEL.
func Load() (*Config, error) {
	cfg := Default()

	cfg.Token = os.Getenv("PANGEA_TOKEN")
	cfg.Domain = getEnv("PANGEA_DOMAIN", cfg.Domain)
	cfg.ConfigID = getEnv("PANGEA_AUDIT_CONFIG_ID", cfg.ConfigID)
	cfg.ArweaveBaseURL = getEnv("ARWEAVE_BASE_URL", cfg.ArweaveBaseURL)
	cfg.RootStateDir = getEnv("PANGEA_ROOT_STATE_DIR", cfg.RootStateDir)
	cfg.LogLevel = getEnv("PANGEA_LOG_LEVEL", cfg.LogLevel)

	var err error
	if cfg.AllowServerRoots, err = getEnvBool("PANGEA_ALLOW_SERVER_ROOTS", cfg.AllowServerRoots); err != nil {
		return nil, err
	}
	if cfg.StrictConsistency, err = getEnvBool("PANGEA_STRICT_CONSISTENCY", cfg.StrictConsistency); err != nil {
		return nil, err
	}
	if cfg.MaxRetries, err = getEnvInt("PANGEA_MAX_RETRIES", cfg.MaxRetries); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getEnvDuration("PANGEA_REQUEST_TIMEOUT", cfg.RequestTimeout); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFile reads a YAML configuration file on top of defaults. The token is
// still taken from the environment.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrorCodeConfigInvalid, "cannot read config file %s", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, errors.ErrorCodeConfigInvalid, "cannot parse config file %s", path)
	}

	cfg.Token = os.Getenv("PANGEA_TOKEN")
	return cfg, nil
}

// Validate checks that required configuration is present and well-formed.
func (c *Config) Validate() error {
	if c.Domain == "" {
		return errors.New(errors.ErrorCodeConfigInvalid, "domain is required")
	}
	if c.Token == "" {
		return errors.New(errors.ErrorCodeConfigInvalid, "no token provided (set PANGEA_TOKEN)")
	}
	if c.ArweaveBaseURL == "" {
		return errors.New(errors.ErrorCodeConfigInvalid, "arweave base URL is required")
	}
	if c.RequestTimeout <= 0 {
		return errors.New(errors.ErrorCodeConfigInvalid, "request timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return errors.New(errors.ErrorCodeConfigInvalid, "max retries cannot be negative")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.Newf(errors.ErrorCodeConfigInvalid, "%s must be a boolean, got %q", key, v)
	}
	return b, nil
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Newf(errors.ErrorCodeConfigInvalid, "%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, errors.Newf(errors.ErrorCodeConfigInvalid, "%s must be a duration, got %q", key, v)
	}
	return d, nil
}

// String renders the configuration for diagnostics with the token redacted.
func (c *Config) String() string {
	token := ""
	if c.Token != "" {
		token = "[redacted]"
	}
	return fmt.Sprintf("Config{Domain:%s ConfigID:%s Token:%s AllowServerRoots:%t Arweave:%s}",
		c.Domain, c.ConfigID, token, c.AllowServerRoots, c.ArweaveBaseURL)
}
