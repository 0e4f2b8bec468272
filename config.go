package client

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"

	"github.com/threatintel/client/internal/transport"
)

// EnvPrefix prefixes every environment variable read by LoadConfig.
const EnvPrefix = "INTEL"

// Config holds the settings of a Client and of the intelctl tool.
// Environment variables are parsed from the INTEL_ prefix, e.g.
// INTEL_BASE_URL, INTEL_CLIENT_ID, INTEL_READ_TIMEOUT.
type Config struct {
	BaseURL      string `envconfig:"BASE_URL"`
	ClientID     string `envconfig:"CLIENT_ID"`
	ClientSecret string `envconfig:"CLIENT_SECRET"`

	ConnectTimeout time.Duration `envconfig:"CONNECT_TIMEOUT" default:"15s"`
	ReadTimeout    time.Duration `envconfig:"READ_TIMEOUT" default:"120s"`

	UserAgent string `envconfig:"USER_AGENT" default:""`
	Debug     bool   `envconfig:"DEBUG" default:"false"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	// StatePath is the SQLite file intelctl keeps rule-file validators in.
	StatePath string `envconfig:"STATE_PATH" default:"intelctl.db"`
}

// LoadConfig parses the environment. Credentials are not required here so
// that commands can fail with a clearer message; NewFromConfig checks them.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	log.Debug().
		Str("base_url", cfg.BaseURL).
		Bool("client_id_present", cfg.ClientID != "").
		Dur("connect_timeout", cfg.ConnectTimeout).
		Dur("read_timeout", cfg.ReadTimeout).
		Bool("debug", cfg.Debug).
		Str("state_path", cfg.StatePath).
		Msg("Configuration loaded")

	return &cfg, nil
}

// Validate checks the fields New needs.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("config: base url is required")
	}
	if c.ClientID == "" || c.ClientSecret == "" {
		return fmt.Errorf("config: %s_CLIENT_ID and %s_CLIENT_SECRET are required", EnvPrefix, EnvPrefix)
	}
	if c.ConnectTimeout < 0 || c.ReadTimeout < 0 {
		return errors.New("config: timeouts must not be negative")
	}
	return nil
}

// Timeouts returns the configured pair with defaults filled in.
func (c *Config) Timeouts() transport.Timeouts {
	t := transport.DefaultTimeouts()
	if c.ConnectTimeout > 0 {
		t.Connect = c.ConnectTimeout
	}
	if c.ReadTimeout > 0 {
		t.Read = c.ReadTimeout
	}
	return t
}
