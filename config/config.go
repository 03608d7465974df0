// Package config loads server configuration from an optional YAML file
// layered over built-in defaults.
package config

import (
	"fmt"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	// Addr is the listen address for the HTTP server.
	Addr string `koanf:"addr"`

	// DatabaseURL is the PostgreSQL connection string.
	DatabaseURL string `koanf:"database_url"`

	// BaseURL is the public origin used in password-reset links.
	BaseURL string `koanf:"base_url"`

	// LogFormat is "text" or "json".
	LogFormat string `koanf:"log_format"`

	// SessionMaxAge bounds how long an issued session stays valid.
	SessionMaxAge time.Duration `koanf:"session_max_age"`

	// CookieSecure marks the session cookie Secure. Disable only for local
	// development over plain HTTP.
	CookieSecure bool `koanf:"cookie_secure"`

	// JanitorInterval is how often expired sessions and reset tokens are
	// garbage-collected. Zero disables the janitor.
	JanitorInterval time.Duration `koanf:"janitor_interval"`

	// AutoMigrate applies pending schema migrations on startup.
	AutoMigrate bool `koanf:"auto_migrate"`

	Mail MailConfig `koanf:"mail"`
}

// MailConfig points at the transactional mail vendor. An empty endpoint
// means outbound mail is logged instead of sent.
type MailConfig struct {
	Endpoint string `koanf:"endpoint"`
	APIKey   string `koanf:"api_key"`
	From     string `koanf:"from"`
}

func Default() Config {
	return Config{
		Addr:            ":8080",
		DatabaseURL:     "postgres://localhost:5432/clubhouse",
		BaseURL:         "http://localhost:8080",
		LogFormat:       "text",
		SessionMaxAge:   30 * 24 * time.Hour,
		CookieSecure:    true,
		JanitorInterval: time.Hour,
		AutoMigrate:     true,
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		k := koanf.New(".")
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
		if err := k.Unmarshal("", &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("log_format must be \"text\" or \"json\", got %q", c.LogFormat)
	}
	if c.SessionMaxAge <= 0 {
		return fmt.Errorf("session_max_age must be positive, got %s", c.SessionMaxAge)
	}
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	return nil
}
