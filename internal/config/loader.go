package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // zone database for hosts without one

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/painel/internal/domain/monthlabel"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "PAINEL_"

// FileEnv names the variable pointing at an optional YAML config file.
const FileEnv = EnvPrefix + "CONFIG"

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if PAINEL_CONFIG is set
//  3. env (prefix PAINEL_)
func Load(ctx context.Context) (*Config, error) {
	return LoadFile(ctx, os.Getenv(FileEnv))
}

// LoadFile is Load with an explicit file path; an empty path skips the file layer.
func LoadFile(_ context.Context, path string) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// PAINEL_UPSTREAM_URL -> upstream_url (flat keys, underscores preserved)
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the fields the service cannot run without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	u, err := url.Parse(c.UpstreamURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: upstream_url must be an absolute http(s) URL, got %q", ErrInvalidConfig, c.UpstreamURL)
	}
	if c.UpstreamTimeoutMS < 0 {
		return fmt.Errorf("%w: upstream_timeout_ms must not be negative", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Collection) == "" {
		return fmt.Errorf("%w: collection must not be empty", ErrInvalidConfig)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("%w: time_zone: %w", ErrInvalidConfig, err)
	}
	if _, err := c.MonthFormatter(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// UpstreamTimeout returns the upstream request timeout as a duration.
func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.UpstreamTimeoutMS) * time.Millisecond
}

// Location loads the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.TimeZone)
}

// MonthFormatter builds the month label formatter described by the config.
func (c *Config) MonthFormatter() (*monthlabel.Formatter, error) {
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	return monthlabel.New(c.MonthLocale, monthlabel.Style(c.MonthStyle), loc)
}
