package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8081"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Backend BackendConfig
	Session SessionConfig
}

// BackendConfig locates the logistics REST backend.
type BackendConfig struct {
	URL     string        `env:"BACKEND_URL,     default=http://localhost:8080"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT, default=10s"`
}

// SessionConfig controls the browser session cookie of the web console.
type SessionConfig struct {
	Secret       string        `env:"SESSION_SECRET"`
	TTL          time.Duration `env:"SESSION_TTL,   default=8h"`
	CookieSecure bool          `env:"COOKIE_SECURE, default=false"`
}

// IsDevelopment reports whether the console runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadTerminal is Load for the terminal console, which issues no browser
// sessions and so needs no SESSION_SECRET.
func LoadTerminal(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper(), false)
}

// LoadWith reads configuration from l.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	return load(ctx, l, true)
}

func load(ctx context.Context, l envconfig.Lookuper, sessions bool) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(sessions); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate(sessions bool) error {
	u, err := url.Parse(c.Backend.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("BACKEND_URL %q is not an absolute URL", c.Backend.URL)
	}
	if c.Backend.Timeout <= 0 {
		return errors.New("BACKEND_TIMEOUT must be positive")
	}
	if !sessions {
		return nil
	}
	if c.Session.TTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if !c.IsDevelopment() && len(c.Session.Secret) < 32 {
		return errors.New("SESSION_SECRET must be at least 32 bytes outside development")
	}
	return nil
}
