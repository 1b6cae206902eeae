package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/fwojciec/fmkit"
	"golang.org/x/time/rate"
)

// Config holds settings read from FMKIT_* environment variables.
type Config struct {
	// DBPath is the SQLite database file. Defaults to ~/.fmkit/fmkit.db.
	DBPath string `env:"DB"`

	SourceURL string        `env:"SOURCE_URL"`
	UserAgent string        `env:"USER_AGENT"`
	Timeout   time.Duration `env:"TIMEOUT" envDefault:"20s"`

	// FetchInterval is the minimum spacing between fetches of the source.
	// Zero disables the limit.
	FetchInterval time.Duration `env:"FETCH_INTERVAL" envDefault:"5s"`

	// Browser fetches through headless Chrome instead of plain HTTP.
	Browser bool `env:"BROWSER"`

	// Addr is the listen address of the serve command.
	Addr string `env:"ADDR" envDefault:"127.0.0.1:8787"`

	Verbose bool `env:"VERBOSE"`
}

// LoadConfig parses the FMKIT_* variables from environ, or from the
// process environment when environ is nil, and fills in defaults.
func LoadConfig(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{
		Prefix:      "FMKIT_",
		Environment: environ,
	}); err != nil {
		return cfg, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath()
	}
	if cfg.SourceURL == "" {
		cfg.SourceURL = fmkit.DefaultSourceURL
	}
	if cfg.Timeout <= 0 {
		return cfg, fmkit.Errorf(fmkit.EINVALID, "FMKIT_TIMEOUT must be positive")
	}
	if cfg.FetchInterval < 0 {
		return cfg, fmkit.Errorf(fmkit.EINVALID, "FMKIT_FETCH_INTERVAL must not be negative")
	}
	return cfg, nil
}

// FetchRate returns the fetch rate limit implied by FetchInterval.
func (c Config) FetchRate() rate.Limit {
	if c.FetchInterval == 0 {
		return rate.Inf
	}
	return rate.Every(c.FetchInterval)
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "fmkit.db"
	}
	return filepath.Join(home, ".fmkit", "fmkit.db")
}
