package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultTUILogFile receives diagnostics while the terminal widget owns the screen.
const DefaultTUILogFile = "chatwidget.log"

type Config struct {
	// Backend
	BackendURL string `env:"CHAT_BACKEND_URL" envDefault:"http://localhost:8080"`

	// Runtime
	Env string `env:"ENV" envDefault:"development"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`
}

func Load() (*Config, error) {
	if err := LoadEnvFile(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadEnvFile loads the given files (default ".env") into the process
// environment without overriding variables that are already set. Missing
// files are skipped; unreadable or malformed ones are errors.
func LoadEnvFile(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, name := range filenames {
		err := godotenv.Load(name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to load env file %s: %w", name, err)
		}
	}
	return nil
}

// Validate checks that BackendURL is an absolute http(s) URL.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil {
		return fmt.Errorf("invalid CHAT_BACKEND_URL %q: %w", c.BackendURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid CHAT_BACKEND_URL %q: scheme must be http or https", c.BackendURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid CHAT_BACKEND_URL %q: missing host", c.BackendURL)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
