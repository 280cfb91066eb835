package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the runtime settings for the Tome client.
type Config struct {
	// Base URL of the Tome API. Trailing slashes are trimmed on load.
	APIBaseURL string `env:"TOME_API_BASE_URL" envDefault:"http://localhost:8000/api"`

	// Path of the file holding the session cookie. Empty means
	// $HOME/.tome/cookie, resolved at load time.
	CookieFile string `env:"TOME_COOKIE_FILE"`

	// Outbound HTTP client timeout.
	HTTPTimeout time.Duration `env:"TOME_HTTP_TIMEOUT" envDefault:"10s"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads an optional .env file and parses the environment into a Config.
// A missing .env is fine; system env vars still apply.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment: %w", err)
	}

	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	if cfg.CookieFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("config: cannot resolve home directory: %w", err)
		}
		cfg.CookieFile = filepath.Join(home, ".tome", "cookie")
	}
	return cfg, nil
}
