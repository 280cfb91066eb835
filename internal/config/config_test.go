package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unset clears an env var for the test and restores it afterwards.
func unset(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"TOME_API_BASE_URL", "TOME_COOKIE_FILE", "TOME_HTTP_TIMEOUT", "LOG_LEVEL"} {
		unset(t, key)
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/api", cfg.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, strings.HasSuffix(cfg.CookieFile, filepath.Join(".tome", "cookie")))
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("TOME_API_BASE_URL", "https://tome.example.com/api///")
	t.Setenv("TOME_COOKIE_FILE", "/tmp/tome-cookie")
	t.Setenv("TOME_HTTP_TIMEOUT", "3s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://tome.example.com/api", cfg.APIBaseURL)
	assert.Equal(t, "/tmp/tome-cookie", cfg.CookieFile)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}
