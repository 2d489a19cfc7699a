package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"API_BASE_URL", "API_TIMEOUT", "PORT", "SESSION_STORE", "SESSION_TTL", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.APIBaseURL)
	assert.Equal(t, time.Duration(0), cfg.APITimeout)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, SessionStoreMemory, cfg.SessionStore)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://people.example.com/")
	t.Setenv("API_TIMEOUT", "5s")
	t.Setenv("PORT", "9000")
	t.Setenv("SESSION_STORE", "SQLite")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://people.example.com", cfg.APIBaseURL)
	assert.Equal(t, 5*time.Second, cfg.APITimeout)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, SessionStoreSQLite, cfg.SessionStore)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfigInvalidValuesFallBack(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("PORT", "-1")
	t.Setenv("SESSION_TTL", "forever")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
}

func TestLoadConfigRejectsBadInput(t *testing.T) {
	t.Run("relative base url", func(t *testing.T) {
		t.Setenv("API_BASE_URL", "persons")
		_, err := LoadConfig()
		assert.Error(t, err)
	})
	t.Run("unknown session store", func(t *testing.T) {
		t.Setenv("API_BASE_URL", "")
		t.Setenv("SESSION_STORE", "redis")
		_, err := LoadConfig()
		assert.Error(t, err)
	})
}
