package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	SessionStoreMemory = "memory"
	SessionStoreSQLite = "sqlite"
)

const (
	defaultAPIBaseURL           = "http://localhost:8000"
	defaultPort                 = 8080
	defaultSessionDBPath        = "sessions.db"
	defaultSessionTTL           = 24 * time.Hour
	defaultSessionSweepInterval = 10 * time.Minute
	defaultAllowedOrigins       = "http://localhost:5173"
)

type Config struct {
	// remote person API
	APIBaseURL string
	APITimeout time.Duration // zero keeps the transport default

	// http listener
	Port int

	// per-browser page state
	SessionStore         string
	SessionDBPath        string
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration

	CORSAllowedOrigins []string

	LogLevel  string
	LogFormat string
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func getEnvDurationOrDefault(envVar string, defaultVal time.Duration) time.Duration {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := time.ParseDuration(valStr)
	if err != nil || val < 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %s. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func LoadConfig() (Config, error) {
	baseURL := strings.TrimRight(getEnvOrDefault("API_BASE_URL", defaultAPIBaseURL), "/")
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Config{}, fmt.Errorf("invalid API_BASE_URL '%s': must be an absolute http(s) URL", baseURL)
	}

	store := strings.ToLower(getEnvOrDefault("SESSION_STORE", SessionStoreMemory))
	if store != SessionStoreMemory && store != SessionStoreSQLite {
		return Config{}, fmt.Errorf("invalid SESSION_STORE '%s': expected %q or %q", store, SessionStoreMemory, SessionStoreSQLite)
	}

	cfg := Config{
		APIBaseURL:           baseURL,
		APITimeout:           getEnvDurationOrDefault("API_TIMEOUT", 0),
		Port:                 getEnvIntOrDefault("PORT", defaultPort),
		SessionStore:         store,
		SessionDBPath:        getEnvOrDefault("SESSION_DB_PATH", defaultSessionDBPath),
		SessionTTL:           getEnvDurationOrDefault("SESSION_TTL", defaultSessionTTL),
		SessionSweepInterval: getEnvDurationOrDefault("SESSION_SWEEP_INTERVAL", defaultSessionSweepInterval),
		CORSAllowedOrigins:   splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", defaultAllowedOrigins)),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "console"),
	}

	return cfg, nil
}
