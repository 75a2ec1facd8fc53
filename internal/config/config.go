// Package config provides the server configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/galacticode/galacticode/internal/store"
)

// Config holds the settings of the API server.
type Config struct {
	Port           string
	DBPath         string
	CatalogPath    string // empty means the built-in catalog
	SessionTTL     time.Duration
	AllowedOrigins []string
	RecordEvents   bool
}

// Load reads envFiles, or ./.env when present if none are given, then the
// GALACTICODE_* environment variables. Variables already set in the
// environment win over the files. A named file that is missing is an error.
func Load(envFiles ...string) (*Config, error) {
	err := godotenv.Load(envFiles...)
	if err != nil && (len(envFiles) > 0 || !errors.Is(err, fs.ErrNotExist)) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	dbPath, err := store.DefaultDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}

	cfg := &Config{
		Port:           getEnv("GALACTICODE_PORT", "8080"),
		DBPath:         dbPath,
		CatalogPath:    getEnv("GALACTICODE_CATALOG", ""),
		SessionTTL:     getEnvDuration("GALACTICODE_SESSION_TTL", 30*time.Minute),
		AllowedOrigins: getEnvList("GALACTICODE_ALLOWED_ORIGINS", []string{"*"}),
		RecordEvents:   getEnvBool("GALACTICODE_RECORD_EVENTS", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("GALACTICODE_PORT cannot be empty")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("GALACTICODE_PORT must be a number, got %q", c.Port)
	}
	if c.RecordEvents && c.DBPath == "" {
		return fmt.Errorf("GALACTICODE_DB cannot be empty when events are recorded")
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("GALACTICODE_SESSION_TTL must not be negative")
	}
	return nil
}

// Addr returns the listen address for the configured port.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}

func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
