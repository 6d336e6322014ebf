package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kestrelsec/warden/internal/gate"
)

// Config captures runtime configuration sourced from environment variables.
type Config struct {
	Environment  string
	HTTPPort     string
	DatabasePath string
	JWTSecret    string

	AdminUsername string
	AdminPassword string

	MaxRequests   int
	RateWindow    time.Duration
	BlockDuration time.Duration

	// UserPermissions is the caller permission set granted to action plans.
	UserPermissions []string

	// NotifyURLs are shoutrrr service URLs for critical threat alerts.
	NotifyURLs []string
}

// Load reads env vars and falls back to defaults so the gate can boot with
// zero configuration.
func Load() (Config, error) {
	cfg := Config{
		Environment:     getEnv("WARDEN_ENV", "development"),
		HTTPPort:        getEnv("WARDEN_HTTP_PORT", "8080"),
		DatabasePath:    getEnv("WARDEN_DB_PATH", filepath.Join("data", "warden.db")),
		JWTSecret:       getEnv("WARDEN_JWT_SECRET", "change-me-in-production"),
		AdminUsername:   getEnv("WARDEN_ADMIN_USER", "admin"),
		AdminPassword:   getEnv("WARDEN_ADMIN_PASSWORD", "admin"),
		MaxRequests:     getEnvInt("WARDEN_MAX_REQUESTS", 100),
		RateWindow:      getEnvDuration("WARDEN_RATE_WINDOW", time.Minute),
		BlockDuration:   getEnvDuration("WARDEN_BLOCK_DURATION", 5*time.Minute),
		UserPermissions: getEnvList("WARDEN_USER_PERMISSIONS", nil),
		NotifyURLs:      getEnvList("WARDEN_NOTIFY_URLS", nil),
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure data directory: %w", err)
	}

	return cfg, nil
}

// GateConfig translates the runtime configuration into gate options.
func (c Config) GateConfig() gate.Config {
	return gate.Config{
		Authentication:  gate.FeatureConfig{Enabled: true},
		Authorization:   gate.FeatureConfig{Enabled: true},
		Encryption:      gate.FeatureConfig{Enabled: true},
		Monitoring:      gate.FeatureConfig{Enabled: true},
		UserPermissions: c.UserPermissions,
		MaxRequests:     c.MaxRequests,
		Window:          c.RateWindow,
		BlockDuration:   c.BlockDuration,
		AdminUsername:   c.AdminUsername,
		AdminPassword:   c.AdminPassword,
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}

	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}

	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}

	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
