package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Config captures runtime configuration sourced from environment variables.
// Credentials are loaded once at startup; nothing here mutates afterwards.
type Config struct {
	Environment string
	HTTPPort    string

	// Vendor API credentials
	APIKey    string
	APISecret string
	BaseURL   string

	// Plan preselected in the create-machine dialog
	DefaultPlanID string

	LogDir string
	WebDir string

	// Optional login wall: a bcrypt hash enables it, empty leaves the
	// dashboard open.
	PasswordHash  string
	SessionSecret string

	// Optional shoutrrr URLs notified on machine lifecycle actions.
	NotifyURLs []string
}

// Load reads env vars (with .env support) and falls back to defaults so the
// server can boot with zero configuration.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Environment:   getEnv("DECK_ENV", "development"),
		HTTPPort:      getEnv("DECK_HTTP_PORT", "5050"),
		APIKey:        os.Getenv("VAGON_API_KEY"),
		APISecret:     os.Getenv("VAGON_API_SECRET"),
		BaseURL:       getEnv("VAGON_BASE_URL", "https://api.vagon.io"),
		DefaultPlanID: os.Getenv("DEFAULT_PLAN_ID"),
		LogDir:        getEnv("DECK_LOG_DIR", filepath.Join("data", "logs")),
		WebDir:        getEnv("DECK_WEB_DIR", "web"),
		PasswordHash:  os.Getenv("DECK_PASSWORD_HASH"),
		SessionSecret: os.Getenv("DECK_SESSION_SECRET"),
	}

	if urls := os.Getenv("DECK_NOTIFY_URLS"); urls != "" {
		for _, u := range strings.Split(urls, ",") {
			if u = strings.TrimSpace(u); u != "" {
				cfg.NotifyURLs = append(cfg.NotifyURLs, u)
			}
		}
	}

	// Sessions only need to survive a single process; a random secret per
	// boot is fine when none is pinned.
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = uuid.NewString()
	}

	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure log directory: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}
