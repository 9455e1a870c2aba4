package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/maloquacious/wastewater/internal/store"
)

const (
	defaultFeedURL        = "https://doh.wa.gov/sites/default/files/Data/Downloadable_Wastewater.csv"
	defaultRequestTimeout = 30 * time.Second
)

// Config holds runtime configuration for the collector.
type Config struct {
	FeedURL        string
	DBPath         string
	RequestTimeout time.Duration
	DryRun         bool
	Debug          bool
}

// Load reads configuration from environment variables (optionally .env).
// Every setting has a default; nothing is required.
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{}

	cfg.FeedURL = strings.TrimSpace(os.Getenv("URL_WAGOV_WASTEWATER"))
	if cfg.FeedURL == "" {
		cfg.FeedURL = defaultFeedURL
	}

	cfg.DBPath = store.ResolveDBPath(strings.TrimSpace(os.Getenv("SQLITE_DB_PATH")))

	cfg.RequestTimeout = defaultRequestTimeout
	if v := strings.TrimSpace(os.Getenv("POLL_REQUEST_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid POLL_REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}

	cfg.DryRun = boolEnv("DRY_RUN")
	cfg.Debug = boolEnv("LOG_DEBUG")

	return cfg, nil
}

func boolEnv(key string) bool {
	v := strings.TrimSpace(os.Getenv(key))
	return v == "1" || strings.EqualFold(v, "true")
}
