package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"URL_WAGOV_WASTEWATER", "SQLITE_DB_PATH", "POLL_REQUEST_TIMEOUT", "DRY_RUN", "LOG_DEBUG"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.FeedURL != defaultFeedURL {
		t.Errorf("got feed URL %q, want default", cfg.FeedURL)
	}
	if cfg.DBPath != "wastewater.sqlite" {
		t.Errorf("got db path %q, want wastewater.sqlite", cfg.DBPath)
	}
	if cfg.RequestTimeout != defaultRequestTimeout {
		t.Errorf("got timeout %v, want %v", cfg.RequestTimeout, defaultRequestTimeout)
	}
	if cfg.DryRun || cfg.Debug {
		t.Errorf("got dry-run=%v debug=%v, want both false", cfg.DryRun, cfg.Debug)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("URL_WAGOV_WASTEWATER", "https://example.com/feed.csv")
	t.Setenv("SQLITE_DB_PATH", "/tmp/ww.sqlite")
	t.Setenv("POLL_REQUEST_TIMEOUT", "90s")
	t.Setenv("DRY_RUN", "true")
	t.Setenv("LOG_DEBUG", "1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.FeedURL != "https://example.com/feed.csv" {
		t.Errorf("got feed URL %q", cfg.FeedURL)
	}
	if cfg.DBPath != "/tmp/ww.sqlite" {
		t.Errorf("got db path %q", cfg.DBPath)
	}
	if cfg.RequestTimeout != 90*time.Second {
		t.Errorf("got timeout %v, want 90s", cfg.RequestTimeout)
	}
	if !cfg.DryRun {
		t.Error("dry-run not enabled")
	}
	if !cfg.Debug {
		t.Error("debug not enabled")
	}
}

func TestLoadInvalidTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("POLL_REQUEST_TIMEOUT", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid timeout")
	}
}

func TestBoolEnv(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"0", false},
		{"no", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run("value="+tt.value, func(t *testing.T) {
			t.Setenv("DRY_RUN", tt.value)
			if got := boolEnv("DRY_RUN"); got != tt.want {
				t.Errorf("boolEnv(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
