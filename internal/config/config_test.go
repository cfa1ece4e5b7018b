package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v; want nil", err)
	}

	if cfg.Port != 8000 {
		t.Fatalf("Port = %d; want 8000", cfg.Port)
	}
	if !reflect.DeepEqual(cfg.AllowedOrigins, []string{"*"}) {
		t.Fatalf("AllowedOrigins = %v; want [*]", cfg.AllowedOrigins)
	}
	if cfg.APIKey != "" {
		t.Fatalf("APIKey = %q; want empty (auth disabled)", cfg.APIKey)
	}
	if cfg.ContainerWaitTimeout != 20*time.Second {
		t.Fatalf("ContainerWaitTimeout = %v; want 20s", cfg.ContainerWaitTimeout)
	}
	if cfg.PollInterval != 1500*time.Millisecond {
		t.Fatalf("PollInterval = %v; want 1.5s", cfg.PollInterval)
	}
	if cfg.StableRounds != 3 {
		t.Fatalf("StableRounds = %d; want 3", cfg.StableRounds)
	}
	if cfg.RateLimit != 10 || cfg.RateWindow != time.Minute {
		t.Fatalf("rate limit = %d/%v; want 10/1m", cfg.RateLimit, cfg.RateWindow)
	}
	if cfg.MaxBodyBytes != 10*1024 {
		t.Fatalf("MaxBodyBytes = %d; want 10240", cfg.MaxBodyBytes)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9001")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com ,")
	t.Setenv("API_KEY", "s3cret")
	t.Setenv("CHROMIUM_PATH", "/usr/bin/chromium")
	t.Setenv("TRANSCRIPT_POLL_INTERVAL_MS", "500")
	t.Setenv("TRANSCRIPT_MAX_SESSIONS", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v; want nil", err)
	}

	if cfg.Port != 9001 {
		t.Fatalf("Port = %d; want 9001", cfg.Port)
	}
	want := []string{"https://a.example.com", "https://b.example.com"}
	if !reflect.DeepEqual(cfg.AllowedOrigins, want) {
		t.Fatalf("AllowedOrigins = %v; want %v", cfg.AllowedOrigins, want)
	}
	if cfg.APIKey != "s3cret" {
		t.Fatalf("APIKey = %q; want s3cret", cfg.APIKey)
	}
	if cfg.ChromiumPath != "/usr/bin/chromium" {
		t.Fatalf("ChromiumPath = %q; want /usr/bin/chromium", cfg.ChromiumPath)
	}
	if cfg.PollInterval != 500*time.Millisecond {
		t.Fatalf("PollInterval = %v; want 500ms", cfg.PollInterval)
	}
	if cfg.MaxSessions != 2 {
		t.Fatalf("MaxSessions = %d; want 2", cfg.MaxSessions)
	}
	if cfg.BindAddr() != ":9001" {
		t.Fatalf("BindAddr() = %q; want :9001", cfg.BindAddr())
	}
}

func TestLoadClampsInvalidValues(t *testing.T) {
	t.Setenv("PORT", "70000")
	t.Setenv("TRANSCRIPT_STABLE_ROUNDS", "0")
	t.Setenv("TRANSCRIPT_POLL_INTERVAL_MS", "5")
	t.Setenv("TRANSCRIPT_MAX_SESSIONS", "-1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v; want nil", err)
	}

	if cfg.Port != 8000 {
		t.Fatalf("Port = %d; want clamped default 8000", cfg.Port)
	}
	if cfg.StableRounds != 3 {
		t.Fatalf("StableRounds = %d; want clamped 3", cfg.StableRounds)
	}
	if cfg.PollInterval != 100*time.Millisecond {
		t.Fatalf("PollInterval = %v; want clamped 100ms", cfg.PollInterval)
	}
	if cfg.MaxSessions != 1 {
		t.Fatalf("MaxSessions = %d; want clamped 1", cfg.MaxSessions)
	}
}

func TestSplitCSV(t *testing.T) {
	got := splitCSV(" , ,")
	if !reflect.DeepEqual(got, []string{"*"}) {
		t.Fatalf("splitCSV(blank) = %v; want [*]", got)
	}
}
