package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all settings for the transcript service. It is built once
// at process start and treated as immutable afterwards.
type Config struct {
	// HTTP server
	Port           int
	AllowedOrigins []string
	APIKey         string
	MaxBodyBytes   int64

	// Rate limiting (fixed window, applied under /api)
	RateLimit  int
	RateWindow time.Duration

	// Browser sessions
	ChromiumPath string
	MaxSessions  int

	// Extraction behavior
	NavTimeout           time.Duration
	ContainerWaitTimeout time.Duration
	PollInterval         time.Duration
	StableRounds         int
	StabilizationTimeout time.Duration

	// Page selectors; overridable when the upstream markup changes.
	TriggerSelector   string
	ContainerSelector string
	SegmentSelector   string

	// Logging
	LogLevel string
	LogFile  string
}

// Load reads configuration from environment variables and optional .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	}

	cfg := &Config{
		Port:           getEnvIntOrDefault("PORT", 8000),
		AllowedOrigins: splitCSV(getEnvOrDefault("ALLOWED_ORIGINS", "*")),
		APIKey:         os.Getenv("API_KEY"),
		MaxBodyBytes:   int64(getEnvIntOrDefault("TRANSCRIPT_MAX_BODY_BYTES", 10*1024)),

		RateLimit:  getEnvIntOrDefault("TRANSCRIPT_RATE_LIMIT", 10),
		RateWindow: time.Duration(getEnvIntOrDefault("TRANSCRIPT_RATE_WINDOW_SECONDS", 60)) * time.Second,

		ChromiumPath: os.Getenv("CHROMIUM_PATH"),
		MaxSessions:  getEnvIntOrDefault("TRANSCRIPT_MAX_SESSIONS", 4),

		NavTimeout:           msEnv("TRANSCRIPT_NAV_TIMEOUT_MS", 30000),
		ContainerWaitTimeout: msEnv("TRANSCRIPT_CONTAINER_TIMEOUT_MS", 20000),
		PollInterval:         msEnv("TRANSCRIPT_POLL_INTERVAL_MS", 1500),
		StableRounds:         getEnvIntOrDefault("TRANSCRIPT_STABLE_ROUNDS", 3),
		StabilizationTimeout: msEnv("TRANSCRIPT_STABILIZATION_TIMEOUT_MS", 120000),

		TriggerSelector:   getEnvOrDefault("TRANSCRIPT_TRIGGER_SELECTOR", "button"),
		ContainerSelector: getEnvOrDefault("TRANSCRIPT_CONTAINER_SELECTOR", "#segments-container"),
		SegmentSelector:   getEnvOrDefault("TRANSCRIPT_SEGMENT_SELECTOR", "yt-formatted-string.segment-text"),

		LogLevel: strings.ToLower(getEnvOrDefault("TRANSCRIPT_LOG_LEVEL", "info")),
		LogFile:  getEnvOrDefault("TRANSCRIPT_LOG_FILE", "logs/transcriptd.log"),
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		cfg.Port = 8000
	}
	if cfg.StableRounds < 1 {
		cfg.StableRounds = 3
	}
	if cfg.PollInterval < 100*time.Millisecond {
		cfg.PollInterval = 100 * time.Millisecond
	}
	if cfg.MaxSessions < 1 {
		cfg.MaxSessions = 1
	}
	if cfg.RateLimit < 1 {
		cfg.RateLimit = 10
	}

	return cfg, nil
}

// BindAddr returns the listen address for the HTTP server.
func (c *Config) BindAddr() string {
	return ":" + strconv.Itoa(c.Port)
}

func splitCSV(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		out = []string{"*"}
	}
	return out
}

func msEnv(key string, defaultMS int) time.Duration {
	return time.Duration(getEnvIntOrDefault(key, defaultMS)) * time.Millisecond
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
