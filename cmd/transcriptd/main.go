package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/voxnote/transcript_agent/internal/api"
	"github.com/voxnote/transcript_agent/internal/browser"
	"github.com/voxnote/transcript_agent/internal/config"
	"github.com/voxnote/transcript_agent/internal/extract"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := setupLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		_, _ = io.WriteString(os.Stderr, "logger setup failed: "+err.Error()+"\n")
		os.Exit(1)
	}

	slog.Info("config loaded",
		"bind_addr", cfg.BindAddr(),
		"allowed_origins", cfg.AllowedOrigins,
		"api_key_set", cfg.APIKey != "",
		"chromium_path", cfg.ChromiumPath,
		"max_sessions", cfg.MaxSessions,
		"rate_limit", cfg.RateLimit,
		"rate_window", cfg.RateWindow,
		"log_level", cfg.LogLevel,
		"log_file", cfg.LogFile,
	)

	sessions := browser.NewManager(browser.Config{
		ExecPath:    cfg.ChromiumPath,
		MaxSessions: cfg.MaxSessions,
		NavTimeout:  cfg.NavTimeout,
	})
	extractor := extract.NewExtractor(extract.Options{
		TriggerSelector:      cfg.TriggerSelector,
		ContainerSelector:    cfg.ContainerSelector,
		SegmentSelector:      cfg.SegmentSelector,
		ContainerWaitTimeout: cfg.ContainerWaitTimeout,
		PollInterval:         cfg.PollInterval,
		StableRounds:         cfg.StableRounds,
		StabilizationTimeout: cfg.StabilizationTimeout,
	})

	h := api.NewServer(cfg, sessionSource{sessions}, extractor)
	srv := &http.Server{Addr: cfg.BindAddr(), Handler: h}

	go func() {
		slog.Info("transcript service listening", "addr", cfg.BindAddr(), "docs", "http://localhost"+cfg.BindAddr()+"/docs")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}

// sessionSource adapts the concrete browser manager to the api package's
// session interface.
type sessionSource struct {
	m *browser.Manager
}

func (s sessionSource) Acquire(ctx context.Context) (api.Session, error) {
	sess, err := s.m.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func setupLogger(level, filename string) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return err
	}

	logWriter := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    25,
		MaxBackups: 10,
		MaxAge:     14,
		Compress:   true,
	}

	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	h := slog.NewTextHandler(io.MultiWriter(os.Stdout, logWriter), &slog.HandlerOptions{Level: slogLevel})
	slog.SetDefault(slog.New(h))
	return nil
}
