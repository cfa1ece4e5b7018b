package browser

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"github.com/voxnote/transcript_agent/internal/extract"
)

// Config holds browser launch configuration.
type Config struct {
	// ExecPath overrides the browser binary; empty means chromedp's
	// default lookup.
	ExecPath string
	// MaxSessions bounds concurrently open browser processes. Acquire
	// blocks until a slot frees up or the context is done.
	MaxSessions int
	// NavTimeout bounds a single page navigation including the
	// network-quiescence wait.
	NavTimeout time.Duration
}

// Manager hands out isolated browser sessions, one process per request.
// Sessions are never pooled or reused; every Acquire pays full browser
// startup cost and every Close tears the process down.
type Manager struct {
	cfg Config
	sem chan struct{}
}

func NewManager(cfg Config) *Manager {
	if cfg.MaxSessions < 1 {
		cfg.MaxSessions = 1
	}
	if cfg.NavTimeout <= 0 {
		cfg.NavTimeout = 30 * time.Second
	}
	return &Manager{cfg: cfg, sem: make(chan struct{}, cfg.MaxSessions)}
}

// allocatorOptions builds the exec allocator flags for constrained and
// containerized hosts.
func allocatorOptions(execPath string) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("mute-audio", true),
	)
	if execPath != "" {
		opts = append(opts, chromedp.ExecPath(execPath))
	}
	return opts
}

// Acquire starts a fresh headless browser with one tab and returns the
// session owning it. The caller must Close the session on every exit path.
func (m *Manager) Acquire(ctx context.Context) (*Session, error) {
	select {
	case m.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, &extract.CodedError{Code: extract.CodeBrowserUnavailable, Message: "waiting for a browser slot", Cause: ctx.Err()}
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocatorOptions(m.cfg.ExecPath)...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	s := &Session{
		id:         uuid.NewString(),
		ctx:        tabCtx,
		navTimeout: m.cfg.NavTimeout,
		closeFn: func() {
			tabCancel()
			allocCancel()
			<-m.sem
		},
	}

	// Run with no actions forces the browser process to start now, so
	// launch failures surface here rather than mid-extraction.
	if err := chromedp.Run(tabCtx); err != nil {
		s.Close()
		return nil, &extract.CodedError{Code: extract.CodeBrowserUnavailable, Message: "browser launch failed", Cause: err}
	}

	slog.Debug("browser session started", "session_id", s.id)
	return s, nil
}

// Session owns one headless browser process and the single tab within it.
// It implements extract.Page. Exclusively owned by one request.
type Session struct {
	id         string
	ctx        context.Context
	navTimeout time.Duration
	closeOnce  sync.Once
	closeFn    func()
}

// ID returns the session correlation id used in logs.
func (s *Session) ID() string { return s.id }

// Close tears down the tab and browser process and releases the session
// slot. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closeFn()
		slog.Debug("browser session closed", "session_id", s.id)
	})
}
