package extract

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

const desktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

const triggerText = "transcript"

// Options tunes selectors and timing for an Extractor. Zero-value fields
// fall back to defaults matching the current upstream markup.
type Options struct {
	TriggerSelector   string
	ContainerSelector string
	SegmentSelector   string

	ContainerWaitTimeout time.Duration
	PollInterval         time.Duration
	StableRounds         int
	StabilizationTimeout time.Duration
}

// Extractor drives a Page through the transcript-panel flow: open the
// panel, scroll until all lazily-rendered segments are present, read them
// out in document order.
type Extractor struct {
	opts Options
}

func NewExtractor(opts Options) *Extractor {
	if opts.TriggerSelector == "" {
		opts.TriggerSelector = "button"
	}
	if opts.ContainerSelector == "" {
		opts.ContainerSelector = "#segments-container"
	}
	if opts.SegmentSelector == "" {
		opts.SegmentSelector = "yt-formatted-string.segment-text"
	}
	if opts.ContainerWaitTimeout <= 0 {
		opts.ContainerWaitTimeout = 20 * time.Second
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 1500 * time.Millisecond
	}
	if opts.StableRounds <= 0 {
		opts.StableRounds = 3
	}
	if opts.StabilizationTimeout <= 0 {
		opts.StabilizationTimeout = 2 * time.Minute
	}
	return &Extractor{opts: opts}
}

// Extract navigates to url, opens the transcript panel, and returns every
// caption segment in document order. A present-but-empty panel yields an
// empty, non-nil slice.
func (e *Extractor) Extract(ctx context.Context, p Page, url string) ([]string, error) {
	if strings.TrimSpace(url) == "" {
		return nil, newError(CodeValidation, "url is required", nil)
	}

	if err := p.SetUserAgent(ctx, desktopUserAgent); err != nil {
		return nil, newError(CodeEvalFailure, "set user agent failed", err)
	}

	start := time.Now()
	if err := p.Navigate(ctx, url); err != nil {
		return nil, newError(CodeNavigationFailed, "navigation to "+url+" failed", err)
	}
	slog.Debug("page loaded", "url", url, "elapsed_ms", time.Since(start).Milliseconds())

	clicked, err := p.FindAndClick(ctx, e.opts.TriggerSelector, triggerText)
	if err != nil {
		return nil, newError(CodeEvalFailure, "transcript control lookup failed", err)
	}
	if !clicked {
		return nil, newError(CodeControlNotFound, "no transcript control found on page", nil)
	}

	if err := p.WaitFor(ctx, e.opts.ContainerSelector, e.opts.ContainerWaitTimeout); err != nil {
		return nil, newError(CodeContainerTimeout, "transcript container did not appear", err)
	}

	if err := e.pollUntilStable(ctx, p); err != nil {
		return nil, err
	}

	segments, err := p.ReadAll(ctx, e.opts.SegmentSelector)
	if err != nil {
		return nil, newError(CodeEvalFailure, "reading transcript segments failed", err)
	}
	for i, s := range segments {
		segments[i] = strings.TrimSpace(s)
	}
	if segments == nil {
		segments = []string{}
	}
	slog.Info("transcript extracted", "url", url, "segments", len(segments), "elapsed_ms", time.Since(start).Milliseconds())
	return segments, nil
}
