package browser

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// SetUserAgent overrides the tab's user-agent for subsequent navigation.
func (s *Session) SetUserAgent(ctx context.Context, ua string) error {
	runCtx, cancel := s.bounded(ctx, 5*time.Second)
	defer cancel()
	return chromedp.Run(runCtx, emulation.SetUserAgentOverride(ua))
}

// Navigate loads url and waits for network activity to settle. Completion
// is keyed off the Page.lifecycleEvent "networkAlmostIdle", which CDP
// fires once no more than two connections remain in flight for a settle
// window.
func (s *Session) Navigate(ctx context.Context, url string) error {
	runCtx, cancel := s.bounded(ctx, s.navTimeout)
	defer cancel()

	idle := make(chan struct{}, 1)
	chromedp.ListenTarget(runCtx, func(ev interface{}) {
		if e, ok := ev.(*page.EventLifecycleEvent); ok && e.Name == "networkAlmostIdle" {
			select {
			case idle <- struct{}{}:
			default:
			}
		}
	})

	if err := chromedp.Run(runCtx,
		page.SetLifecycleEventsEnabled(true),
		chromedp.Navigate(url),
	); err != nil {
		return err
	}

	select {
	case <-idle:
		return nil
	case <-runCtx.Done():
		return fmt.Errorf("network did not settle within %s: %w", s.navTimeout, runCtx.Err())
	}
}

// FindAndClick scans selector matches in document order and clicks the
// first whose trimmed lowercased text contains textSubstring.
func (s *Session) FindAndClick(ctx context.Context, selector, textSubstring string) (bool, error) {
	runCtx, cancel := s.bounded(ctx, 10*time.Second)
	defer cancel()

	var clicked bool
	js := fmt.Sprintf(jsFindAndClick, strconv.Quote(selector), strconv.Quote(textSubstring))
	if err := chromedp.Run(runCtx, chromedp.Evaluate(js, &clicked)); err != nil {
		return false, err
	}
	return clicked, nil
}

// WaitFor blocks until selector matches an element or timeout elapses.
func (s *Session) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	runCtx, cancel := s.bounded(ctx, timeout)
	defer cancel()
	return chromedp.Run(runCtx, chromedp.WaitReady(selector, chromedp.ByQuery))
}

// ScrollToBottom sets the container's scroll offset to its maximum.
func (s *Session) ScrollToBottom(ctx context.Context, selector string) error {
	runCtx, cancel := s.bounded(ctx, 5*time.Second)
	defer cancel()

	var ok bool
	js := fmt.Sprintf(jsScrollToBottom, strconv.Quote(selector))
	if err := chromedp.Run(runCtx, chromedp.Evaluate(js, &ok)); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("scroll container %q not found", selector)
	}
	return nil
}

// Count returns how many elements currently match selector.
func (s *Session) Count(ctx context.Context, selector string) (int, error) {
	runCtx, cancel := s.bounded(ctx, 5*time.Second)
	defer cancel()

	var count int
	js := fmt.Sprintf(jsCountNodes, strconv.Quote(selector))
	if err := chromedp.Run(runCtx, chromedp.Evaluate(js, &count)); err != nil {
		return 0, err
	}
	return count, nil
}

// ReadAll returns the trimmed text of every selector match in document order.
func (s *Session) ReadAll(ctx context.Context, selector string) ([]string, error) {
	runCtx, cancel := s.bounded(ctx, 10*time.Second)
	defer cancel()

	var texts []string
	js := fmt.Sprintf(jsReadAllText, strconv.Quote(selector))
	if err := chromedp.Run(runCtx, chromedp.Evaluate(js, &texts)); err != nil {
		return nil, err
	}
	return texts, nil
}

// bounded derives a run context from the tab that also honors the caller's
// context, so a dying request stops browser work without tearing down the
// tab context prematurely.
func (s *Session) bounded(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithTimeout(s.ctx, timeout)
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}
