package extract

import (
	"context"
	"time"
)

// Page is the narrow browser capability the extractor drives. The real
// implementation sits on a chromedp tab; tests substitute a fake.
type Page interface {
	// SetUserAgent overrides the user-agent string for all subsequent
	// navigation within the page.
	SetUserAgent(ctx context.Context, ua string) error

	// Navigate loads url and returns once network activity has settled
	// (at most two in-flight connections for a short window).
	Navigate(ctx context.Context, url string) error

	// FindAndClick scans elements matching selector in document order,
	// scrolls the first one whose trimmed lowercased visible text contains
	// textSubstring into view, and clicks it. Returns false when no
	// element matched.
	FindAndClick(ctx context.Context, selector, textSubstring string) (bool, error)

	// WaitFor blocks until an element matching selector exists in the DOM
	// or the timeout elapses.
	WaitFor(ctx context.Context, selector string, timeout time.Duration) error

	// ScrollToBottom sets the scroll offset of the first element matching
	// selector to its maximum.
	ScrollToBottom(ctx context.Context, selector string) error

	// Count returns the number of elements currently matching selector.
	Count(ctx context.Context, selector string) (int, error)

	// ReadAll returns the trimmed visible text of every element matching
	// selector, in document order.
	ReadAll(ctx context.Context, selector string) ([]string, error)
}
