package render

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// ChromeSession renders pages in a dedicated headless Chrome tab.
// It executes page scripts, waits for the document body to be ready, and
// then allows a settle period for asynchronous script execution before
// snapshotting the DOM.
//
// A ChromeSession is not safe for concurrent use: navigation replaces the
// tab's document, so two concurrent Render calls would observe each
// other's pages. Use one session per worker (see Pool).
type ChromeSession struct {
	// browserCtx is the chromedp context owning the tab.
	browserCtx context.Context

	// cancels tears down the tab and the browser allocator, in order.
	cancels []context.CancelFunc

	// settle is the post-ready wait for script-driven DOM mutations.
	settle time.Duration

	// timeout bounds one Render call, navigation and settle included.
	timeout time.Duration

	// userAgent is the User-Agent the browser reports.
	userAgent string
}

// ChromeOption configures a ChromeSession.
type ChromeOption func(*ChromeSession)

// WithSettleDelay sets the post-ready wait for script execution.
func WithSettleDelay(d time.Duration) ChromeOption {
	return func(s *ChromeSession) {
		s.settle = d
	}
}

// WithRenderTimeout sets the per-page render timeout.
func WithRenderTimeout(d time.Duration) ChromeOption {
	return func(s *ChromeSession) {
		s.timeout = d
	}
}

// WithChromeUserAgent sets a custom User-Agent header.
func WithChromeUserAgent(ua string) ChromeOption {
	return func(s *ChromeSession) {
		s.userAgent = ua
	}
}

// NewChromeSession starts a headless Chrome instance and returns a session
// bound to one tab. The browser is launched eagerly so configuration
// problems (missing Chrome binary, sandbox restrictions) surface here
// rather than on the first page.
func NewChromeSession(opts ...ChromeOption) (*ChromeSession, error) {
	s := &ChromeSession{
		settle:  2 * time.Second,
		timeout: 10 * time.Second,
	}

	for _, opt := range opts {
		opt(s)
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if s.userAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(s.userAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	s.browserCtx = browserCtx
	s.cancels = []context.CancelFunc{cancelBrowser, cancelAlloc}

	// An empty Run starts the browser.
	if err := chromedp.Run(browserCtx); err != nil {
		s.shutdown()
		return nil, fmt.Errorf("failed to start headless Chrome: %w", err)
	}

	return s, nil
}

// Render navigates the session's tab to pageURL, waits for the body to be
// present, sleeps for the settle delay, and returns the resulting HTML.
func (s *ChromeSession) Render(ctx context.Context, pageURL string) (string, error) {
	// The action context must descend from the browser context, so the
	// caller's context is attached via AfterFunc instead of WithTimeout.
	runCtx, cancel := context.WithTimeout(s.browserCtx, s.timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var html string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(s.settle),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("failed to render %s: %w", pageURL, err)
	}

	return html, nil
}

// Close shuts down the tab and the browser.
func (s *ChromeSession) Close() error {
	s.shutdown()
	return nil
}

func (s *ChromeSession) shutdown() {
	for _, cancel := range s.cancels {
		cancel()
	}
}
