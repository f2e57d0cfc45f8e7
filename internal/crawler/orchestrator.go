package crawler

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"sitemapper/internal/model"
	"sitemapper/internal/render"
)

// Orchestrator drives a bounded pool of workers that pull URLs from a
// Frontier, render them, extract links, and feed newly discovered URLs
// back into the Frontier.
//
// The crawl terminates when the pending queue is empty and no worker has
// in-flight work, or when the number of visited URLs reaches the page cap,
// whichever comes first. In-flight work is always drained before Crawl
// returns.
type Orchestrator struct {
	// sessions provides one exclusive render session per worker slot.
	// The pool should hold at least as many sessions as there are workers.
	sessions *render.Pool

	// extractor turns rendered HTML into admissible URLs.
	extractor *Extractor

	// logger receives per-page progress and failures.
	logger *slog.Logger

	// maxPages caps the number of URLs whose processing starts.
	maxPages int

	// workers bounds the number of concurrently rendering workers.
	workers int

	// dispatchDelay is the pause between successive claims handed to the
	// pool. It bounds request rate against the target server; it is not a
	// per-worker lock, so dispatched workers still render concurrently.
	dispatchDelay time.Duration

	mu     sync.Mutex
	pages  []*model.Page
	failed int
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithMaxPages sets the maximum number of pages to visit.
func WithMaxPages(n int) Option {
	return func(o *Orchestrator) {
		o.maxPages = n
	}
}

// WithWorkers sets the worker pool size.
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithDispatchDelay sets the pause between successive claims.
func WithDispatchDelay(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.dispatchDelay = d
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// New creates an Orchestrator crawling within extractor's scope, rendering
// through sessions.
func New(sessions *render.Pool, extractor *Extractor, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		sessions:      sessions,
		extractor:     extractor,
		maxPages:      1000,
		workers:       3,
		dispatchDelay: time.Second,
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = slog.Default()
	}

	return o
}

// idlePoll is how often the dispatcher re-checks the frontier while the
// queue is empty but workers are still in flight.
const idlePoll = 25 * time.Millisecond

// Crawl discovers every in-scope page reachable from seed and returns the
// discovered URLs in discovery order. The seed itself is not part of the
// result.
//
// A render failure is local to one URL: it is logged, counted, and the
// crawl continues. The returned error is non-nil only when ctx was
// cancelled; the partial discovered list is still valid in that case.
func (o *Orchestrator) Crawl(ctx context.Context, seed string) ([]string, error) {
	frontier := NewFrontier(seed)

	// rate.Every(0) is rate.Inf, so a zero delay disables throttling.
	limiter := rate.NewLimiter(rate.Every(o.dispatchDelay), 1)

	var g errgroup.Group
	g.SetLimit(o.workers)

	var inflight atomic.Int64

	for ctx.Err() == nil {
		if frontier.VisitedCount() >= o.maxPages {
			break
		}

		pageURL, ok := frontier.ClaimNext()
		if !ok {
			idle := inflight.Load() == 0
			// Claim once more after the in-flight read: a worker may have
			// fed the frontier between the failed claim and that read. A
			// worker's submissions happen before its in-flight decrement,
			// so idle plus an empty queue means the crawl is exhausted.
			if pageURL, ok = frontier.ClaimNext(); !ok {
				if idle {
					break
				}
				select {
				case <-ctx.Done():
				case <-time.After(idlePoll):
				}
				continue
			}
		}

		frontier.MarkVisited(pageURL)

		if err := limiter.Wait(ctx); err != nil {
			break
		}

		inflight.Add(1)
		g.Go(func() error {
			defer inflight.Add(-1)
			o.processPage(ctx, frontier, pageURL)
			return nil
		})
	}

	// Drain: in-flight renders finish, no new claims are issued.
	_ = g.Wait() //nolint:errcheck // Workers never return errors.

	return frontier.SnapshotDiscovered(), ctx.Err()
}

// processPage renders one page and submits its links to the frontier.
// Runs outside the frontier's critical section.
func (o *Orchestrator) processPage(ctx context.Context, frontier *Frontier, pageURL string) {
	o.logger.Info("processing", "url", pageURL)

	sess, err := o.sessions.Acquire(ctx)
	if err != nil {
		o.recordFailure(pageURL, err)
		return
	}
	defer o.sessions.Release(sess)

	start := time.Now()
	content, err := sess.Render(ctx, pageURL)
	if err != nil {
		o.recordFailure(pageURL, err)
		return
	}

	links := o.extractor.Extract(pageURL, content)
	for _, link := range links {
		if frontier.TrySubmit(link) {
			o.logger.Debug("discovered", "url", link)
		}
	}

	o.mu.Lock()
	o.pages = append(o.pages, &model.Page{
		URL:       pageURL,
		Links:     links,
		FetchedAt: start,
		Elapsed:   time.Since(start),
	})
	o.mu.Unlock()
}

// recordFailure logs a render failure and counts it.
// Failures never abort the crawl; the page simply contributed no links.
func (o *Orchestrator) recordFailure(pageURL string, err error) {
	o.logger.Warn("render failed", "url", pageURL, "error", err)
	o.mu.Lock()
	o.failed++
	o.mu.Unlock()
}

// Pages returns the successfully rendered pages of the last crawl.
func (o *Orchestrator) Pages() []*model.Page {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]*model.Page, len(o.pages))
	copy(out, o.pages)
	return out
}

// FailedCount returns the number of pages whose render failed during the
// last crawl.
func (o *Orchestrator) FailedCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.failed
}
