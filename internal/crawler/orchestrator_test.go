package crawler

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"sitemapper/internal/render"
)

// fakeSite is a render.Renderer serving canned HTML per URL.
// URLs absent from the map fail to render.
type fakeSite struct {
	pages   map[string]string
	renders *atomic.Int64
}

func (f *fakeSite) Render(_ context.Context, pageURL string) (string, error) {
	f.renders.Add(1)
	content, ok := f.pages[pageURL]
	if !ok {
		return "", errors.New("navigation failed")
	}
	return content, nil
}

func (f *fakeSite) Close() error { return nil }

// newFakePool creates a render.Pool of fake sessions sharing one page map
// and render counter.
func newFakePool(t *testing.T, size int, pages map[string]string) (*render.Pool, *atomic.Int64) {
	t.Helper()

	var renders atomic.Int64
	pool, err := render.NewPool(size, func() (render.Renderer, error) {
		return &fakeSite{pages: pages, renders: &renders}, nil
	})
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	t.Cleanup(func() { pool.Close() })
	return pool, &renders
}

func anchors(hrefs ...string) string {
	html := "<html><body>"
	for _, h := range hrefs {
		html += fmt.Sprintf(`<a href=%q>link</a>`, h)
	}
	return html + "</body></html>"
}

// TestOrchestratorCrawl tests the end-to-end crawl loop against a fake site.
func TestOrchestratorCrawl(t *testing.T) {
	t.Parallel()

	t.Run("discovers reachable pages in discovery order", func(t *testing.T) {
		t.Parallel()

		pages := map[string]string{
			"https://example.com/":      anchors("/page1", "https://example.com/page2", "https://external.com/page3", "https://example.com/page1#top"),
			"https://example.com/page1": anchors("/page2", "/page3"),
			"https://example.com/page2": anchors("/"),
			"https://example.com/page3": anchors(),
		}
		pool, _ := newFakePool(t, 3, pages)

		e, err := NewExtractor("https://example.com/")
		if err != nil {
			t.Fatalf("failed to create extractor: %v", err)
		}

		o := New(pool, e, WithWorkers(3), WithDispatchDelay(0))
		discovered, err := o.Crawl(context.Background(), "https://example.com/")
		if err != nil {
			t.Fatalf("crawl failed: %v", err)
		}

		want := []string{
			"https://example.com/page1",
			"https://example.com/page2",
			"https://example.com/page3",
		}
		if !reflect.DeepEqual(discovered, want) {
			t.Errorf("expected discovered %v, got %v", want, discovered)
		}
		if got := o.FailedCount(); got != 0 {
			t.Errorf("expected no failures, got %d", got)
		}
		if got := len(o.Pages()); got != 4 {
			t.Errorf("expected 4 rendered pages, got %d", got)
		}
	})

	t.Run("zero page cap renders nothing", func(t *testing.T) {
		t.Parallel()

		pool, renders := newFakePool(t, 1, map[string]string{
			"https://example.com/": anchors("/a"),
		})

		e, err := NewExtractor("https://example.com/")
		if err != nil {
			t.Fatalf("failed to create extractor: %v", err)
		}

		o := New(pool, e, WithMaxPages(0), WithDispatchDelay(0))
		discovered, err := o.Crawl(context.Background(), "https://example.com/")
		if err != nil {
			t.Fatalf("crawl failed: %v", err)
		}

		if len(discovered) != 0 {
			t.Errorf("expected empty discovered list, got %v", discovered)
		}
		if renders.Load() != 0 {
			t.Errorf("expected renderer never invoked, got %d renders", renders.Load())
		}
	})

	t.Run("page cap bounds visited pages", func(t *testing.T) {
		t.Parallel()

		// A chain of pages, each linking to the next.
		pages := make(map[string]string)
		for i := range 10 {
			pages[fmt.Sprintf("https://example.com/p%d", i)] = anchors(fmt.Sprintf("/p%d", i+1))
		}
		pool, renders := newFakePool(t, 1, pages)

		e, err := NewExtractor("https://example.com/p0")
		if err != nil {
			t.Fatalf("failed to create extractor: %v", err)
		}

		o := New(pool, e, WithMaxPages(3), WithWorkers(1), WithDispatchDelay(0))
		if _, err := o.Crawl(context.Background(), "https://example.com/p0"); err != nil {
			t.Fatalf("crawl failed: %v", err)
		}

		if renders.Load() != 3 {
			t.Errorf("expected 3 renders under page cap, got %d", renders.Load())
		}
	})

	t.Run("render failures are local and non-fatal", func(t *testing.T) {
		t.Parallel()

		pages := map[string]string{
			"https://example.com/":     anchors("/good", "/bad"),
			"https://example.com/good": anchors("/also-good"),
			// /bad is missing, so its render fails.
			"https://example.com/also-good": anchors(),
		}
		pool, _ := newFakePool(t, 2, pages)

		e, err := NewExtractor("https://example.com/")
		if err != nil {
			t.Fatalf("failed to create extractor: %v", err)
		}

		o := New(pool, e, WithWorkers(2), WithDispatchDelay(0))
		discovered, err := o.Crawl(context.Background(), "https://example.com/")
		if err != nil {
			t.Fatalf("crawl failed: %v", err)
		}

		want := []string{
			"https://example.com/good",
			"https://example.com/bad",
			"https://example.com/also-good",
		}
		if !reflect.DeepEqual(discovered, want) {
			t.Errorf("expected discovered %v, got %v", want, discovered)
		}
		if got := o.FailedCount(); got != 1 {
			t.Errorf("expected 1 failure, got %d", got)
		}
	})

	t.Run("all renders failing still completes", func(t *testing.T) {
		t.Parallel()

		pool, _ := newFakePool(t, 1, map[string]string{})

		e, err := NewExtractor("https://example.com/")
		if err != nil {
			t.Fatalf("failed to create extractor: %v", err)
		}

		o := New(pool, e, WithDispatchDelay(0))
		discovered, err := o.Crawl(context.Background(), "https://example.com/")
		if err != nil {
			t.Fatalf("crawl failed: %v", err)
		}
		if len(discovered) != 0 {
			t.Errorf("expected empty discovered list, got %v", discovered)
		}
		if got := o.FailedCount(); got != 1 {
			t.Errorf("expected 1 failure, got %d", got)
		}
	})

	t.Run("cancellation drains and returns partial results", func(t *testing.T) {
		t.Parallel()

		pages := make(map[string]string)
		for i := range 100 {
			pages[fmt.Sprintf("https://example.com/p%d", i)] = anchors(fmt.Sprintf("/p%d", i+1))
		}
		pool, _ := newFakePool(t, 1, pages)

		e, err := NewExtractor("https://example.com/p0")
		if err != nil {
			t.Fatalf("failed to create extractor: %v", err)
		}

		ctx, cancel := context.WithCancel(context.Background())

		o := New(pool, e, WithWorkers(1), WithDispatchDelay(20*time.Millisecond))
		done := make(chan struct{})
		var discovered []string
		var crawlErr error
		go func() {
			discovered, crawlErr = o.Crawl(ctx, "https://example.com/p0")
			close(done)
		}()

		time.Sleep(60 * time.Millisecond)
		cancel()

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("crawl did not terminate after cancellation")
		}

		if !errors.Is(crawlErr, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", crawlErr)
		}
		if len(discovered) >= 100 {
			t.Errorf("expected a partial crawl, got %d URLs", len(discovered))
		}
	})
}
