package model

import (
	"testing"
	"time"
)

// TestNewCrawlReport tests crawl report construction.
func TestNewCrawlReport(t *testing.T) {
	t.Parallel()

	before := time.Now()
	report := NewCrawlReport("https://example.com/", "example.com")
	after := time.Now()

	if report.SeedURL != "https://example.com/" {
		t.Errorf("expected seed URL, got %q", report.SeedURL)
	}
	if report.Scope != "example.com" {
		t.Errorf("expected scope example.com, got %q", report.Scope)
	}
	if report.StartedAt.Before(before) || report.StartedAt.After(after) {
		t.Errorf("expected StartedAt within test bounds, got %v", report.StartedAt)
	}
}

// TestCrawlReportPagesVisited tests the visited-pages counter.
func TestCrawlReportPagesVisited(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		crawled int
		failed  int
		want    int
	}{
		{name: "no pages", crawled: 0, failed: 0, want: 0},
		{name: "only successes", crawled: 5, failed: 0, want: 5},
		{name: "only failures", crawled: 0, failed: 3, want: 3},
		{name: "mixed", crawled: 7, failed: 2, want: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			report := &CrawlReport{PagesCrawled: tt.crawled, PagesFailed: tt.failed}
			if got := report.PagesVisited(); got != tt.want {
				t.Errorf("expected %d visited pages, got %d", tt.want, got)
			}
		})
	}
}
