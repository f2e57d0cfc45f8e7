package model

import "time"

// CrawlReport summarizes a completed crawl and sitemap generation run.
// It is the unit of persistence for the history database and the input
// for all report writers.
type CrawlReport struct {
	// SeedURL is the URL the crawl started from.
	SeedURL string `json:"seed_url"`

	// Scope is the network location (host[:port]) every discovered URL
	// must share with the seed.
	Scope string `json:"scope"`

	// StartedAt is the time the crawl started.
	StartedAt time.Time `json:"started_at"`

	// Elapsed is the total wall-clock duration of the crawl.
	Elapsed time.Duration `json:"elapsed"`

	// PagesCrawled is the number of pages rendered successfully.
	PagesCrawled int `json:"pages_crawled"`

	// PagesFailed is the number of pages whose render failed.
	// Failed pages contribute no links but never abort the crawl.
	PagesFailed int `json:"pages_failed"`

	// Discovered is every unique in-scope URL admitted during the crawl,
	// in discovery order. The seed itself is not included.
	Discovered []string `json:"discovered"`

	// SitemapPath is the path of the generated sitemap file.
	// Empty when sitemap generation was skipped or failed.
	SitemapPath string `json:"sitemap_path,omitempty"`

	// URLCount is the number of <url> entries written to the sitemap.
	URLCount int `json:"url_count"`

	// Valid reports whether the generated sitemap passed re-validation.
	Valid bool `json:"valid"`
}

// NewCrawlReport creates a CrawlReport for the given seed and scope with
// the start time set to now.
func NewCrawlReport(seedURL, scope string) *CrawlReport {
	return &CrawlReport{
		SeedURL:   seedURL,
		Scope:     scope,
		StartedAt: time.Now(),
	}
}

// PagesVisited returns the total number of pages whose processing started,
// successful or not.
func (r *CrawlReport) PagesVisited() int {
	return r.PagesCrawled + r.PagesFailed
}
