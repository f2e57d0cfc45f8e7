package model

import "time"

// Page represents a single successfully rendered page.
//
// Design decision: We keep only the information needed for reporting and
// history storage. The rendered HTML itself is discarded after link
// extraction because a crawl of a thousand pages would otherwise hold the
// whole site in memory.
type Page struct {
	// URL is the absolute URL of the page.
	URL string `json:"url"`

	// Links contains the admissible absolute URLs extracted from the page.
	// All entries share the crawl's domain scope.
	Links []string `json:"links,omitempty"`

	// FetchedAt is the time the render of the page started.
	FetchedAt time.Time `json:"fetched_at"`

	// Elapsed is the wall-clock time the render took, including the
	// settle delay for script execution.
	Elapsed time.Duration `json:"elapsed"`
}
