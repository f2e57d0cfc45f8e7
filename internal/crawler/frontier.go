package crawler

import "sync"

// Frontier holds the shared crawl state: the FIFO queue of URLs awaiting
// processing, the set of URLs whose processing started, and the append-only
// record of every unique URL ever admitted.
//
// All operations run inside one exclusive critical section so the
// containers never observe a partial update: a URL is admitted into the
// queue and the discovered record at most once, regardless of how many
// workers submit it concurrently. The critical section only covers O(1)
// container mutation; rendering and parsing happen entirely outside it.
type Frontier struct {
	mu sync.Mutex

	// seen records every URL ever admitted, the seed included.
	// Membership here is what makes admission at-most-once.
	seen map[string]struct{}

	// visited records URLs whose processing has started or completed.
	visited map[string]struct{}

	// pending is the FIFO queue of URLs awaiting processing.
	pending []string

	// discovered records every unique admitted URL in discovery order.
	// The seed is not part of it; it is the crawl's input, not a finding.
	discovered []string
}

// NewFrontier creates a Frontier seeded with startURL.
// The seed is queued as already-admitted, so re-submitting it later has
// no effect, but it does not appear in the discovered record.
func NewFrontier(startURL string) *Frontier {
	return &Frontier{
		seen:    map[string]struct{}{startURL: {}},
		visited: make(map[string]struct{}),
		pending: []string{startURL},
	}
}

// TrySubmit admits rawURL iff it has never been admitted before.
// On admission the URL is queued for processing and appended to the
// discovered record; otherwise the frontier is left untouched and false
// is returned.
func (f *Frontier) TrySubmit(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.seen[rawURL]; ok {
		return false
	}

	f.seen[rawURL] = struct{}{}
	f.pending = append(f.pending, rawURL)
	f.discovered = append(f.discovered, rawURL)
	return true
}

// ClaimNext pops the head of the pending queue.
// It does not mark the URL visited; the caller does that once processing
// actually starts.
func (f *Frontier) ClaimNext() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.pending) == 0 {
		return "", false
	}

	next := f.pending[0]
	f.pending = f.pending[1:]
	return next, true
}

// MarkVisited records that processing of rawURL has started. Idempotent.
func (f *Frontier) MarkVisited(rawURL string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visited[rawURL] = struct{}{}
}

// VisitedCount returns the number of URLs whose processing has started.
func (f *Frontier) VisitedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.visited)
}

// PendingCount returns the number of URLs awaiting processing.
func (f *Frontier) PendingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

// SnapshotDiscovered returns a copy of the discovered record in discovery
// order.
func (f *Frontier) SnapshotDiscovered() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, len(f.discovered))
	copy(out, f.discovered)
	return out
}
