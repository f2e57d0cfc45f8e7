// Package crawler discovers every page reachable by hyperlink from a seed
// URL within a single domain.
//
// # Components
//
//   - Frontier: the synchronized record of visited, pending, and discovered
//     URLs with atomic at-most-once admission
//   - Extractor: parses rendered HTML into the admissible absolute URLs
//     found on a page
//   - Orchestrator: drives a bounded pool of workers that render pages,
//     extract links, and feed newly discovered URLs back into the frontier
//
// # Politeness
//
// The orchestrator observes a fixed delay between successive claims handed
// to the worker pool, bounding the request rate against the target server.
// Workers already dispatched still render concurrently.
package crawler
