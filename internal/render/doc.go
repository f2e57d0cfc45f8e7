// Package render turns a URL into rendered HTML.
//
// Two implementations are provided. ChromeSession drives a headless Chrome
// browser through chromedp, executing page scripts and waiting for a settle
// period so script-driven content is present in the snapshot. HTTPSession
// performs a plain GET and returns the body as-is, for sites that do not
// depend on client-side rendering.
//
// A render session holds navigation state and must never be shared by
// concurrently executing workers. Pool hands out exclusive sessions to the
// crawl workers, one per worker slot.
package render
