// Package database provides SQLite-based persistence for crawl history.
//
// Each completed crawl is stored as one run row carrying the full report
// as JSON, plus the ordered list of discovered URLs in a child table. The
// database lives in the XDG data directory by default and is shared by
// every site the tool crawls.
package database
