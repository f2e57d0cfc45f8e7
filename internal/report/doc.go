// Package report formats completed crawl summaries for output.
//
// Three writers share a common interface: human-readable text for the
// terminal, JSON for tool integration, and Markdown for documentation.
// A MultiWriter fans the same report out to several destinations.
package report
