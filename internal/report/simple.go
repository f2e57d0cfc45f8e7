package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"sitemapper/internal/model"
)

// SimpleWriter outputs human-readable text summaries.
// This format is designed for terminal display.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors because it works in all terminals and pipes cleanly to
// files or other tools.
type SimpleWriter struct {
	baseWriter

	// verbose enables the discovered URL list in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output including the discovered URL list.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the crawl summary in human-readable format.
func (w *SimpleWriter) Write(report *model.CrawlReport) (int, error) {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        SITEMAPPER SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Seed URL:       %s\n", report.SeedURL))
	sb.WriteString(fmt.Sprintf("Domain:         %s\n", report.Scope))
	sb.WriteString(fmt.Sprintf("Started:        %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Elapsed:        %s\n", report.Elapsed.Round(10*time.Millisecond)))
	sb.WriteString(fmt.Sprintf("Pages Crawled:  %d\n", report.PagesCrawled))
	if report.PagesFailed > 0 {
		sb.WriteString(fmt.Sprintf("Pages Failed:   %d\n", report.PagesFailed))
	}
	sb.WriteString(fmt.Sprintf("Links Found:    %d\n", len(report.Discovered)))
	sb.WriteString("\n")

	if report.SitemapPath != "" {
		sb.WriteString(strings.Repeat("-", 70))
		sb.WriteString("\n")
		sb.WriteString("SITEMAP\n")
		sb.WriteString(strings.Repeat("-", 70))
		sb.WriteString("\n\n")

		sb.WriteString(fmt.Sprintf("  File:    %s\n", report.SitemapPath))
		sb.WriteString(fmt.Sprintf("  Entries: %d\n", report.URLCount))
		if report.Valid {
			sb.WriteString("  Status:  Valid\n")
		} else {
			sb.WriteString("  Status:  INVALID (failed re-validation)\n")
		}
		sb.WriteString("\n")
	}

	if w.verbose && len(report.Discovered) > 0 {
		sb.WriteString(strings.Repeat("-", 70))
		sb.WriteString("\n")
		sb.WriteString("DISCOVERED URLS\n")
		sb.WriteString(strings.Repeat("-", 70))
		sb.WriteString("\n\n")

		for _, u := range report.Discovered {
			sb.WriteString(fmt.Sprintf("  [+] %s\n", u))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}
