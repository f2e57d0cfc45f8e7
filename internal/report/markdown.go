package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"sitemapper/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation: type-safe tables, lists, and GitHub-flavored alerts.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the crawl summary in Markdown format.
func (w *MarkdownWriter) Write(report *model.CrawlReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSitemap(md, report)
	w.writeDiscovered(md, report)

	return len(md.String()), md.Build()
}

// writeHeader writes the crawl overview table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.CrawlReport) {
	md.H1("Sitemapper Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seed URL", "`" + report.SeedURL + "`"},
			{"Domain", "`" + report.Scope + "`"},
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Elapsed", report.Elapsed.String()},
			{"Pages Crawled", strconv.Itoa(report.PagesCrawled)},
			{"Pages Failed", strconv.Itoa(report.PagesFailed)},
			{"Links Found", strconv.Itoa(len(report.Discovered))},
		},
	})
	md.PlainText("")
}

// writeSitemap writes the sitemap generation result.
func (w *MarkdownWriter) writeSitemap(md *markdown.Markdown, report *model.CrawlReport) {
	md.H2("Sitemap")
	md.PlainText("")

	if report.SitemapPath == "" {
		md.PlainText("No sitemap was generated.")
		md.PlainText("")
		return
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"File", "`" + report.SitemapPath + "`"},
			{"Entries", strconv.Itoa(report.URLCount)},
			{"Valid", strconv.FormatBool(report.Valid)},
		},
	})
	md.PlainText("")

	if report.Valid {
		md.Tip(fmt.Sprintf("The generated sitemap passed re-validation with %d entries.", report.URLCount))
	} else {
		md.Warningf("The generated sitemap at `%s` failed re-validation.", report.SitemapPath)
	}
	md.PlainText("")
}

// writeDiscovered writes the discovered URL list.
func (w *MarkdownWriter) writeDiscovered(md *markdown.Markdown, report *model.CrawlReport) {
	md.H2("Discovered URLs")
	md.PlainText("")

	if len(report.Discovered) == 0 {
		md.PlainText("No URLs were discovered beyond the seed.")
		md.PlainText("")
		return
	}

	md.BulletList(report.Discovered...)
	md.PlainText("")
}
