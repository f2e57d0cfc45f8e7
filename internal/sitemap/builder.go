package sitemap

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Namespace is the sitemaps.org 0.9 XML namespace.
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// xsiNamespace is the XML Schema instance namespace, used to attach the
// schema location for validating consumers.
const xsiNamespace = "http://www.w3.org/2001/XMLSchema-instance"

// ErrEmptyInput is returned by Build when the URL list is empty.
// A crawl must discover at least one URL before a sitemap can be built.
var ErrEmptyInput = errors.New("sitemap: URL list is empty")

// Entry is one <url> element of a sitemap document.
type Entry struct {
	// Loc is the page URL with XML special characters escaped.
	Loc string

	// LastMod is the last-modification date in YYYY-MM-DD form.
	LastMod string

	// ChangeFreq is the expected change frequency hint.
	ChangeFreq string

	// Priority is the relative priority hint, a decimal in [0, 1].
	Priority string
}

// Document is a built sitemap ready for serialization.
type Document struct {
	entries []Entry
}

// Builder converts a list of discovered URLs into a sitemap document.
// URLs outside the configured domain and duplicates are skipped, not
// errors: the crawl's discovered list is trusted input, and the builder
// is the last line of defense, not a validator.
type Builder struct {
	// scope is the network location every emitted URL must share.
	scope string

	// changeFreq is the <changefreq> value written for every entry.
	changeFreq string

	// priority is the <priority> value written for every entry.
	priority float64

	// now supplies the generation date written to <lastmod>.
	now func() time.Time

	// logger receives skipped-URL notices.
	logger *slog.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithChangeFreq sets the <changefreq> value for every entry.
func WithChangeFreq(freq string) BuilderOption {
	return func(b *Builder) {
		b.changeFreq = freq
	}
}

// WithPriority sets the <priority> value for every entry.
func WithPriority(p float64) BuilderOption {
	return func(b *Builder) {
		b.priority = p
	}
}

// WithBuilderLogger sets a custom logger.
func WithBuilderLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = logger
	}
}

// withClock overrides the generation date source. Used by tests.
func withClock(now func() time.Time) BuilderOption {
	return func(b *Builder) {
		b.now = now
	}
}

// NewBuilder creates a Builder whose domain scope is derived from
// baseURL's network location.
func NewBuilder(baseURL string, opts ...BuilderOption) (*Builder, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base URL %q has no host", baseURL)
	}

	b := &Builder{
		scope:      u.Host,
		changeFreq: "monthly",
		priority:   0.5,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = slog.Default()
	}

	return b, nil
}

// Build converts urls into a sitemap document.
//
// URLs are processed in input order. A URL is skipped when its network
// location differs from the builder's domain or when it was already
// emitted; skipping every URL yields an empty (but valid to build)
// document. Only an empty input list is an error.
func (b *Builder) Build(urls []string) (*Document, error) {
	if len(urls) == 0 {
		return nil, ErrEmptyInput
	}

	lastMod := b.now().Format("2006-01-02")
	// Precision -1 keeps the configured value intact: 0.75 stays 0.75
	// instead of rounding to 0.8.
	priority := strconv.FormatFloat(b.priority, 'f', -1, 64)

	emitted := make(map[string]struct{})
	doc := &Document{entries: make([]Entry, 0, len(urls))}

	for _, raw := range urls {
		if !b.inScope(raw) {
			b.logger.Warn("URL skipped, outside domain", "url", raw, "domain", b.scope)
			continue
		}
		if _, dup := emitted[raw]; dup {
			b.logger.Debug("duplicate URL skipped", "url", raw)
			continue
		}
		emitted[raw] = struct{}{}

		doc.entries = append(doc.entries, Entry{
			Loc:        Escape(raw),
			LastMod:    lastMod,
			ChangeFreq: b.changeFreq,
			Priority:   priority,
		})
	}

	return doc, nil
}

// inScope reports whether raw shares the builder's network location.
func (b *Builder) inScope(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Host == b.scope
}

// xmlEscaper performs the sitemap escaping. Each input character is
// replaced at most once, so entities introduced by one replacement are
// never re-escaped by another; this matches applying the replacements in
// the order &, ', ", >, < with the ampersand handled first.
var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"'", "&apos;",
	`"`, "&quot;",
	">", "&gt;",
	"<", "&lt;",
)

// Escape replaces XML special characters in text with their entities.
func Escape(text string) string {
	return xmlEscaper.Replace(text)
}

// Len returns the number of entries in the document.
func (d *Document) Len() int {
	return len(d.entries)
}

// Entries returns the document's entries in emission order.
func (d *Document) Entries() []Entry {
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

// WriteTo serializes the document as pretty-printed UTF-8 XML with
// two-space indentation and no blank lines.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder

	sb.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
	sb.WriteString(`<urlset xmlns="` + Namespace + `" xmlns:xsi="` + xsiNamespace + `" xsi:schemaLocation="` + Namespace + ` ` + Namespace + `/sitemap.xsd">` + "\n")
	for _, e := range d.entries {
		sb.WriteString("  <url>\n")
		sb.WriteString("    <loc>" + e.Loc + "</loc>\n")
		sb.WriteString("    <lastmod>" + e.LastMod + "</lastmod>\n")
		sb.WriteString("    <changefreq>" + e.ChangeFreq + "</changefreq>\n")
		sb.WriteString("    <priority>" + e.Priority + "</priority>\n")
		sb.WriteString("  </url>\n")
	}
	sb.WriteString("</urlset>\n")

	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

// Bytes returns the serialized document.
func (d *Document) Bytes() []byte {
	var sb strings.Builder
	_, _ = d.WriteTo(&sb) //nolint:errcheck // strings.Builder never fails
	return []byte(sb.String())
}
