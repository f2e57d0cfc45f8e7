// Package sitemap builds and validates sitemap documents conforming to
// the sitemaps.org 0.9 schema.
//
// The builder filters out-of-domain URLs, deduplicates, escapes special
// characters, and serializes a pretty-printed UTF-8 <urlset> document. The
// validator re-parses a produced document and checks minimal structural
// conformance: the namespaced urlset root and at least one url entry.
package sitemap
