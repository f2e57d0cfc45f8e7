package crawler

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Extractor parses rendered HTML into the set of admissible absolute URLs
// found on a page.
//
// Design decision: We use golang.org/x/net/html rather than regex because
// it correctly handles the malformed HTML common on the web and gives a
// proper node tree to walk.
type Extractor struct {
	// scope is the network location (host[:port]) of the seed URL.
	// Only URLs sharing it are admissible.
	scope string
}

// NewExtractor creates an Extractor whose domain scope is derived from
// seedURL's network location.
func NewExtractor(seedURL string) (*Extractor, error) {
	u, err := url.Parse(seedURL)
	if err != nil {
		return nil, fmt.Errorf("invalid seed URL: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("seed URL %q has no host", seedURL)
	}
	return &Extractor{scope: u.Host}, nil
}

// Scope returns the network location every admissible URL must share.
func (e *Extractor) Scope() string {
	return e.scope
}

// Extract returns the admissible absolute URLs referenced by anchor
// elements in content, resolved against pageURL, in document order with
// duplicates collapsed.
//
// A URL is admissible when its scheme is http or https, it is not a pure
// in-page anchor of pageURL (same location and path, non-empty fragment),
// and its network location equals the crawl scope. Fragments are dropped
// from emitted URLs: the fragment addresses a position inside a document,
// not a distinct page. Malformed hrefs are silently skipped; Extract is a
// pure function of its inputs and has no error path.
func (e *Extractor) Extract(pageURL, content string) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	links := make([]string, 0)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href := getAttr(n, "href"); href != "" {
				if link, ok := e.admit(base, href); ok {
					if _, dup := seen[link]; !dup {
						seen[link] = struct{}{}
						links = append(links, link)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links
}

// admit resolves href against base and applies the scheme, same-page
// fragment, and domain filters in that order.
func (e *Extractor) admit(base *url.URL, href string) (string, bool) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", false
	}

	resolved := base.ResolveReference(ref)

	// 1. Scheme filter: mailto:, javascript:, tel: and friends are out.
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", false
	}

	// 2. Same-page fragment filter: a link that differs from the current
	// page only by a fragment is an in-page anchor, not a new page.
	if resolved.Fragment != "" && resolved.Host == base.Host && resolved.Path == base.Path {
		return "", false
	}

	// 3. Domain filter: the crawl never leaves the seed's network location.
	if resolved.Host != e.scope {
		return "", false
	}

	// The fragment addresses a position within the document; two URLs
	// differing only by fragment are the same page.
	resolved.Fragment = ""

	return resolved.String(), true
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
