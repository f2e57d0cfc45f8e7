package sitemap

import (
	"encoding/xml"
	"log/slog"
)

// Validator checks minimal structural conformance of a serialized sitemap:
// the document parses, its root is the namespaced urlset element, and at
// least one url entry is present.
//
// Validation failure is non-fatal and surfaced as a boolean plus a log
// entry, leaving the caller to decide next steps.
type Validator struct {
	// logger receives the reason a document failed validation.
	logger *slog.Logger
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithValidatorLogger sets a custom logger.
func WithValidatorLogger(logger *slog.Logger) ValidatorOption {
	return func(v *Validator) {
		v.logger = logger
	}
}

// NewValidator creates a Validator.
func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{}

	for _, opt := range opts {
		opt(v)
	}

	if v.logger == nil {
		v.logger = slog.Default()
	}

	return v
}

// urlsetDoc captures the pieces of the document validation inspects.
// The url field is namespace-qualified so entries outside the sitemap
// namespace do not count.
type urlsetDoc struct {
	XMLName xml.Name
	URLs    []struct {
		Loc string `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 loc"`
	} `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 url"`
}

// Validate parses data and reports whether it is a structurally valid
// sitemap document.
func (v *Validator) Validate(data []byte) bool {
	var doc urlsetDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		v.logger.Error("sitemap is not well-formed XML", "error", err)
		return false
	}

	if doc.XMLName.Space != Namespace || doc.XMLName.Local != "urlset" {
		v.logger.Error("unexpected root element",
			"space", doc.XMLName.Space,
			"local", doc.XMLName.Local,
		)
		return false
	}

	if len(doc.URLs) == 0 {
		v.logger.Error("sitemap contains no url entries")
		return false
	}

	v.logger.Info("sitemap is valid", "urls", len(doc.URLs))
	return true
}
