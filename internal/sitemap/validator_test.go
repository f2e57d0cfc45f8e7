package sitemap

import "testing"

// TestValidator tests structural conformance checking.
func TestValidator(t *testing.T) {
	t.Parallel()

	v := NewValidator()

	tests := []struct {
		name string
		doc  string
		want bool
	}{
		{
			name: "valid document",
			doc: `<?xml version="1.0" encoding="utf-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url>
    <loc>https://example.com/</loc>
  </url>
</urlset>`,
			want: true,
		},
		{
			name: "malformed XML",
			doc:  `<urlset><url></urlset>`,
			want: false,
		},
		{
			name: "empty input",
			doc:  ``,
			want: false,
		},
		{
			name: "wrong root element",
			doc: `<?xml version="1.0" encoding="utf-8"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>https://example.com/sitemap1.xml</loc></sitemap>
</sitemapindex>`,
			want: false,
		},
		{
			name: "root outside the sitemap namespace",
			doc: `<?xml version="1.0" encoding="utf-8"?>
<urlset xmlns="http://example.com/not-a-sitemap">
  <url><loc>https://example.com/</loc></url>
</urlset>`,
			want: false,
		},
		{
			name: "no url entries",
			doc: `<?xml version="1.0" encoding="utf-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
</urlset>`,
			want: false,
		},
		{
			name: "url entries in the wrong namespace do not count",
			doc: `<?xml version="1.0" encoding="utf-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9" xmlns:o="http://example.com/other">
  <o:url><o:loc>https://example.com/</o:loc></o:url>
</urlset>`,
			want: false,
		},
		{
			name: "multiple url entries",
			doc: `<?xml version="1.0" encoding="utf-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://example.com/a</loc></url>
  <url><loc>https://example.com/b</loc></url>
</urlset>`,
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := v.Validate([]byte(tt.doc)); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
