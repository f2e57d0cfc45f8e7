package config

// SiteConfig holds per-host overrides for crawl behavior.
// Hosts with heavy client-side rendering often need a longer settle delay,
// while small static sites can be crawled faster than the defaults allow.
type SiteConfig struct {
	// MaxPages overrides the global page cap for this host.
	// If zero, the global MaxPages is used.
	MaxPages int `yaml:"maxPages,omitempty"`

	// Workers overrides the global worker pool size for this host.
	// If zero, the global Workers is used.
	Workers int `yaml:"workers,omitempty"`

	// DispatchDelay overrides the pause between claims, e.g. "500ms".
	// If empty, the global DispatchDelay is used.
	DispatchDelay string `yaml:"dispatchDelay,omitempty"`

	// SettleDelay overrides the post-ready script wait, e.g. "5s".
	// If empty, the global SettleDelay is used.
	SettleDelay string `yaml:"settleDelay,omitempty"`

	// UserAgent overrides the User-Agent header for this host.
	UserAgent string `yaml:"userAgent,omitempty"`
}

// File represents the structure of the .sitemapper configuration file.
type File struct {
	// Sites maps host names (network locations, e.g. "example.com" or
	// "example.com:8080") to their overrides.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains overrides applied to every host unless a
	// site-specific entry overrides them again.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a specific host.
// It merges the site-specific configuration with defaults.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults

	if siteConfig, ok := cf.Sites[host]; ok {
		if siteConfig.MaxPages != 0 {
			result.MaxPages = siteConfig.MaxPages
		}
		if siteConfig.Workers != 0 {
			result.Workers = siteConfig.Workers
		}
		if siteConfig.DispatchDelay != "" {
			result.DispatchDelay = siteConfig.DispatchDelay
		}
		if siteConfig.SettleDelay != "" {
			result.SettleDelay = siteConfig.SettleDelay
		}
		if siteConfig.UserAgent != "" {
			result.UserAgent = siteConfig.UserAgent
		}
	}

	return result
}
