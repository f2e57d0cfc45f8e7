package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. Where applicable they match the defaults
// of the original sitemap generator this tool replaces.
const (
	// DefaultOutputFile is the path the generated sitemap is written to.
	DefaultOutputFile = "sitemap.xml"

	// DefaultMaxPages caps the number of pages visited in one crawl.
	// This prevents runaway crawling on large or infinitely-generating
	// sites. Users can override this via the --max-pages CLI flag.
	DefaultMaxPages = 1000

	// DefaultWorkers is the size of the crawl worker pool. Each worker
	// owns its own render session, so this also bounds the number of
	// concurrent browser sessions.
	DefaultWorkers = 3

	// DefaultDispatchDelay is the pause between successive claims handed
	// to the worker pool. This is a politeness setting bounding the
	// request rate against the target server; workers already dispatched
	// still render concurrently.
	DefaultDispatchDelay = 1 * time.Second

	// DefaultSettleDelay is the fixed wait after a page reports ready,
	// allowing asynchronous script-driven content to finish mutating the
	// DOM before the HTML is snapshotted.
	DefaultSettleDelay = 2 * time.Second

	// DefaultRenderTimeout bounds a single page render, navigation and
	// settle delay included.
	DefaultRenderTimeout = 10 * time.Second

	// DefaultUserAgent identifies sitemapper in HTTP requests.
	DefaultUserAgent = "sitemapper/1.0"

	// DefaultMaxBodySize limits the response body size read in plain-HTTP
	// mode. 5MB is sufficient for most HTML pages while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultChangeFreq is the <changefreq> hint written for every
	// sitemap entry unless configured otherwise.
	DefaultChangeFreq = "monthly"

	// DefaultPriority is the <priority> hint written for every sitemap
	// entry unless configured otherwise.
	DefaultPriority = 0.5

	// AppName is the application name used for XDG directory paths.
	AppName = "sitemapper"
)

// Config holds all configuration options for sitemapper.
// It is populated from CLI flags and the optional config file and passed
// through the application via dependency injection rather than global state.
type Config struct {
	// SeedURL is the URL the crawl starts from. Its network location
	// defines the domain scope of the crawl.
	SeedURL string

	// OutputFile is the path the generated sitemap is written to.
	OutputFile string

	// MaxPages is the maximum number of pages visited in one crawl.
	// Zero means the crawl visits nothing and the run fails with an
	// empty-input error at sitemap build time.
	MaxPages int

	// Workers is the size of the crawl worker pool.
	Workers int

	// DispatchDelay is the pause between successive claims handed to the
	// worker pool.
	DispatchDelay time.Duration

	// SettleDelay is the post-ready wait for script execution before the
	// rendered HTML is snapshotted.
	SettleDelay time.Duration

	// RenderTimeout bounds a single page render.
	RenderTimeout time.Duration

	// NoJS disables browser rendering and fetches pages with a plain
	// HTTP client. Sites that need script execution to emit their links
	// will appear mostly empty in this mode.
	NoJS bool

	// UserAgent is the User-Agent header sent with requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes read in
	// plain-HTTP mode. Zero means use the default.
	MaxBodySize int64

	// ChangeFreq is the <changefreq> value written for every entry.
	ChangeFreq string

	// Priority is the <priority> value written for every entry.
	// Must be within [0, 1].
	Priority float64

	// JSONReport enables JSON summary output instead of the
	// human-readable format. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown summary output instead of the
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ConfigFilePath is the path to the configuration file. If empty,
	// the tool searches for .sitemapper in the current directory and
	// then in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds per-host overrides loaded from the config file.
	SiteConfigs *File

	// SaveHistory controls whether the run is recorded in the crawl
	// history database.
	SaveHistory bool

	// DBDir is the directory holding the history database. Defaults to
	// the XDG data directory.
	DBDir string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults; users override specific
// values after creation.
func NewConfig() *Config {
	return &Config{
		OutputFile:    DefaultOutputFile,
		MaxPages:      DefaultMaxPages,
		Workers:       DefaultWorkers,
		DispatchDelay: DefaultDispatchDelay,
		SettleDelay:   DefaultSettleDelay,
		RenderTimeout: DefaultRenderTimeout,
		UserAgent:     DefaultUserAgent,
		MaxBodySize:   DefaultMaxBodySize,
		ChangeFreq:    DefaultChangeFreq,
		Priority:      DefaultPriority,
		SaveHistory:   true,
	}
}

// XDGDataDir returns the XDG data directory for sitemapper.
// On Linux: ~/.local/share/sitemapper
// On macOS: ~/Library/Application Support/sitemapper
// On Windows: %LOCALAPPDATA%\sitemapper
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// ValidChangeFreqs lists the values the sitemap 0.9 schema allows for
// the <changefreq> element.
var ValidChangeFreqs = map[string]bool{
	"always":  true,
	"hourly":  true,
	"daily":   true,
	"weekly":  true,
	"monthly": true,
	"yearly":  true,
	"never":   true,
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// We return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if c.SeedURL == "" {
		return ErrNoSeedURL
	}

	u, err := url.Parse(c.SeedURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidSeedURL
	}

	// Zero is allowed: it yields an empty crawl, reported to the user as
	// an empty-input failure at sitemap build time.
	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}

	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}

	if c.DispatchDelay < 0 || c.SettleDelay < 0 {
		return ErrInvalidDelay
	}

	if c.RenderTimeout <= 0 {
		return ErrInvalidRenderTimeout
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if !ValidChangeFreqs[c.ChangeFreq] {
		return ErrInvalidChangeFreq
	}

	if c.Priority < 0 || c.Priority > 1 {
		return ErrInvalidPriority
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}

// Scope returns the network location (host[:port]) of the seed URL.
// It must only be called after Validate has succeeded.
func (c *Config) Scope() string {
	u, err := url.Parse(c.SeedURL)
	if err != nil {
		return ""
	}
	return u.Host
}
