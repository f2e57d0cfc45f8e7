package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoSeedURL is returned when no seed URL is specified.
	ErrNoSeedURL = errors.New("no seed URL specified: provide a starting URL as the first argument")

	// ErrInvalidSeedURL is returned when the seed URL is not an absolute
	// http or https URL with a non-empty host.
	ErrInvalidSeedURL = errors.New("invalid seed URL: must be absolute with scheme http or https")

	// ErrInvalidMaxPages is returned when the page cap is negative.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be non-negative")

	// ErrInvalidWorkers is returned when the worker pool size is not positive.
	// A pool of zero workers would mean no crawling at all.
	ErrInvalidWorkers = errors.New("invalid worker count: must be positive")

	// ErrInvalidDelay is returned when the dispatch or settle delay is negative.
	// Use 0 to disable a delay.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")

	// ErrInvalidRenderTimeout is returned when the render timeout is not positive.
	// A zero timeout would make every render fail immediately.
	ErrInvalidRenderTimeout = errors.New("invalid render timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to fall back to the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidChangeFreq is returned when the change frequency is not one
	// of the values the sitemap 0.9 schema allows.
	ErrInvalidChangeFreq = errors.New("invalid change frequency: must be one of always, hourly, daily, weekly, monthly, yearly, never")

	// ErrInvalidPriority is returned when the priority is outside [0, 1].
	ErrInvalidPriority = errors.New("invalid priority: must be between 0.0 and 1.0")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
