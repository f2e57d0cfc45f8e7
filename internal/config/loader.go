package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".sitemapper"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// LoadConfigFile loads per-host configurations from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound. Callers should
// handle this error based on whether the path was explicitly specified by
// the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	if cf.Sites == nil {
		cf.Sites = make(map[string]SiteConfig)
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .sitemapper in the current directory
// 3. Look for .sitemapper in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if
// not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// ApplySiteConfig overlays the per-host overrides for the seed's host onto c.
// Durations in the file are parsed with time.ParseDuration; a malformed
// duration is reported rather than silently ignored.
func (c *Config) ApplySiteConfig(site SiteConfig) error {
	if site.MaxPages > 0 {
		c.MaxPages = site.MaxPages
	}
	if site.Workers > 0 {
		c.Workers = site.Workers
	}
	if site.DispatchDelay != "" {
		d, err := time.ParseDuration(site.DispatchDelay)
		if err != nil {
			return fmt.Errorf("invalid dispatchDelay %q in config file: %w", site.DispatchDelay, err)
		}
		c.DispatchDelay = d
	}
	if site.SettleDelay != "" {
		d, err := time.ParseDuration(site.SettleDelay)
		if err != nil {
			return fmt.Errorf("invalid settleDelay %q in config file: %w", site.SettleDelay, err)
		}
		c.SettleDelay = d
	}
	if site.UserAgent != "" {
		c.UserAgent = site.UserAgent
	}
	return nil
}
