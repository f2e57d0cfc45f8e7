package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestNewConfig tests that defaults match the documented values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	if cfg.OutputFile != "sitemap.xml" {
		t.Errorf("expected default output sitemap.xml, got %q", cfg.OutputFile)
	}
	if cfg.MaxPages != 1000 {
		t.Errorf("expected default max pages 1000, got %d", cfg.MaxPages)
	}
	if cfg.Workers != 3 {
		t.Errorf("expected default workers 3, got %d", cfg.Workers)
	}
	if cfg.DispatchDelay != time.Second {
		t.Errorf("expected default dispatch delay 1s, got %v", cfg.DispatchDelay)
	}
	if cfg.SettleDelay != 2*time.Second {
		t.Errorf("expected default settle delay 2s, got %v", cfg.SettleDelay)
	}
	if cfg.RenderTimeout != 10*time.Second {
		t.Errorf("expected default render timeout 10s, got %v", cfg.RenderTimeout)
	}
	if cfg.ChangeFreq != "monthly" {
		t.Errorf("expected default changefreq monthly, got %q", cfg.ChangeFreq)
	}
	if cfg.Priority != 0.5 {
		t.Errorf("expected default priority 0.5, got %v", cfg.Priority)
	}
	if !cfg.SaveHistory {
		t.Error("expected history saving enabled by default")
	}
}

// TestConfigValidate tests configuration validation.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		cfg := NewConfig()
		cfg.SeedURL = "https://example.com/"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: nil,
		},
		{
			name:    "missing seed",
			mutate:  func(c *Config) { c.SeedURL = "" },
			wantErr: ErrNoSeedURL,
		},
		{
			name:    "non-http scheme",
			mutate:  func(c *Config) { c.SeedURL = "ftp://example.com/" },
			wantErr: ErrInvalidSeedURL,
		},
		{
			name:    "relative seed",
			mutate:  func(c *Config) { c.SeedURL = "/just/a/path" },
			wantErr: ErrInvalidSeedURL,
		},
		{
			name:    "zero max pages allowed",
			mutate:  func(c *Config) { c.MaxPages = 0 },
			wantErr: nil,
		},
		{
			name:    "negative max pages",
			mutate:  func(c *Config) { c.MaxPages = -1 },
			wantErr: ErrInvalidMaxPages,
		},
		{
			name:    "zero workers",
			mutate:  func(c *Config) { c.Workers = 0 },
			wantErr: ErrInvalidWorkers,
		},
		{
			name:    "negative dispatch delay",
			mutate:  func(c *Config) { c.DispatchDelay = -time.Second },
			wantErr: ErrInvalidDelay,
		},
		{
			name:    "zero render timeout",
			mutate:  func(c *Config) { c.RenderTimeout = 0 },
			wantErr: ErrInvalidRenderTimeout,
		},
		{
			name:    "negative body size",
			mutate:  func(c *Config) { c.MaxBodySize = -1 },
			wantErr: ErrInvalidMaxBodySize,
		},
		{
			name:    "unknown changefreq",
			mutate:  func(c *Config) { c.ChangeFreq = "sometimes" },
			wantErr: ErrInvalidChangeFreq,
		},
		{
			name:    "priority above one",
			mutate:  func(c *Config) { c.Priority = 1.5 },
			wantErr: ErrInvalidPriority,
		},
		{
			name:    "conflicting report formats",
			mutate:  func(c *Config) { c.JSONReport = true; c.MarkdownReport = true },
			wantErr: ErrConflictingReportFormats,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestConfigScope tests derivation of the domain scope from the seed.
func TestConfigScope(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		seed string
		want string
	}{
		{name: "bare host", seed: "https://example.com/", want: "example.com"},
		{name: "host with port", seed: "http://example.com:8080/start", want: "example.com:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			cfg.SeedURL = tt.seed
			if got := cfg.Scope(); got != tt.want {
				t.Errorf("expected scope %q, got %q", tt.want, got)
			}
		})
	}
}

// TestLoadConfigFile tests YAML config file loading.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads sites and defaults", func(t *testing.T) {
		t.Parallel()

		content := `
defaults:
  dispatchDelay: 500ms
sites:
  example.com:
    maxPages: 50
    settleDelay: 5s
  other.org:
    workers: 1
`
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("failed to load config file: %v", err)
		}

		site := cf.GetSiteConfig("example.com")
		if site.MaxPages != 50 {
			t.Errorf("expected maxPages 50, got %d", site.MaxPages)
		}
		if site.SettleDelay != "5s" {
			t.Errorf("expected settleDelay 5s, got %q", site.SettleDelay)
		}
		if site.DispatchDelay != "500ms" {
			t.Errorf("expected default dispatchDelay 500ms, got %q", site.DispatchDelay)
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("malformed YAML returns error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte(":\n  - not yaml"), 0600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for malformed YAML")
		}
	})
}

// TestApplySiteConfig tests overlaying per-host overrides.
func TestApplySiteConfig(t *testing.T) {
	t.Parallel()

	t.Run("overrides durations and counts", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		err := cfg.ApplySiteConfig(SiteConfig{
			MaxPages:      25,
			DispatchDelay: "250ms",
			UserAgent:     "custom-agent",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.MaxPages != 25 {
			t.Errorf("expected maxPages 25, got %d", cfg.MaxPages)
		}
		if cfg.DispatchDelay != 250*time.Millisecond {
			t.Errorf("expected dispatch delay 250ms, got %v", cfg.DispatchDelay)
		}
		if cfg.UserAgent != "custom-agent" {
			t.Errorf("expected custom user agent, got %q", cfg.UserAgent)
		}
		// Untouched fields keep their defaults.
		if cfg.Workers != DefaultWorkers {
			t.Errorf("expected workers untouched, got %d", cfg.Workers)
		}
	})

	t.Run("malformed duration is an error", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		if err := cfg.ApplySiteConfig(SiteConfig{SettleDelay: "soon"}); err == nil {
			t.Error("expected error for malformed duration")
		}
	})
}
