package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestNewConfig tests that defaults are populated.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("expected default base URL, got %q", cfg.BaseURL)
	}
	if cfg.OutputFile != DefaultOutputFile {
		t.Errorf("expected default output file, got %q", cfg.OutputFile)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("expected default timeout, got %v", cfg.Timeout)
	}
	if cfg.CrawlDelay != DefaultCrawlDelay {
		t.Errorf("expected default crawl delay, got %v", cfg.CrawlDelay)
	}
}

// TestConfigValidate tests validation of each option.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "defaults are valid", mutate: func(*Config) {}, wantErr: nil},
		{name: "relative base URL", mutate: func(c *Config) { c.BaseURL = "/hypermarkte/" }, wantErr: ErrInvalidBaseURL},
		{name: "non-http scheme", mutate: func(c *Config) { c.BaseURL = "ftp://example.com" }, wantErr: ErrInvalidBaseURL},
		{name: "empty listing path", mutate: func(c *Config) { c.ListingPath = "" }, wantErr: ErrInvalidListingPath},
		{name: "empty output file", mutate: func(c *Config) { c.OutputFile = "" }, wantErr: ErrInvalidOutputFile},
		{name: "zero timeout", mutate: func(c *Config) { c.Timeout = 0 }, wantErr: ErrInvalidTimeout},
		{name: "negative crawl delay", mutate: func(c *Config) { c.CrawlDelay = -time.Second }, wantErr: ErrInvalidCrawlDelay},
		{name: "negative max body size", mutate: func(c *Config) { c.MaxBodySize = -1 }, wantErr: ErrInvalidMaxBodySize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestListingURL tests landing-page URL resolution.
func TestListingURL(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	if got := cfg.ListingURL(); got != "https://www.prospektmaschine.de/hypermarkte/" {
		t.Errorf("unexpected listing URL %q", got)
	}

	cfg.BaseURL = "http://localhost:8080"
	cfg.ListingPath = "/shops/"
	if got := cfg.ListingURL(); got != "http://localhost:8080/shops/" {
		t.Errorf("unexpected listing URL %q", got)
	}
}

// TestSkipShop tests the retailer exclusion list.
func TestSkipShop(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.SkipShops = []string{"Globus"}

	if !cfg.SkipShop("Globus") {
		t.Error("expected Globus to be skipped")
	}
	if cfg.SkipShop("Lidl") {
		t.Error("did not expect Lidl to be skipped")
	}
}

// TestLoadConfigFile tests YAML loading and override application.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("loads and applies overrides", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `
output: /tmp/out.json
crawl_delay: 2s
skip_shops:
  - Globus
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("write config: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("load config: %v", err)
		}

		cfg := NewConfig()
		if err := cf.ApplyTo(cfg); err != nil {
			t.Fatalf("apply config: %v", err)
		}

		if cfg.OutputFile != "/tmp/out.json" {
			t.Errorf("expected output override, got %q", cfg.OutputFile)
		}
		if cfg.CrawlDelay != 2*time.Second {
			t.Errorf("expected 2s crawl delay, got %v", cfg.CrawlDelay)
		}
		if !cfg.SkipShop("Globus") {
			t.Error("expected skip_shops override to apply")
		}
		// Unset fields keep their defaults.
		if cfg.BaseURL != DefaultBaseURL {
			t.Errorf("expected default base URL, got %q", cfg.BaseURL)
		}
	})

	t.Run("rejects malformed crawl_delay", func(t *testing.T) {
		t.Parallel()

		cf := &File{CrawlDelay: "soon"}
		if err := cf.ApplyTo(NewConfig()); err == nil {
			t.Error("expected error for malformed crawl_delay")
		}
	})

	t.Run("rejects malformed YAML", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("output: [unclosed"), 0600); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for malformed YAML")
		}
	})
}
