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
const DefaultConfigFile = ".prospektor"

// ErrConfigNotFound is returned when the configuration file does not exist.
// Callers should treat this as fatal only when the path was given
// explicitly by the user.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the YAML configuration file contents. Every field is optional;
// set fields override the corresponding Config defaults.
//
// Example:
//
//	output: /var/lib/prospektor/brochures.json
//	base_url: https://www.prospektmaschine.de
//	listing_path: /hypermarkte/
//	crawl_delay: 2s
//	skip_shops:
//	  - Globus
type File struct {
	// Output overrides the JSON output file path.
	Output string `yaml:"output"`

	// BaseURL overrides the aggregator site root.
	BaseURL string `yaml:"base_url"`

	// ListingPath overrides the landing page path.
	ListingPath string `yaml:"listing_path"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"user_agent"`

	// CrawlDelay overrides the delay between retailer fetches.
	// Parsed with time.ParseDuration (e.g. "500ms", "2s").
	CrawlDelay string `yaml:"crawl_delay"`

	// SkipShops lists retailer display names to exclude.
	SkipShops []string `yaml:"skip_shops"`
}

// LoadConfigFile loads a configuration file from the given path.
// Returns ErrConfigNotFound if the file does not exist.
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
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return &cf, nil
}

// ApplyTo applies the file's set fields onto the given Config.
// Unset (zero) fields leave the Config untouched.
func (f *File) ApplyTo(cfg *Config) error {
	if f.Output != "" {
		cfg.OutputFile = f.Output
	}
	if f.BaseURL != "" {
		cfg.BaseURL = f.BaseURL
	}
	if f.ListingPath != "" {
		cfg.ListingPath = f.ListingPath
	}
	if f.UserAgent != "" {
		cfg.UserAgent = f.UserAgent
	}
	if f.CrawlDelay != "" {
		d, err := time.ParseDuration(f.CrawlDelay)
		if err != nil {
			return fmt.Errorf("invalid crawl_delay %q: %w", f.CrawlDelay, err)
		}
		cfg.CrawlDelay = d
	}
	if len(f.SkipShops) > 0 {
		cfg.SkipShops = append(cfg.SkipShops, f.SkipShops...)
	}
	return nil
}

// FindConfigFile searches for the configuration file in the following order:
//  1. If configPath is specified, use it directly
//  2. Look for .prospektor in the current directory
//  3. Look for .prospektor in the user's home directory
//
// Returns the path if found, or an empty string otherwise.
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
