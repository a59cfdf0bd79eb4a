package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// The defaults mirror the behavior of the aggregator site itself: a
// browser-like User-Agent (the site serves reduced markup to unknown
// agents) and a polite one-second delay between retailer fetches.
const (
	// DefaultBaseURL is the aggregator site hosting the retailer listing
	// pages. All relative URLs in the markup resolve against it.
	DefaultBaseURL = "https://www.prospektmaschine.de"

	// DefaultListingPath is the landing page enumerating all retailers.
	DefaultListingPath = "/hypermarkte/"

	// DefaultOutputFile is the JSON output artifact written by each run.
	DefaultOutputFile = "brochures.json"

	// DefaultUserAgent is a browser User-Agent. The aggregator serves
	// the full flyer markup only to browser-identifying clients.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	// DefaultAcceptLanguage is sent with every request.
	DefaultAcceptLanguage = "en-US,en;q=0.9"

	// DefaultTimeout bounds each HTTP request. The aggregator is a
	// clearnet site; 30 seconds is generous for one page.
	DefaultTimeout = 30 * time.Second

	// DefaultCrawlDelay is the pause between retailer page fetches.
	// A politeness setting, not a correctness one.
	DefaultCrawlDelay = 1 * time.Second

	// DefaultMaxBodySize limits the response body size read per page.
	// 5MB covers any listing page while bounding memory use.
	DefaultMaxBodySize = 5 * 1024 * 1024

	// AppName is the application name used for XDG directory paths.
	AppName = "prospektor"
)

// Config holds all options for one scrape run.
// It is populated from CLI flags (and optionally a config file) and passed
// through the application explicitly rather than held as global state.
type Config struct {
	// BaseURL is the aggregator site root. Relative retailer and
	// thumbnail URLs resolve against it.
	BaseURL string

	// ListingPath is the path of the landing page listing all retailers.
	ListingPath string

	// OutputFile is the path of the JSON output artifact. Each run
	// overwrites it in one shot.
	OutputFile string

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// AcceptLanguage is the Accept-Language header sent with every request.
	AcceptLanguage string

	// Timeout bounds each individual HTTP request.
	Timeout time.Duration

	// CrawlDelay is the pause between consecutive retailer fetches.
	CrawlDelay time.Duration

	// MaxBodySize is the maximum response body size in bytes to read.
	// 0 means DefaultMaxBodySize.
	MaxBodySize int64

	// SkipShops lists retailer display names to exclude from the run.
	// Populated from the config file.
	SkipShops []string

	// FailOnEmpty makes an empty retailer list terminate the run instead
	// of writing an empty output array.
	FailOnEmpty bool

	// Verbose enables slog.LevelDebug output. When false, Info and above.
	Verbose bool

	// MarkdownSummary switches the console summary to GitHub Flavored
	// Markdown. Mutually independent of the JSON output artifact, which
	// is always written.
	MarkdownSummary bool

	// ConfigFilePath is the explicit config file path. If empty, the
	// loader searches for .prospektor in the current and home directories.
	ConfigFilePath string

	// DBDir is the directory holding the run-history SQLite database.
	// When empty, runs are not persisted to the database.
	DBDir string

	// LogFile is the persistent log file path. Log output always goes to
	// the console; when LogFile is set it is duplicated there.
	LogFile string
}

// NewConfig creates a Config with default values. Many defaults are
// non-zero, so a constructor is clearer than relying on zero values.
func NewConfig() *Config {
	return &Config{
		BaseURL:        DefaultBaseURL,
		ListingPath:    DefaultListingPath,
		OutputFile:     DefaultOutputFile,
		UserAgent:      DefaultUserAgent,
		AcceptLanguage: DefaultAcceptLanguage,
		Timeout:        DefaultTimeout,
		CrawlDelay:     DefaultCrawlDelay,
		MaxBodySize:    DefaultMaxBodySize,
	}
}

// ListingURL returns the absolute URL of the retailer landing page.
func (c *Config) ListingURL() string {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return c.BaseURL + c.ListingPath
	}
	ref, err := url.Parse(c.ListingPath)
	if err != nil {
		return c.BaseURL + c.ListingPath
	}
	return base.ResolveReference(ref).String()
}

// SkipShop reports whether the given retailer name is excluded.
func (c *Config) SkipShop(name string) bool {
	for _, s := range c.SkipShops {
		if s == name {
			return true
		}
	}
	return false
}

// XDGDataDir returns the XDG data directory for prospektor.
// On Linux: ~/.local/share/prospektor
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for prospektor.
// On Linux: ~/.cache/prospektor
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// DefaultLogFile returns the default persistent log file path under the
// XDG cache directory.
func DefaultLogFile() string {
	return filepath.Join(XDGCacheDir(), AppName+".log")
}

// Validate checks the configuration and returns the first problem found.
// It is called once after flag parsing, before any fetching begins, so
// misconfiguration fails fast with a clear message.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidBaseURL
	}

	if c.ListingPath == "" {
		return ErrInvalidListingPath
	}

	if c.OutputFile == "" {
		return ErrInvalidOutputFile
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}
