package config

import "errors"

// Configuration validation errors.
// These are returned by Config.Validate() and can be matched with
// errors.Is() while still carrying a human-readable message.
var (
	// ErrInvalidBaseURL is returned when the aggregator base URL is
	// missing or not an absolute http(s) URL.
	ErrInvalidBaseURL = errors.New("invalid base URL: must be an absolute http(s) URL")

	// ErrInvalidListingPath is returned when the landing-page path is empty.
	ErrInvalidListingPath = errors.New("invalid listing path: must not be empty")

	// ErrInvalidOutputFile is returned when the output file path is empty.
	ErrInvalidOutputFile = errors.New("invalid output file: must not be empty")

	// ErrInvalidTimeout is returned when the fetch timeout is not positive.
	// A zero or negative timeout would fail every request immediately.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidCrawlDelay is returned when the delay between retailer
	// fetches is negative. Use 0 for no delay.
	ErrInvalidCrawlDelay = errors.New("invalid crawl delay: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is
	// negative. Use 0 for the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")
)
