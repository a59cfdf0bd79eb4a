// Package config provides configuration structures and utilities for
// prospektor. It defines the scrape run options, their defaults, and the
// optional YAML configuration file loader.
package config
