// Package model defines the core data structures for prospektor.
// It contains the retailer and brochure types produced by the scrape
// pipeline, the warning values emitted by parsers, and the run report
// that accumulates results across a single scrape run.
package model
