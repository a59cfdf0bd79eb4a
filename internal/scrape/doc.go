// Package scrape extracts retailers and flyer cards from aggregator
// markup. All functions are pure: they operate on a parsed document,
// return typed results plus structured warnings, and never log or perform
// I/O. The pipeline decides how warnings are reported.
package scrape
