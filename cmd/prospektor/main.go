// Package main provides the entry point for the prospektor CLI.
//
// Prospektor scrapes a retail flyer aggregator site: it enumerates the
// retailers listed on the landing page, visits each retailer's flyer page,
// and writes the extracted brochures to a JSON file.
//
// Usage:
//
//	prospektor scrape
//	prospektor scrape -o /tmp/brochures.json --verbose
//
// See --help for all available options.
package main

// main is the entry point for prospektor.
func main() {
	Execute()
}
