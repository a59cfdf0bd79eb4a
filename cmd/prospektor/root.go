// Package main provides the entry point for the prospektor CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for prospektor.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prospektor",
		Short: "Retail flyer aggregator scraper",
		Long: `Prospektor scrapes a retail flyer aggregator site.

It enumerates the retailers listed on the landing page, visits each
retailer's flyer page, and writes the extracted brochures (title,
thumbnail, validity dates) to a JSON file. Each run can also be stored
in a local history database for run-to-run comparison.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScrapeCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
