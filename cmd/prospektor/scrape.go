package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/flyerhub/prospektor/internal/config"
	"github.com/flyerhub/prospektor/internal/fetch"
	"github.com/flyerhub/prospektor/internal/log"
	"github.com/flyerhub/prospektor/internal/model"
	"github.com/flyerhub/prospektor/internal/pipeline"
	"github.com/flyerhub/prospektor/internal/report"
)

// NewScrapeCmd creates the scrape command.
func NewScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape the aggregator and write the brochure JSON file",
		Long: `Scrape fetches the aggregator landing page, enumerates the listed
retailers, visits each retailer's flyer page, and writes the extracted
brochures to a JSON file.

Retailer pages are fetched one at a time with a polite delay between
requests. A fetch failure on one retailer skips that retailer and
continues with the rest; only a failed landing page fetch or a failed
output write aborts the run.

Examples:
  # Scrape with defaults, writing brochures.json in the current directory
  prospektor scrape

  # Write to a custom path with a shorter per-request timeout
  prospektor scrape -o /tmp/brochures.json -t 10s

  # Print the run summary as Markdown
  prospektor scrape --markdown

  # Abort instead of writing an empty array when no retailers are listed
  prospektor scrape --fail-empty

Configuration file (.prospektor) example:
  output: /var/lib/prospektor/brochures.json
  crawl_delay: 2s
  skip_shops:
    - Globus`,
		Args: cobra.NoArgs,
		RunE: runScrapeCmd,
	}

	// Target flags
	cmd.Flags().String("base-url", config.DefaultBaseURL,
		"Aggregator site root URL")
	cmd.Flags().String("listing-path", config.DefaultListingPath,
		"Landing page path listing all retailers")

	// Fetch behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each HTTP request")
	cmd.Flags().Duration("delay", config.DefaultCrawlDelay,
		"Delay between consecutive retailer fetches")
	cmd.Flags().Bool("fail-empty", false,
		"Treat an empty retailer list as a fatal error")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .prospektor in current or home directory)")

	// Output flags
	cmd.Flags().StringP("output", "o", config.DefaultOutputFile,
		"JSON output file path (creates directories if needed)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Print the run summary as Markdown instead of plain text")

	// Storage and logging flags
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Run history database directory (empty disables history)")
	cmd.Flags().String("log-file", config.DefaultLogFile(),
		"Duplicate log output to this file at debug level (empty disables)")

	return cmd
}

// runScrapeCmd executes the scrape command.
func runScrapeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger, closer, err := setupLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	if closer != nil {
		defer closer.Close() //nolint:errcheck // read-only cleanup
	}
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScrape(ctx, cfg, logger, cmd.OutOrStdout())
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from the optional configuration file and
// cobra command flags. Precedence, lowest to highest: built-in defaults,
// config file, explicitly set flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	configFilePath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath = configFilePath

	// Load the configuration file.
	// If the user explicitly specified a path, a missing file is an error.
	// Otherwise a missing file just means defaults.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		if err := file.ApplyTo(cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	if err := applyStringFlag(cmd, "base-url", &cfg.BaseURL); err != nil {
		return nil, err
	}
	if err := applyStringFlag(cmd, "listing-path", &cfg.ListingPath); err != nil {
		return nil, err
	}
	if err := applyStringFlag(cmd, "output", &cfg.OutputFile); err != nil {
		return nil, err
	}
	if err := applyStringFlag(cmd, "db-dir", &cfg.DBDir); err != nil {
		return nil, err
	}
	if err := applyStringFlag(cmd, "log-file", &cfg.LogFile); err != nil {
		return nil, err
	}
	if err := applyDurationFlag(cmd, "timeout", &cfg.Timeout); err != nil {
		return nil, err
	}
	if err := applyDurationFlag(cmd, "delay", &cfg.CrawlDelay); err != nil {
		return nil, err
	}

	cfg.FailOnEmpty, err = cmd.Flags().GetBool("fail-empty")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownSummary, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// applyStringFlag copies the flag value to dst. Flags left at their
// default do not override a value set by the config file, except where
// the config file has no corresponding field.
func applyStringFlag(cmd *cobra.Command, name string, dst *string) error {
	if !cmd.Flags().Changed(name) && *dst != "" {
		return nil
	}
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return err
	}
	*dst = value
	return nil
}

// applyDurationFlag copies the flag value to dst unless the flag was
// left at its default and the config file already set a value.
func applyDurationFlag(cmd *cobra.Command, name string, dst *time.Duration) error {
	if !cmd.Flags().Changed(name) && *dst != 0 {
		return nil
	}
	value, err := cmd.Flags().GetDuration(name)
	if err != nil {
		return err
	}
	*dst = value
	return nil
}

// setupLogger creates the run logger. When a log file is configured the
// console output is duplicated there at debug level.
func setupLogger(cfg *config.Config) (*slog.Logger, io.Closer, error) {
	if cfg.LogFile != "" {
		return log.NewFileLogger(os.Stderr, cfg.LogFile, cfg.Verbose)
	}
	return log.NewLogger(os.Stderr, cfg.Verbose), nil, nil
}

// runScrape executes the scrape pipeline and prints the run summary.
func runScrape(ctx context.Context, cfg *config.Config, logger *slog.Logger, summaryOut io.Writer) error {
	logger.Info("starting scrape",
		"listing", cfg.ListingURL(),
		"output", cfg.OutputFile,
		"delay", cfg.CrawlDelay,
	)

	client := fetch.New(
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithAcceptLanguage(cfg.AcceptLanguage),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
	)

	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddSteps(
		pipeline.NewRetailerListStep(client, cfg,
			pipeline.WithFailOnEmpty(cfg.FailOnEmpty),
			pipeline.WithRetailerListLogger(logger)),
		pipeline.NewScrapeRetailersStep(client, cfg,
			pipeline.WithScrapeLogger(logger)),
	)
	if cfg.DBDir != "" {
		p.AddStep(pipeline.NewSaveHistoryStep(cfg.DBDir, logger))
	}
	p.AddStep(pipeline.NewWriteOutputStep(cfg.OutputFile, logger))

	run := model.NewRunReport(time.Now())
	if err := p.Execute(ctx, run); err != nil {
		return err
	}

	return writeSummary(cfg, run, summaryOut)
}

// writeSummary prints the run summary in the configured format.
func writeSummary(cfg *config.Config, run *model.RunReport, out io.Writer) error {
	var w report.Writer
	if cfg.MarkdownSummary {
		w = report.NewMarkdownWriter(out)
	} else {
		w = report.NewSimpleWriter(out, report.WithWarnings(cfg.Verbose))
	}

	_, err := w.Write(run)
	return err
}
