package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/flyerhub/prospektor/internal/config"
	"github.com/flyerhub/prospektor/internal/database"
	"github.com/flyerhub/prospektor/internal/fetch"
	"github.com/flyerhub/prospektor/internal/model"
	"github.com/flyerhub/prospektor/internal/normalize"
	"github.com/flyerhub/prospektor/internal/report"
	"github.com/flyerhub/prospektor/internal/scrape"
)

// ErrNoRetailers is returned by RetailerListStep when the landing page
// contains no retailer links and the run is configured to treat that as
// a failure.
var ErrNoRetailers = errors.New("landing page listed no retailers")

// RetailerListStep fetches the aggregator landing page and extracts the
// retailer list into the report.
//
// A landing page fetch failure is fatal: without the retailer list the
// run has nothing to do. An empty retailer list is not fatal by default
// because it usually means a site redesign rather than an outage; the
// run still produces an empty output artifact unless failOnEmpty is set.
type RetailerListStep struct {
	// client fetches the landing page.
	client *fetch.Client

	// cfg provides the landing page URL.
	cfg *config.Config

	// failOnEmpty turns an empty retailer list into a fatal error.
	failOnEmpty bool

	// logger for structured logging.
	logger *slog.Logger
}

// RetailerListStepOption configures a RetailerListStep.
type RetailerListStepOption func(*RetailerListStep)

// WithFailOnEmpty makes an empty retailer list abort the run.
func WithFailOnEmpty(fail bool) RetailerListStepOption {
	return func(s *RetailerListStep) {
		s.failOnEmpty = fail
	}
}

// WithRetailerListLogger sets a custom logger for the step.
func WithRetailerListLogger(logger *slog.Logger) RetailerListStepOption {
	return func(s *RetailerListStep) {
		s.logger = logger
	}
}

// NewRetailerListStep creates a step that populates the report's
// retailer list from the landing page.
func NewRetailerListStep(client *fetch.Client, cfg *config.Config, opts ...RetailerListStepOption) *RetailerListStep {
	s := &RetailerListStep{
		client: client,
		cfg:    cfg,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *RetailerListStep) Name() string {
	return "retailer_list"
}

// Do fetches the landing page and extracts retailer links.
func (s *RetailerListStep) Do(ctx context.Context, run *model.RunReport) error {
	listingURL := s.cfg.ListingURL()

	s.logger.Info("fetching landing page", "url", listingURL)

	body, err := s.client.Fetch(ctx, listingURL)
	if err != nil {
		return fmt.Errorf("failed to fetch landing page: %w", err)
	}

	retailers, warnings, err := scrape.Retailers(body, s.cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to parse landing page: %w", err)
	}

	run.AddWarnings(warnings...)
	for _, w := range warnings {
		s.logger.Warn("landing page anomaly", "kind", w.Kind, "detail", w.Detail)
	}

	run.Retailers = retailers
	if len(retailers) == 0 {
		run.EmptyRetailerList = true
		s.logger.Warn("landing page listed no retailers", "url", listingURL)
		if s.failOnEmpty {
			return ErrNoRetailers
		}
		return nil
	}

	s.logger.Info("retailers found", "count", len(retailers))
	return nil
}

// ScrapeRetailersStep visits every retailer page in listing order,
// extracts its flyer cards, and normalizes them into brochure records.
//
// Retailer pages are fetched sequentially with a fixed delay between
// requests. A fetch failure on one retailer skips that retailer and
// continues with the rest; parse anomalies become report warnings.
type ScrapeRetailersStep struct {
	// client fetches retailer pages.
	client *fetch.Client

	// cfg provides the crawl delay and the shop skip list.
	cfg *config.Config

	// logger for structured logging.
	logger *slog.Logger

	// now supplies the current time, replaceable in tests.
	now func() time.Time
}

// ScrapeRetailersStepOption configures a ScrapeRetailersStep.
type ScrapeRetailersStepOption func(*ScrapeRetailersStep)

// WithScrapeLogger sets a custom logger for the step.
func WithScrapeLogger(logger *slog.Logger) ScrapeRetailersStepOption {
	return func(s *ScrapeRetailersStep) {
		s.logger = logger
	}
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) ScrapeRetailersStepOption {
	return func(s *ScrapeRetailersStep) {
		s.now = now
	}
}

// NewScrapeRetailersStep creates the per-retailer scraping step.
func NewScrapeRetailersStep(client *fetch.Client, cfg *config.Config, opts ...ScrapeRetailersStepOption) *ScrapeRetailersStep {
	s := &ScrapeRetailersStep{
		client: client,
		cfg:    cfg,
		logger: slog.Default(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *ScrapeRetailersStep) Name() string {
	return "scrape_retailers"
}

// Do scrapes every retailer page and accumulates records in the report.
// The report's record order follows the landing page's retailer order,
// and within a retailer the page's card order.
func (s *ScrapeRetailersStep) Do(ctx context.Context, run *model.RunReport) error {
	first := true
	for _, retailer := range run.Retailers {
		if s.cfg.SkipShop(retailer.Name) {
			s.logger.Debug("retailer excluded by configuration", "shop", retailer.Name)
			run.RetailersSkipped++
			continue
		}

		if !first {
			if err := s.delay(ctx); err != nil {
				return err
			}
		}
		first = false

		s.logger.Info("scraping retailer", "shop", retailer.Name, "url", retailer.URL)

		body, err := s.client.Fetch(ctx, retailer.URL)
		if err != nil {
			// Context cancellation aborts the whole run; a single slow
			// or broken retailer page only skips that retailer.
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Warn("retailer fetch failed, skipping",
				"shop", retailer.Name,
				"url", retailer.URL,
				"error", err,
			)
			run.RetailersSkipped++
			continue
		}

		raws, warnings, err := scrape.Brochures(body, retailer.Name, s.cfg.BaseURL)
		if err != nil {
			s.logger.Warn("retailer page unparsable, skipping",
				"shop", retailer.Name,
				"error", err,
			)
			run.RetailersSkipped++
			continue
		}

		run.AddWarnings(warnings...)
		for _, w := range warnings {
			s.logger.Debug("card anomaly", "shop", w.Shop, "kind", w.Kind, "detail", w.Detail)
		}

		now := s.now()
		for _, raw := range raws {
			record, recordWarnings := normalize.Record(raw, now)
			run.AddWarnings(recordWarnings...)
			for _, w := range recordWarnings {
				s.logger.Debug("normalize anomaly", "shop", w.Shop, "kind", w.Kind, "detail", w.Detail)
			}
			run.Records = append(run.Records, record)
		}

		run.RetailersProcessed++
		s.logger.Info("retailer scraped", "shop", retailer.Name, "records", len(raws))
	}

	run.FinishedAt = s.now()
	return nil
}

// delay waits for the configured crawl delay or until the context is done.
func (s *ScrapeRetailersStep) delay(ctx context.Context) error {
	if s.cfg.CrawlDelay <= 0 {
		return nil
	}

	timer := time.NewTimer(s.cfg.CrawlDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// SaveHistoryStep persists the finished run to the run history database.
//
// History storage is optional: when no database directory is configured
// the step is simply not added to the pipeline. A storage failure is not
// fatal because the output artifact is the primary deliverable; the
// failure is logged and the run continues.
type SaveHistoryStep struct {
	// dbDir is the directory holding the history database.
	dbDir string

	// logger for structured logging.
	logger *slog.Logger
}

// NewSaveHistoryStep creates a step that stores the run in dbDir.
func NewSaveHistoryStep(dbDir string, logger *slog.Logger) *SaveHistoryStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &SaveHistoryStep{dbDir: dbDir, logger: logger}
}

// Name returns the step name.
func (s *SaveHistoryStep) Name() string {
	return "save_history"
}

// Do saves the run and its records to the history database.
func (s *SaveHistoryStep) Do(ctx context.Context, run *model.RunReport) error {
	db, err := database.Open(s.dbDir, database.DefaultOptions())
	if err != nil {
		s.logger.Warn("run history unavailable", "dir", s.dbDir, "error", err)
		return nil
	}
	defer db.Close() //nolint:errcheck // read-only cleanup

	runID, err := db.SaveRun(ctx, run)
	if err != nil {
		s.logger.Warn("failed to save run history", "error", err)
		return nil
	}

	s.logger.Debug("run history saved", "run_id", runID)
	return nil
}

// WriteOutputStep writes the run's records to the JSON output artifact.
//
// This is the final, load-bearing step: a write failure fails the run
// because without the artifact the run produced no usable output.
type WriteOutputStep struct {
	// path is the output file path.
	path string

	// logger for structured logging.
	logger *slog.Logger
}

// NewWriteOutputStep creates a step that writes the output artifact to path.
func NewWriteOutputStep(path string, logger *slog.Logger) *WriteOutputStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &WriteOutputStep{path: path, logger: logger}
}

// Name returns the step name.
func (s *WriteOutputStep) Name() string {
	return "write_output"
}

// Do writes the output artifact, replacing any previous file.
func (s *WriteOutputStep) Do(_ context.Context, run *model.RunReport) error {
	if err := report.WriteFile(s.path, run); err != nil {
		return err
	}

	s.logger.Info("output written", "path", s.path, "records", len(run.Records))
	return nil
}
