package model

import "time"

// RunReport accumulates results across one scrape run. It is created once
// per run and passed through the pipeline steps, which append to it.
//
// Design decision: We pass an explicit report value through the pipeline
// rather than holding accumulated state on a scraper instance. Each run
// owns its report, so concurrent or repeated runs never share state and
// tests can inspect a run in isolation.
type RunReport struct {
	// StartedAt is when the run began. Records carry their own capture
	// timestamp, stamped when their retailer page is normalized.
	StartedAt time.Time

	// Retailers is the de-duplicated retailer list from the landing page.
	Retailers []Retailer

	// Records holds all normalized brochure records, in retailer listing
	// order, then card order within each page.
	Records []BrochureRecord

	// Warnings holds every recoverable anomaly observed during the run.
	Warnings []Warning

	// RetailersProcessed counts retailers whose pages were fetched and
	// parsed successfully.
	RetailersProcessed int

	// RetailersSkipped counts retailers whose pages were not parsed:
	// fetch failures, unparsable pages, and configured shop exclusions.
	RetailersSkipped int

	// EmptyRetailerList is set when the landing page yielded zero
	// retailers. This is a distinct condition, not an error: the caller's
	// policy decides whether it aborts the run.
	EmptyRetailerList bool

	// FinishedAt is when the run completed. Zero until the run ends.
	FinishedAt time.Time
}

// NewRunReport creates a report for a run starting at the given time.
func NewRunReport(startedAt time.Time) *RunReport {
	return &RunReport{
		StartedAt: startedAt,
		Records:   make([]BrochureRecord, 0),
		Warnings:  make([]Warning, 0),
	}
}

// AddWarnings appends warnings to the report.
func (r *RunReport) AddWarnings(warnings ...Warning) {
	r.Warnings = append(r.Warnings, warnings...)
}

// Summary derives the run summary from the accumulated state.
func (r *RunReport) Summary() RunSummary {
	return RunSummary{
		StartedAt:          r.StartedAt,
		Duration:           r.FinishedAt.Sub(r.StartedAt),
		RetailersFound:     len(r.Retailers),
		RetailersProcessed: r.RetailersProcessed,
		RetailersSkipped:   r.RetailersSkipped,
		RecordsWritten:     len(r.Records),
		WarningCount:       len(r.Warnings),
		EmptyRetailerList:  r.EmptyRetailerList,
	}
}

// RunSummary is the caller-facing outcome of one run.
type RunSummary struct {
	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// Duration is the total run time.
	Duration time.Duration `json:"duration"`

	// RetailersFound is the number of retailers on the landing page
	// after de-duplication.
	RetailersFound int `json:"retailers_found"`

	// RetailersProcessed is the number of retailer pages parsed.
	RetailersProcessed int `json:"retailers_processed"`

	// RetailersSkipped is the number of retailers whose pages were not
	// parsed, whether from fetch failures or configured exclusions.
	RetailersSkipped int `json:"retailers_skipped"`

	// RecordsWritten is the number of brochure records in the output.
	RecordsWritten int `json:"records_written"`

	// WarningCount is the number of recoverable anomalies observed.
	WarningCount int `json:"warning_count"`

	// EmptyRetailerList reports the empty-landing-page condition.
	EmptyRetailerList bool `json:"empty_retailer_list"`
}
