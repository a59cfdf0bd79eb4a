package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/flyerhub/prospektor/internal/model"
)

// RunDB provides SQLite-based storage for scrape run history.
// It manages connection pooling and provides methods for saving runs
// and querying past results.
//
// Design decision: We use a single database file for all runs rather
// than one file per run. This keeps run-to-run comparison a simple SQL
// query and makes backup a single-file copy.
type RunDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures RunDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a RunDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*RunDB, error) {
	dbPath := filepath.Join(dbDir, "prospektor.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &RunDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Close closes the database connection.
func (rdb *RunDB) Close() error {
	return rdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (rdb *RunDB) createTables() error {
	schema := `
	-- Runs store one row per scrape invocation
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL,
		retailers_found INTEGER NOT NULL,
		retailers_processed INTEGER NOT NULL,
		retailers_skipped INTEGER NOT NULL,
		warning_count INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- Brochures store the records produced by a run
	CREATE TABLE IF NOT EXISTS brochures (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		thumbnail TEXT,
		shop_name TEXT NOT NULL,
		valid_from TEXT,
		valid_to TEXT,
		parsed_time DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_brochures_run ON brochures(run_id);
	CREATE INDEX IF NOT EXISTS idx_brochures_shop ON brochures(shop_name);
	`

	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// RunMetadata contains summary information about a stored run.
type RunMetadata struct {
	// ID is the unique identifier of the run in the database.
	ID int64

	// StartedAt is when the run began.
	StartedAt time.Time

	// FinishedAt is when the run completed.
	FinishedAt time.Time

	// RetailersFound is the number of retailers on the landing page.
	RetailersFound int

	// RetailersProcessed is the number of retailer pages scraped.
	RetailersProcessed int

	// RetailersSkipped is the number of retailers whose pages were not
	// parsed, whether from fetch failures or configured exclusions.
	RetailersSkipped int

	// WarningCount is the number of parse warnings the run produced.
	WarningCount int

	// RecordCount is the number of brochure records the run produced.
	RecordCount int
}

// SaveRun persists a completed run and its records in one transaction.
// Returns the database ID of the new run.
func (rdb *RunDB) SaveRun(ctx context.Context, report *model.RunReport) (int64, error) {
	tx, err := rdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	result, err := tx.ExecContext(ctx, `
	INSERT INTO runs (started_at, finished_at, retailers_found, retailers_processed, retailers_skipped, warning_count)
	VALUES (?, ?, ?, ?, ?, ?)
	`,
		report.StartedAt.UTC().Format(time.RFC3339),
		report.FinishedAt.UTC().Format(time.RFC3339),
		len(report.Retailers),
		report.RetailersProcessed,
		report.RetailersSkipped,
		len(report.Warnings),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO brochures (run_id, title, thumbnail, shop_name, valid_from, valid_to, parsed_time)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare brochure insert: %w", err)
	}
	defer stmt.Close() //nolint:errcheck // read-only cleanup

	for _, record := range report.Records {
		_, err := stmt.ExecContext(ctx,
			runID,
			record.Title,
			nullableText(string(record.Thumbnail)),
			record.ShopName,
			nullableDate(record.ValidFrom),
			nullableDate(record.ValidTo),
			record.ParsedTime.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert brochure: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	return runID, nil
}

// RecentRuns returns metadata for the most recent runs, newest first.
func (rdb *RunDB) RecentRuns(ctx context.Context, limit int) ([]RunMetadata, error) {
	rows, err := rdb.db.QueryContext(ctx, `
	SELECT r.id, r.started_at, r.finished_at, r.retailers_found,
	       r.retailers_processed, r.retailers_skipped, r.warning_count,
	       (SELECT COUNT(*) FROM brochures b WHERE b.run_id = r.id)
	FROM runs r
	ORDER BY r.started_at DESC, r.id DESC
	LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var results []RunMetadata
	for rows.Next() {
		var meta RunMetadata
		var started, finished string

		if err := rows.Scan(
			&meta.ID,
			&started,
			&finished,
			&meta.RetailersFound,
			&meta.RetailersProcessed,
			&meta.RetailersSkipped,
			&meta.WarningCount,
			&meta.RecordCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		meta.StartedAt = parseTimestamp(started)
		meta.FinishedAt = parseTimestamp(finished)
		results = append(results, meta)
	}

	return results, rows.Err()
}

// RecordsForRun returns the brochure records stored for a run, in the
// order they were produced.
func (rdb *RunDB) RecordsForRun(ctx context.Context, runID int64) ([]model.BrochureRecord, error) {
	rows, err := rdb.db.QueryContext(ctx, `
	SELECT title, thumbnail, shop_name, valid_from, valid_to, parsed_time
	FROM brochures
	WHERE run_id = ?
	ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query brochures: %w", err)
	}
	defer rows.Close()

	var records []model.BrochureRecord
	for rows.Next() {
		var record model.BrochureRecord
		var thumbnail, validFrom, validTo sql.NullString
		var parsedTime string

		if err := rows.Scan(
			&record.Title,
			&thumbnail,
			&record.ShopName,
			&validFrom,
			&validTo,
			&parsedTime,
		); err != nil {
			return nil, fmt.Errorf("failed to scan brochure: %w", err)
		}

		record.Thumbnail = model.NullableString(thumbnail.String)
		record.ValidFrom = scanDate(validFrom)
		record.ValidTo = scanDate(validTo)
		record.ParsedTime = parseTimestamp(parsedTime)
		records = append(records, record)
	}

	return records, rows.Err()
}

// nullableText converts an empty string to SQL NULL.
func nullableText(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullableDate converts a null date to SQL NULL.
func nullableDate(d model.Date) sql.NullString {
	if !d.Valid {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

// scanDate converts a stored date column back to a model.Date.
// NULL and malformed values map to the null date.
func scanDate(s sql.NullString) model.Date {
	if !s.Valid {
		return model.Date{}
	}
	d, err := model.ParseDate(s.String)
	if err != nil {
		return model.Date{}
	}
	return d
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05", // SQLite default datetime format
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
