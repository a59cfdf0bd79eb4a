package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/flyerhub/prospektor/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *RunDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// testReport builds a finished run report with two records.
func testReport(start time.Time) *model.RunReport {
	report := model.NewRunReport(start)
	report.Retailers = []model.Retailer{
		{Name: "Retailer A", URL: "https://aggregator.test/a/"},
		{Name: "Retailer B", URL: "https://aggregator.test/b/"},
	}
	report.Records = []model.BrochureRecord{
		{
			Title:      "Weekly Offers",
			Thumbnail:  "https://aggregator.test/img1.jpg",
			ShopName:   "Retailer A",
			ValidFrom:  model.NewDate(2025, time.March, 15),
			ValidTo:    model.NewDate(2025, time.March, 21),
			ParsedTime: start,
		},
		{
			Title:      "Spring Deals",
			ShopName:   "Retailer B",
			ParsedTime: start,
		},
	}
	report.RetailersProcessed = 2
	report.FinishedAt = start.Add(time.Second)
	return report
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		dbPath := filepath.Join(dbDir, "prospektor.db")
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		opts := Options{
			CreateIfNotExists: false,
			EnableWAL:         true,
		}

		if _, err := Open(filepath.Join(t.TempDir(), "missing"), opts); err == nil {
			t.Error("expected error for missing database")
		}
	})
}

// TestSaveRun tests persisting a run and reading it back.
func TestSaveRun(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	start := time.Date(2025, time.March, 22, 10, 0, 0, 0, time.UTC)

	runID, err := db.SaveRun(ctx, testReport(start))
	if err != nil {
		t.Fatalf("failed to save run: %v", err)
	}
	if runID == 0 {
		t.Fatal("expected non-zero run id")
	}

	t.Run("run metadata round-trips", func(t *testing.T) {
		runs, err := db.RecentRuns(ctx, 10)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 1 {
			t.Fatalf("expected 1 run, got %d", len(runs))
		}

		meta := runs[0]
		if meta.ID != runID {
			t.Errorf("expected run id %d, got %d", runID, meta.ID)
		}
		if !meta.StartedAt.Equal(start) {
			t.Errorf("expected started_at %v, got %v", start, meta.StartedAt)
		}
		if meta.RetailersFound != 2 || meta.RetailersProcessed != 2 {
			t.Errorf("unexpected retailer counts: %+v", meta)
		}
		if meta.RecordCount != 2 {
			t.Errorf("expected 2 records, got %d", meta.RecordCount)
		}
	})

	t.Run("records round-trip including null fields", func(t *testing.T) {
		records, err := db.RecordsForRun(ctx, runID)
		if err != nil {
			t.Fatalf("failed to load records: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("expected 2 records, got %d", len(records))
		}

		complete := records[0]
		if complete.Title != "Weekly Offers" || complete.ShopName != "Retailer A" {
			t.Errorf("unexpected first record: %+v", complete)
		}
		if !complete.ValidFrom.Equal(model.NewDate(2025, time.March, 15)) {
			t.Errorf("unexpected valid_from: %v", complete.ValidFrom)
		}

		sparse := records[1]
		if sparse.Thumbnail != "" {
			t.Errorf("expected null thumbnail, got %q", sparse.Thumbnail)
		}
		if sparse.ValidFrom.Valid || sparse.ValidTo.Valid {
			t.Errorf("expected null dates, got %v / %v", sparse.ValidFrom, sparse.ValidTo)
		}
	})
}

// TestRecentRuns tests ordering and limit.
func TestRecentRuns(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	base := time.Date(2025, time.March, 20, 8, 0, 0, 0, time.UTC)
	for i := range 3 {
		if _, err := db.SaveRun(ctx, testReport(base.AddDate(0, 0, i))); err != nil {
			t.Fatalf("failed to save run %d: %v", i, err)
		}
	}

	runs, err := db.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if !runs[0].StartedAt.After(runs[1].StartedAt) {
		t.Errorf("expected newest run first, got %v then %v", runs[0].StartedAt, runs[1].StartedAt)
	}
}

// TestRecordsForRun_UnknownRun tests that an unknown run yields no records.
func TestRecordsForRun_UnknownRun(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)

	records, err := db.RecordsForRun(context.Background(), 999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}
