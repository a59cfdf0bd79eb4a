package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/flyerhub/prospektor/internal/config"
	"github.com/flyerhub/prospektor/internal/database"
	"github.com/flyerhub/prospektor/internal/model"
	"github.com/flyerhub/prospektor/internal/pipeline"
)

// parseScrapeFlags builds a scrape command and parses the given flags.
func parseScrapeFlags(t *testing.T, args ...string) *config.Config {
	t.Helper()

	cmd := NewScrapeCmd()
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}

	cfg, err := buildConfig(cmd)
	if err != nil {
		t.Fatalf("failed to build config: %v", err)
	}
	return cfg
}

// TestBuildConfig tests flag and config file handling.
func TestBuildConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := parseScrapeFlags(t)

		if cfg.BaseURL != config.DefaultBaseURL {
			t.Errorf("unexpected base URL: %q", cfg.BaseURL)
		}
		if cfg.OutputFile != config.DefaultOutputFile {
			t.Errorf("unexpected output file: %q", cfg.OutputFile)
		}
		if cfg.Timeout != config.DefaultTimeout {
			t.Errorf("unexpected timeout: %v", cfg.Timeout)
		}
		if cfg.DBDir != config.XDGDataDir() {
			t.Errorf("unexpected db dir: %q", cfg.DBDir)
		}
		if cfg.FailOnEmpty {
			t.Error("expected fail-empty to default to false")
		}
	})

	t.Run("flags override defaults", func(t *testing.T) {
		cfg := parseScrapeFlags(t,
			"--base-url", "https://example.test",
			"-o", "/tmp/out.json",
			"-t", "5s",
			"--delay", "0s",
			"--fail-empty",
		)

		if cfg.BaseURL != "https://example.test" {
			t.Errorf("unexpected base URL: %q", cfg.BaseURL)
		}
		if cfg.OutputFile != "/tmp/out.json" {
			t.Errorf("unexpected output file: %q", cfg.OutputFile)
		}
		if cfg.Timeout != 5*time.Second {
			t.Errorf("unexpected timeout: %v", cfg.Timeout)
		}
		if cfg.CrawlDelay != 0 {
			t.Errorf("unexpected delay: %v", cfg.CrawlDelay)
		}
		if !cfg.FailOnEmpty {
			t.Error("expected fail-empty to be set")
		}
	})

	t.Run("config file applies over defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".prospektor")
		content := "output: /data/brochures.json\ncrawl_delay: 3s\nskip_shops:\n  - Globus\n"
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("write config: %v", err)
		}

		cfg := parseScrapeFlags(t, "-c", path)

		if cfg.OutputFile != "/data/brochures.json" {
			t.Errorf("unexpected output file: %q", cfg.OutputFile)
		}
		if cfg.CrawlDelay != 3*time.Second {
			t.Errorf("unexpected delay: %v", cfg.CrawlDelay)
		}
		if !cfg.SkipShop("Globus") {
			t.Error("expected Globus in skip list")
		}
	})

	t.Run("explicit flag beats config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".prospektor")
		if err := os.WriteFile(path, []byte("output: /data/brochures.json\n"), 0600); err != nil {
			t.Fatalf("write config: %v", err)
		}

		cfg := parseScrapeFlags(t, "-c", path, "-o", "/tmp/cli.json")

		if cfg.OutputFile != "/tmp/cli.json" {
			t.Errorf("expected flag to win, got %q", cfg.OutputFile)
		}
	})

	t.Run("missing explicit config file is an error", func(t *testing.T) {
		cmd := NewScrapeCmd()
		if err := cmd.ParseFlags([]string{"-c", "/nonexistent/.prospektor"}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		if _, err := buildConfig(cmd); err == nil {
			t.Error("expected error for missing config file")
		}
	})
}

// scrapeTestServer serves a landing page with one working and one failing
// retailer.
func scrapeTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case config.DefaultListingPath:
			_, _ = io.WriteString(w, `<ul class="list-unstyled categories">
				<li><a href="/retailer-a/">Retailer A</a></li>
				<li><a href="/retailer-b/">Retailer B</a></li>
			</ul>`)
		case "/retailer-a/":
			_, _ = io.WriteString(w, `<div class="brochure-thumb">
				<strong>Weekly Offers</strong>
				<img class="lazyloadBrochure" data-src="/img/flyer1.jpg">
				<small class="visible-sm">15.03.2025 - 21.03.2025</small>
			</div>`)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(server.Close)

	return server
}

// TestRunScrape tests the full scrape flow end to end.
func TestRunScrape(t *testing.T) {
	server := scrapeTestServer(t)

	outputPath := filepath.Join(t.TempDir(), "brochures.json")
	dbDir := t.TempDir()

	cfg := config.NewConfig()
	cfg.BaseURL = server.URL
	cfg.OutputFile = outputPath
	cfg.DBDir = dbDir
	cfg.CrawlDelay = 0
	cfg.Timeout = 2 * time.Second

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var summary bytes.Buffer

	if err := runScrape(context.Background(), cfg, logger, &summary); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("writes the output artifact", func(t *testing.T) {
		data, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatalf("read output: %v", err)
		}

		var records []model.BrochureRecord
		if err := json.Unmarshal(data, &records); err != nil {
			t.Fatalf("output is not a record array: %v", err)
		}
		if len(records) != 1 || records[0].Title != "Weekly Offers" {
			t.Errorf("unexpected records: %+v", records)
		}
	})

	t.Run("stores the run in history", func(t *testing.T) {
		db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("open history database: %v", err)
		}
		defer db.Close()

		runs, err := db.RecentRuns(context.Background(), 1)
		if err != nil {
			t.Fatalf("list runs: %v", err)
		}
		if len(runs) != 1 || runs[0].RecordCount != 1 {
			t.Errorf("unexpected stored runs: %+v", runs)
		}
	})

	t.Run("prints the summary", func(t *testing.T) {
		output := summary.String()
		if !strings.Contains(output, "Retailers processed: 1") {
			t.Errorf("expected processed count in summary:\n%s", output)
		}
		if !strings.Contains(output, "Retailers skipped:   1") {
			t.Errorf("expected skipped count in summary:\n%s", output)
		}
	})
}

// TestRunScrape_FailOnEmpty tests the fail-empty behavior.
func TestRunScrape_FailOnEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "<html><body></body></html>")
	}))
	defer server.Close()

	cfg := config.NewConfig()
	cfg.BaseURL = server.URL
	cfg.OutputFile = filepath.Join(t.TempDir(), "brochures.json")
	cfg.CrawlDelay = 0
	cfg.Timeout = 2 * time.Second
	cfg.FailOnEmpty = true

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := runScrape(context.Background(), cfg, logger, io.Discard)
	if err == nil {
		t.Fatal("expected error for empty retailer list")
	}
	if !strings.Contains(err.Error(), pipeline.ErrNoRetailers.Error()) {
		t.Errorf("expected no-retailers error, got %v", err)
	}
}

// TestRunScrape_EmptyListWritesEmptyArray tests the default empty-list path.
func TestRunScrape_EmptyListWritesEmptyArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "<html><body></body></html>")
	}))
	defer server.Close()

	outputPath := filepath.Join(t.TempDir(), "brochures.json")

	cfg := config.NewConfig()
	cfg.BaseURL = server.URL
	cfg.OutputFile = outputPath
	cfg.CrawlDelay = 0
	cfg.Timeout = 2 * time.Second

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var summary bytes.Buffer

	if err := runScrape(context.Background(), cfg, logger, &summary); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != "[]" {
		t.Errorf("expected empty array, got %q", got)
	}
	if !strings.Contains(summary.String(), "no retailers") {
		t.Errorf("expected empty-list note in summary:\n%s", summary.String())
	}
}

// TestWriteSummary_Markdown tests the markdown summary format.
func TestWriteSummary_Markdown(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.MarkdownSummary = true

	run := model.NewRunReport(time.Now())
	run.FinishedAt = time.Now()

	var buf bytes.Buffer
	if err := writeSummary(cfg, run, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "# Prospektor Run Summary") {
		t.Errorf("expected markdown header, got %q", buf.String())
	}
}
