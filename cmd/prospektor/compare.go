package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/flyerhub/prospektor/internal/config"
	"github.com/flyerhub/prospektor/internal/database"
	"github.com/flyerhub/prospektor/internal/model"
)

// NewCompareCmd creates the compare command.
// This command diffs the two most recent runs stored in the history database.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the two most recent runs",
		Long: `Compare shows what changed between the two most recent scrape runs.

It reads the run history database and lists, per retailer:
- New brochures that appeared since the previous run
- Brochures that disappeared since the previous run

The comparison requires at least two stored runs. Use 'prospektor scrape'
to perform runs; each run is stored automatically unless --db-dir is
set to an empty string.

Examples:
  # Diff the two most recent runs
  prospektor compare

  # List stored runs instead of diffing
  prospektor compare --list

  # Use a non-default database directory
  prospektor compare --db-dir /var/lib/prospektor`,
		Args: cobra.NoArgs,
		RunE: runCompareCmd,
	}

	cmd.Flags().BoolP("list", "l", false,
		"List stored runs instead of comparing")
	cmd.Flags().Int("limit", 10,
		"Maximum number of runs to list with --list")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Run history database directory")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, _ []string) error {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}

	// The database must already exist: compare never creates history.
	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("no run history found (run 'prospektor scrape' first): %w", err)
	}
	defer db.Close() //nolint:errcheck // read-only cleanup

	ctx := context.Background()

	list, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if list {
		limit, err := cmd.Flags().GetInt("limit")
		if err != nil {
			return err
		}
		return listRuns(ctx, db, limit, cmd.OutOrStdout())
	}

	return compareLatestRuns(ctx, db, cmd.OutOrStdout())
}

// listRuns prints metadata for the most recent stored runs.
func listRuns(ctx context.Context, db *database.RunDB, limit int, out io.Writer) error {
	runs, err := db.RecentRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No stored runs. Use 'prospektor scrape' to create one.")
		return nil
	}

	fmt.Fprintf(out, "%-6s %-20s %-10s %-10s %-8s %-9s\n",
		"ID", "STARTED", "RETAILERS", "PROCESSED", "RECORDS", "WARNINGS")
	for _, run := range runs {
		fmt.Fprintf(out, "%-6d %-20s %-10d %-10d %-8d %-9d\n",
			run.ID,
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.RetailersFound,
			run.RetailersProcessed,
			run.RecordCount,
			run.WarningCount,
		)
	}

	return nil
}

// runDiff holds the per-shop changes between two runs.
type runDiff struct {
	// appeared are records present in the newer run only.
	appeared []model.BrochureRecord

	// disappeared are records present in the older run only.
	disappeared []model.BrochureRecord
}

// diffRecords computes the symmetric difference between two record sets.
// Records are matched by shop, title, and validity window; thumbnails and
// parse times are ignored so a re-hosted image does not count as a change.
func diffRecords(older, newer []model.BrochureRecord) runDiff {
	olderKeys := make(map[string]bool, len(older))
	for _, record := range older {
		olderKeys[record.Key()] = true
	}
	newerKeys := make(map[string]bool, len(newer))
	for _, record := range newer {
		newerKeys[record.Key()] = true
	}

	var diff runDiff
	for _, record := range newer {
		if !olderKeys[record.Key()] {
			diff.appeared = append(diff.appeared, record)
		}
	}
	for _, record := range older {
		if !newerKeys[record.Key()] {
			diff.disappeared = append(diff.disappeared, record)
		}
	}

	return diff
}

// compareLatestRuns diffs the two most recent runs and prints the result.
func compareLatestRuns(ctx context.Context, db *database.RunDB, out io.Writer) error {
	runs, err := db.RecentRuns(ctx, 2)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) < 2 {
		return fmt.Errorf("need at least 2 stored runs to compare, have %d", len(runs))
	}

	newest, previous := runs[0], runs[1]

	newerRecords, err := db.RecordsForRun(ctx, newest.ID)
	if err != nil {
		return fmt.Errorf("failed to load run %d: %w", newest.ID, err)
	}
	olderRecords, err := db.RecordsForRun(ctx, previous.ID)
	if err != nil {
		return fmt.Errorf("failed to load run %d: %w", previous.ID, err)
	}

	diff := diffRecords(olderRecords, newerRecords)

	fmt.Fprintf(out, "Comparing run %d (%s) against run %d (%s)\n\n",
		newest.ID, newest.StartedAt.Format(time.RFC3339),
		previous.ID, previous.StartedAt.Format(time.RFC3339),
	)

	if len(diff.appeared) == 0 && len(diff.disappeared) == 0 {
		fmt.Fprintln(out, "No changes.")
		return nil
	}

	if len(diff.appeared) > 0 {
		fmt.Fprintf(out, "New brochures (%d):\n", len(diff.appeared))
		for _, record := range diff.appeared {
			fmt.Fprintf(out, "  + %s: %s (%s to %s)\n",
				record.ShopName, record.Title, record.ValidFrom, record.ValidTo)
		}
		fmt.Fprintln(out)
	}

	if len(diff.disappeared) > 0 {
		fmt.Fprintf(out, "Disappeared brochures (%d):\n", len(diff.disappeared))
		for _, record := range diff.disappeared {
			fmt.Fprintf(out, "  - %s: %s (%s to %s)\n",
				record.ShopName, record.Title, record.ValidFrom, record.ValidTo)
		}
	}

	return nil
}
