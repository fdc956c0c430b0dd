package db

import (
	"fmt"
	"strconv"
	"strings"

	dbpkg "github.com/ahollis/ratingstats/pkg/db"
	"github.com/urfave/cli/v2"
)

// RunsAction lists recent runs from the history database.
func RunsAction(c *cli.Context) error {
	database, err := dbpkg.Open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	limit := c.Int("limit")
	runs, err := database.ListRuns(limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs found")
		return nil
	}

	fmt.Printf("%-6s %-20s %-10s %-8s %-8s %-12s %-12s %-10s\n",
		"ID", "Created", "Files", "OK", "Failed", "Mean", "StdDev", "Duration")
	fmt.Println(strings.Repeat("-", 92))

	for _, r := range runs {
		mean, stddev := "-", "-"
		if r.Mean.Valid {
			mean = fmt.Sprintf("%.4f", r.Mean.Float64)
		}
		if r.StdDev.Valid {
			stddev = fmt.Sprintf("%.4f", r.StdDev.Float64)
		}
		fmt.Printf("%-6d %-20s %-10d %-8d %-8d %-12s %-12s %-10s\n",
			r.RunID,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.FileCount,
			r.SuccessCount,
			r.FailedCount,
			mean,
			stddev,
			fmt.Sprintf("%dms", r.DurationMS),
		)
	}

	fmt.Printf("\nTotal: %d runs\n", len(runs))
	fmt.Printf("\nTip: Use 'ratingstats db run <id>' to see details\n")

	return nil
}

// RunAction shows one run, including its recorded per-document failures.
// With no argument it shows the latest run.
func RunAction(c *cli.Context) error {
	database, err := dbpkg.Open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	runID, err := runIDOrLatest(c, database)
	if err != nil {
		return err
	}

	run, err := database.GetRun(runID)
	if err != nil {
		return err
	}

	fmt.Printf("Run %d (%s)\n", run.RunID, run.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("  Root:     %s\n", run.Root)
	fmt.Printf("  Field:    %s\n", run.Field)
	fmt.Printf("  Workers:  %d\n", run.WorkerCount)
	fmt.Printf("  Files:    %d (%d ok, %d failed)\n", run.FileCount, run.SuccessCount, run.FailedCount)
	if run.Mean.Valid && run.StdDev.Valid {
		fmt.Printf("  Result:   (%g, %g)\n", run.Mean.Float64, run.StdDev.Float64)
	} else {
		fmt.Printf("  Result:   none (run failed)\n")
	}
	fmt.Printf("  Duration: %dms\n", run.DurationMS)

	failures, err := database.ListRunFailures(runID)
	if err != nil {
		return err
	}
	if len(failures) > 0 {
		fmt.Printf("\nFailures:\n")
		for _, f := range failures {
			fmt.Printf("  [%s] %s: %s\n", f.ErrorType, f.FilePath, f.Message)
		}
	}

	return nil
}

// runIDOrLatest resolves the run ID argument, falling back to the most
// recent run when the argument is omitted.
func runIDOrLatest(c *cli.Context, database *dbpkg.DB) (int64, error) {
	if c.Args().Len() == 0 {
		return database.GetLatestRunID()
	}

	runID, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid run ID %q: %w", c.Args().First(), err)
	}
	return runID, nil
}
