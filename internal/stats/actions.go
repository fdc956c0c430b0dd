package stats

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/ahollis/ratingstats/models"
	"github.com/ahollis/ratingstats/pkg/db"
	"github.com/urfave/cli/v2"
)

// RunAction is the `run` command: discover, extract in parallel, reduce,
// print the (mean, stddev) tuple to stdout, and record the run.
func RunAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	config, err := buildConfig(c)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	var database *db.DB
	if !c.Bool("no-db") {
		database, err = db.Open()
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(2)
		}
		defer database.Close()
	}

	summary, runErr := run(logger, config)

	if database != nil && summary != nil {
		recordRun(logger, database, config, summary)
	}

	if runErr != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", runErr), 1)
	}

	if len(summary.Failures) > 0 {
		fmt.Fprintf(os.Stderr, "Skipped %d of %d documents:\n", len(summary.Failures), summary.FileCount)
		for _, f := range summary.Failures {
			fmt.Fprintf(os.Stderr, "  [%s] %v\n", f.ErrorType, f.Err)
		}
	}

	// The tuple is the only thing written to stdout.
	fmt.Printf("(%g, %g)\n", summary.Result.Mean, summary.Result.StdDev)
	return nil
}

// buildConfig merges defaults, an optional YAML profile, and CLI flags.
// Flags win over the profile; the profile wins over defaults.
func buildConfig(c *cli.Context) (*models.RunConfig, error) {
	config := &models.RunConfig{
		Field:       models.DefaultField,
		WorkerCount: runtime.NumCPU(),
	}

	if c.IsSet("config") {
		profile, err := models.LoadConfig(c.String("config"))
		if err != nil {
			return nil, err
		}
		if profile.Root != "" {
			config.Root = profile.Root
		}
		if profile.Field != "" {
			config.Field = profile.Field
		}
		if profile.WorkerCount > 0 {
			config.WorkerCount = profile.WorkerCount
		}
		config.SkipBad = profile.SkipBad
	}

	if c.IsSet("root") {
		config.Root = c.String("root")
	} else if c.Args().Len() > 0 {
		config.Root = c.Args().First()
	}
	if c.IsSet("field") {
		config.Field = c.String("field")
	}
	if c.IsSet("workers") {
		config.WorkerCount = c.Int("workers")
	}
	if c.IsSet("skip-bad") {
		config.SkipBad = c.Bool("skip-bad")
	}

	if config.Root == "" {
		return nil, fmt.Errorf("no root directory given (use --root, a positional argument, or a config profile)")
	}
	return config, nil
}

// recordRun persists the run and its per-document failures.
func recordRun(logger *slog.Logger, database *db.DB, config *models.RunConfig, summary *Summary) {
	var mean, stddev *float64
	if summary.Result != nil {
		mean = &summary.Result.Mean
		stddev = &summary.Result.StdDev
	}

	runID, err := database.InsertRun(config.Root, config.Field, config.WorkerCount,
		summary.FileCount, summary.SuccessCount, len(summary.Failures), mean, stddev, summary.Duration)
	if err != nil {
		logger.Warn("Failed to record run", "error", err)
		return
	}

	for _, f := range summary.Failures {
		if err := database.InsertRunFailure(runID, f.Path, f.ErrorType, f.Err.Error()); err != nil {
			logger.Warn("Failed to record run failure", "run_id", runID, "path", f.Path, "error", err)
		}
	}
	logger.Info("Recorded run", "run_id", runID)
}
