package main

import (
	"fmt"
	"os"

	dbcmd "github.com/ahollis/ratingstats/internal/db"
	"github.com/ahollis/ratingstats/internal/stats"
	"github.com/ahollis/ratingstats/pkg/help"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "ratingstats",
		Usage: "mean and standard deviation of a rating field across JSON documents",
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Extract ratings in parallel and print (mean, stddev)",
				ArgsUsage: "[root]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "root",
						Usage: "Root directory to scan for *.json documents",
					},
					&cli.StringFlag{
						Name:  "field",
						Usage: "Name of the numeric rating field",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Worker pool size (default: number of CPUs)",
					},
					&cli.BoolFlag{
						Name:  "skip-bad",
						Usage: "Skip unreadable/unparseable documents instead of failing the run",
					},
					&cli.StringFlag{
						Name:  "config",
						Usage: "YAML profile with root/field/workers/skip_bad",
					},
					&cli.BoolFlag{
						Name:  "no-db",
						Usage: "Do not record this run in the history database",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "Only log errors",
					},
				},
				Action: stats.RunAction,
			},
			{
				Name:  "db",
				Usage: "Inspect recorded run history",
				Subcommands: []*cli.Command{
					{
						Name:  "runs",
						Usage: "List recent runs",
						Flags: []cli.Flag{
							&cli.IntFlag{
								Name:  "limit",
								Usage: "Maximum number of runs to list",
								Value: 20,
							},
						},
						Action: dbcmd.RunsAction,
					},
					{
						Name:      "run",
						Usage:     "Show one run with its failures (latest when omitted)",
						ArgsUsage: "[run_id]",
						Action:    dbcmd.RunAction,
					},
				},
			},
			{
				Name:  "coldstart",
				Usage: "Print a machine-readable quick start",
				Action: func(c *cli.Context) error {
					fmt.Print(help.ColdstartYAML)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
