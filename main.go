package main

import (
	"fmt"
	"os"

	"github.com/dtnitsch/llm-doc-ranker/internal/analyze"
	dbcmd "github.com/dtnitsch/llm-doc-ranker/internal/db"
	"github.com/dtnitsch/llm-doc-ranker/internal/runs"
	"github.com/dtnitsch/llm-doc-ranker/pkg/help"
	"github.com/urfave/cli/v2"
)

// dbFlag is shared by every command that touches the run history.
func dbFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "db",
		Usage: "path to the history database (default: next to the binary)",
	}
}

func main() {
	app := &cli.App{
		Name:  "llm-doc-ranker",
		Usage: "rank document sections for a persona and job, with a budgeted local model",
		Commands: []*cli.Command{
			{
				Name:  "analyze",
				Usage: "extract, score and rank sections from an input directory",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "input",
						Aliases: []string{"i"},
						Value:   ".",
						Usage:   "directory containing the input documents",
					},
					&cli.StringFlag{
						Name:  "config",
						Usage: "run spec JSON with persona, job and document list",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "result file path (default: " + analyze.DefaultOutputName + ")",
					},
					&cli.StringFlag{
						Name:  "model-url",
						Usage: "base URL of an OpenAI-compatible completion endpoint",
					},
					&cli.StringFlag{
						Name:  "model",
						Usage: "model name at the endpoint",
					},
					&cli.StringFlag{
						Name:  "model-timeout",
						Value: "120s",
						Usage: "per-call timeout; a timed-out call falls back, never retries",
					},
					&cli.IntFlag{
						Name:  "budget",
						Value: 4,
						Usage: "maximum model calls for the whole run",
					},
					&cli.IntFlag{
						Name:  "workers",
						Value: 4,
						Usage: "concurrent document extraction workers",
					},
					&cli.StringFlag{
						Name:  "cache-dir",
						Value: ".ldr-cache",
						Usage: "directory for cached model responses",
					},
					&cli.StringFlag{
						Name:  "cache-max-age",
						Value: "168h",
						Usage: "how long cached model responses stay valid",
					},
					&cli.BoolFlag{
						Name:  "no-llm-cache",
						Usage: "disable the model response cache",
					},
					&cli.BoolFlag{
						Name:  "debug-artifacts",
						Usage: "write the full scored section list as YAML next to the result",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "only log errors",
					},
					dbFlag(),
				},
				Action: analyze.AnalyzeAction,
			},
			{
				Name:  "runs",
				Usage: "inspect recorded analyze runs",
				Subcommands: []*cli.Command{
					{
						Name:  "list",
						Usage: "list recent runs",
						Flags: []cli.Flag{
							&cli.IntFlag{
								Name:  "limit",
								Value: 20,
								Usage: "maximum runs to show",
							},
							dbFlag(),
						},
						Action: runs.ListRunsAction,
					},
					{
						Name:  "query",
						Usage: "list runs matching filters",
						Flags: []cli.Flag{
							&cli.BoolFlag{
								Name:  "today",
								Usage: "only runs recorded today",
							},
							&cli.BoolFlag{
								Name:  "fallback",
								Usage: "only runs that used the fallback persona",
							},
							&cli.StringFlag{
								Name:  "doc",
								Usage: "only runs that analyzed a matching document name",
							},
							dbFlag(),
						},
						Action: runs.QueryRunsAction,
					},
					{
						Name:      "show",
						Usage:     "show one run in detail (latest when no ID given)",
						ArgsUsage: "[run_id]",
						Flags: []cli.Flag{
							&cli.BoolFlag{
								Name:  "yaml",
								Usage: "machine-readable YAML instead of the human layout",
							},
							&cli.StringFlag{
								Name:  "fields",
								Usage: "comma-separated fields to include (implies YAML)",
							},
							&cli.BoolFlag{
								Name:  "terse",
								Usage: "abbreviated field names in --fields output",
							},
							&cli.StringFlag{
								Name:  "filter",
								Usage: `section filter, e.g. "score:>=7,level:H1|H2,doc:guide.pdf"`,
							},
							dbFlag(),
						},
						Action: runs.ShowRunAction,
					},
					{
						Name:      "output",
						Usage:     "print the result JSON a run produced",
						ArgsUsage: "[run_id]",
						Flags:     []cli.Flag{dbFlag()},
						Action:    runs.OutputAction,
					},
				},
			},
			{
				Name:  "db",
				Usage: "run history database utilities",
				Subcommands: []*cli.Command{
					{
						Name:   "init",
						Usage:  "initialize the database schema",
						Flags:  []cli.Flag{dbFlag()},
						Action: dbcmd.InitAction,
					},
					{
						Name:   "stats",
						Usage:  "show table row counts",
						Flags:  []cli.Flag{dbFlag()},
						Action: dbcmd.StatsAction,
					},
					{
						Name:  "clear",
						Usage: "delete all recorded runs",
						Flags: []cli.Flag{
							&cli.BoolFlag{
								Name:  "force",
								Usage: "skip the confirmation prompt",
							},
							dbFlag(),
						},
						Action: dbcmd.ClearAction,
					},
				},
			},
			{
				Name:  "coldstart",
				Usage: "print machine-readable quick-start notes",
				Action: func(c *cli.Context) error {
					fmt.Print(help.ColdstartYAML)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
