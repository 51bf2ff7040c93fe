// Package cli implements the clashscan command line.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	// Flags.
	flagDebug   = "debug"
	flagLogFile = "log-file"
	flagWorkers = "workers"
	flagHistory = "history"
	flagLimit   = "limit"

	// Exit codes of check.
	exitCollision = 1
	exitFailure   = 2
)

var app = &cli.App{
	Name:            "clashscan",
	Usage:           "check robot cell programs for collisions",
	HideHelpCommand: true,
	Commands: []*cli.Command{
		{
			Name:      "check",
			Usage:     "scan the program of a job file for collisions",
			ArgsUsage: "<job>",
			Description: `Exits 0 when the program is clear, 1 on a collision and 2 when a waypoint is unreachable
or the job is invalid.`,
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:    flagDebug,
					Aliases: []string{"vvv"},
					Usage:   "enable debug logging",
				},
				&cli.PathFlag{
					Name:  flagLogFile,
					Usage: "also write logs to `FILE`, rotated",
				},
				&cli.IntFlag{
					Name:  flagWorkers,
					Usage: "segments scanned concurrently, overrides the job",
				},
				&cli.PathFlag{
					Name:  flagHistory,
					Usage: "record the result in the history database at `FILE`",
				},
			},
			Action: CheckAction,
		},
		{
			Name:      "history",
			Usage:     "list recorded scans, most recent first",
			ArgsUsage: "<db>",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  flagLimit,
					Value: 20,
					Usage: "number of scans to list, 0 for all",
				},
			},
			Action: HistoryAction,
		},
		{
			Name:   "schema",
			Usage:  "print the JSON schema of job files",
			Action: SchemaAction,
		},
	},
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
