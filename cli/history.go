package cli

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"
	goutils "go.viam.com/utils"

	"github.com/cellsafe/clashscan/config"
	"github.com/cellsafe/clashscan/history"
)

// HistoryAction lists the scans recorded in the database given as the first argument.
func HistoryAction(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return cli.Exit("history takes exactly one database file", exitFailure)
	}
	store, err := history.Open(c.Args().First())
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}
	defer goutils.UncheckedErrorFunc(store.Close)

	entries, err := store.List(c.Context, c.Int(flagLimit))
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}
	if len(entries) == 0 {
		fmt.Fprintln(c.App.Writer, "no scans recorded")
		return nil
	}
	fmt.Fprintln(c.App.Writer, historyTable(entries))
	return nil
}

func historyTable(entries []history.Entry) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Recorded", "Run", "State", "Job", "Where", "Samples", "Elapsed"})
	for i, e := range entries {
		t.AppendRow(table.Row{
			i + 1,
			e.RecordedAt.Format(time.RFC3339),
			e.RunID,
			e.State,
			e.Job,
			e.Where(),
			e.Samples,
			e.Elapsed.Round(time.Microsecond),
		})
	}
	return t.Render()
}

// SchemaAction prints the JSON schema of job files.
func SchemaAction(c *cli.Context) error {
	data, err := config.Schema()
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}
	fmt.Fprintln(c.App.Writer, string(data))
	return nil
}
