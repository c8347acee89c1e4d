package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/jkoenig/smartbroker"
	"github.com/jkoenig/smartbroker/renderer"
)

type historyCmd struct {
	start string
	end   string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "renders stored snapshots from the history file" }
func (*historyCmd) Usage() string {
	return `sbk history [-s <start_date>] [-d <end_date>]

  Renders the account overview of every stored snapshot in the given date
  range, oldest first. Dates are ISO (2024-03-15). No network access.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "s", "", "Only snapshots on or after this date.")
	f.StringVar(&c.end, "d", "", "Only snapshots on or before this date.")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	snapshots, err := smartbroker.LoadSnapshots(*snapshotFile)
	if err != nil {
		return fail(err)
	}

	var start, end smartbroker.Date
	if c.start != "" {
		if start, err = smartbroker.ParseDate(c.start); err != nil {
			return fail(err)
		}
	}
	if c.end != "" {
		if end, err = smartbroker.ParseDate(c.end); err != nil {
			return fail(err)
		}
	}

	rendered := 0
	for _, snapshot := range snapshots {
		if !start.IsZero() && snapshot.Date.Before(start) {
			continue
		}
		if !end.IsZero() && snapshot.Date.After(end) {
			continue
		}
		printMarkdown(renderer.OverviewMarkdown(snapshot.Date, snapshot.Accounts))
		rendered++
	}
	if rendered == 0 {
		return fail(fmt.Errorf("no snapshot in range in %q, run 'sbk fetch' first", *snapshotFile))
	}
	return subcommands.ExitSuccess
}
