package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/google/subcommands"
	"github.com/jkoenig/smartbroker"
)

type fetchCmd struct{}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "scrapes everything and appends a snapshot to the history" }
func (*fetchCmd) Usage() string {
	return `sbk fetch

  Runs one full scrape cycle: login, account overview, holdings of every
  depot, logout. The result is appended as one snapshot line to the history
  file (see -snapshot-file).
`
}

func (*fetchCmd) SetFlags(f *flag.FlagSet) {}

func (c *fetchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var accounts []smartbroker.Account
	err := withSession(ctx, func(client *smartbroker.Client) error {
		var err error
		accounts, err = client.ListAccounts(ctx)
		if err != nil {
			return err
		}
		// replace each overview depot (empty positions) with the fully
		// populated one from its holdings page
		for i, account := range accounts {
			if account.Kind() != smartbroker.KindSecurities {
				continue
			}
			log.Printf("Fetching holdings of depot %s", account.AccountNumber())
			depot, err := client.ListPortfolio(ctx, account.AccountNumber())
			if err != nil {
				return err
			}
			accounts[i] = depot
		}
		return nil
	})
	if err != nil {
		return fail(err)
	}

	snapshot := smartbroker.Snapshot{Date: smartbroker.Today(), Accounts: accounts}
	if err := smartbroker.AppendSnapshot(*snapshotFile, snapshot); err != nil {
		return fail(err)
	}

	fmt.Printf("✅ Appended snapshot of %d accounts to %s\n", len(accounts), *snapshotFile)
	return subcommands.ExitSuccess
}
