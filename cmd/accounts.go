package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/jkoenig/smartbroker"
	"github.com/jkoenig/smartbroker/renderer"
)

type accountsCmd struct{}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "lists all accounts from the portal overview" }
func (*accountsCmd) Usage() string {
	return `sbk accounts

  Logs in, scrapes the account overview, and renders every in-scope account
  (depots and settlement accounts) with its current balance.
`
}

func (*accountsCmd) SetFlags(f *flag.FlagSet) {}

func (c *accountsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var accounts []smartbroker.Account
	err := withSession(ctx, func(client *smartbroker.Client) error {
		var err error
		accounts, err = client.ListAccounts(ctx)
		return err
	})
	if err != nil {
		return fail(err)
	}

	printMarkdown(renderer.OverviewMarkdown(smartbroker.Today(), accounts))
	return subcommands.ExitSuccess
}
