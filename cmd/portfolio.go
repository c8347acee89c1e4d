package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/jkoenig/smartbroker"
	"github.com/jkoenig/smartbroker/renderer"
)

type portfolioCmd struct {
	account string
}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "lists the positions of one or all depots" }
func (*portfolioCmd) Usage() string {
	return `sbk portfolio [-a <account_number>]

  Logs in and scrapes the holdings page of the given depot. Without -a,
  every depot found on the overview is rendered.
`
}

func (c *portfolioCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Depot account number. All depots by default.")
}

func (c *portfolioCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var depots []smartbroker.SecuritiesAccount
	err := withSession(ctx, func(client *smartbroker.Client) error {
		numbers, err := c.depotNumbers(ctx, client)
		if err != nil {
			return err
		}
		for _, number := range numbers {
			depot, err := client.ListPortfolio(ctx, number)
			if err != nil {
				return err
			}
			depots = append(depots, depot)
		}
		return nil
	})
	if err != nil {
		return fail(err)
	}
	if len(depots) == 0 {
		return fail(fmt.Errorf("no depot found on the account overview"))
	}

	today := smartbroker.Today()
	for _, depot := range depots {
		printMarkdown(renderer.PortfolioMarkdown(today, depot))
	}
	return subcommands.ExitSuccess
}

// depotNumbers resolves the -a flag: either the explicit depot, or every
// depot listed on the overview.
func (c *portfolioCmd) depotNumbers(ctx context.Context, client *smartbroker.Client) ([]string, error) {
	if c.account != "" {
		return []string{c.account}, nil
	}
	accounts, err := client.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	var numbers []string
	for _, account := range accounts {
		if account.Kind() == smartbroker.KindSecurities {
			numbers = append(numbers, account.AccountNumber())
		}
	}
	return numbers, nil
}
