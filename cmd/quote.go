package cmd

import (
	"context"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/google/subcommands"
	"github.com/jkoenig/smartbroker"
	"github.com/jkoenig/smartbroker/renderer"
	"github.com/jkoenig/smartbroker/tradegate"
)

type quoteCmd struct{}

func (*quoteCmd) Name() string     { return "quote" }
func (*quoteCmd) Synopsis() string { return "fetches intraday Tradegate quotes for held positions" }
func (*quoteCmd) Usage() string {
	return `sbk quote [<isin>...]

  Without arguments, logs in, collects every position held across all
  depots, and fetches the latest Tradegate price next to the portal's one.
  With explicit ISINs, skips the portal session entirely.
`
}

func (*quoteCmd) SetFlags(f *flag.FlagSet) {}

func (c *quoteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	source := tradegate.New(&http.Client{Timeout: 15 * time.Second})

	var quotes []renderer.Quote
	if f.NArg() > 0 {
		for _, isin := range f.Args() {
			latest, err := source.Latest(isin, isin)
			if err != nil {
				return fail(err)
			}
			quotes = append(quotes, renderer.Quote{Name: isin, ISIN: isin, Latest: latest})
		}
	} else {
		positions, err := c.heldPositions(ctx)
		if err != nil {
			return fail(err)
		}
		quotes, err = quotePositions(source, positions)
		if err != nil {
			return fail(err)
		}
	}

	printMarkdown(renderer.QuotesMarkdown(smartbroker.Today(), quotes))
	return subcommands.ExitSuccess
}

// heldPositions scrapes every depot and returns all positions, deduplicated
// by WKN.
func (c *quoteCmd) heldPositions(ctx context.Context) ([]smartbroker.Position, error) {
	var positions []smartbroker.Position
	err := withSession(ctx, func(client *smartbroker.Client) error {
		accounts, err := client.ListAccounts(ctx)
		if err != nil {
			return err
		}
		seen := map[string]bool{}
		for _, account := range accounts {
			if account.Kind() != smartbroker.KindSecurities {
				continue
			}
			depot, err := client.ListPortfolio(ctx, account.AccountNumber())
			if err != nil {
				return err
			}
			for _, p := range depot.Positions {
				if seen[p.WKN] {
					continue
				}
				seen[p.WKN] = true
				positions = append(positions, p)
			}
		}
		return nil
	})
	return positions, err
}

// quotePositions fetches one Tradegate quote per position. Tradegate trades
// in EUR; positions the portal quotes in USD are converted with the current
// rate so both columns compare.
func quotePositions(source *tradegate.Source, positions []smartbroker.Position) ([]renderer.Quote, error) {
	eurUSD := 0.0
	var quotes []renderer.Quote
	for _, p := range positions {
		isin, err := tradegate.ISINFromWKN(p.WKN)
		if err != nil {
			return nil, err
		}
		latest, err := source.Latest(p.Name, isin)
		if err != nil {
			// a single unquotable position must not kill the whole report
			log.Printf("warning: no Tradegate quote for %s (%s): %v", p.Name, isin, err)
			continue
		}
		if p.QuoteCurrency == "USD" {
			if eurUSD == 0 {
				if eurUSD, err = source.EURPerUSD(); err != nil {
					return nil, err
				}
			}
			latest *= eurUSD
		}
		quotes = append(quotes, renderer.Quote{
			Name:   p.Name,
			WKN:    p.WKN,
			ISIN:   isin,
			Portal: p.Quote,
			Latest: latest,
		})
	}
	return quotes, nil
}
