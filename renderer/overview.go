package renderer

import (
	"github.com/jkoenig/smartbroker"
)

// Overview is the view model behind the account overview report.
type Overview struct {
	Date string
	Rows []OverviewRow
	// Totals per currency, in first-seen order.
	Totals []string
}

type OverviewRow struct {
	Number  string
	Kind    string
	Balance string
	WinLoss string // signed percent, "-" for cash accounts
}

// OverviewMarkdown renders the account overview the way the portal lists
// it: one row per account, in portal order.
func OverviewMarkdown(date smartbroker.Date, accounts []smartbroker.Account) string {
	view := Overview{Date: date.String()}

	totals := map[string]smartbroker.Money{}
	var currencies []string

	for _, account := range accounts {
		var row OverviewRow
		var balance smartbroker.Money
		switch a := account.(type) {
		case smartbroker.SecuritiesAccount:
			balance = smartbroker.M(a.Balance, a.Currency)
			row = OverviewRow{
				Number:  a.Number,
				Kind:    "Depot",
				Balance: balance.String(),
				WinLoss: smartbroker.Percent(a.ProfitLossPct).SignedString(),
			}
		case smartbroker.CashAccount:
			balance = smartbroker.M(a.Balance, a.Currency)
			row = OverviewRow{
				Number:  a.Number,
				Kind:    "Verrechnungskonto",
				Balance: balance.String(),
				WinLoss: "-",
			}
		default:
			continue
		}
		if _, seen := totals[balance.Currency()]; !seen {
			currencies = append(currencies, balance.Currency())
		}
		totals[balance.Currency()] = totals[balance.Currency()].Add(balance)
		view.Rows = append(view.Rows, row)
	}

	for _, c := range currencies {
		view.Totals = append(view.Totals, totals[c].String())
	}

	return renderTemplate("overview.md", view)
}
