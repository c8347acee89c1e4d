package renderer

import (
	"github.com/jkoenig/smartbroker"
)

// Depot is the view model behind the holdings report.
type Depot struct {
	Number        string
	Date          string
	Rows          []PositionRow
	Balance       string
	ProfitLossAbs string
	ProfitLossPct string
}

type PositionRow struct {
	Name          string
	WKN           string
	Amount        string
	BuyQuote      string
	BuyDate       string
	Quote         string
	Value         string
	ProfitLossAbs string
	ProfitLossPct string
}

// PortfolioMarkdown renders one depot with its positions and the summary
// line.
func PortfolioMarkdown(date smartbroker.Date, depot smartbroker.SecuritiesAccount) string {
	view := Depot{
		Number:        depot.Number,
		Date:          date.String(),
		Balance:       smartbroker.M(depot.Balance, depot.Currency).String(),
		ProfitLossAbs: smartbroker.M(depot.ProfitLossAbs, depot.Currency).SignedString(),
		ProfitLossPct: smartbroker.Percent(depot.ProfitLossPct).SignedString(),
	}
	for _, p := range depot.Positions {
		view.Rows = append(view.Rows, PositionRow{
			Name:          p.Name,
			WKN:           p.WKN,
			Amount:        p.AmountString(),
			BuyQuote:      smartbroker.M(p.BuyQuote, p.BuyQuoteCurrency).String(),
			BuyDate:       p.BuyDate,
			Quote:         smartbroker.M(p.Quote, p.QuoteCurrency).String(),
			Value:         smartbroker.M(p.Value, p.QuoteCurrency).String(),
			ProfitLossAbs: smartbroker.M(p.ProfitLossAbs, p.QuoteCurrency).SignedString(),
			ProfitLossPct: smartbroker.Percent(p.ProfitLossPct).SignedString(),
		})
	}
	return renderTemplate("portfolio.md", view)
}
