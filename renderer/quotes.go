package renderer

import (
	"github.com/jkoenig/smartbroker"
)

// Quote is one intraday quote next to the portal's last known one.
type Quote struct {
	Name   string
	WKN    string
	ISIN   string
	Portal float64 // quote as scraped from the holdings page
	Latest float64 // last traded price on Tradegate
}

type quotesView struct {
	Date string
	Rows []quoteRow
}

type quoteRow struct {
	Name   string
	ISIN   string
	Portal string
	Latest string
}

// QuotesMarkdown renders intraday quotes for held positions.
func QuotesMarkdown(date smartbroker.Date, quotes []Quote) string {
	view := quotesView{Date: date.String()}
	for _, q := range quotes {
		view.Rows = append(view.Rows, quoteRow{
			Name:   q.Name,
			ISIN:   q.ISIN,
			Portal: smartbroker.M(q.Portal, "EUR").String(),
			Latest: smartbroker.M(q.Latest, "EUR").String(),
		})
	}
	return renderTemplate("quotes.md", view)
}
