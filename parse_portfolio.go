package smartbroker

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const portfolioPage = "depot holdings"

// depotCurrency is the portal's reporting currency. Individual positions
// may be quoted in another currency, but the account level is always EUR.
const depotCurrency = "EUR"

// The holdings table carries one header row, one position row per holding,
// and a trailing summary row. Each position row has four cells:
//
//	cell 0: <a>name</a> plus two <div class="bez"> with wkn and amount
//	cell 1: purchase block, spans: currency, date, _, quote, value
//	cell 2: quote block, spans: currency, <strong>quote</strong>
//	cell 3: valuation block, spans: <strong>value</strong>, _, p/l abs, _, _, p/l pct
//
// The span order is fixed by the portal's renderer; a shorter span list is
// a layout change.
func parsePortfolio(body, accountNumber string) (SecuritiesAccount, error) {
	var depot SecuritiesAccount

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return depot, &ParseError{Page: portfolioPage, Detail: "invalid html", Err: err}
	}

	table := doc.Find("table#depotOverviewTable")
	if table.Length() == 0 {
		return depot, &ParseError{Page: portfolioPage, Detail: "table #depotOverviewTable not found"}
	}
	rows := table.Find("tr")
	if rows.Length() < 2 {
		return depot, &ParseError{Page: portfolioPage, Detail: fmt.Sprintf("holdings table has %d rows, want a header and a summary at least", rows.Length())}
	}

	positions := make([]Position, 0, rows.Length()-2)
	var rowErr error
	rows.Slice(1, rows.Length()-1).EachWithBreak(func(i int, row *goquery.Selection) bool {
		position, err := parsePositionRow(row)
		if err != nil {
			rowErr = fmt.Errorf("position row %d: %w", i+1, err)
			return false
		}
		positions = append(positions, position)
		return true
	})
	if rowErr != nil {
		return depot, rowErr
	}

	balance, profitLossAbs, profitLossPct, err := parseSummaryRow(rows.Last())
	if err != nil {
		return depot, err
	}

	return SecuritiesAccount{
		Number:        accountNumber,
		Currency:      depotCurrency,
		Balance:       balance,
		ProfitLossAbs: profitLossAbs,
		ProfitLossPct: profitLossPct,
		Positions:     positions,
	}, nil
}

func parsePositionRow(row *goquery.Selection) (Position, error) {
	var p Position

	cells := row.Find("td")
	if cells.Length() < 4 {
		return p, &ParseError{Page: portfolioPage, Detail: fmt.Sprintf("position row has %d cells, want 4", cells.Length())}
	}

	// cell 0: name, wkn, amount
	name := cells.Eq(0).Find("a")
	if name.Length() == 0 {
		return p, &ParseError{Page: portfolioPage, Detail: "position row has no name link"}
	}
	p.Name = strings.TrimSpace(name.First().Text())

	labels := cells.Eq(0).Find("div.bez")
	if labels.Length() < 2 {
		return p, &ParseError{Page: portfolioPage, Detail: fmt.Sprintf("position %q has %d label divs, want 2", p.Name, labels.Length())}
	}
	p.WKN = labels.Eq(0).Text()

	var err error
	p.Amount, err = ParseDecimal(strings.ReplaceAll(labels.Eq(1).Text(), "Stück", ""))
	if err != nil {
		return p, fmt.Errorf("position %q amount: %w", p.Name, err)
	}

	// cell 1: purchase block
	buy := cells.Eq(1).Find("span")
	if buy.Length() < 5 {
		return p, &ParseError{Page: portfolioPage, Detail: fmt.Sprintf("position %q has %d purchase spans, want 5", p.Name, buy.Length())}
	}
	p.BuyQuoteCurrency = buy.Eq(0).Text()
	p.BuyDate = buy.Eq(1).Text()
	if p.BuyQuote, err = ParseDecimal(buy.Eq(3).Text()); err != nil {
		return p, fmt.Errorf("position %q buy quote: %w", p.Name, err)
	}
	if p.BuyValue, err = ParseDecimal(buy.Eq(4).Text()); err != nil {
		return p, fmt.Errorf("position %q buy value: %w", p.Name, err)
	}

	// cell 2: current quote block
	quote := cells.Eq(2).Find("span")
	if quote.Length() < 2 {
		return p, &ParseError{Page: portfolioPage, Detail: fmt.Sprintf("position %q has %d quote spans, want 2", p.Name, quote.Length())}
	}
	p.QuoteCurrency = quote.Eq(0).Text()
	if p.Quote, err = ParseDecimal(quote.Eq(1).Find("strong").Text()); err != nil {
		return p, fmt.Errorf("position %q quote: %w", p.Name, err)
	}

	// cell 3: valuation block
	value := cells.Eq(3).Find("span")
	if value.Length() < 6 {
		return p, &ParseError{Page: portfolioPage, Detail: fmt.Sprintf("position %q has %d valuation spans, want 6", p.Name, value.Length())}
	}
	if p.Value, err = ParseDecimal(value.Eq(0).Find("strong").Text()); err != nil {
		return p, fmt.Errorf("position %q value: %w", p.Name, err)
	}
	if p.ProfitLossAbs, err = ParseDecimal(value.Eq(2).Text()); err != nil {
		return p, fmt.Errorf("position %q profit/loss: %w", p.Name, err)
	}
	if p.ProfitLossPct, err = ParseDecimal(strings.ReplaceAll(value.Eq(5).Text(), "%", "")); err != nil {
		return p, fmt.Errorf("position %q profit/loss percent: %w", p.Name, err)
	}

	return p, nil
}

// parseSummaryRow reads the trailing summary row: overall balance and
// profit/loss, each span prefixed with a currency or percent label.
func parseSummaryRow(row *goquery.Selection) (balance, profitLossAbs, profitLossPct float64, err error) {
	spans := row.Find("span")
	if spans.Length() < 3 {
		return 0, 0, 0, &ParseError{Page: portfolioPage, Detail: fmt.Sprintf("summary row has %d spans, want 3", spans.Length())}
	}
	if balance, err = ParseDecimal(strings.ReplaceAll(spans.Eq(0).Text(), depotCurrency, "")); err != nil {
		return 0, 0, 0, fmt.Errorf("summary balance: %w", err)
	}
	if profitLossAbs, err = ParseDecimal(strings.ReplaceAll(spans.Eq(1).Text(), depotCurrency, "")); err != nil {
		return 0, 0, 0, fmt.Errorf("summary profit/loss: %w", err)
	}
	if profitLossPct, err = ParseDecimal(strings.ReplaceAll(spans.Eq(2).Text(), "%", "")); err != nil {
		return 0, 0, 0, fmt.Errorf("summary profit/loss percent: %w", err)
	}
	return balance, profitLossAbs, profitLossPct, nil
}
