package smartbroker

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// The overview page renders every account as one row of a single table.
// A row looks like (simplified):
//
//	<tr id="1234567">
//	  <td>...</td><td>...</td>
//	  <td>Depot 1234567</td>
//	  ...
//	  <td><span id="currencySpan">EUR</span> <span id="amountSpan">1.234,56</span>
//	      <span id="winLossSpan">+5,00%</span></td>
//	</tr>
//
// Anything that does not match that shape is a layout change and must fail
// loudly, with one exception: account types outside Depot and
// Verrechnungskonto are expected and skipped.

const accountsPage = "account overview"

// accountHeaderColumns is the column count of the overview table header. A
// different count means the page layout changed and nothing on it can be
// trusted.
const accountHeaderColumns = 7

func parseAccountList(body string) ([]Account, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, &ParseError{Page: accountsPage, Detail: "invalid html", Err: err}
	}

	table := doc.Find("table#accountSectionTable")
	if table.Length() == 0 {
		return nil, &ParseError{Page: accountsPage, Detail: "table #accountSectionTable not found"}
	}
	rows := table.Find("tr")
	if rows.Length() < 1 {
		return nil, &ParseError{Page: accountsPage, Detail: "account table has no rows"}
	}
	if n := rows.First().Find("th").Length(); n != accountHeaderColumns {
		return nil, &ParseError{Page: accountsPage, Detail: fmt.Sprintf("header has %d columns, want %d", n, accountHeaderColumns)}
	}

	accounts := make([]Account, 0, rows.Length()-1)
	var rowErr error
	rows.Slice(1, rows.Length()).EachWithBreak(func(_ int, row *goquery.Selection) bool {
		account, ok, err := parseAccountRow(row)
		if err != nil {
			rowErr = err
			return false
		}
		if ok {
			accounts = append(accounts, account)
		}
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}
	return accounts, nil
}

// parseAccountRow reads one overview row. ok is false for account types
// outside scope; those rows are skipped, not errors.
func parseAccountRow(row *goquery.Selection) (account Account, ok bool, err error) {
	number, hasID := row.Attr("id")
	if !hasID || number == "" {
		return nil, false, &ParseError{Page: accountsPage, Detail: "account row has no id attribute"}
	}

	currency, err := spanText(row, "currencySpan", number)
	if err != nil {
		return nil, false, err
	}
	balanceText, err := spanText(row, "amountSpan", number)
	if err != nil {
		return nil, false, err
	}
	balance, err := ParseDecimal(balanceText)
	if err != nil {
		return nil, false, fmt.Errorf("account %s balance: %w", number, err)
	}

	// The win/loss span only exists for rows that have one; absence means 0.
	var profitLossPct float64
	if winLoss := row.Find("span#winLossSpan"); winLoss.Length() > 0 {
		profitLossPct, err = ParseDecimal(strings.ReplaceAll(winLoss.First().Text(), "%", ""))
		if err != nil {
			return nil, false, fmt.Errorf("account %s win/loss: %w", number, err)
		}
	}

	accountType := row.Find("td").Eq(2).Text()
	switch {
	case strings.HasPrefix(accountType, "Depot"):
		return SecuritiesAccount{
			Number:        number,
			Currency:      currency,
			Balance:       balance,
			ProfitLossAbs: deriveProfitLossAbs(profitLossPct, balance),
			ProfitLossPct: profitLossPct,
			Positions:     []Position{},
		}, true, nil
	case strings.HasPrefix(accountType, "Verrechnungskonto"):
		return CashAccount{Number: number, Currency: currency, Balance: balance}, true, nil
	default:
		// other account types exist on the portal but are out of scope
		return nil, false, nil
	}
}

// spanText returns the text of the row's span with the given id, failing
// with a *ParseError when the span is missing.
func spanText(row *goquery.Selection, id, accountNumber string) (string, error) {
	span := row.Find("span#" + id)
	if span.Length() == 0 {
		return "", &ParseError{Page: accountsPage, Detail: fmt.Sprintf("account %s has no span#%s", accountNumber, id)}
	}
	return span.First().Text(), nil
}
