package smartbroker

import (
	"strings"
	"testing"
)

const portfolioFixture = `<html><body>
<table id="depotOverviewTable">
<tr><th>Bezeichnung</th><th>Einstand</th><th>Kurs</th><th>Wert</th></tr>
<tr>
  <td>
    <a href="#">Siemens AG</a>
    <div class="bez">723610</div>
    <div class="bez">10,0 St&#252;ck</div>
  </td>
  <td>
    <span>EUR</span><span>02.01.2024</span><span>Kauf</span><span>95,00</span><span>950,00</span>
  </td>
  <td>
    <span>EUR</span><span><strong>100,00</strong></span>
  </td>
  <td>
    <span><strong>1.000,00</strong></span><span>EUR</span><span>+50,00</span><span>EUR</span><span>davon</span><span>+5,00%</span>
  </td>
</tr>
<tr>
  <td colspan="4"><span>1.000,00 EUR</span><span>50,00 EUR</span><span>5,00%</span></td>
</tr>
</table>
</body></html>`

func TestParsePortfolio(t *testing.T) {
	depot, err := parsePortfolio(portfolioFixture, "70012345")
	if err != nil {
		t.Fatalf("parsePortfolio: %v", err)
	}

	if depot.Number != "70012345" {
		t.Errorf("account number = %q, want the requested key", depot.Number)
	}
	if depot.Currency != "EUR" {
		t.Errorf("currency = %q, want EUR", depot.Currency)
	}
	if depot.Balance != 1000 || depot.ProfitLossAbs != 50 || depot.ProfitLossPct != 5 {
		t.Errorf("summary = %v / %v / %v, want 1000 / 50 / 5", depot.Balance, depot.ProfitLossAbs, depot.ProfitLossPct)
	}

	if len(depot.Positions) != 1 {
		t.Fatalf("got %d positions, want 1", len(depot.Positions))
	}
	p := depot.Positions[0]
	if p.Name != "Siemens AG" {
		t.Errorf("name = %q", p.Name)
	}
	if p.WKN != "723610" {
		t.Errorf("wkn = %q", p.WKN)
	}
	if p.Amount != 10 {
		t.Errorf("amount = %v, want 10", p.Amount)
	}
	// "10,0 Stück" is integral and must render without a fraction
	if s := p.AmountString(); s != "10" {
		t.Errorf("amount string = %q, want \"10\"", s)
	}
	if p.BuyQuote != 95 || p.BuyValue != 950 || p.BuyQuoteCurrency != "EUR" || p.BuyDate != "02.01.2024" {
		t.Errorf("unexpected purchase block: %+v", p)
	}
	if p.Quote != 100 || p.QuoteCurrency != "EUR" || p.Value != 1000 {
		t.Errorf("unexpected valuation: %+v", p)
	}
	if p.ProfitLossAbs != 50 || p.ProfitLossPct != 5 {
		t.Errorf("position profit/loss = %v / %v, want 50 / 5", p.ProfitLossAbs, p.ProfitLossPct)
	}
}

func TestParsePortfolioFractionalAmount(t *testing.T) {
	page := strings.Replace(portfolioFixture, "10,0 St&#252;ck", "2,5 St&#252;ck", 1)
	depot, err := parsePortfolio(page, "1")
	if err != nil {
		t.Fatal(err)
	}
	p := depot.Positions[0]
	if p.Amount != 2.5 {
		t.Errorf("amount = %v, want 2.5", p.Amount)
	}
	if s := p.AmountString(); s != "2.5" {
		t.Errorf("amount string = %q, want \"2.5\"", s)
	}
}

func TestParsePortfolioEmptyDepot(t *testing.T) {
	page := `<table id="depotOverviewTable">
<tr><th>Bezeichnung</th></tr>
<tr><td><span>0,00 EUR</span><span>0,00 EUR</span><span>0,00%</span></td></tr>
</table>`
	depot, err := parsePortfolio(page, "1")
	if err != nil {
		t.Fatal(err)
	}
	if len(depot.Positions) != 0 {
		t.Errorf("got %d positions, want none", len(depot.Positions))
	}
	if depot.Balance != 0 {
		t.Errorf("balance = %v, want 0", depot.Balance)
	}
}

func TestParsePortfolioStructuralFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "no table", body: `<html><body>weg</body></html>`},
		{name: "only header", body: `<table id="depotOverviewTable"><tr><th>A</th></tr></table>`},
		{
			name: "unparseable quote",
			body: strings.Replace(portfolioFixture, "<strong>100,00</strong>", "<strong>hundert</strong>", 1),
		},
		{
			name: "missing purchase spans",
			body: strings.Replace(portfolioFixture,
				"<span>EUR</span><span>02.01.2024</span><span>Kauf</span><span>95,00</span><span>950,00</span>",
				"<span>EUR</span>", 1),
		},
		{
			name: "summary missing spans",
			body: strings.Replace(portfolioFixture,
				`<span>1.000,00 EUR</span><span>50,00 EUR</span><span>5,00%</span>`,
				`<span>1.000,00 EUR</span>`, 1),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parsePortfolio(tt.body, "1")
			if err == nil {
				t.Fatal("expected an error")
			}
			if !IsParseError(err) {
				t.Errorf("error is %T (%v), want *ParseError", err, err)
			}
		})
	}
}
