package smartbroker

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// AccountKind discriminates the two account variants the portal lists.
type AccountKind int

const (
	// KindCash is a settlement account ("Verrechnungskonto").
	KindCash AccountKind = iota
	// KindSecurities is a depot holding tradable positions.
	KindSecurities
)

func (k AccountKind) String() string {
	if k == KindSecurities {
		return "depot"
	}
	return "cash"
}

// Account is one row of the portal's account overview. Exactly two concrete
// kinds exist: CashAccount and SecuritiesAccount. Downstream logic branches
// on the concrete type, never on anything implicit.
//
// Values are immutable snapshots: created per scrape cycle, discarded after
// consumption.
type Account interface {
	// AccountNumber is the portal-assigned identity key, never empty.
	AccountNumber() string
	Kind() AccountKind
}

// CashAccount is a plain settlement account.
type CashAccount struct {
	Number   string
	Currency string // 3-letter code
	Balance  float64
}

func (a CashAccount) AccountNumber() string { return a.Number }
func (a CashAccount) Kind() AccountKind     { return KindCash }

// SecuritiesAccount is a depot. The overview page yields it with empty
// Positions; ListPortfolio returns the same account fully populated.
type SecuritiesAccount struct {
	Number        string
	Currency      string
	Balance       float64
	ProfitLossAbs float64 // unrealized, in the account currency
	ProfitLossPct float64 // unrealized, percent of cost basis
	Positions     []Position
}

func (a SecuritiesAccount) AccountNumber() string { return a.Number }
func (a SecuritiesAccount) Kind() AccountKind     { return KindSecurities }

// Position is a single holding inside a depot. All numeric fields are
// parsed independently from the page; no cross-field arithmetic is checked,
// so any mismatch shown by the portal surfaces unchanged.
type Position struct {
	Name             string
	WKN              string
	Amount           float64
	BuyQuote         float64
	BuyQuoteCurrency string
	BuyValue         float64
	BuyDate          string // opaque, portal-local format
	Quote            float64
	QuoteCurrency    string
	Value            float64
	ProfitLossAbs    float64
	ProfitLossPct    float64
}

// AmountString renders the amount the way the portal does: integral share
// counts without a fraction, fractional ones with full precision.
func (p Position) AmountString() string {
	if p.Amount == float64(int64(p.Amount)) {
		return strconv.FormatInt(int64(p.Amount), 10)
	}
	return strconv.FormatFloat(p.Amount, 'f', -1, 64)
}

// deriveProfitLossAbs computes the absolute unrealized gain from the
// percentage and the current balance: pct*balance/(pct+100), rounded to two
// places. The overview page only shows the percentage, so the absolute value
// is reconstructed from it.
func deriveProfitLossAbs(pct, balance float64) float64 {
	divisor := decimal.NewFromFloat(pct).Add(decimal.NewFromInt(100))
	if divisor.IsZero() {
		// a 100% loss: the position is worth nothing
		return 0
	}
	return decimal.NewFromFloat(pct).
		Mul(decimal.NewFromFloat(balance)).
		Div(divisor).
		Round(2).
		InexactFloat64()
}
