package smartbroker

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// This file persists scrape results in a JSONL history file, one snapshot
// per line, in a way that is still human-readable and git-friendly. Field
// order is kept stable so that consecutive scrapes diff cleanly.
//
// An account line is discriminated by its "kind" field, "cash" or "depot",
// mirroring the two concrete Account types.

// Snapshot is the result of one full scrape cycle: every in-scope account
// from the overview, with depots populated when portfolio detail was
// fetched.
type Snapshot struct {
	Date     Date
	Accounts []Account
}

const (
	kindCashJSON  = "cash"
	kindDepotJSON = "depot"
)

// jsonPosition is the wire form of a Position. To parse and write json, we
// use a dedicated local struct with tag annotation.
type jsonPosition struct {
	Name             string  `json:"name"`
	WKN              string  `json:"wkn"`
	Amount           float64 `json:"amount"`
	BuyQuote         float64 `json:"buyQuote"`
	BuyQuoteCurrency string  `json:"buyQuoteCurrency"`
	BuyValue         float64 `json:"buyValue"`
	BuyDate          string  `json:"buyDate"`
	Quote            float64 `json:"quote"`
	QuoteCurrency    string  `json:"quoteCurrency"`
	Value            float64 `json:"value"`
	ProfitLossAbs    float64 `json:"profitLossAbs"`
	ProfitLossPct    float64 `json:"profitLossPct"`
}

func toJSONPosition(p Position) jsonPosition   { return jsonPosition(p) }
func fromJSONPosition(p jsonPosition) Position { return Position(p) }

func marshalAccount(a Account) ([]byte, error) {
	var w jsonObjectWriter
	switch v := a.(type) {
	case CashAccount:
		w.Append("kind", kindCashJSON)
		w.Append("number", v.Number)
		w.Append("currency", v.Currency)
		w.Append("balance", v.Balance)
	case SecuritiesAccount:
		positions := make([]jsonPosition, 0, len(v.Positions))
		for _, p := range v.Positions {
			positions = append(positions, toJSONPosition(p))
		}
		w.Append("kind", kindDepotJSON)
		w.Append("number", v.Number)
		w.Append("currency", v.Currency)
		w.Append("balance", v.Balance)
		w.Append("profitLossAbs", v.ProfitLossAbs)
		w.Append("profitLossPct", v.ProfitLossPct)
		w.Append("positions", positions)
	default:
		return nil, fmt.Errorf("unknown account type %T", a)
	}
	return w.MarshalJSON()
}

func unmarshalAccount(line []byte) (Account, error) {
	var identifier struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(line, &identifier); err != nil {
		return nil, fmt.Errorf("could not identify account kind in %q: %w", string(line), err)
	}

	switch identifier.Kind {
	case kindCashJSON:
		var temp struct {
			Number   string  `json:"number"`
			Currency string  `json:"currency"`
			Balance  float64 `json:"balance"`
		}
		if err := json.Unmarshal(line, &temp); err != nil {
			return nil, err
		}
		return CashAccount{Number: temp.Number, Currency: temp.Currency, Balance: temp.Balance}, nil
	case kindDepotJSON:
		var temp struct {
			Number        string         `json:"number"`
			Currency      string         `json:"currency"`
			Balance       float64        `json:"balance"`
			ProfitLossAbs float64        `json:"profitLossAbs"`
			ProfitLossPct float64        `json:"profitLossPct"`
			Positions     []jsonPosition `json:"positions"`
		}
		if err := json.Unmarshal(line, &temp); err != nil {
			return nil, err
		}
		positions := make([]Position, 0, len(temp.Positions))
		for _, p := range temp.Positions {
			positions = append(positions, fromJSONPosition(p))
		}
		return SecuritiesAccount{
			Number:        temp.Number,
			Currency:      temp.Currency,
			Balance:       temp.Balance,
			ProfitLossAbs: temp.ProfitLossAbs,
			ProfitLossPct: temp.ProfitLossPct,
			Positions:     positions,
		}, nil
	default:
		return nil, fmt.Errorf("unknown account kind %q", identifier.Kind)
	}
}

// MarshalJSON renders the snapshot with a stable field order.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	accounts := make([]json.RawMessage, 0, len(s.Accounts))
	for _, a := range s.Accounts {
		raw, err := marshalAccount(a)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, raw)
	}
	var w jsonObjectWriter
	w.Append("on", s.Date)
	w.Append("accounts", accounts)
	return w.MarshalJSON()
}

func (s *Snapshot) UnmarshalJSON(line []byte) error {
	var temp struct {
		On       Date              `json:"on"`
		Accounts []json.RawMessage `json:"accounts"`
	}
	if err := json.Unmarshal(line, &temp); err != nil {
		return err
	}
	accounts := make([]Account, 0, len(temp.Accounts))
	for _, raw := range temp.Accounts {
		a, err := unmarshalAccount(raw)
		if err != nil {
			return err
		}
		accounts = append(accounts, a)
	}
	s.Date = temp.On
	s.Accounts = accounts
	return nil
}

// EncodeSnapshot writes one snapshot as a single JSONL line.
func EncodeSnapshot(w io.Writer, s Snapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("cannot encode snapshot: %w", err)
	}
	if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
		return fmt.Errorf("cannot write snapshot: %w", err)
	}
	return nil
}

// DecodeSnapshots reads a JSONL stream of snapshots in file order.
func DecodeSnapshots(r io.Reader) ([]Snapshot, error) {
	var snapshots []Snapshot
	scanner := bufio.NewScanner(r)
	// holdings lines grow with the number of positions
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var s Snapshot
		if err := json.Unmarshal(line, &s); err != nil {
			return nil, fmt.Errorf("format error on line %q: %w", string(line), err)
		}
		snapshots = append(snapshots, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return snapshots, nil
}

// AppendSnapshot appends one snapshot to the history file, creating it if
// needed.
func AppendSnapshot(filename string, s Snapshot) error {
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("cannot open snapshot file %q: %w", filename, err)
	}
	defer f.Close()
	return EncodeSnapshot(f, s)
}

// LoadSnapshots reads the whole history file. A missing file is not an
// error: it decodes as an empty history.
func LoadSnapshots(filename string) ([]Snapshot, error) {
	f, err := os.Open(filename)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open snapshot file %q: %w", filename, err)
	}
	defer f.Close()
	return DecodeSnapshots(f)
}
