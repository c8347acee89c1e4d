// Package tradegate fetches intraday quotes for German securities from the
// Tradegate exchange. Depot positions carry a WKN; Tradegate is queried by
// ISIN, so the package also derives the German ISIN from a WKN.
package tradegate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

const (
	refreshURL = "https://www.tradegate.de/refresh.php?isin="
	// this is not tradegate ;-)
	chartURL = "https://www.ls-tc.de/_rpc/json/instrument/chart/dataForInstrument?instrumentId=349938&series=intraday&type=mini"
)

// Source fetches quotes over an injected http.Client, owned by the caller.
type Source struct {
	client  *http.Client
	refresh string
	chart   string
}

// New returns a Source against the production endpoints.
func New(client *http.Client) *Source {
	return &Source{client: client, refresh: refreshURL, chart: chartURL}
}

// NewAt returns a Source against alternative endpoints, for testing against
// a recorded copy.
func NewAt(client *http.Client, refreshBase, chartAddr string) *Source {
	return &Source{client: client, refresh: refreshBase, chart: chartAddr}
}

// jwget performs an HTTP GET request and unmarshals the JSON response into
// the provided data structure.
func (s *Source) jwget(addr string, data any) error {
	resp, err := s.client.Get(addr)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return err
	}
	return json.Unmarshal(buf.Bytes(), data)
}

// Latest returns the last traded price for isin, in EUR. name is used in
// error messages only.
//
// The Tradegate API is weird: the value can be a float, a comma-decimal
// string, or the "./." placeholder when no trade happened yet, in which
// case the bid is used instead.
func (s *Source) Latest(name, isin string) (float64, error) {
	var jobj map[string]any
	if err := s.jwget(s.refresh+isin, &jobj); err != nil {
		return math.NaN(), fmt.Errorf("error retrieving %q: %w", name, err)
	}

	// last is the last transaction, moves slower than the bid, but the bid can be 0.
	jval := jobj["last"]
	if str, ok := jval.(string); ok && str == "./." {
		log.Println("'last' is empty, falling back to 'bid'")
		jval = jobj["bid"]
	}

	val, ok := jval.(float64)
	if !ok {
		// sometimes, this weird API returns the value as a string
		sval, ok := jval.(string)
		if !ok {
			return math.NaN(), fmt.Errorf("cannot read value from %q: neither a float nor a string", name)
		}
		sval = strings.ReplaceAll(sval, ",", ".")
		sval = strings.ReplaceAll(sval, " ", "")
		var err error
		val, err = strconv.ParseFloat(sval, 64)
		if err != nil {
			return math.NaN(), fmt.Errorf("cannot read value from %q: invalid string %q: %w", name, sval, err)
		}
	}
	if val == 0 {
		// sometimes the bid is empty and returns 0
		return math.NaN(), fmt.Errorf("empty bid for %s, no value to return: bidsize=%v", name, jobj["bidsize"])
	}
	return val, nil
}

// EURPerUSD returns the latest EUR/USD rate from the ls-tc.de intraday
// chart, for positions quoted in USD.
func (s *Source) EURPerUSD() (float64, error) {
	var jobj any
	if err := s.jwget(s.chart, &jobj); err != nil {
		return math.NaN(), fmt.Errorf("error in wget %q: %w", "EUR/USD", err)
	}
	path := "$.series.intraday.data[-1:][1]"
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return math.NaN(), fmt.Errorf("error parsing %q: %q %w", "EUR/USD", path, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1
	// answer, or a single answer: keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok {
		return math.NaN(), fmt.Errorf("error parsing %q: %q not a float: %v", "EUR/USD", path, jval)
	}
	return val, nil
}
