// Package yahoo implements a portfolio.PriceSource on top of the Yahoo Finance chart API.
package yahoo

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/go-resty/resty/v2"
	"github.com/pratheeshkumar99/portfolio"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is the address of the chart API.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// Source fetches the full daily history of a ticker from Yahoo Finance.
type Source struct {
	client *resty.Client
	log    zerolog.Logger
}

// New returns a Source querying baseURL, DefaultBaseURL if empty.
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Source {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", "curl/8")
	return &Source{client: client, log: log.With().Str("component", "yahoo").Logger()}
}

var _ portfolio.PriceSource = (*Source)(nil)

// Fetch returns the daily history of ticker as [open, high, low, close, volume] vectors.
//
// Days with a missing value are dropped.
func (s *Source) Fetch(ticker string) (map[portfolio.Date][]float64, error) {
	resp, err := s.client.R().
		SetHeader("Accept", "application/json").
		SetPathParam("ticker", ticker).
		SetQueryParams(map[string]string{"range": "max", "interval": "1d"}).
		Get("/v8/finance/chart/{ticker}")
	if err != nil {
		return nil, fmt.Errorf("fetching %s chart: %w", ticker, err)
	}
	s.log.Info().Msgf("%v %v %v", resp.Request.Method, resp.Request.URL, resp.Status())
	if resp.IsError() {
		return nil, fmt.Errorf("cannot http GET %s chart: %v", ticker, resp.Status())
	}

	var jobj any
	if err := json.Unmarshal(resp.Body(), &jobj); err != nil {
		return nil, fmt.Errorf("decoding %s chart: %w", ticker, err)
	}
	return parseChart(jobj)
}

// parseChart extracts the daily vectors from a chart payload:
//
//	{"chart": {"result": [{
//	    "meta": {"exchangeTimezoneName": "America/New_York", ...},
//	    "timestamp": [1704205800, ...],
//	    "indicators": {"quote": [{"open": [...], "high": [...], "low": [...], "close": [...], "volume": [...]}]}
//	}], "error": null}}
func parseChart(jobj any) (map[portfolio.Date][]float64, error) {
	const result = "$.chart.result[0]"
	timestamps, err := list(jobj, result+".timestamp")
	if err != nil {
		return nil, err
	}
	loc := time.UTC
	if tz, err := jsonpath.Get(result+".meta.exchangeTimezoneName", jobj); err == nil {
		if name, ok := tz.(string); ok {
			if l, err := time.LoadLocation(name); err == nil {
				loc = l
			}
		}
	}

	var columns [5][]any
	for i, field := range []string{"open", "high", "low", "close", "volume"} {
		if columns[i], err = list(jobj, result+".indicators.quote[0]."+field); err != nil {
			return nil, err
		}
	}

	prices := make(map[portfolio.Date][]float64, len(timestamps))
rows:
	for i, ts := range timestamps {
		sec, ok := ts.(float64)
		if !ok {
			continue
		}
		v := make([]float64, 5)
		for j, column := range columns {
			if i >= len(column) {
				continue rows
			}
			// null values are reported on days without trading
			if v[j], ok = column[i].(float64); !ok {
				continue rows
			}
		}
		prices[portfolio.NewDate(time.Unix(int64(sec), 0).In(loc).Date())] = v
	}
	return prices, nil
}

// list returns the array at path.
func list(jobj any, path string) ([]any, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error parsing chart: %q %w", path, err)
	}
	values, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("error parsing chart: %q is not a list: %v", path, jval)
	}
	return values, nil
}
