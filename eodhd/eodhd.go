// Package eodhd implements a portfolio.PriceSource on top of the eodhd.com end of day API.
package eodhd

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/pratheeshkumar99/portfolio"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is the address of the eodhd API.
const DefaultBaseURL = "https://eodhd.com"

// Source fetches the daily history of a ticker from eodhd.
//
// Tickers use the eodhd format "SYMBOL.EXCHANGE", e.g. "MCD.US".
type Source struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// Option configures a Source.
type Option func(*Source)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(base string) Option { return func(s *Source) { s.baseURL = base } }

// WithClient replaces the default client, that caches responses on disk for the day.
func WithClient(client *http.Client) Option { return func(s *Source) { s.client = client } }

// New returns a Source authenticated with apiKey. The "demo" key gives access to a few tickers.
func New(apiKey string, log zerolog.Logger, opts ...Option) *Source {
	s := &Source{apiKey: apiKey, baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		s.client = newDailyCachingClient(log.With().Str("component", "eodhd").Logger())
	}
	return s
}

var _ portfolio.PriceSource = (*Source)(nil)

// Fetch returns the full daily history of ticker as [open, high, low, close, volume] vectors.
func (s *Source) Fetch(ticker string) (map[portfolio.Date][]float64, error) {
	// https://eodhd.com/api/eod/MCD.US?api_token=demo&fmt=json
	// [
	//	{
	//		"date": "2024-02-13",
	//		"open": 675.066,
	//		"high": 684.219,
	//		"low": 648.659,
	//		"close": 668.445,
	//		"adjusted_close": 67.705,
	//		"volume": 0
	//	},
	addr := fmt.Sprintf("%s/api/eod/%s?fmt=json&api_token=%s", s.baseURL, url.PathEscape(ticker), url.QueryEscape(s.apiKey))
	type Info struct {
		Date   portfolio.Date `json:"date"`
		Open   float64        `json:"open"`
		High   float64        `json:"high"`
		Low    float64        `json:"low"`
		Close  float64        `json:"close"`
		Volume float64        `json:"volume"`
	}

	// that's the payload
	content := make([]Info, 0)
	if err := jwget(s.client, addr, &content); err != nil {
		return nil, fmt.Errorf("fetching %s prices: %w", ticker, err)
	}

	prices := make(map[portfolio.Date][]float64, len(content))
	for _, info := range content {
		prices[info.Date] = []float64{info.Open, info.High, info.Low, info.Close, info.Volume}
	}
	return prices, nil
}
