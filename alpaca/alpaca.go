// Package alpaca implements a portfolio.PriceSource on top of the Alpaca market data API.
package alpaca

import (
	"fmt"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/pratheeshkumar99/portfolio"
	"github.com/rs/zerolog"
)

// barsClient is the subset of *marketdata.Client used by Source.
type barsClient interface {
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
}

// DefaultStart is the earliest day requested when no start is configured.
var DefaultStart = time.Date(2016, time.January, 1, 0, 0, 0, 0, time.UTC)

// Source fetches split-adjusted daily bars from Alpaca.
type Source struct {
	client barsClient
	start  time.Time
	log    zerolog.Logger
}

// New returns a Source authenticated with an API key pair. An empty baseURL uses Alpaca's default.
func New(apiKey, apiSecret, baseURL string, log zerolog.Logger) *Source {
	client := marketdata.NewClient(marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
		BaseURL:   baseURL,
	})
	return &Source{client: client, start: DefaultStart, log: log.With().Str("component", "alpaca").Logger()}
}

var _ portfolio.PriceSource = (*Source)(nil)

// Fetch returns the daily bars of ticker as [open, high, low, close, volume] vectors.
func (s *Source) Fetch(ticker string) (map[portfolio.Date][]float64, error) {
	bars, err := s.client.GetBars(ticker, marketdata.GetBarsRequest{
		TimeFrame:  marketdata.OneDay,
		Adjustment: marketdata.Split,
		Start:      s.start,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s bars: %w", ticker, err)
	}
	s.log.Debug().Str("ticker", ticker).Int("bars", len(bars)).Msg("fetched daily bars")
	return fromBars(bars), nil
}

// newYork is where daily bars start: midnight in New York.
var newYork = func() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.UTC
	}
	return loc
}()

func fromBars(bars []marketdata.Bar) map[portfolio.Date][]float64 {
	prices := make(map[portfolio.Date][]float64, len(bars))
	for _, bar := range bars {
		on := portfolio.NewDate(bar.Timestamp.In(newYork).Date())
		prices[on] = []float64{bar.Open, bar.High, bar.Low, bar.Close, float64(bar.Volume)}
	}
	return prices
}
