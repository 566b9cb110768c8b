package portfolio

import "fmt"

// DailyRecord is one trading day of a ticker.
type DailyRecord struct {
	Date                   Date
	Open, High, Low, Close float64
	Volume                 float64
}

// newDailyRecord builds a record from an [open, high, low, close, volume] vector.
func newDailyRecord(on Date, v []float64) (DailyRecord, error) {
	if len(v) != 5 {
		return DailyRecord{}, fmt.Errorf("%w: %v has %d values, want 5", ErrMalformedData, on, len(v))
	}
	return DailyRecord{Date: on, Open: v[0], High: v[1], Low: v[2], Close: v[3], Volume: v[4]}, nil
}

// Price returns the closing or the opening price.
func (r DailyRecord) Price(atClosing bool) float64 {
	if atClosing {
		return r.Close
	}
	return r.Open
}

// PriceSource provides the full daily history of a ticker.
//
// Each date maps to an [open, high, low, close, volume] vector.
// A ticker it cannot resolve yields an error or an empty result.
type PriceSource interface {
	Fetch(ticker string) (map[Date][]float64, error)
}

// PriceSourceFunc is an adapter to use an ordinary function as a PriceSource.
type PriceSourceFunc func(ticker string) (map[Date][]float64, error)

// Fetch calls f(ticker).
func (f PriceSourceFunc) Fetch(ticker string) (map[Date][]float64, error) { return f(ticker) }
