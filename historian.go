package portfolio

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/rs/zerolog"
)

// PriceResolver resolves the price of a ticker on a given day.
type PriceResolver interface {
	// Currency returns the currency of every price.
	Currency() string
	// Value returns the closing (or opening) price of ticker on a given day.
	Value(ticker string, on Date, atClosing bool) (Money, error)
	// CheckStock checks that the transaction's ticker was traded on its date.
	CheckStock(tx StockTransaction) error
	// LatestWithin returns the latest price dated after start and on or before end.
	LatestWithin(ticker string, start, end Date, atClosing bool) (Date, Money, error)
	// IPO returns the first day with a price.
	IPO(ticker string) (Date, error)
	// LastDate returns the last day with a price.
	LastDate(ticker string) (Date, error)
	// Earliest returns the first price on or after a given day.
	Earliest(ticker string, on Date, atClosing bool) (Date, Money, error)
	// Closes returns the records within r, oldest first.
	Closes(ticker string, r Range) ([]DailyRecord, error)
}

// Historian is a lazy in-memory cache of daily prices.
//
// Each ticker is fetched from the source the first time it is referenced,
// and never again: failures are remembered as well as successes.
type Historian struct {
	source   PriceSource
	currency string
	clock    func() Date
	log      zerolog.Logger

	mu      sync.Mutex
	tickers map[string]*tickerCache
}

type tickerCache struct {
	once    sync.Once
	history History[DailyRecord]
	err     error
}

var _ PriceResolver = (*Historian)(nil)

// NewHistorian returns a Historian fetching prices from source.
func NewHistorian(source PriceSource, opts ...Option) *Historian {
	o := newOptions(opts)
	return &Historian{
		source:   source,
		currency: o.currency,
		clock:    o.clock,
		log:      o.log.With().Str("component", "historian").Logger(),
		tickers:  make(map[string]*tickerCache),
	}
}

// Currency returns the currency of all prices.
func (h *Historian) Currency() string { return h.currency }

// load returns the history of ticker, fetching it on first use.
func (h *Historian) load(ticker string) (*History[DailyRecord], error) {
	h.mu.Lock()
	c, ok := h.tickers[ticker]
	if !ok {
		c = new(tickerCache)
		h.tickers[ticker] = c
	}
	h.mu.Unlock()

	c.once.Do(func() {
		defer func() {
			if r := recover(); r != nil {
				h.log.Error().Str("ticker", ticker).Interface("panic", r).Msg("fetch panicked")
				c.err = fmt.Errorf("%w %q: source panicked: %v", ErrInvalidTicker, ticker, r)
			}
		}()
		c.err = h.fetch(ticker, &c.history)
	})
	if c.err != nil {
		return nil, c.err
	}
	return &c.history, nil
}

func (h *Historian) fetch(ticker string, history *History[DailyRecord]) error {
	h.log.Debug().Str("ticker", ticker).Msg("fetching prices")
	data, err := h.source.Fetch(ticker)
	if err != nil {
		h.log.Warn().Err(err).Str("ticker", ticker).Msg("fetch failed")
		return fmt.Errorf("%w %q: %w", ErrInvalidTicker, ticker, err)
	}
	if len(data) == 0 {
		h.log.Warn().Str("ticker", ticker).Msg("no prices")
		return fmt.Errorf("%w %q: no prices", ErrInvalidTicker, ticker)
	}

	var loaded History[DailyRecord]
	for _, on := range slices.SortedFunc(maps.Keys(data), Date.Compare) {
		rec, err := newDailyRecord(on, data[on])
		if err != nil {
			h.log.Warn().Err(err).Str("ticker", ticker).Msg("malformed prices")
			return fmt.Errorf("loading %q: %w", ticker, err)
		}
		loaded.Append(on, rec)
	}
	*history = loaded
	h.log.Debug().Str("ticker", ticker).Int("days", loaded.Len()).Msg("prices loaded")
	return nil
}

func (h *Historian) money(rec DailyRecord, atClosing bool) Money {
	return M(rec.Price(atClosing), h.currency)
}

// noData explains why history has no record on a given day.
func (h *Historian) noData(ticker string, on Date, history *History[DailyRecord]) error {
	first, _, _ := history.First()
	last, _, _ := history.Latest()
	err := &NoDataError{Ticker: ticker, On: on, Reason: ErrMarketClosed}
	switch {
	case on.Before(first):
		err.Reason = ErrNotYetListed
	case on.After(last) && on.Before(h.clock()):
		err.Reason = ErrDelisted
	case on.After(last):
		err.Reason = ErrNotYetAvailable
	}
	return err
}

// Value returns the closing (or opening) price of ticker on a given day.
//
// The error is ErrInvalidTicker if the ticker cannot be resolved, or a *NoDataError.
func (h *Historian) Value(ticker string, on Date, atClosing bool) (Money, error) {
	history, err := h.load(ticker)
	if err != nil {
		return Money{}, err
	}
	rec, ok := history.Get(on)
	if !ok {
		return Money{}, h.noData(ticker, on, history)
	}
	return h.money(rec, atClosing), nil
}

// CheckStock checks that the transaction's ticker had a closing price on its date.
func (h *Historian) CheckStock(tx StockTransaction) error {
	_, err := h.Value(tx.Ticker(), tx.On(), true)
	return err
}

// LatestWithin returns the latest day strictly after start and on or before end, and its price.
func (h *Historian) LatestWithin(ticker string, start, end Date, atClosing bool) (Date, Money, error) {
	history, err := h.load(ticker)
	if err != nil {
		return Date{}, Money{}, err
	}
	on, rec, ok := history.LatestWithin(start, end)
	if !ok {
		return Date{}, Money{}, fmt.Errorf("%w for %s in (%v, %v]", ErrNoDataInRange, ticker, start, end)
	}
	return on, h.money(rec, atClosing), nil
}

// IPO returns the first day with a price for ticker.
func (h *Historian) IPO(ticker string) (Date, error) {
	history, err := h.load(ticker)
	if err != nil {
		return Date{}, err
	}
	on, _, _ := history.First()
	return on, nil
}

// LastDate returns the last day with a price for ticker.
func (h *Historian) LastDate(ticker string) (Date, error) {
	history, err := h.load(ticker)
	if err != nil {
		return Date{}, err
	}
	on, _, _ := history.Latest()
	return on, nil
}

// Earliest returns the price on a given day, or the first price after it.
//
// It is used to roll a scheduled day forward over week-ends and holidays.
func (h *Historian) Earliest(ticker string, on Date, atClosing bool) (Date, Money, error) {
	history, err := h.load(ticker)
	if err != nil {
		return Date{}, Money{}, err
	}
	day, rec, ok := history.OnOrAfter(on)
	if !ok {
		return Date{}, Money{}, h.noData(ticker, on, history)
	}
	return day, h.money(rec, atClosing), nil
}

// Closes returns the records of ticker within r, oldest first.
func (h *Historian) Closes(ticker string, r Range) ([]DailyRecord, error) {
	history, err := h.load(ticker)
	if err != nil {
		return nil, err
	}
	var records []DailyRecord
	for _, rec := range history.Within(r) {
		records = append(records, rec)
	}
	return records, nil
}
