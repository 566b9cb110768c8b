package portfolio

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/rs/zerolog"
)

// DCA decorates a Ledger with dollar-cost averaging portfolios.
//
// Schedules are never stored as transactions: they are rendered on every
// read, up to yesterday, and merged with the portfolio's own transactions.
// Operations it does not override are served by the decorated Ledger.
type DCA struct {
	Ledger
	prices PriceResolver
	clock  func() Date
	writer Writer
	log    zerolog.Logger

	mu        sync.RWMutex
	schedules map[string][]RepeatingStockTransaction
}

var _ Ledger = (*DCA)(nil)

// NewDCA returns a DCA engine on top of base.
func NewDCA(base Ledger, prices PriceResolver, opts ...Option) *DCA {
	o := newOptions(opts)
	return &DCA{
		Ledger:    base,
		prices:    prices,
		clock:     o.clock,
		writer:    o.writer,
		log:       o.log.With().Str("component", "dca").Logger(),
		schedules: make(map[string][]RepeatingStockTransaction),
	}
}

// AddDollarCostAveragingPortfolio creates a portfolio investing amounts[ticker]
// in each ticker every length units, from the first trading day on or after start.
//
// Nothing is created if any argument is invalid or any ticker cannot be resolved.
func (d *DCA) AddDollarCostAveragingPortfolio(name string, amounts map[string]Money, start Date, unit Unit, length, repetitions int) error {
	if len(amounts) == 0 {
		return fmt.Errorf("%w: nothing to invest in %q", ErrNonPositiveAmount, name)
	}
	tickers := slices.Sorted(maps.Keys(amounts))
	for _, ticker := range tickers {
		if err := checkSchedule(amounts[ticker], unit, length, repetitions); err != nil {
			return fmt.Errorf("schedule for %s: %w", ticker, err)
		}
	}

	var schedules []RepeatingStockTransaction
	for _, ticker := range tickers {
		anchor, _, err := d.prices.Earliest(ticker, start, true)
		if err != nil {
			return fmt.Errorf("first purchase of %s: %w", ticker, err)
		}
		s, err := NewRepeatingStockTransaction(ticker, amounts[ticker], anchor, unit, length, repetitions)
		if err != nil {
			return err
		}
		schedules = append(schedules, s)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.Ledger.CreatePortfolio(name); err != nil {
		return err
	}
	d.schedules[name] = schedules
	d.log.Debug().Str("portfolio", name).Int("schedules", len(schedules)).Msg("dca portfolio created")
	return nil
}

// DCAPortfolios returns the sorted names of dollar-cost averaging portfolios.
func (d *DCA) DCAPortfolios() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Sorted(maps.Keys(d.schedules))
}

// DCAComposition returns the schedules of a dollar-cost averaging portfolio.
func (d *DCA) DCAComposition(name string) ([]RepeatingStockTransaction, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	schedules, ok := d.schedules[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a dollar-cost averaging portfolio", ErrUnknownPortfolio, name)
	}
	return slices.Clone(schedules), nil
}

// transactions returns the portfolio's transactions merged with its
// schedules rendered up to on, never later than yesterday.
func (d *DCA) transactions(name string, on Date) ([]StockTransaction, error) {
	static, err := d.Ledger.Composition(name)
	if err != nil {
		return nil, err
	}
	d.mu.RLock()
	schedules := d.schedules[name]
	d.mu.RUnlock()
	if len(schedules) == 0 {
		return static, nil
	}

	return merge(static, d.render(schedules, on.Min(d.clock().Add(-1)))), nil
}

// render returns the purchases of schedules up to to.
func (d *DCA) render(schedules []RepeatingStockTransaction, to Date) []StockTransaction {
	sets := make([][]StockTransaction, 0, len(schedules))
	for _, s := range schedules {
		sets = append(sets, s.Render(d.prices, MinDate, to))
	}
	return merge(sets...)
}

// scheduledAdder is a Ledger that can validate a trade against purchases it does not store.
type scheduledAdder interface {
	addStock(ticker string, quantity Quantity, on Date, name string, scheduled []StockTransaction) error
}

// AddStock records a trade in the decorated Ledger. Sells in a dollar-cost
// averaging portfolio may use the shares bought by its schedules until yesterday.
func (d *DCA) AddStock(ticker string, quantity Quantity, on Date, name string) error {
	d.mu.RLock()
	schedules := d.schedules[name]
	d.mu.RUnlock()
	base, ok := d.Ledger.(scheduledAdder)
	if len(schedules) == 0 || !quantity.IsNegative() || !ok {
		return d.Ledger.AddStock(ticker, quantity, on, name)
	}
	return base.addStock(ticker, quantity, on, name, d.render(schedules, d.clock().Add(-1)))
}

// Composition returns the portfolio's transactions, including the purchases scheduled until yesterday.
func (d *DCA) Composition(name string) ([]StockTransaction, error) {
	return d.transactions(name, d.clock())
}

func (d *DCA) PortfolioValue(name string, on Date) (Money, error) {
	txs, err := d.transactions(name, on)
	if err != nil {
		return Money{}, err
	}
	return portfolioValue(d.prices, txs, on)
}

func (d *DCA) CostBasis(name string, on Date) (Money, error) {
	txs, err := d.transactions(name, on)
	if err != nil {
		return Money{}, err
	}
	return costBasis(d.prices, txs, on)
}

func (d *DCA) Distribution(name string, on Date) (map[string]Money, error) {
	txs, err := d.transactions(name, on)
	if err != nil {
		return nil, err
	}
	return distribution(d.prices, txs, on)
}

func (d *DCA) PortfolioValues(unit Unit, name string, lastEntry Date, size, length int) ([]ValuePoint, error) {
	txs, err := d.transactions(name, lastEntry)
	if err != nil {
		return nil, err
	}
	return portfolioValues(d.prices, txs, unit, lastEntry, size, length)
}

// SavePortfolio writes the portfolio including its scheduled purchases until
// yesterday. Dollar-cost averaging portfolios need the engine's own writer.
func (d *DCA) SavePortfolio(dest, name string) error {
	d.mu.RLock()
	_, isDCA := d.schedules[name]
	d.mu.RUnlock()
	if !isDCA {
		return d.Ledger.SavePortfolio(dest, name)
	}
	txs, err := d.Composition(name)
	if err != nil {
		return err
	}
	return save(d.writer, dest, name, txs)
}
