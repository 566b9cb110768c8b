package portfolio

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/rs/zerolog"
)

// Writer persists a portfolio.
type Writer interface {
	Write(dest, name string, txs []StockTransaction) error
}

// Reader reads back a persisted portfolio.
type Reader interface {
	Read(src string) (name string, txs []StockTransaction, err error)
}

// Ledger is the set of operations on named portfolios.
type Ledger interface {
	CreatePortfolio(name string) error
	AddStock(ticker string, quantity Quantity, on Date, name string) error
	FlipMutability(name string) error
	IsPortfolioMutable(name string) (bool, error)
	IsPortfolioPresent(name string) bool
	PortfolioNames() []string
	Composition(name string) ([]StockTransaction, error)

	PortfolioValue(name string, on Date) (Money, error)
	CostBasis(name string, on Date) (Money, error)
	Distribution(name string, on Date) (map[string]Money, error)
	StockPrices(unit Unit, ticker string, lastEntry Date, maxSize int, atClosing bool, length int) ([]PricePoint, error)
	PortfolioValues(unit Unit, name string, lastEntry Date, size, length int) ([]ValuePoint, error)

	SavePortfolio(dest, name string) error
	LoadPortfolio(src string) (string, error)
}

// Store holds named portfolios of stock transactions.
type Store struct {
	prices PriceResolver
	writer Writer
	reader Reader
	log    zerolog.Logger

	mu         sync.RWMutex
	portfolios map[string]*portfolio
}

type portfolio struct {
	mu      sync.Mutex
	mutable bool
	txs     []StockTransaction
}

var _ Ledger = (*Store)(nil)

// NewStore returns an empty Store validating and valuing transactions with prices.
func NewStore(prices PriceResolver, opts ...Option) *Store {
	o := newOptions(opts)
	return &Store{
		prices:     prices,
		writer:     o.writer,
		reader:     o.reader,
		log:        o.log.With().Str("component", "store").Logger(),
		portfolios: make(map[string]*portfolio),
	}
}

func (s *Store) portfolio(name string) (*portfolio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.portfolios[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownPortfolio, name)
	}
	return p, nil
}

// CreatePortfolio creates an empty and mutable portfolio.
func (s *Store) CreatePortfolio(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.portfolios[name]; exists {
		return fmt.Errorf("%w: %q", ErrPortfolioExists, name)
	}
	s.portfolios[name] = &portfolio{mutable: true}
	s.log.Debug().Str("portfolio", name).Msg("portfolio created")
	return nil
}

// AddStock buys (positive quantity) or sells (negative quantity) shares of ticker on a given day.
//
// A sell needs enough shares both on that day and once every recorded
// transaction is applied, so that shares already sold later cannot be sold
// twice. The portfolio is left unchanged when any check fails.
func (s *Store) AddStock(ticker string, quantity Quantity, on Date, name string) error {
	return s.addStock(ticker, quantity, on, name, nil)
}

// addStock is AddStock with sells also covered by scheduled purchases that
// the portfolio does not store.
func (s *Store) addStock(ticker string, quantity Quantity, on Date, name string, scheduled []StockTransaction) error {
	p, err := s.portfolio(name)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.mutable {
		return fmt.Errorf("%w %q", ErrImmutablePortfolio, name)
	}
	tx := NewStockTransaction(ticker, quantity, on)
	if err := s.prices.CheckStock(tx); err != nil {
		return fmt.Errorf("cannot trade %s on %v: %w", ticker, on, err)
	}
	if tx.IsSell() {
		want := quantity.Abs()
		txs := p.txs
		if len(scheduled) > 0 {
			txs = merge(p.txs, scheduled)
		}
		if held := SharesOnDate(ticker, on, txs); held.LessThan(want) {
			return fmt.Errorf("%w: selling %s %s on %v, holding %s", ErrInsufficientShares, want, ticker, on, held)
		}
		if held := SharesThroughout(ticker, txs); held.LessThan(want) {
			return fmt.Errorf("%w: selling %s %s on %v, only %s left after later sells", ErrInsufficientShares, want, ticker, on, held)
		}
	}
	p.txs = mergeInto(p.txs, tx)
	s.log.Debug().Str("portfolio", name).Stringer("tx", tx).Msg("transaction added")
	return nil
}

// FlipMutability toggles the mutable flag of a portfolio.
func (s *Store) FlipMutability(name string) error {
	p, err := s.portfolio(name)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mutable = !p.mutable
	return nil
}

func (s *Store) IsPortfolioMutable(name string) (bool, error) {
	p, err := s.portfolio(name)
	if err != nil {
		return false, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mutable, nil
}

func (s *Store) IsPortfolioPresent(name string) bool {
	_, err := s.portfolio(name)
	return err == nil
}

// PortfolioNames returns the sorted names of all portfolios.
func (s *Store) PortfolioNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.portfolios))
}

// Composition returns a sorted copy of the portfolio's transactions.
func (s *Store) Composition(name string) ([]StockTransaction, error) {
	p, err := s.portfolio(name)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	txs := slices.Clone(p.txs)
	slices.SortFunc(txs, compareTransactions)
	return txs, nil
}

// PortfolioValue returns the value on a given day of the shares accumulated by that day.
func (s *Store) PortfolioValue(name string, on Date) (Money, error) {
	txs, err := s.Composition(name)
	if err != nil {
		return Money{}, err
	}
	return portfolioValue(s.prices, txs, on)
}

// CostBasis returns the capital paid for the buys dated on or before a given day.
func (s *Store) CostBasis(name string, on Date) (Money, error) {
	txs, err := s.Composition(name)
	if err != nil {
		return Money{}, err
	}
	return costBasis(s.prices, txs, on)
}

// Distribution returns the value of each ticker held on a given day.
func (s *Store) Distribution(name string, on Date) (map[string]Money, error) {
	txs, err := s.Composition(name)
	if err != nil {
		return nil, err
	}
	return distribution(s.prices, txs, on)
}

// StockPrices returns up to maxSize prices of ticker, one per period of length units, latest first.
func (s *Store) StockPrices(unit Unit, ticker string, lastEntry Date, maxSize int, atClosing bool, length int) ([]PricePoint, error) {
	return stockPrices(s.prices, unit, ticker, lastEntry, maxSize, atClosing, length)
}

// PortfolioValues returns up to size values of a portfolio, one per period of length units, latest first.
func (s *Store) PortfolioValues(unit Unit, name string, lastEntry Date, size, length int) ([]ValuePoint, error) {
	txs, err := s.Composition(name)
	if err != nil {
		return nil, err
	}
	return portfolioValues(s.prices, txs, unit, lastEntry, size, length)
}

// SavePortfolio writes the portfolio to dest.
func (s *Store) SavePortfolio(dest, name string) error {
	txs, err := s.Composition(name)
	if err != nil {
		return err
	}
	return save(s.writer, dest, name, txs)
}

func save(w Writer, dest, name string, txs []StockTransaction) error {
	if w == nil {
		return fmt.Errorf("%w: no writer configured", ErrIO)
	}
	if err := w.Write(dest, name, txs); err != nil {
		return fmt.Errorf("%w: saving %q to %q: %w", ErrIO, name, dest, err)
	}
	return nil
}

// LoadPortfolio reads a portfolio from src and replays its transactions in
// chronological order, buys first. It returns the portfolio name.
func (s *Store) LoadPortfolio(src string) (string, error) {
	if s.reader == nil {
		return "", fmt.Errorf("%w: no reader configured", ErrIO)
	}
	name, txs, err := s.reader.Read(src)
	if err != nil {
		return "", fmt.Errorf("%w: loading %q: %w", ErrIO, src, err)
	}
	if err := s.CreatePortfolio(name); err != nil {
		return "", err
	}
	txs = slices.Clone(txs)
	slices.SortFunc(txs, compareTransactions)
	for _, tx := range txs {
		if err := s.AddStock(tx.Ticker(), tx.Quantity(), tx.On(), name); err != nil {
			return name, fmt.Errorf("replaying %v into %q: %w", tx, name, err)
		}
	}
	s.log.Info().Str("portfolio", name).Int("transactions", len(txs)).Msg("portfolio loaded")
	return name, nil
}
