package portfolio

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// MovingAverage returns the mean of the last n closes of ticker on or before a given day.
//
// Days without prices are skipped, so the window always spans n trading days.
func MovingAverage(prices PriceResolver, ticker string, on Date, n int) (Money, error) {
	if n <= 0 {
		return Money{}, fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}
	mean, err := movingAverage(prices, ticker, on, n)
	if err != nil {
		return Money{}, err
	}
	return M(mean, prices.Currency()), nil
}

func movingAverage(prices PriceResolver, ticker string, on Date, n int) (float64, error) {
	points, err := stockPrices(prices, Days, ticker, on, n, true, 1)
	if err != nil {
		return 0, err
	}
	if len(points) < n {
		return 0, fmt.Errorf("%w: %d closes of %s up to %v, want %d", ErrNotEnoughData, len(points), ticker, on, n)
	}
	closes := make([]float64, len(points))
	for i, p := range points {
		closes[i] = p.Price.Float64()
	}
	return stat.Mean(closes, nil), nil
}

// Trend is the direction of a crossover.
type Trend int

const (
	Bullish Trend = iota + 1 // the fast series moves above the slow one
	Bearish                  // the fast series moves below the slow one
)

func (t Trend) String() string {
	switch t {
	case Bullish:
		return "bullish"
	case Bearish:
		return "bearish"
	default:
		return "none"
	}
}

// Crossover is a trading day where two series swap order.
type Crossover struct {
	Date  Date
	Trend Trend
}

// Crossovers returns the trading days within [from, to] where the close of
// ticker crosses its n-day moving average.
func Crossovers(prices PriceResolver, ticker string, from, to Date, n int) ([]Crossover, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}
	return crossovers(prices, ticker, from, to, func(rec DailyRecord) (float64, error) {
		ma, err := movingAverage(prices, ticker, rec.Date, n)
		return rec.Close - ma, err
	})
}

// MovingCrossovers returns the trading days within [from, to] where the
// short moving average of ticker crosses its long moving average.
func MovingCrossovers(prices PriceResolver, ticker string, from, to Date, short, long int) ([]Crossover, error) {
	if short <= 0 || long <= short {
		return nil, fmt.Errorf("%w: short %d, long %d", ErrInvalidLength, short, long)
	}
	return crossovers(prices, ticker, from, to, func(rec DailyRecord) (float64, error) {
		fast, err := movingAverage(prices, ticker, rec.Date, short)
		if err != nil {
			return 0, err
		}
		slow, err := movingAverage(prices, ticker, rec.Date, long)
		return fast - slow, err
	})
}

// crossovers reports the days where spread changes sign, compared to the
// last trading day where it was not zero.
func crossovers(prices PriceResolver, ticker string, from, to Date, spread func(DailyRecord) (float64, error)) ([]Crossover, error) {
	records, err := prices.Closes(ticker, NewRange(from, to))
	if err != nil {
		return nil, err
	}
	var found []Crossover
	var last float64
	for _, rec := range records {
		s, err := spread(rec)
		if errors.Is(err, ErrNotEnoughData) {
			continue
		}
		if err != nil {
			return nil, err
		}
		switch {
		case s > 0 && last < 0:
			found = append(found, Crossover{Date: rec.Date, Trend: Bullish})
		case s < 0 && last > 0:
			found = append(found, Crossover{Date: rec.Date, Trend: Bearish})
		}
		if s != 0 {
			last = s
		}
	}
	return found, nil
}

// StockChange returns the change of the closing price of ticker between two days.
func StockChange(prices PriceResolver, ticker string, from, to Date) (Money, error) {
	start, err := prices.Value(ticker, from, true)
	if err != nil {
		return Money{}, err
	}
	end, err := prices.Value(ticker, to, true)
	if err != nil {
		return Money{}, err
	}
	return end.Sub(start), nil
}

// Rebalance trades the holdings of a portfolio on a given day so that each
// ticker weighs weights[ticker] percent of its value. Tickers missing from
// weights are sold.
//
// Sells are applied before buys. Rebalance stops on the first rejected trade,
// leaving the trades already applied.
func Rebalance(ledger Ledger, prices PriceResolver, name string, on Date, weights map[string]Percent) error {
	if err := checkWeights(weights); err != nil {
		return err
	}
	txs, err := ledger.Composition(name)
	if err != nil {
		return err
	}
	values, err := ledger.Distribution(name, on)
	if err != nil {
		return err
	}
	total := M(0, prices.Currency())
	for _, v := range values {
		total = total.Add(v)
	}

	tickers := slices.Sorted(maps.Keys(values))
	for ticker := range weights {
		if _, held := values[ticker]; !held {
			tickers = append(tickers, ticker)
		}
	}

	var sells, buys []StockTransaction
	for _, ticker := range tickers {
		shares := SharesOnDate(ticker, on, txs)
		w := weights[ticker]
		if w == 0 {
			if !shares.IsZero() {
				sells = append(sells, NewStockTransaction(ticker, shares.Neg(), on))
			}
			continue
		}
		price, err := prices.Value(ticker, on, true)
		if err != nil {
			return fmt.Errorf("rebalancing %s: %w", ticker, err)
		}
		diff := w.Of(total).Sub(values[ticker])
		q := diff.DivPrice(price)
		switch {
		case q.IsNegative():
			if shares.LessThan(q.Abs()) {
				q = shares.Neg()
			}
			sells = append(sells, NewStockTransaction(ticker, q, on))
		case q.IsPositive():
			buys = append(buys, NewStockTransaction(ticker, q, on))
		}
	}
	slices.SortFunc(buys, compareTransactions)
	for _, tx := range append(sells, buys...) {
		if err := ledger.AddStock(tx.Ticker(), tx.Quantity(), tx.On(), name); err != nil {
			return fmt.Errorf("rebalancing %q: %w", name, err)
		}
	}
	return nil
}
