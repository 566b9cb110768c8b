package portfolio

import (
	"fmt"
	"slices"
)

// merge combines transaction sets: transactions on the same ticker and day
// are summed, and slots summing to zero are dropped. The result is sorted.
func merge(sets ...[]StockTransaction) []StockTransaction {
	var merged []StockTransaction
	for _, txs := range sets {
		for _, tx := range txs {
			merged = mergeInto(merged, tx)
		}
	}
	slices.SortFunc(merged, compareTransactions)
	return merged
}

// mergeInto adds tx to the slot of the same ticker and day, if any.
func mergeInto(txs []StockTransaction, tx StockTransaction) []StockTransaction {
	i := slices.IndexFunc(txs, func(t StockTransaction) bool {
		return t.Ticker() == tx.Ticker() && t.On() == tx.On()
	})
	if i < 0 {
		if tx.Quantity().IsZero() {
			return txs
		}
		return append(txs, tx)
	}
	q := txs[i].Quantity().Add(tx.Quantity())
	if q.IsZero() {
		return slices.Delete(txs, i, i+1)
	}
	txs[i] = NewStockTransaction(tx.Ticker(), q, tx.On())
	return txs
}

// distribution returns the value of each ticker held at the end of a given day, priced that day.
func distribution(prices PriceResolver, txs []StockTransaction, on Date) (map[string]Money, error) {
	values := make(map[string]Money)
	for _, ticker := range UniqueTickers(txs, MinDate, on) {
		shares := SharesOnDate(ticker, on, txs)
		if shares.IsZero() {
			continue
		}
		price, err := prices.Value(ticker, on, true)
		if err != nil {
			return nil, fmt.Errorf("valuing %s on %v: %w", ticker, on, err)
		}
		values[ticker] = price.Mul(shares)
	}
	return values, nil
}

// portfolioValue returns the value of the shares accumulated by a given day, priced that day.
func portfolioValue(prices PriceResolver, txs []StockTransaction, on Date) (Money, error) {
	values, err := distribution(prices, txs, on)
	if err != nil {
		return Money{}, err
	}
	total := M(0, prices.Currency())
	for _, v := range values {
		total = total.Add(v)
	}
	return total, nil
}

// costBasis returns the capital paid for the buys dated on or before a given day, each priced on its own date.
func costBasis(prices PriceResolver, txs []StockTransaction, on Date) (Money, error) {
	total := M(0, prices.Currency())
	for _, tx := range txs {
		if !tx.IsBuy() || tx.On().After(on) {
			continue
		}
		price, err := prices.Value(tx.Ticker(), tx.On(), true)
		if err != nil {
			return Money{}, fmt.Errorf("cost of %v: %w", tx, err)
		}
		total = total.Add(price.Mul(tx.Quantity()))
	}
	return total, nil
}
