package portfolio

import (
	"slices"
)

// UniqueTickers returns the sorted distinct tickers traded within [start, end].
func UniqueTickers(txs []StockTransaction, start, end Date) []string {
	r := NewRange(start, end)
	var tickers []string
	for _, tx := range txs {
		if r.Contains(tx.On()) && !slices.Contains(tickers, tx.Ticker()) {
			tickers = append(tickers, tx.Ticker())
		}
	}
	slices.Sort(tickers)
	return tickers
}

// SharesOnDate returns the number of shares of ticker held at the end of a given day.
func SharesOnDate(ticker string, on Date, txs []StockTransaction) Quantity {
	var total Quantity
	for _, tx := range txs {
		if tx.Ticker() == ticker && !tx.On().After(on) {
			total = total.Add(tx.Quantity())
		}
	}
	return total
}

// SharesThroughout returns the number of shares of ticker held once every transaction is applied, whatever its date.
func SharesThroughout(ticker string, txs []StockTransaction) Quantity {
	var total Quantity
	for _, tx := range txs {
		if tx.Ticker() == ticker {
			total = total.Add(tx.Quantity())
		}
	}
	return total
}
