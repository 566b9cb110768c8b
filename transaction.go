package portfolio

import "fmt"

// StockTransaction is a dated buy (positive quantity) or sell (negative quantity) of a ticker.
type StockTransaction struct {
	ticker   string
	quantity Quantity
	on       Date
}

// NewStockTransaction creates a new StockTransaction.
func NewStockTransaction(ticker string, quantity Quantity, on Date) StockTransaction {
	return StockTransaction{ticker: ticker, quantity: quantity, on: on}
}

func (t StockTransaction) Ticker() string     { return t.ticker }
func (t StockTransaction) Quantity() Quantity { return t.quantity }
func (t StockTransaction) On() Date           { return t.on }
func (t StockTransaction) IsBuy() bool        { return t.quantity.IsPositive() }
func (t StockTransaction) IsSell() bool       { return t.quantity.IsNegative() }

// Equal reports whether t and u trade the same ticker on the same day for the same quantity, within 1e-9 shares.
func (t StockTransaction) Equal(u StockTransaction) bool {
	return t.ticker == u.ticker && t.on == u.on && t.quantity.Approx(u.quantity)
}

func (t StockTransaction) String() string {
	return fmt.Sprintf("%v %s %s", t.on, t.ticker, t.quantity)
}

// compareTransactions orders transactions by date, then buys before sells, then by ticker.
func compareTransactions(a, b StockTransaction) int {
	if c := a.on.Compare(b.on); c != 0 {
		return c
	}
	if a.IsBuy() != b.IsBuy() {
		if a.IsBuy() {
			return -1
		}
		return 1
	}
	switch {
	case a.ticker < b.ticker:
		return -1
	case a.ticker > b.ticker:
		return 1
	}
	return 0
}
