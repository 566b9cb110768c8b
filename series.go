package portfolio

import (
	"errors"
	"fmt"
)

// PricePoint is the price of a ticker on a given day.
type PricePoint struct {
	Date  Date
	Price Money
}

// ValuePoint is the value of a portfolio on a given day.
type ValuePoint struct {
	Date  Date
	Value Money
}

func checkPeriod(unit Unit, length int) error {
	if !unit.IsDateBased() {
		return fmt.Errorf("%w: %v", ErrUnitNotDateBased, unit)
	}
	if length <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}
	return nil
}

// stockPrices walks backward from lastEntry in windows of length units, and
// collects the latest price of each window.
//
// Windows without prices are skipped. The walk stops after maxSize points, or
// after the first window starting before the IPO.
func stockPrices(prices PriceResolver, unit Unit, ticker string, lastEntry Date, maxSize int, atClosing bool, length int) ([]PricePoint, error) {
	if err := checkPeriod(unit, length); err != nil {
		return nil, err
	}
	ipo, err := prices.IPO(ticker)
	if err != nil {
		return nil, err
	}
	var points []PricePoint
	for end := lastEntry; len(points) < maxSize; {
		start := end.AddUnit(unit, -length)
		on, price, err := prices.LatestWithin(ticker, start, end, atClosing)
		switch {
		case err == nil:
			points = append(points, PricePoint{Date: on, Price: price})
		case !errors.Is(err, ErrNoData):
			return nil, err
		}
		if start.Before(ipo) {
			break
		}
		end = start
	}
	return points, nil
}

// portfolioValues walks backward from lastEntry like stockPrices and values
// the tickers held up to lastEntry in each window.
//
// Each ticker is priced at its latest day in the window, with the shares held
// that day. A window where no ticker has a price yields no point. The walk
// stops once every ticker's IPO is after the window.
func portfolioValues(prices PriceResolver, txs []StockTransaction, unit Unit, lastEntry Date, size, length int) ([]ValuePoint, error) {
	if err := checkPeriod(unit, length); err != nil {
		return nil, err
	}
	tickers := UniqueTickers(txs, MinDate, lastEntry)
	ipos := make(map[string]Date, len(tickers))
	for _, ticker := range tickers {
		ipo, err := prices.IPO(ticker)
		if err != nil {
			return nil, err
		}
		ipos[ticker] = ipo
	}

	var points []ValuePoint
	for end := lastEntry; len(points) < size && listedBy(ipos, end); {
		start := end.AddUnit(unit, -length)
		total := M(0, prices.Currency())
		var latest Date
		resolved := false
		for _, ticker := range tickers {
			on, price, err := prices.LatestWithin(ticker, start, end, true)
			if err != nil {
				continue
			}
			resolved = true
			if on.After(latest) {
				latest = on
			}
			total = total.Add(price.Mul(SharesOnDate(ticker, on, txs)))
		}
		if resolved {
			points = append(points, ValuePoint{Date: latest, Value: total})
		}
		end = start
	}
	return points, nil
}

// listedBy reports whether at least one ticker was listed on or before a given day.
func listedBy(ipos map[string]Date, on Date) bool {
	for _, ipo := range ipos {
		if !ipo.After(on) {
			return true
		}
	}
	return false
}
