package portfolio

import (
	"errors"
	"fmt"
)

// Validation errors.
var (
	ErrUnknownPortfolio   = errors.New("unknown portfolio")
	ErrPortfolioExists    = errors.New("portfolio already exists")
	ErrImmutablePortfolio = errors.New("portfolio is immutable")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrNonPositiveAmount  = errors.New("amount must be positive")
	ErrUnitNotDateBased   = errors.New("unit is not date based")
	ErrInvalidRepetitions = errors.New("repetitions must be positive or -1")
	ErrInvalidLength      = errors.New("period length must be positive")
	ErrInvalidWeights     = errors.New("weights must add up to 100%")
)

// Data resolution errors.
var (
	ErrInvalidTicker   = errors.New("invalid ticker")
	ErrMalformedData   = errors.New("malformed price data")
	ErrNoData          = errors.New("no data")
	ErrNoDataInRange   = fmt.Errorf("%w in range", ErrNoData)
	ErrNotEnoughData   = errors.New("not enough data")
	ErrNotYetListed    = errors.New("not yet listed")
	ErrDelisted        = errors.New("delisted")
	ErrNotYetAvailable = errors.New("not yet available")
	ErrMarketClosed    = errors.New("market closed")
)

// ErrIO wraps every failure of a Writer or a Reader.
var ErrIO = errors.New("i/o failure")

// NoDataError reports a date for which a known ticker has no price.
//
// Reason is one of ErrNotYetListed, ErrDelisted, ErrNotYetAvailable or ErrMarketClosed.
type NoDataError struct {
	Ticker string
	On     Date
	Reason error
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no data for %s on %v: %v", e.Ticker, e.On, e.Reason)
}

func (e *NoDataError) Unwrap() error { return e.Reason }

// Is makes every NoDataError match ErrNoData.
func (e *NoDataError) Is(target error) bool { return target == ErrNoData }
