package portfolio

import (
	"fmt"
	"maps"
	"math"
	"slices"
)

// RepeatingStockTransaction invests a fixed amount in a ticker every length units, starting on an anchor day.
type RepeatingStockTransaction struct {
	ticker      string
	amount      Money
	anchor      Date
	unit        Unit
	length      int
	repetitions int // -1 for unbounded
}

// NewRepeatingStockTransaction validates and creates a schedule.
func NewRepeatingStockTransaction(ticker string, amount Money, anchor Date, unit Unit, length, repetitions int) (RepeatingStockTransaction, error) {
	if err := checkSchedule(amount, unit, length, repetitions); err != nil {
		return RepeatingStockTransaction{}, fmt.Errorf("schedule for %s: %w", ticker, err)
	}
	return RepeatingStockTransaction{
		ticker:      ticker,
		amount:      amount,
		anchor:      anchor,
		unit:        unit,
		length:      length,
		repetitions: repetitions,
	}, nil
}

func checkSchedule(amount Money, unit Unit, length, repetitions int) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: %v", ErrNonPositiveAmount, amount)
	}
	if repetitions <= 0 && repetitions != -1 {
		return fmt.Errorf("%w: %d", ErrInvalidRepetitions, repetitions)
	}
	return checkPeriod(unit, length)
}

func (r RepeatingStockTransaction) Ticker() string   { return r.ticker }
func (r RepeatingStockTransaction) Amount() Money    { return r.amount }
func (r RepeatingStockTransaction) Anchor() Date     { return r.anchor }
func (r RepeatingStockTransaction) Unit() Unit       { return r.unit }
func (r RepeatingStockTransaction) Length() int      { return r.length }
func (r RepeatingStockTransaction) Repetitions() int { return r.repetitions }

func (r RepeatingStockTransaction) String() string {
	reps := "forever"
	if r.repetitions > 0 {
		reps = fmt.Sprintf("%d times", r.repetitions)
	}
	return fmt.Sprintf("%v of %s every %d %v from %v, %s", r.amount, r.ticker, r.length, r.unit, r.anchor, reps)
}

// Render returns the purchases of the schedule whose trading day is within [from, to].
//
// Each scheduled day is rolled forward to the next trading day. A day that
// cannot be resolved is skipped but still counts as a repetition.
func (r RepeatingStockTransaction) Render(prices PriceResolver, from, to Date) []StockTransaction {
	var txs []StockTransaction
	for i := 0; r.repetitions < 0 || i < r.repetitions; i++ {
		scheduled := r.anchor.AddUnit(r.unit, i*r.length)
		if scheduled.After(to) {
			break
		}
		on, price, err := prices.Earliest(r.ticker, scheduled, true)
		if err != nil || !price.IsPositive() {
			continue
		}
		if on.After(to) {
			break
		}
		if on.Before(from) {
			continue
		}
		txs = append(txs, NewStockTransaction(r.ticker, r.amount.DivPrice(price), on))
	}
	return txs
}

// DCAPlan is the per-ticker amounts and the number of repetitions of a dollar-cost averaging plan.
type DCAPlan struct {
	Amounts     map[string]Money
	Repetitions int
}

// PlanDCA splits a periodic contribution by weights, in percent, and counts
// the periods between start and end. A zero end means no end: repetitions is -1.
func PlanDCA(total Money, weights map[string]Percent, start, end Date, unit Unit, length int) (DCAPlan, error) {
	if !total.IsPositive() {
		return DCAPlan{}, fmt.Errorf("%w: %v", ErrNonPositiveAmount, total)
	}
	if err := checkPeriod(unit, length); err != nil {
		return DCAPlan{}, err
	}
	if err := checkWeights(weights); err != nil {
		return DCAPlan{}, err
	}

	plan := DCAPlan{Amounts: make(map[string]Money, len(weights)), Repetitions: -1}
	for _, ticker := range slices.Sorted(maps.Keys(weights)) {
		plan.Amounts[ticker] = weights[ticker].Of(total)
	}
	if !end.IsZero() {
		plan.Repetitions = unit.Between(start, end) / length
		if plan.Repetitions <= 0 {
			return DCAPlan{}, fmt.Errorf("%w: no complete period between %v and %v", ErrInvalidRepetitions, start, end)
		}
	}
	return plan, nil
}

// checkWeights checks that weights are positive and add up to 100%.
func checkWeights(weights map[string]Percent) error {
	var sum Percent
	for ticker, w := range weights {
		if w < 0 {
			return fmt.Errorf("%w: %s has %v", ErrInvalidWeights, ticker, w)
		}
		sum += w
	}
	if math.Abs(float64(sum)-100) > 0.01 {
		return fmt.Errorf("%w: got %v", ErrInvalidWeights, sum)
	}
	return nil
}
