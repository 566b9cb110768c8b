package portfolio

import (
	"fmt"
	"math"
)

// Percent is a weight or a ratio, 50 meaning half.
type Percent float64

// Equal compares percents up to 0.0001 points.
func (p Percent) Equal(q Percent) bool {
	return math.Abs(float64(p-q)) < 0.0001
}

// Of returns p percent of m.
func (p Percent) Of(m Money) Money {
	return m.Mul(Q(float64(p))).Div(Q(100))
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}

// SignedString is like String with an explicit sign, or "-" when it rounds to zero.
func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", float64(p))
	if res == "+0.00%" || res == "-0.00%" {
		return "-"
	}
	return res
}
