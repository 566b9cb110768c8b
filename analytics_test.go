package portfolio

import (
	"errors"
	"testing"
)

func TestMovingAverage(t *testing.T) {
	// closes 100..119 from 2024-01-19 to 2024-02-07
	h := newTestHistorian(newFakeSource().
		daily("ACME", NewDate(2024, 1, 19), ramp(100, 20)...).
		weekdays("WEEK", NewDate(2024, 1, 1), ramp(1, 10)...))

	tests := []struct {
		name    string
		ticker  string
		on      Date
		n       int
		want    string
		wantErr error
	}{
		{"the whole series", "ACME", NewDate(2024, 2, 7), 20, "$109.50", nil},
		{"ten closes", "ACME", NewDate(2024, 2, 2), 10, "$109.50", nil},
		{"the first ten closes", "ACME", NewDate(2024, 1, 28), 10, "$104.50", nil},
		{"not enough closes", "ACME", NewDate(2024, 1, 27), 10, "", ErrNotEnoughData},
		// monday 2024-01-08 is the 6th close: the week-end is skipped.
		{"skips week-ends", "WEEK", NewDate(2024, 1, 8), 3, "$5.00", nil},
		{"invalid n", "ACME", NewDate(2024, 2, 7), 0, "", ErrInvalidLength},
		{"unknown ticker", "NOPE", NewDate(2024, 2, 7), 3, "", ErrInvalidTicker},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MovingAverage(h, tt.ticker, tt.on, tt.n)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("MovingAverage() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && got.String() != tt.want {
				t.Errorf("MovingAverage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCrossovers(t *testing.T) {
	h := newTestHistorian(newFakeSource().
		daily("ACME", NewDate(2024, 1, 1), 10, 10, 10, 9, 9, 12, 12, 12, 8).
		daily("BETA", NewDate(2024, 1, 1), 10, 10, 10, 10, 8, 14, 14, 4, 4))

	tests := []struct {
		name string
		got  func() ([]Crossover, error)
		want []Crossover
	}{
		{
			name: "close over its average",
			got: func() ([]Crossover, error) {
				return Crossovers(h, "ACME", NewDate(2024, 1, 1), NewDate(2024, 1, 9), 3)
			},
			want: []Crossover{{NewDate(2024, 1, 6), Bullish}, {NewDate(2024, 1, 9), Bearish}},
		},
		{
			name: "window",
			got: func() ([]Crossover, error) {
				return Crossovers(h, "ACME", NewDate(2024, 1, 7), NewDate(2024, 1, 9), 3)
			},
			want: []Crossover{{NewDate(2024, 1, 9), Bearish}},
		},
		{
			name: "short over long average",
			got: func() ([]Crossover, error) {
				return MovingCrossovers(h, "BETA", NewDate(2024, 1, 1), NewDate(2024, 1, 9), 2, 4)
			},
			want: []Crossover{{NewDate(2024, 1, 6), Bullish}, {NewDate(2024, 1, 8), Bearish}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.got()
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}

	if _, err := MovingCrossovers(h, "BETA", NewDate(2024, 1, 1), NewDate(2024, 1, 9), 4, 2); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("MovingCrossovers(4, 2) error = %v, want %v", err, ErrInvalidLength)
	}
}

func TestStockChange(t *testing.T) {
	h := newTestHistorian(newFakeSource().daily("ACME", NewDate(2024, 1, 19), ramp(100, 20)...))
	got, err := StockChange(h, "ACME", NewDate(2024, 1, 19), NewDate(2024, 2, 7))
	if err != nil || got.String() != "$19.00" {
		t.Errorf("StockChange() = %v, %v, want $19.00", got, err)
	}
	got, err = StockChange(h, "ACME", NewDate(2024, 2, 7), NewDate(2024, 1, 19))
	if err != nil || got.SignedString() != "-$19.00" {
		t.Errorf("StockChange() backward = %v, %v, want -$19.00", got.SignedString(), err)
	}
	if _, err := StockChange(h, "ACME", NewDate(2024, 1, 1), NewDate(2024, 2, 7)); !errors.Is(err, ErrNotYetListed) {
		t.Errorf("StockChange() before ipo error = %v, want %v", err, ErrNotYetListed)
	}
}

func TestRebalance(t *testing.T) {
	on := NewDate(2024, 1, 1) // AAPL @100, MSFT @50

	t.Run("split", func(t *testing.T) {
		s, h := newTestStore(storeSource())
		_ = s.CreatePortfolio("p")
		_ = s.AddStock("AAPL", Q(10), on, "p")

		if err := Rebalance(s, h, "p", on, map[string]Percent{"AAPL": 50, "MSFT": 50}); err != nil {
			t.Fatalf("Rebalance() error = %v", err)
		}
		dist, _ := s.Distribution("p", on)
		if !dist["AAPL"].Equal(USD(500)) || !dist["MSFT"].Equal(USD(500)) {
			t.Errorf("Distribution() after rebalance = %v, want $500.00 each", dist)
		}
	})

	t.Run("sell out", func(t *testing.T) {
		s, h := newTestStore(storeSource())
		_ = s.CreatePortfolio("p")
		_ = s.AddStock("AAPL", Q(10), on, "p")

		if err := Rebalance(s, h, "p", on, map[string]Percent{"MSFT": 100}); err != nil {
			t.Fatalf("Rebalance() error = %v", err)
		}
		txs := mustComposition(t, s, "p")
		if got := SharesOnDate("AAPL", on, txs); !got.IsZero() {
			t.Errorf("AAPL shares = %v, want 0", got)
		}
		if got := SharesOnDate("MSFT", on, txs); !got.Equal(Q(20)) {
			t.Errorf("MSFT shares = %v, want 20", got)
		}
	})

	t.Run("invalid weights", func(t *testing.T) {
		s, h := newTestStore(storeSource())
		_ = s.CreatePortfolio("p")
		if err := Rebalance(s, h, "p", on, map[string]Percent{"MSFT": 90}); !errors.Is(err, ErrInvalidWeights) {
			t.Errorf("Rebalance() error = %v, want %v", err, ErrInvalidWeights)
		}
	})
}

func TestMoney_String(t *testing.T) {
	tests := []struct {
		m    Money
		want string
	}{
		{USD(109.5), "$109.50"},
		{USD(1234.567), "$1,234.57"},
		{USD(0), "$0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.m.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
