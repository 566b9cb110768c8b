package portfolio

import (
	"errors"
	"testing"
)

func TestStore_StockPrices(t *testing.T) {
	// 2024-01-01 is a monday: 15 weekdays end on 2024-01-19.
	s, _ := newTestStore(newFakeSource().weekdays("ACME", NewDate(2024, 1, 1), ramp(100, 15)...))

	tests := []struct {
		name      string
		unit      Unit
		lastEntry Date
		maxSize   int
		length    int
		want      []Date
	}{
		{
			name: "daily skips week-ends", unit: Days, lastEntry: NewDate(2024, 1, 9), maxSize: 4, length: 1,
			want: []Date{NewDate(2024, 1, 9), NewDate(2024, 1, 8), NewDate(2024, 1, 5), NewDate(2024, 1, 4)},
		},
		{
			name: "truncated at the ipo", unit: Days, lastEntry: NewDate(2024, 1, 3), maxSize: 10, length: 1,
			want: []Date{NewDate(2024, 1, 3), NewDate(2024, 1, 2), NewDate(2024, 1, 1)},
		},
		{
			name: "weekly takes the latest of each week", unit: Weeks, lastEntry: NewDate(2024, 1, 21), maxSize: 5, length: 1,
			want: []Date{NewDate(2024, 1, 19), NewDate(2024, 1, 12), NewDate(2024, 1, 5)},
		},
		{
			name: "every two days", unit: Days, lastEntry: NewDate(2024, 1, 12), maxSize: 3, length: 2,
			want: []Date{NewDate(2024, 1, 12), NewDate(2024, 1, 10), NewDate(2024, 1, 8)},
		},
		{
			name: "monthly from the future", unit: Months, lastEntry: NewDate(2024, 3, 31), maxSize: 5, length: 1,
			want: []Date{NewDate(2024, 1, 19)},
		},
		{
			name: "empty", unit: Days, lastEntry: NewDate(2024, 1, 9), maxSize: 0, length: 1,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.StockPrices(tt.unit, "ACME", tt.lastEntry, tt.maxSize, true, tt.length)
			if err != nil {
				t.Fatalf("StockPrices() error = %v", err)
			}
			if len(got) > tt.maxSize {
				t.Errorf("StockPrices() returned %d points, more than %d", len(got), tt.maxSize)
			}
			var dates []Date
			for i, p := range got {
				dates = append(dates, p.Date)
				if i > 0 && !p.Date.Before(got[i-1].Date) {
					t.Errorf("dates are not strictly decreasing: %v then %v", got[i-1].Date, p.Date)
				}
			}
			if len(dates) != len(tt.want) {
				t.Fatalf("StockPrices() dates = %v, want %v", dates, tt.want)
			}
			for i := range dates {
				if dates[i] != tt.want[i] {
					t.Errorf("StockPrices() dates = %v, want %v", dates, tt.want)
					break
				}
			}
		})
	}

	t.Run("prices", func(t *testing.T) {
		got, _ := s.StockPrices(Days, "ACME", NewDate(2024, 1, 8), 2, false, 1)
		if len(got) != 2 || !got[0].Price.Equal(USD(104)) || !got[1].Price.Equal(USD(103)) {
			t.Errorf("StockPrices(opening) = %v, want $104.00 and $103.00", got)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		if _, err := s.StockPrices(Hours, "ACME", NewDate(2024, 1, 8), 2, true, 1); !errors.Is(err, ErrUnitNotDateBased) {
			t.Errorf("StockPrices(hours) error = %v, want %v", err, ErrUnitNotDateBased)
		}
		if _, err := s.StockPrices(Days, "ACME", NewDate(2024, 1, 8), 2, true, 0); !errors.Is(err, ErrInvalidLength) {
			t.Errorf("StockPrices(length 0) error = %v, want %v", err, ErrInvalidLength)
		}
		if _, err := s.StockPrices(Days, "NOPE", NewDate(2024, 1, 8), 2, true, 1); !errors.Is(err, ErrInvalidTicker) {
			t.Errorf("StockPrices(NOPE) error = %v, want %v", err, ErrInvalidTicker)
		}
	})
}

func TestStore_PortfolioValues(t *testing.T) {
	src := newFakeSource().
		weekdays("ACME", NewDate(2024, 1, 1), ramp(100, 15)...). // 2024-01-01..2024-01-19
		weekdays("LATE", NewDate(2024, 1, 15), flat(10, 5)...)   // 2024-01-15..2024-01-19
	s, _ := newTestStore(src)
	_ = s.CreatePortfolio("p")
	_ = s.AddStock("ACME", Q(2), NewDate(2024, 1, 3), "p")
	_ = s.AddStock("LATE", Q(10), NewDate(2024, 1, 16), "p")

	t.Run("weekly", func(t *testing.T) {
		got, err := s.PortfolioValues(Weeks, "p", NewDate(2024, 1, 19), 10, 1)
		if err != nil {
			t.Fatal(err)
		}
		want := []ValuePoint{
			{NewDate(2024, 1, 19), USD(2*114 + 10*10)},
			{NewDate(2024, 1, 12), USD(2 * 109)},
			{NewDate(2024, 1, 5), USD(2 * 104)},
		}
		if len(got) != len(want) {
			t.Fatalf("PortfolioValues() = %v, want %v", got, want)
		}
		for i := range want {
			if got[i].Date != want[i].Date || !got[i].Value.Equal(want[i].Value) {
				t.Errorf("PortfolioValues()[%d] = %v, want %v", i, got[i], want[i])
			}
		}
	})

	t.Run("week-ends yield no point", func(t *testing.T) {
		got, err := s.PortfolioValues(Days, "p", NewDate(2024, 1, 15), 3, 1)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 3 || got[0].Date != NewDate(2024, 1, 15) || got[1].Date != NewDate(2024, 1, 12) || got[2].Date != NewDate(2024, 1, 11) {
			t.Errorf("PortfolioValues() = %v, want 2024-01-15, 2024-01-12, 2024-01-11", got)
		}
	})

	t.Run("stops before every ipo", func(t *testing.T) {
		got, err := s.PortfolioValues(Days, "p", NewDate(2024, 1, 19), 100, 1)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 15 {
			t.Fatalf("PortfolioValues() returned %d points, want one per trading day (15)", len(got))
		}
		// no shares held yet: an explicit zero.
		if last := got[14]; last.Date != NewDate(2024, 1, 1) || !last.Value.IsZero() {
			t.Errorf("PortfolioValues() last point = %v, want a zero on 2024-01-01", last)
		}
	})

	t.Run("empty portfolio", func(t *testing.T) {
		_ = s.CreatePortfolio("empty")
		got, err := s.PortfolioValues(Days, "empty", NewDate(2024, 1, 19), 5, 1)
		if err != nil || len(got) != 0 {
			t.Errorf("PortfolioValues(empty) = %v, %v", got, err)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if _, err := s.PortfolioValues(Days, "nope", NewDate(2024, 1, 19), 5, 1); !errors.Is(err, ErrUnknownPortfolio) {
			t.Errorf("PortfolioValues(nope) error = %v, want %v", err, ErrUnknownPortfolio)
		}
	})
}
