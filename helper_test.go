package portfolio

import (
	"fmt"
	"sync"
	"time"
)

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// today is the fixed current day of tests.
var today = NewDate(2024, time.June, 1)

func clock() Date { return today }

// fakeSource serves in-memory prices and counts fetches per ticker.
type fakeSource struct {
	mu      sync.Mutex
	prices  map[string]map[Date][]float64
	fetches map[string]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		prices:  make(map[string]map[Date][]float64),
		fetches: make(map[string]int),
	}
}

func (f *fakeSource) Fetch(ticker string) (map[Date][]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches[ticker]++
	p, ok := f.prices[ticker]
	if !ok {
		return nil, fmt.Errorf("no such ticker %q", ticker)
	}
	return p, nil
}

func (f *fakeSource) count(ticker string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches[ticker]
}

// daily adds one close per calendar day from 'from'.
func (f *fakeSource) daily(ticker string, from Date, closes ...float64) *fakeSource {
	return f.add(ticker, from, false, closes...)
}

// weekdays adds one close per weekday from 'from', skipping week-ends.
func (f *fakeSource) weekdays(ticker string, from Date, closes ...float64) *fakeSource {
	return f.add(ticker, from, true, closes...)
}

func (f *fakeSource) add(ticker string, from Date, skipWeekends bool, closes ...float64) *fakeSource {
	p, ok := f.prices[ticker]
	if !ok {
		p = make(map[Date][]float64)
		f.prices[ticker] = p
	}
	on := from
	for _, c := range closes {
		for skipWeekends && (on.Weekday() == time.Saturday || on.Weekday() == time.Sunday) {
			on = on.Add(1)
		}
		p[on] = []float64{c - 1, c + 1, c - 2, c, 1000}
		on = on.Add(1)
	}
	return f
}

// ramp returns n closes starting at start and growing by 1.
func ramp(start float64, n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start + float64(i)
	}
	return closes
}

// flat returns n identical closes.
func flat(c float64, n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = c
	}
	return closes
}

func newTestHistorian(src PriceSource) *Historian {
	return NewHistorian(src, WithClock(clock))
}

func newTestStore(src PriceSource) (*Store, *Historian) {
	h := newTestHistorian(src)
	return NewStore(h, WithClock(clock)), h
}
