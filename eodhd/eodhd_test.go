package eodhd

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/pratheeshkumar99/portfolio"
	"github.com/rs/zerolog"
)

const payload = `[
	{"date": "2024-02-12", "open": 1, "high": 3, "low": 0.5, "close": 2, "adjusted_close": 2, "volume": 100},
	{"date": "2024-02-13", "open": 675.066, "high": 684.219, "low": 648.659, "close": 668.445, "adjusted_close": 67.705, "volume": 0}
]`

func newServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/api/eod/MCD.US" || r.URL.Query().Get("api_token") != "demo" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSource_Fetch(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, &calls)
	s := New("demo", zerolog.Nop(), WithBaseURL(srv.URL), WithClient(srv.Client()))

	prices, err := s.Fetch("MCD.US")
	if err != nil {
		t.Fatalf("Fetch() unexpected error = %v", err)
	}
	if len(prices) != 2 {
		t.Fatalf("Fetch() returned %d days, want 2", len(prices))
	}
	got := prices[portfolio.NewDate(2024, 2, 13)]
	want := []float64{675.066, 684.219, 648.659, 668.445, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Fetch()[2024-02-13] = %v, want %v", got, want)
			break
		}
	}

	if _, err := s.Fetch("NOPE.US"); err == nil {
		t.Errorf("Fetch(NOPE.US) expected an error")
	}
}

func TestDiskCache(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, &calls)
	client := &http.Client{Transport: &diskCache{
		base:  srv.Client().Transport,
		dir:   t.TempDir(),
		today: func() portfolio.Date { return portfolio.NewDate(2024, 2, 14) },
		log:   zerolog.Nop(),
	}}
	s := New("demo", zerolog.Nop(), WithBaseURL(srv.URL), WithClient(client))

	for range 3 {
		if _, err := s.Fetch("MCD.US"); err != nil {
			t.Fatalf("Fetch() unexpected error = %v", err)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("server called %d times, want 1", calls.Load())
	}
	// errors are not cached
	for range 2 {
		_, _ = s.Fetch("NOPE.US")
	}
	if calls.Load() != 3 {
		t.Errorf("server called %d times, want 3", calls.Load())
	}
}
