package portfolio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSession(t *testing.T) {
	var logs bytes.Buffer
	src := newFakeSource().weekdays("ACME", NewDate(2024, 1, 1), flat(10, 130)...)
	s := NewSession(src, WithClock(clock), WithLogger(zerolog.New(&logs).Level(zerolog.DebugLevel)))
	other := NewSession(src, WithClock(clock))

	if s.ID() == "" || s.ID() == other.ID() {
		t.Errorf("session IDs %q and %q should be unique", s.ID(), other.ID())
	}

	l := s.Ledger()
	if err := s.DCA().AddDollarCostAveragingPortfolio("dca", map[string]Money{"ACME": USD(100)}, NewDate(2024, 1, 8), Weeks, 1, 2); err != nil {
		t.Fatal(err)
	}
	if !l.IsPortfolioPresent("dca") || !s.Store().IsPortfolioPresent("dca") {
		t.Errorf("the DCA portfolio should be visible from the ledger and the store")
	}
	value, err := l.PortfolioValue("dca", NewDate(2024, 2, 1))
	if err != nil || !value.Equal(USD(200)) {
		t.Errorf("PortfolioValue() = %v, %v, want $200.00", value, err)
	}
	// sessions do not share their cache.
	_, _ = other.Historian().IPO("ACME")
	if got := src.count("ACME"); got != 2 {
		t.Errorf("ACME fetched %d times, want once per session", got)
	}
	if !strings.Contains(logs.String(), s.ID()) {
		t.Errorf("logs should carry the session id: %s", logs.String())
	}
}
