package sqlstore

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/pratheeshkumar99/portfolio"
	"github.com/rs/zerolog"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open("sqlite", filepath.Join(t.TempDir(), "portfolios.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_WriteRead(t *testing.T) {
	s := openTest(t)
	want := []portfolio.StockTransaction{
		portfolio.NewStockTransaction("AAPL", portfolio.Q(10), portfolio.NewDate(2024, 1, 2)),
		portfolio.NewStockTransaction("MSFT", portfolio.Q(0.25), portfolio.NewDate(2024, 1, 3)),
		portfolio.NewStockTransaction("AAPL", portfolio.Q(-4), portfolio.NewDate(2024, 2, 1)),
	}
	if err := s.Write("main", "retirement", want); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	name, got, err := s.Read("main")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if name != "retirement" || len(got) != len(want) {
		t.Fatalf("Read() = %q, %v", name, got)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("Read()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestStore_WriteReplaces(t *testing.T) {
	s := openTest(t)
	first := []portfolio.StockTransaction{
		portfolio.NewStockTransaction("AAPL", portfolio.Q(1), portfolio.NewDate(2024, 1, 2)),
		portfolio.NewStockTransaction("AAPL", portfolio.Q(2), portfolio.NewDate(2024, 1, 3)),
	}
	if err := s.Write("main", "old", first); err != nil {
		t.Fatal(err)
	}
	second := first[:1]
	if err := s.Write("main", "new", second); err != nil {
		t.Fatal(err)
	}
	name, got, err := s.Read("main")
	if err != nil {
		t.Fatal(err)
	}
	if name != "new" || len(got) != 1 {
		t.Errorf("Read() = %q, %v, want the replacement only", name, got)
	}
}

func TestStore_ReadMissing(t *testing.T) {
	s := openTest(t)
	_, _, err := s.Read("nothing")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Read(missing) error = %v, want sql.ErrNoRows", err)
	}
}
