package xlsx

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pratheeshkumar99/portfolio"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

func readSheets(t *testing.T, path string) map[string][][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	defer f.Close()
	sheets := make(map[string][][]string)
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			t.Fatalf("GetRows(%q) error = %v", name, err)
		}
		sheets[name] = rows
	}
	return sheets
}

func TestWriter_Write(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "export.xlsx")
	w := New(zerolog.Nop())

	growth := []portfolio.StockTransaction{
		portfolio.NewStockTransaction("AAPL", portfolio.Q(10), portfolio.NewDate(2024, 1, 2)),
		portfolio.NewStockTransaction("AAPL", portfolio.Q(-2.5), portfolio.NewDate(2024, 3, 1)),
	}
	income := []portfolio.StockTransaction{
		portfolio.NewStockTransaction("KO", portfolio.Q(3), portfolio.NewDate(2024, 2, 5)),
	}
	if err := w.Write(dest, "growth", growth); err != nil {
		t.Fatalf("Write(growth) error = %v", err)
	}
	if err := w.Write(dest, "income", income); err != nil {
		t.Fatalf("Write(income) error = %v", err)
	}
	// Rewriting a portfolio replaces its sheet.
	if err := w.Write(dest, "growth", growth[:1]); err != nil {
		t.Fatalf("Write(growth) error = %v", err)
	}

	want := map[string][][]string{
		"growth": {
			{"Date", "Ticker", "Quantity"},
			{"2024-01-02", "AAPL", "10"},
		},
		"income": {
			{"Date", "Ticker", "Quantity"},
			{"2024-02-05", "KO", "3"},
		},
	}
	if diff := cmp.Diff(want, readSheets(t, dest)); diff != "" {
		t.Errorf("workbook mismatch (-want +got):\n%s", diff)
	}
}

func TestSheetName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"short", "short"},
		{"a very long portfolio name that excel rejects", "a very long portfolio name that"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sheetName(tt.name); got != tt.want {
				t.Errorf("sheetName() = %q, want %q", got, tt.want)
			}
		})
	}
}
