// Package xlsx exports portfolios to Excel workbooks.
package xlsx

import (
	"errors"
	"fmt"
	"os"

	"github.com/pratheeshkumar99/portfolio"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// sheet names are limited to 31 characters by Excel.
const maxSheetName = 31

// Writer writes each portfolio to its own sheet of the workbook at dest. An
// existing workbook is updated in place and a sheet with the same name is
// replaced.
type Writer struct {
	log zerolog.Logger
}

var _ portfolio.Writer = (*Writer)(nil)

func New(log zerolog.Logger) *Writer {
	return &Writer{log: log.With().Str("component", "xlsx").Logger()}
}

func open(dest string) (*excelize.File, bool, error) {
	f, err := excelize.OpenFile(dest)
	if errors.Is(err, os.ErrNotExist) {
		return excelize.NewFile(), true, nil
	}
	return f, false, err
}

func sheetName(name string) string {
	r := []rune(name)
	if len(r) > maxSheetName {
		r = r[:maxSheetName]
	}
	return string(r)
}

func (w *Writer) Write(dest, name string, txs []portfolio.StockTransaction) error {
	f, created, err := open(dest)
	if err != nil {
		return fmt.Errorf("open workbook %q: %w", dest, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			w.log.Error().Err(err).Msg("got error while closing file")
		}
	}()

	sheet := sheetName(name)
	// A workbook keeps at least one sheet, so the old one is renamed away and
	// only deleted once its replacement exists.
	stale := ""
	if idx, _ := f.GetSheetIndex(sheet); idx >= 0 {
		stale = sheetName("~" + sheet)
		if err := f.SetSheetName(sheet, stale); err != nil {
			return err
		}
	}
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("new sheet %q: %w", sheet, err)
	}
	if err := fillSheet(f, sheet, txs); err != nil {
		return err
	}
	if stale != "" {
		if err := f.DeleteSheet(stale); err != nil {
			return err
		}
		// indexes shift after a deletion
		idx, _ = f.GetSheetIndex(sheet)
	}
	if created && sheet != defaultSheet {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			w.log.Warn().Err(err).Msg("got error while deleting default sheet")
		}
		idx, _ = f.GetSheetIndex(sheet)
	}
	f.SetActiveSheet(idx)

	if err := f.SaveAs(dest); err != nil {
		return fmt.Errorf("save workbook %q: %w", dest, err)
	}
	w.log.Info().Str("dest", dest).Str("portfolio", name).Int("transactions", len(txs)).Msg("portfolio exported")
	return nil
}

func fillSheet(f *excelize.File, sheet string, txs []portfolio.StockTransaction) error {
	if err := f.SetSheetRow(sheet, "A1", &[]any{"Date", "Ticker", "Quantity"}); err != nil {
		return err
	}
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#cfe2f3"}},
	})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "C1", style); err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", "A", 12); err != nil {
		return err
	}

	for i, tx := range txs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{tx.On().String(), tx.Ticker(), tx.Quantity().Float64()}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	return nil
}
