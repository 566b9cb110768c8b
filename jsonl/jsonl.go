// Package jsonl persists portfolios as JSON lines.
//
// The first line names the portfolio, each following line is one transaction:
//
//	{"portfolio":"retirement"}
//	{"on":"2024-01-02","ticker":"AAPL","quantity":10}
//	{"on":"2024-03-01","ticker":"AAPL","quantity":-2.5}
package jsonl

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pratheeshkumar99/portfolio"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type header struct {
	Portfolio string `json:"portfolio"`
}

type line struct {
	On       portfolio.Date  `json:"on"`
	Ticker   string          `json:"ticker"`
	Quantity decimal.Decimal `json:"quantity"`
}

// Encode writes a portfolio to w in JSONL format.
func Encode(w io.Writer, name string, txs []portfolio.StockTransaction) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(header{Portfolio: name}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, tx := range txs {
		l := line{On: tx.On(), Ticker: tx.Ticker(), Quantity: tx.Quantity().Decimal()}
		if err := enc.Encode(l); err != nil {
			return fmt.Errorf("failed to write transaction %v: %w", tx, err)
		}
	}
	return nil
}

// Decode reads a portfolio from a stream of JSONL data.
func Decode(r io.Reader) (name string, txs []portfolio.StockTransaction, err error) {
	scanner := bufio.NewScanner(r)
	first := true
	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}
		if first {
			var h header
			if err := json.Unmarshal(lineBytes, &h); err != nil || h.Portfolio == "" {
				return "", nil, fmt.Errorf("missing portfolio header in line %q", string(lineBytes))
			}
			name, first = h.Portfolio, false
			continue
		}
		var l line
		if err := json.Unmarshal(lineBytes, &l); err != nil {
			return "", nil, fmt.Errorf("could not decode transaction in line %q: %w", string(lineBytes), err)
		}
		if l.Ticker == "" || l.On.IsZero() {
			return "", nil, fmt.Errorf("incomplete transaction in line %q", string(lineBytes))
		}
		txs = append(txs, portfolio.NewStockTransaction(l.Ticker, portfolio.Q(l.Quantity), l.On))
	}
	if err := scanner.Err(); err != nil {
		return "", nil, err
	}
	if first {
		return "", nil, errors.New("empty portfolio file")
	}
	return name, txs, nil
}

// Store reads and writes portfolio files. A destination that is a directory
// receives a file named after the portfolio.
type Store struct{}

var (
	_ portfolio.Writer = Store{}
	_ portfolio.Reader = Store{}
)

func (Store) Write(dest, name string, txs []portfolio.StockTransaction) error {
	if info, err := os.Stat(dest); err == nil && info.IsDir() {
		dest = filepath.Join(dest, name+".jsonl")
	}
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	if err := Encode(f, name, txs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (Store) Read(src string) (string, []portfolio.StockTransaction, error) {
	f, err := os.Open(src)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()
	return Decode(f)
}
