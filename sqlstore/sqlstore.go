// Package sqlstore persists portfolios in a SQL database.
//
// Both the pure-Go SQLite driver ("sqlite") and Postgres through pgx ("pgx")
// are registered. The destination passed to Write is the key the portfolio is
// stored under, and the same key is given to Read to load it back.
package sqlstore

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pratheeshkumar99/portfolio"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS portfolios (
		dest TEXT PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		dest     TEXT NOT NULL,
		seq      INTEGER NOT NULL,
		day      TEXT NOT NULL,
		ticker   TEXT NOT NULL,
		quantity TEXT NOT NULL,
		PRIMARY KEY (dest, seq)
	)`,
}

type row struct {
	Dest     string `db:"dest"`
	Seq      int    `db:"seq"`
	Day      string `db:"day"`
	Ticker   string `db:"ticker"`
	Quantity string `db:"quantity"`
}

// Store is a portfolio Writer and Reader backed by a database.
type Store struct {
	db  *sqlx.DB
	log zerolog.Logger
}

var (
	_ portfolio.Writer = (*Store)(nil)
	_ portfolio.Reader = (*Store)(nil)
)

// Open connects to the database and creates the tables if needed.
func Open(driver, dsn string, log zerolog.Logger) (*Store, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	s := &Store{db: db, log: log.With().Str("component", "sqlstore").Str("driver", driver).Logger()}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	s.log.Debug().Msg("database opened")
	return s, nil
}

func (s *Store) migrate() error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

// Write replaces whatever is stored under dest with the portfolio.
func (s *Store) Write(dest, name string, txs []portfolio.StockTransaction) (err error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.log.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if _, err = tx.Exec(tx.Rebind(`DELETE FROM transactions WHERE dest = ?`), dest); err != nil {
		return err
	}
	if _, err = tx.Exec(tx.Rebind(`DELETE FROM portfolios WHERE dest = ?`), dest); err != nil {
		return err
	}
	if _, err = tx.Exec(tx.Rebind(`INSERT INTO portfolios (dest, name) VALUES (?, ?)`), dest, name); err != nil {
		return err
	}
	for i, t := range txs {
		r := row{Dest: dest, Seq: i, Day: t.On().String(), Ticker: t.Ticker(), Quantity: t.Quantity().String()}
		_, err = tx.NamedExec(`INSERT INTO transactions (dest, seq, day, ticker, quantity)
			VALUES (:dest, :seq, :day, :ticker, :quantity)`, r)
		if err != nil {
			return fmt.Errorf("insert %v: %w", t, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	s.log.Info().Str("dest", dest).Str("portfolio", name).Int("transactions", len(txs)).Msg("portfolio written")
	return nil
}

// Read loads the portfolio stored under src.
func (s *Store) Read(src string) (string, []portfolio.StockTransaction, error) {
	var name string
	if err := s.db.Get(&name, s.db.Rebind(`SELECT name FROM portfolios WHERE dest = ?`), src); err != nil {
		return "", nil, fmt.Errorf("portfolio %q: %w", src, err)
	}
	var rows []row
	err := s.db.Select(&rows, s.db.Rebind(`SELECT dest, seq, day, ticker, quantity FROM transactions WHERE dest = ? ORDER BY seq`), src)
	if err != nil {
		return "", nil, fmt.Errorf("transactions of %q: %w", src, err)
	}
	txs := make([]portfolio.StockTransaction, 0, len(rows))
	for _, r := range rows {
		on, err := portfolio.ParseDate(r.Day)
		if err != nil {
			return "", nil, err
		}
		q, err := decimal.NewFromString(r.Quantity)
		if err != nil {
			return "", nil, fmt.Errorf("invalid quantity %q: %w", r.Quantity, err)
		}
		txs = append(txs, portfolio.NewStockTransaction(r.Ticker, portfolio.Q(q), on))
	}
	return name, txs, nil
}
