// Package cmd implements the stocksim command line.
//
// A main package calls Register() and then Execute() on the user-selected
// subcommand.
package cmd

import (
	"errors"
	"flag"

	"github.com/google/subcommands"
	"github.com/pratheeshkumar99/portfolio"
	"github.com/pratheeshkumar99/portfolio/config"
	"github.com/rs/zerolog"
)

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(&pricesCmd{}, "market")
	c.Register(&runCmd{}, "simulation")
	c.Register(&exportCmd{}, "simulation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "stocksim.yaml", "Path to the configuration file (YAML)")

// app holds what every command needs: the configuration, a logger and the
// configured price source and storage.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	source  portfolio.PriceSource
	writer  portfolio.Writer
	reader  portfolio.Reader
	closers []func() error
}

func openApp() (*app, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: newLogger(cfg.Level())}

	src, closeSource, err := newSource(cfg, a.log)
	if err != nil {
		return nil, err
	}
	a.source = src
	a.closers = append(a.closers, closeSource)

	w, r, closeStorage, err := newStorage(cfg, a.log)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.writer, a.reader = w, r
	a.closers = append(a.closers, closeStorage)
	return a, nil
}

// session starts a simulation on the configured source and storage.
func (a *app) session() *portfolio.Session {
	opts := []portfolio.Option{
		portfolio.WithCurrency(a.cfg.Currency),
		portfolio.WithLogger(a.log),
		portfolio.WithWriter(a.writer),
	}
	if a.reader != nil {
		opts = append(opts, portfolio.WithReader(a.reader))
	}
	return portfolio.NewSession(a.source, opts...)
}

func (a *app) Close() {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	if err := errors.Join(errs...); err != nil {
		a.log.Warn().Err(err).Msg("closing resources")
	}
}
