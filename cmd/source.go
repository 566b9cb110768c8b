package cmd

import (
	"fmt"

	"github.com/pratheeshkumar99/portfolio"
	"github.com/pratheeshkumar99/portfolio/alpaca"
	"github.com/pratheeshkumar99/portfolio/config"
	"github.com/pratheeshkumar99/portfolio/eodhd"
	"github.com/pratheeshkumar99/portfolio/jsonl"
	"github.com/pratheeshkumar99/portfolio/pricecache"
	"github.com/pratheeshkumar99/portfolio/sqlstore"
	"github.com/pratheeshkumar99/portfolio/xlsx"
	"github.com/pratheeshkumar99/portfolio/yahoo"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func nop() error { return nil }

// newSource returns the configured market data provider, behind the redis
// cache when one is configured.
func newSource(cfg *config.Config, log zerolog.Logger) (portfolio.PriceSource, func() error, error) {
	var src portfolio.PriceSource
	switch cfg.Source.Provider {
	case config.ProviderEODHD:
		var opts []eodhd.Option
		if cfg.Source.BaseURL != "" {
			opts = append(opts, eodhd.WithBaseURL(cfg.Source.BaseURL))
		}
		src = eodhd.New(cfg.Source.APIKey, log, opts...)
	case config.ProviderYahoo:
		src = yahoo.New(cfg.Source.BaseURL, cfg.Source.Timeout, log)
	case config.ProviderAlpaca:
		src = alpaca.New(cfg.Source.APIKey, cfg.Source.APISecret, cfg.Source.BaseURL, log)
	default:
		return nil, nil, fmt.Errorf("unknown provider %q", cfg.Source.Provider)
	}

	if cfg.Cache.RedisAddr == "" {
		return src, nop, nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisAddr})
	return pricecache.New(src, client, cfg.Cache.TTL, log), client.Close, nil
}

// newStorage returns the Writer and Reader of the configured driver. The
// Reader is nil for write-only formats.
func newStorage(cfg *config.Config, log zerolog.Logger) (portfolio.Writer, portfolio.Reader, func() error, error) {
	switch cfg.Storage.Driver {
	case config.DriverJSONL:
		return jsonl.Store{}, jsonl.Store{}, nop, nil
	case config.DriverXLSX:
		return xlsx.New(log), nil, nop, nil
	case config.DriverSQLite, config.DriverPgx:
		s, err := sqlstore.Open(cfg.Storage.Driver, cfg.Storage.DSN, log)
		if err != nil {
			return nil, nil, nil, err
		}
		return s, s, s.Close, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
