// Package pricecache shares fetched price histories through redis.
package pricecache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/pratheeshkumar99/portfolio"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// kv is the subset of *redis.Client used by the cache.
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// Source is a portfolio.PriceSource that serves histories from redis,
// falling back to another source on a miss.
//
// Redis failures are logged and never fail a fetch.
type Source struct {
	source  portfolio.PriceSource
	redis   kv
	ttl     time.Duration
	timeout time.Duration
	log     zerolog.Logger
}

var _ portfolio.PriceSource = (*Source)(nil)

// New returns a Source caching the histories of source for ttl.
func New(source portfolio.PriceSource, client *redis.Client, ttl time.Duration, log zerolog.Logger) *Source {
	return newSource(source, client, ttl, log)
}

func newSource(source portfolio.PriceSource, redis kv, ttl time.Duration, log zerolog.Logger) *Source {
	return &Source{
		source:  source,
		redis:   redis,
		ttl:     ttl,
		timeout: 2 * time.Second,
		log:     log.With().Str("component", "pricecache").Logger(),
	}
}

func key(ticker string) string { return "prices:" + ticker }

// Fetch returns the cached history of ticker, or fetches and caches it.
func (s *Source) Fetch(ticker string) (map[portfolio.Date][]float64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if prices, ok := s.get(ctx, ticker); ok {
		return prices, nil
	}
	prices, err := s.source.Fetch(ticker)
	if err != nil || len(prices) == 0 {
		return prices, err
	}
	s.set(ctx, ticker, prices)
	return prices, nil
}

func (s *Source) get(ctx context.Context, ticker string) (map[portfolio.Date][]float64, bool) {
	res, err := s.redis.Get(ctx, key(ticker)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		s.log.Warn().Err(err).Str("ticker", ticker).Msg("failed on redis.Get")
		return nil, false
	}
	var prices map[portfolio.Date][]float64
	if err := json.Unmarshal([]byte(res), &prices); err != nil {
		s.log.Warn().Err(err).Str("ticker", ticker).Msg("can't unmarshall cached prices")
		return nil, false
	}
	s.log.Debug().Str("ticker", ticker).Msg("cache hit")
	return prices, true
}

func (s *Source) set(ctx context.Context, ticker string, prices map[portfolio.Date][]float64) {
	data, err := json.Marshal(prices)
	if err != nil {
		s.log.Warn().Err(err).Str("ticker", ticker).Msg("can't marshall prices")
		return
	}
	if err := s.redis.Set(ctx, key(ticker), data, s.ttl).Err(); err != nil {
		s.log.Warn().Err(err).Str("ticker", ticker).Msg("failed on redis.Set")
	}
}
