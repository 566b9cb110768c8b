package portfolio

import (
	"slices"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Session owns the price cache and the portfolios of one simulation.
type Session struct {
	id        string
	log       zerolog.Logger
	historian *Historian
	store     *Store
	dca       *DCA
}

// NewSession returns a new simulation session fetching prices from source.
func NewSession(source PriceSource, opts ...Option) *Session {
	id := uuid.NewString()
	o := newOptions(opts)
	log := o.log.With().Str("session", id).Logger()
	opts = append(slices.Clip(opts), WithLogger(log))

	h := NewHistorian(source, opts...)
	store := NewStore(h, opts...)
	s := &Session{
		id:        id,
		log:       log,
		historian: h,
		store:     store,
		dca:       NewDCA(store, h, opts...),
	}
	log.Debug().Msg("session started")
	return s
}

func (s *Session) ID() string             { return s.id }
func (s *Session) Historian() *Historian  { return s.historian }
func (s *Session) Store() *Store          { return s.store }
func (s *Session) DCA() *DCA              { return s.dca }
func (s *Session) Logger() zerolog.Logger { return s.log }

// Ledger returns the session's top level Ledger, aware of dollar-cost averaging portfolios.
func (s *Session) Ledger() Ledger { return s.dca }
