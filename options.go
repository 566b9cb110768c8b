package portfolio

import "github.com/rs/zerolog"

// options gathers the settings shared by the Historian, the Store, the DCA engine and the Session.
type options struct {
	currency string
	clock    func() Date
	log      zerolog.Logger
	writer   Writer
	reader   Reader
}

// Option configures a component.
//
// Components ignore the options they have no use for.
type Option func(*options)

func newOptions(opts []Option) options {
	o := options{
		currency: "USD",
		clock:    Today,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithCurrency sets the currency of the prices returned by the historian. Default is "USD".
func WithCurrency(cur string) Option { return func(o *options) { o.currency = cur } }

// WithClock sets the function returning the current day. Default is Today.
func WithClock(clock func() Date) Option { return func(o *options) { o.clock = clock } }

// WithLogger sets the logger. Default is a no-op logger.
func WithLogger(log zerolog.Logger) Option { return func(o *options) { o.log = log } }

// WithWriter sets the Writer used by SavePortfolio.
func WithWriter(w Writer) Option { return func(o *options) { o.writer = w } }

// WithReader sets the Reader used by LoadPortfolio.
func WithReader(r Reader) Option { return func(o *options) { o.reader = r } }
