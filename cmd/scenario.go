package cmd

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/pratheeshkumar99/portfolio"
	"gopkg.in/yaml.v3"
)

// Scenario is a simulation described in YAML:
//
//	load: [saved.jsonl]
//	portfolios:
//	  - name: growth
//	    transactions:
//	      - {ticker: AAPL, quantity: 10, on: 2024-01-02}
//	    rebalance:
//	      - {on: 2024-06-03, weights: {AAPL: 50, MSFT: 50}}
//	  - name: monthly
//	    dca: {start: 2024-01-01, unit: month, total: 500, weights: {AAPL: 60, MSFT: 40}}
//	queries:
//	  - {kind: value, portfolio: growth, on: 2024-06-28}
//	  - {kind: prices, ticker: AAPL, unit: week, size: 4}
type Scenario struct {
	Load       []string    `yaml:"load"`
	Portfolios []Portfolio `yaml:"portfolios"`
	Queries    []Query     `yaml:"queries"`
}

// Portfolio is a portfolio to create, with its trades.
type Portfolio struct {
	Name         string      `yaml:"name"`
	Transactions []Trade     `yaml:"transactions"`
	DCA          *Plan       `yaml:"dca"`
	Rebalance    []Rebalance `yaml:"rebalance"`
	Immutable    bool        `yaml:"immutable"`
}

type Trade struct {
	Ticker   string         `yaml:"ticker"`
	Quantity float64        `yaml:"quantity"`
	On       portfolio.Date `yaml:"on"`
}

// Plan is a dollar-cost averaging schedule. Either amounts per ticker, or a
// total split by weights, are given. Without repetitions the plan runs until
// end, or forever.
type Plan struct {
	Start       portfolio.Date               `yaml:"start"`
	End         portfolio.Date               `yaml:"end"`
	Unit        portfolio.Unit               `yaml:"unit"`
	Length      int                          `yaml:"length"`
	Repetitions *int                         `yaml:"repetitions"`
	Amounts     map[string]float64           `yaml:"amounts"`
	Total       float64                      `yaml:"total"`
	Weights     map[string]portfolio.Percent `yaml:"weights"`
}

type Rebalance struct {
	On      portfolio.Date               `yaml:"on"`
	Weights map[string]portfolio.Percent `yaml:"weights"`
}

// Query is a question asked once every portfolio is in place.
//
// Kinds are value, cost_basis, distribution, values, prices, moving_average,
// crossovers and change.
type Query struct {
	Kind      string         `yaml:"kind"`
	Portfolio string         `yaml:"portfolio"`
	Ticker    string         `yaml:"ticker"`
	On        portfolio.Date `yaml:"on"`
	From      portfolio.Date `yaml:"from"`
	Unit      portfolio.Unit `yaml:"unit"`
	Length    int            `yaml:"length"`
	Size      int            `yaml:"size"`
	N         int            `yaml:"n"`
	Long      int            `yaml:"long"`
	Open      bool           `yaml:"open"`
}

func decodeScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := &Scenario{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("invalid scenario %q: %w", path, err)
	}
	return s, nil
}

// apply loads and creates the portfolios of the scenario in the session.
func (s *Scenario) apply(ses *portfolio.Session) error {
	ledger := ses.Ledger()
	for _, src := range s.Load {
		if _, err := ledger.LoadPortfolio(src); err != nil {
			return err
		}
	}
	for _, p := range s.Portfolios {
		if err := p.apply(ses); err != nil {
			return fmt.Errorf("portfolio %q: %w", p.Name, err)
		}
	}
	return nil
}

func (p *Portfolio) apply(ses *portfolio.Session) error {
	ledger := ses.Ledger()
	cur := ses.Historian().Currency()
	if p.DCA != nil {
		if err := p.DCA.create(ses.DCA(), p.Name, cur); err != nil {
			return err
		}
	} else if err := ledger.CreatePortfolio(p.Name); err != nil {
		return err
	}
	for _, t := range p.Transactions {
		if err := ledger.AddStock(t.Ticker, portfolio.Q(t.Quantity), t.On, p.Name); err != nil {
			return err
		}
	}
	for _, r := range p.Rebalance {
		if err := portfolio.Rebalance(ledger, ses.Historian(), p.Name, r.On, r.Weights); err != nil {
			return err
		}
	}
	if p.Immutable {
		return ledger.FlipMutability(p.Name)
	}
	return nil
}

func (d *Plan) create(engine *portfolio.DCA, name, cur string) error {
	length := max(d.Length, 1)
	amounts := make(map[string]portfolio.Money, len(d.Amounts))
	for ticker, a := range d.Amounts {
		amounts[ticker] = portfolio.M(a, cur)
	}
	repetitions := -1
	if len(d.Weights) > 0 {
		plan, err := portfolio.PlanDCA(portfolio.M(d.Total, cur), d.Weights, d.Start, d.End, d.Unit, length)
		if err != nil {
			return err
		}
		amounts, repetitions = plan.Amounts, plan.Repetitions
	} else if !d.End.IsZero() {
		repetitions = d.Unit.Between(d.Start, d.End) / length
	}
	if d.Repetitions != nil {
		repetitions = *d.Repetitions
	}
	return engine.AddDollarCostAveragingPortfolio(name, amounts, d.Start, d.Unit, length, repetitions)
}

// report answers every query of the scenario on w.
func (s *Scenario) report(w io.Writer, ses *portfolio.Session) error {
	for _, q := range s.Queries {
		if err := q.answer(w, ses); err != nil {
			return fmt.Errorf("%s query: %w", q.Kind, err)
		}
	}
	return nil
}

func (q Query) answer(w io.Writer, ses *portfolio.Session) error {
	ledger, prices := ses.Ledger(), ses.Historian()
	on := q.On
	if on.IsZero() {
		on = portfolio.Today()
	}
	length, size := max(q.Length, 1), q.Size
	if size <= 0 {
		size = 10
	}

	switch q.Kind {
	case "value":
		v, err := ledger.PortfolioValue(q.Portfolio, on)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s value on %s: %s\n", q.Portfolio, on, v)
	case "cost_basis":
		v, err := ledger.CostBasis(q.Portfolio, on)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s cost basis on %s: %s\n", q.Portfolio, on, v)
	case "distribution":
		d, err := ledger.Distribution(q.Portfolio, on)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s distribution on %s:\n", q.Portfolio, on)
		for _, ticker := range slices.Sorted(maps.Keys(d)) {
			fmt.Fprintf(w, "\t%s\t%s\n", ticker, d[ticker])
		}
	case "values":
		points, err := ledger.PortfolioValues(q.Unit, q.Portfolio, on, size, length)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s value every %d %s:\n", q.Portfolio, length, q.Unit)
		for _, p := range points {
			fmt.Fprintf(w, "\t%s\t%s\n", p.Date, p.Value)
		}
	case "prices":
		points, err := ledger.StockPrices(q.Unit, q.Ticker, on, size, !q.Open, length)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s price every %d %s:\n", q.Ticker, length, q.Unit)
		for _, p := range points {
			fmt.Fprintf(w, "\t%s\t%s\n", p.Date, p.Price)
		}
	case "moving_average":
		v, err := portfolio.MovingAverage(prices, q.Ticker, on, q.N)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s %d-day moving average on %s: %s\n", q.Ticker, q.N, on, v)
	case "crossovers":
		var xs []portfolio.Crossover
		var err error
		if q.Long > 0 {
			xs, err = portfolio.MovingCrossovers(prices, q.Ticker, q.From, on, q.N, q.Long)
		} else {
			xs, err = portfolio.Crossovers(prices, q.Ticker, q.From, on, q.N)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s crossovers from %s to %s:\n", q.Ticker, q.From, on)
		for _, x := range xs {
			fmt.Fprintf(w, "\t%s\t%s\n", x.Date, x.Trend)
		}
	case "change":
		v, err := portfolio.StockChange(prices, q.Ticker, q.From, on)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s change from %s to %s: %s\n", q.Ticker, q.From, on, v.SignedString())
	default:
		return fmt.Errorf("unknown query kind %q", q.Kind)
	}
	return nil
}
