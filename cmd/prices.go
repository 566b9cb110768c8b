package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/pratheeshkumar99/portfolio"
)

type pricesCmd struct {
	unit   string
	length int
	size   int
	to     string
	open   bool
}

func (*pricesCmd) Name() string     { return "prices" }
func (*pricesCmd) Synopsis() string { return "display the price history of a ticker" }
func (*pricesCmd) Usage() string {
	return `prices [-u <unit>] [-l <length>] [-n <size>] [-d <date>] [-open] <ticker>

  Displays the latest price of each period, walking back from the date until
  the ticker's first trading day.
`
}

func (c *pricesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.unit, "u", "day", "period unit (day, week, month, year)")
	f.IntVar(&c.length, "l", 1, "number of units per period")
	f.IntVar(&c.size, "n", 10, "maximum number of prices")
	f.StringVar(&c.to, "d", "0d", "the most recent date (defaults to today)")
	f.BoolVar(&c.open, "open", false, "use opening prices instead of closing prices")
}

func (c *pricesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "exactly one ticker must be provided")
		return subcommands.ExitUsageError
	}
	unit, err := portfolio.ParseUnit(c.unit)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	to, err := portfolio.ParseDate(c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	a, err := openApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	q := Query{Kind: "prices", Ticker: f.Arg(0), On: to, Unit: unit, Length: c.length, Size: c.size, Open: c.open}
	if err := q.answer(os.Stdout, a.session()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
