package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/pratheeshkumar99/portfolio"
	"github.com/pratheeshkumar99/portfolio/config"
)

type exportCmd struct {
	dest string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "save the portfolios of a scenario" }
func (*exportCmd) Usage() string {
	return `export [-o <dest>] <scenario.yaml>

  Creates the portfolios of the scenario and saves each of them with the
  configured storage driver. Dollar-cost averaging purchases are saved as
  plain transactions.

  The destination defaults to the current directory for jsonl, to
  portfolios.xlsx for xlsx, and to the portfolio name for databases.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dest, "o", "", "destination of the saved portfolios")
}

// destination returns where to save the portfolio name.
func (c *exportCmd) destination(driver, name string) string {
	switch {
	case c.dest != "":
		return c.dest
	case driver == config.DriverJSONL:
		return "."
	case driver == config.DriverXLSX:
		return "portfolios.xlsx"
	default:
		return name
	}
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "exactly one scenario file must be provided")
		return subcommands.ExitUsageError
	}
	scenario, err := decodeScenario(f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	a, err := openApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	ses := a.session()
	if err := scenario.apply(ses); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := c.export(ses.Ledger(), a.cfg.Storage.Driver); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *exportCmd) export(ledger portfolio.Ledger, driver string) error {
	for _, name := range ledger.PortfolioNames() {
		dest := c.destination(driver, name)
		if err := ledger.SavePortfolio(dest, name); err != nil {
			return err
		}
		fmt.Printf("Saved %s to %s\n", name, dest)
	}
	return nil
}
