package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"famledger/internal/backend"
	"famledger/internal/core"
	"famledger/internal/ledger"
)

// app carries what every subcommand needs.
type app struct {
	out    io.Writer
	errOut io.Writer
	in     io.Reader
	open   func(ctx context.Context) (*ledger.Store, backend.CleanupFunc, error)
}

// register the subcommands.
func register(c *subcommands.Commander, a *app) {
	c.Register(&membersCmd{app: a}, "members")
	c.Register(&addMemberCmd{app: a}, "members")
	c.Register(&departCmd{app: a}, "members")
	c.Register(&departedCmd{app: a}, "members")
	c.Register(&eulogyCmd{app: a}, "members")

	c.Register(&beneficiariesCmd{app: a}, "beneficiaries")
	c.Register(&addBeneficiaryCmd{app: a}, "beneficiaries")
	c.Register(&deleteBeneficiaryCmd{app: a}, "beneficiaries")

	c.Register(&contributeCmd{app: a}, "contributions")
	c.Register(&uncontributeCmd{app: a}, "contributions")
	c.Register(&contributionsCmd{app: a}, "contributions")
	c.Register(&matrixCmd{app: a}, "contributions")

	c.Register(&savingsCmd{app: a}, "savings")
	c.Register(&addSavingCmd{app: a}, "savings")
	c.Register(&deleteSavingCmd{app: a}, "savings")

	c.Register(&statsCmd{app: a}, "ledger")
	c.Register(&settingsCmd{app: a}, "ledger")
	c.Register(&exportCmd{app: a}, "ledger")
	c.Register(&importCmd{app: a}, "ledger")
	c.Register(&clearCmd{app: a}, "ledger")
}

// withLedger opens the ledger, runs fn and releases the backend.
func (a *app) withLedger(ctx context.Context, fn func(*ledger.Store) error) subcommands.ExitStatus {
	store, cleanup, err := a.open(ctx)
	if err != nil {
		fmt.Fprintln(a.errOut, err)
		return subcommands.ExitFailure
	}
	defer cleanup()

	if err := fn(store); err != nil {
		fmt.Fprintln(a.errOut, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (a *app) usageError(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(a.errOut, format+"\n", args...)
	return subcommands.ExitUsageError
}

func (a *app) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
}

// amountFormatter renders amounts in the ledger currency.
func amountFormatter(s *ledger.Store) func(decimal.Decimal) string {
	currency := s.Settings().Currency
	return func(d decimal.Decimal) string {
		return core.FormatAmount(d, currency)
	}
}
