package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"famledger/internal/core"
	"famledger/internal/ledger"
)

type beneficiariesCmd struct {
	*app
}

func (*beneficiariesCmd) Name() string     { return "beneficiaries" }
func (*beneficiariesCmd) Synopsis() string { return "list beneficiaries with their contribution totals" }
func (*beneficiariesCmd) Usage() string {
	return `famledger beneficiaries
`
}

func (*beneficiariesCmd) SetFlags(*flag.FlagSet) {}

func (c *beneficiariesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.withLedger(ctx, func(s *ledger.Store) error {
		format := amountFormatter(s)
		w := c.table()
		fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tTOTAL\tCONTRIBUTORS\tAVERAGE")
		for _, sum := range s.BeneficiarySummaries() {
			b := sum.Beneficiary
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
				b.ID, b.Name, b.Category, format(sum.Total), sum.Contributors, format(sum.Average))
		}
		return w.Flush()
	})
}

type addBeneficiaryCmd struct {
	*app
	id, name, category string
}

func (*addBeneficiaryCmd) Name() string     { return "add-beneficiary" }
func (*addBeneficiaryCmd) Synopsis() string { return "add a beneficiary" }
func (*addBeneficiaryCmd) Usage() string {
	return `famledger add-beneficiary -name <name> -category <category> [-id <id>]

  Known categories are benevolence, education, health and charity; others are
  accepted as well.
`
}

func (c *addBeneficiaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Beneficiary id, derived from the current time when empty.")
	f.StringVar(&c.name, "name", "", "Beneficiary name.")
	f.StringVar(&c.category, "category", core.CategoryBenevolence, "Beneficiary category.")
}

func (c *addBeneficiaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		return c.usageError("add-beneficiary: -name is required")
	}
	return c.withLedger(ctx, func(s *ledger.Store) error {
		b, err := s.SaveBeneficiary(ctx, core.Beneficiary{ID: c.id, Name: c.name, Category: c.category})
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%s\t%s\t%s\n", b.ID, b.Name, b.Category)
		return nil
	})
}

type deleteBeneficiaryCmd struct {
	*app
	id string
}

func (*deleteBeneficiaryCmd) Name() string { return "delete-beneficiary" }
func (*deleteBeneficiaryCmd) Synopsis() string {
	return "delete a beneficiary and every contribution made to it"
}
func (*deleteBeneficiaryCmd) Usage() string {
	return `famledger delete-beneficiary -id <id>
`
}

func (c *deleteBeneficiaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Beneficiary id.")
}

func (c *deleteBeneficiaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		return c.usageError("delete-beneficiary: -id is required")
	}
	return c.withLedger(ctx, func(s *ledger.Store) error {
		if _, ok := s.GetBeneficiary(c.id); !ok {
			return fmt.Errorf("beneficiary %s: %w", c.id, core.ErrNotFound)
		}
		return s.DeleteBeneficiary(ctx, c.id)
	})
}
