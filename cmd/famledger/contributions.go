package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/google/subcommands"

	"famledger/internal/core"
	"famledger/internal/ledger"
)

type contributeCmd struct {
	*app
	member, beneficiary string
	amount, date, typ   string
}

func (*contributeCmd) Name() string     { return "contribute" }
func (*contributeCmd) Synopsis() string { return "record a contribution" }
func (*contributeCmd) Usage() string {
	return `famledger contribute -member MEMB-NNN -beneficiary <id> -amount <amount> [-date YYYY-MM-DD]
famledger contribute -member MEMB-NNN -type <type> -amount <amount> [-date YYYY-MM-DD]

  With -beneficiary the matrix cell for the pair is set, replacing any
  previous amount. With -type a standalone contribution record is appended.
`
}

func (c *contributeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.member, "member", "", "Member id.")
	f.StringVar(&c.beneficiary, "beneficiary", "", "Beneficiary id.")
	f.StringVar(&c.amount, "amount", "", "Amount, with dot or comma decimals.")
	f.StringVar(&c.date, "date", "", "Contribution date (YYYY-MM-DD), defaults to today.")
	f.StringVar(&c.typ, "type", "", "Contribution type for standalone records.")
}

func (c *contributeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	switch {
	case c.member == "":
		return c.usageError("contribute: -member is required")
	case (c.beneficiary == "") == (c.typ == ""):
		return c.usageError("contribute: exactly one of -beneficiary and -type is required")
	}
	amount, err := core.ParseAmount(c.amount)
	if err != nil {
		return c.usageError("contribute: %v", err)
	}
	date, err := core.ParseDate(c.date)
	if err != nil {
		return c.usageError("contribute: %v", err)
	}

	return c.withLedger(ctx, func(s *ledger.Store) error {
		m, ok := s.GetMember(c.member)
		if !ok {
			return fmt.Errorf("member %s: %w", c.member, core.ErrNotFound)
		}
		format := amountFormatter(s)
		if c.typ != "" {
			rec, err := s.SaveLegacyContribution(ctx, core.Contribution{
				MemberID:   m.ID,
				MemberName: m.Name,
				Type:       c.typ,
				Amount:     amount,
				Date:       date.Time,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "%s\t%s\t%s\t%s\n", rec.ID, m.Name, rec.Type, format(rec.Amount))
			return nil
		}
		if _, ok := s.GetBeneficiary(c.beneficiary); !ok {
			return fmt.Errorf("beneficiary %s: %w", c.beneficiary, core.ErrNotFound)
		}
		cell, err := s.SaveContributionCell(ctx, m.ID, c.beneficiary, amount, date.Time)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%s\t%s\t%s\n", cell.MemberID, cell.BeneficiaryID, format(cell.Amount))
		return nil
	})
}

type uncontributeCmd struct {
	*app
	member, beneficiary, id string
}

func (*uncontributeCmd) Name() string     { return "uncontribute" }
func (*uncontributeCmd) Synopsis() string { return "remove a contribution" }
func (*uncontributeCmd) Usage() string {
	return `famledger uncontribute -member MEMB-NNN -beneficiary <id>
famledger uncontribute -id <id>

  Removing a contribution that does not exist is not an error.
`
}

func (c *uncontributeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.member, "member", "", "Member id of the matrix cell.")
	f.StringVar(&c.beneficiary, "beneficiary", "", "Beneficiary id of the matrix cell.")
	f.StringVar(&c.id, "id", "", "Id of a standalone contribution record.")
}

func (c *uncontributeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id != "" {
		return c.withLedger(ctx, func(s *ledger.Store) error {
			return s.DeleteLegacyContribution(ctx, c.id)
		})
	}
	if c.member == "" || c.beneficiary == "" {
		return c.usageError("uncontribute: -member and -beneficiary, or -id, are required")
	}
	return c.withLedger(ctx, func(s *ledger.Store) error {
		return s.DeleteContributionCell(ctx, c.member, c.beneficiary)
	})
}

type contributionsCmd struct {
	*app
	typ string
}

func (*contributionsCmd) Name() string     { return "contributions" }
func (*contributionsCmd) Synopsis() string { return "list standalone contribution records" }
func (*contributionsCmd) Usage() string {
	return `famledger contributions [-type <type>]
`
}

func (c *contributionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.typ, "type", "", "Only list records of this type.")
}

func (c *contributionsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.withLedger(ctx, func(s *ledger.Store) error {
		format := amountFormatter(s)
		w := c.table()
		fmt.Fprintln(w, "ID\tMEMBER\tTYPE\tAMOUNT\tDATE")
		for _, rec := range s.ListLegacyContributions(c.typ) {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				rec.ID, rec.MemberName, rec.Type, format(rec.Amount), rec.Date.Format(time.DateOnly))
		}
		return w.Flush()
	})
}

type matrixCmd struct {
	*app
}

func (*matrixCmd) Name() string     { return "matrix" }
func (*matrixCmd) Synopsis() string { return "print the member by beneficiary contribution grid" }
func (*matrixCmd) Usage() string {
	return `famledger matrix

  Empty cells are printed as "-".
`
}

func (*matrixCmd) SetFlags(*flag.FlagSet) {}

func (c *matrixCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.withLedger(ctx, func(s *ledger.Store) error {
		grid := s.ContributionMatrix()
		w := c.table()

		fmt.Fprint(w, "MEMBER")
		for _, b := range grid.Beneficiaries {
			fmt.Fprintf(w, "\t%s", b.Name)
		}
		fmt.Fprintln(w, "\tTOTAL")

		for _, row := range grid.Rows {
			fmt.Fprint(w, row.Member.Name)
			for i, amount := range row.Amounts {
				if row.Filled[i] {
					fmt.Fprintf(w, "\t%s", amount.StringFixed(2))
				} else {
					fmt.Fprint(w, "\t-")
				}
			}
			fmt.Fprintf(w, "\t%s\n", row.Total.StringFixed(2))
		}

		fmt.Fprint(w, "TOTAL")
		for _, total := range grid.ColumnTotals {
			fmt.Fprintf(w, "\t%s", total.StringFixed(2))
		}
		fmt.Fprintf(w, "\t%s\n", grid.GrandTotal.StringFixed(2))
		return w.Flush()
	})
}
