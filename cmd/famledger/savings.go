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

type savingsCmd struct {
	*app
	member string
}

func (*savingsCmd) Name() string     { return "savings" }
func (*savingsCmd) Synopsis() string { return "list recorded savings" }
func (*savingsCmd) Usage() string {
	return `famledger savings [-member MEMB-NNN]
`
}

func (c *savingsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.member, "member", "", "Only list savings of this member.")
}

func (c *savingsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.withLedger(ctx, func(s *ledger.Store) error {
		format := amountFormatter(s)
		w := c.table()
		fmt.Fprintln(w, "ID\tMEMBER\tAMOUNT\tDATE")
		for _, sv := range s.ListSavings() {
			if c.member != "" && sv.MemberID != c.member {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", sv.ID, sv.MemberName, format(sv.Amount), sv.Date.Format(time.DateOnly))
		}
		return w.Flush()
	})
}

type addSavingCmd struct {
	*app
	id, member, amount, date string
}

func (*addSavingCmd) Name() string     { return "add-saving" }
func (*addSavingCmd) Synopsis() string { return "record a saving" }
func (*addSavingCmd) Usage() string {
	return `famledger add-saving -member MEMB-NNN -amount <amount> [-date YYYY-MM-DD] [-id SAV-NNN]

  Without -id the next SAV-NNN number is allocated. Numbers are never reused.
`
}

func (c *addSavingCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Saving id.")
	f.StringVar(&c.member, "member", "", "Member id.")
	f.StringVar(&c.amount, "amount", "", "Amount, with dot or comma decimals.")
	f.StringVar(&c.date, "date", "", "Saving date (YYYY-MM-DD), defaults to today.")
}

func (c *addSavingCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.member == "" {
		return c.usageError("add-saving: -member is required")
	}
	amount, err := core.ParseAmount(c.amount)
	if err != nil {
		return c.usageError("add-saving: %v", err)
	}
	date, err := core.ParseDate(c.date)
	if err != nil {
		return c.usageError("add-saving: %v", err)
	}

	return c.withLedger(ctx, func(s *ledger.Store) error {
		m, ok := s.GetMember(c.member)
		if !ok {
			return fmt.Errorf("member %s: %w", c.member, core.ErrNotFound)
		}
		sv, err := s.SaveSaving(ctx, core.Saving{
			ID:         c.id,
			MemberID:   m.ID,
			MemberName: m.Name,
			Amount:     amount,
			Date:       date.Time,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%s\t%s\t%s\n", sv.ID, sv.MemberName, amountFormatter(s)(sv.Amount))
		return nil
	})
}

type deleteSavingCmd struct {
	*app
	id string
}

func (*deleteSavingCmd) Name() string     { return "delete-saving" }
func (*deleteSavingCmd) Synopsis() string { return "delete a saving" }
func (*deleteSavingCmd) Usage() string {
	return `famledger delete-saving -id SAV-NNN
`
}

func (c *deleteSavingCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Saving id.")
}

func (c *deleteSavingCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		return c.usageError("delete-saving: -id is required")
	}
	return c.withLedger(ctx, func(s *ledger.Store) error {
		return s.DeleteSaving(ctx, c.id)
	})
}
