package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"famledger/internal/core"
	"famledger/internal/ledger"
)

type statsCmd struct {
	*app
}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "print dashboard figures and member achievement levels" }
func (*statsCmd) Usage() string {
	return `famledger stats
`
}

func (*statsCmd) SetFlags(*flag.FlagSet) {}

func (c *statsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.withLedger(ctx, func(s *ledger.Store) error {
		format := amountFormatter(s)
		st := s.DashboardStats()

		w := c.table()
		fmt.Fprintf(w, "Members\t%d\n", st.MemberCount)
		fmt.Fprintf(w, "Total savings\t%s\n", format(st.TotalSavings))
		fmt.Fprintf(w, "Total contributions\t%s\n", format(st.TotalContributions))
		fmt.Fprintf(w, "Active contributors (30 days)\t%d\n", st.ActiveContributorCount30d)
		for _, cat := range st.ContributionsByCategory {
			fmt.Fprintf(w, "  %s\t%s\n", cat.Category, format(cat.Amount))
		}
		fmt.Fprintln(w)

		fmt.Fprintln(w, "MEMBER\tCONTRIBUTIONS\tTOTAL\tLEVEL")
		for _, t := range s.MemberContributionTotals() {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", t.Member.Name, t.Count, format(t.Total), t.Level)
		}
		return w.Flush()
	})
}

type settingsCmd struct {
	*app
	familyName, address, currency string
	email, reminders              bool
}

func (*settingsCmd) Name() string     { return "settings" }
func (*settingsCmd) Synopsis() string { return "show or update the association settings" }
func (*settingsCmd) Usage() string {
	return `famledger settings [-family <name>] [-address <text>] [-currency <ISO code>] [-email=true|false] [-reminders=true|false]

  Only the given flags change; with no flags the current settings are shown.
`
}

func (c *settingsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.familyName, "family", "", "Family name.")
	f.StringVar(&c.address, "address", "", "Postal address.")
	f.StringVar(&c.currency, "currency", "", "ISO 4217 currency code.")
	f.BoolVar(&c.email, "email", false, "Email notifications.")
	f.BoolVar(&c.reminders, "reminders", false, "Contribution reminders.")
}

func (c *settingsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var patch core.Settings
	changed := false
	f.Visit(func(fl *flag.Flag) {
		changed = true
		switch fl.Name {
		case "family":
			patch.FamilyName = c.familyName
		case "address":
			patch.Address = c.address
		case "currency":
			patch.Currency = c.currency
		case "email":
			patch.EmailNotifications = core.Bool(c.email)
		case "reminders":
			patch.ContributionReminders = core.Bool(c.reminders)
		}
	})

	return c.withLedger(ctx, func(s *ledger.Store) error {
		current := s.Settings()
		if changed {
			var err error
			if current, err = s.UpdateSettings(ctx, patch); err != nil {
				return err
			}
		}
		w := c.table()
		fmt.Fprintf(w, "family\t%s\n", current.FamilyName)
		fmt.Fprintf(w, "address\t%s\n", current.Address)
		fmt.Fprintf(w, "currency\t%s\n", current.Currency)
		fmt.Fprintf(w, "email\t%t\n", current.EmailEnabled())
		fmt.Fprintf(w, "reminders\t%t\n", current.RemindersEnabled())
		return w.Flush()
	})
}

type exportCmd struct {
	*app
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write a JSON snapshot of the ledger" }
func (*exportCmd) Usage() string {
	return `famledger export [-o <file>]
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file, standard output when empty.")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.withLedger(ctx, func(s *ledger.Store) error {
		data, err := s.ExportSnapshot()
		if err != nil {
			return err
		}
		if c.output == "" {
			_, err = fmt.Fprintln(c.out, string(data))
			return err
		}
		if err := os.WriteFile(c.output, data, 0o644); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
		return nil
	})
}

type importCmd struct {
	*app
	input string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "replace ledger collections from a JSON snapshot" }
func (*importCmd) Usage() string {
	return `famledger import [-i <file>]

  Reads standard input when -i is not given. Collections missing from the
  snapshot are left as they are. A malformed snapshot changes nothing.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.input, "i", "", "Input file, standard input when empty.")
}

func (c *importCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var (
		data []byte
		err  error
	)
	if c.input == "" {
		data, err = io.ReadAll(c.in)
	} else {
		data, err = os.ReadFile(c.input)
	}
	if err != nil {
		fmt.Fprintf(c.errOut, "read snapshot: %v\n", err)
		return subcommands.ExitFailure
	}

	return c.withLedger(ctx, func(s *ledger.Store) error {
		ok, err := s.ImportSnapshot(ctx, data)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("import: malformed snapshot, nothing changed")
		}
		fmt.Fprintln(c.out, "snapshot imported")
		return nil
	})
}

type clearCmd struct {
	*app
	yes bool
}

func (*clearCmd) Name() string     { return "clear" }
func (*clearCmd) Synopsis() string { return "delete every record and reset the settings" }
func (*clearCmd) Usage() string {
	return `famledger clear -yes
`
}

func (c *clearCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "yes", false, "Confirm the deletion.")
}

func (c *clearCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.yes {
		return c.usageError("clear: refusing to delete everything without -yes")
	}
	return c.withLedger(ctx, func(s *ledger.Store) error {
		return s.ClearAll(ctx)
	})
}
