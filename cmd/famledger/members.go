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

type membersCmd struct {
	*app
	seniors bool
}

func (*membersCmd) Name() string     { return "members" }
func (*membersCmd) Synopsis() string { return "list the active member roster" }
func (*membersCmd) Usage() string {
	return `famledger members [-seniors]

  Lists every member that has not departed, in the order they were added.
`
}

func (c *membersCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.seniors, "seniors", false, "List only senior members with their years of service.")
}

func (c *membersCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.withLedger(ctx, func(s *ledger.Store) error {
		w := c.table()
		if c.seniors {
			fmt.Fprintln(w, "ID\tNAME\tBORN\tYEARS OF SERVICE")
			for _, m := range s.ListSeniorMembers() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", m.ID, m.Name, m.DateOfBirth, m.YearsOfService)
			}
			return w.Flush()
		}
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE\tBORN\tSTATUS\tJOINED")
		for _, m := range s.ListActiveMembers() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				m.ID, m.Name, m.Email, m.Phone, m.DateOfBirth, m.Status, m.JoinDate.Format(time.DateOnly))
		}
		return w.Flush()
	})
}

type addMemberCmd struct {
	*app
	id, name, email, phone string
	dob, status, joined    string
	picture                string
}

func (*addMemberCmd) Name() string     { return "add-member" }
func (*addMemberCmd) Synopsis() string { return "add a member or edit an existing one" }
func (*addMemberCmd) Usage() string {
	return `famledger add-member -name <name> [-id MEMB-NNN] [-email <email>] [-phone <phone>] [-dob YYYY-MM-DD] [-status active|senior] [-joined YYYY-MM-DD]

  Without -id (or with an id that is not MEMB-NNN) the next member number is
  allocated. With the id of an existing member, that member is replaced.
  Members aged 60 or more are always saved as senior.
`
}

func (c *addMemberCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Member id to edit.")
	f.StringVar(&c.name, "name", "", "Full name.")
	f.StringVar(&c.email, "email", "", "Email address.")
	f.StringVar(&c.phone, "phone", "", "Phone number.")
	f.StringVar(&c.dob, "dob", "", "Date of birth (YYYY-MM-DD).")
	f.StringVar(&c.status, "status", "", "Member status; new members default to active, edits keep the current one.")
	f.StringVar(&c.joined, "joined", "", "Join date (YYYY-MM-DD), defaults to today.")
	f.StringVar(&c.picture, "picture", "", "Profile picture as a data URL.")
}

func (c *addMemberCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		return c.usageError("add-member: -name is required")
	}
	dob, err := core.ParseDate(c.dob)
	if err != nil {
		return c.usageError("add-member: %v", err)
	}
	joined, err := core.ParseDate(c.joined)
	if err != nil {
		return c.usageError("add-member: %v", err)
	}

	m := core.Member{
		ID:             c.id,
		Name:           c.name,
		Email:          c.email,
		Phone:          c.phone,
		DateOfBirth:    dob,
		Status:         core.MemberStatus(c.status),
		JoinDate:       joined.Time,
		ProfilePicture: c.picture,
	}
	return c.withLedger(ctx, func(s *ledger.Store) error {
		saved, err := s.SaveMember(ctx, m)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%s\t%s\t%s\n", saved.ID, saved.Name, saved.Status)
		return nil
	})
}

type departCmd struct {
	*app
	id, reason, eulogy string
}

func (*departCmd) Name() string     { return "depart" }
func (*departCmd) Synopsis() string { return "record the departure of a member" }
func (*departCmd) Usage() string {
	return `famledger depart -id MEMB-NNN [-reason <text>] [-eulogy <introduction>]

  Moves a member to the memorial records. The member's contributions and
  savings are kept.
`
}

func (c *departCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Member id.")
	f.StringVar(&c.reason, "reason", "", "Reason for departure.")
	f.StringVar(&c.eulogy, "eulogy", "", "Eulogy introduction.")
}

func (c *departCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		return c.usageError("depart: -id is required")
	}
	return c.withLedger(ctx, func(s *ledger.Store) error {
		rec, err := s.DepartMember(ctx, c.id, c.reason, c.eulogy)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%s\t%s\tdeparted %s\n", rec.ID, rec.Name, rec.DepartureDate.Format(time.DateOnly))
		return nil
	})
}

type departedCmd struct {
	*app
}

func (*departedCmd) Name() string     { return "departed" }
func (*departedCmd) Synopsis() string { return "list departed members" }
func (*departedCmd) Usage() string {
	return `famledger departed
`
}

func (*departedCmd) SetFlags(*flag.FlagSet) {}

func (c *departedCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.withLedger(ctx, func(s *ledger.Store) error {
		w := c.table()
		fmt.Fprintln(w, "ID\tNAME\tDEPARTED\tREASON\tEULOGY")
		for _, d := range s.ListDepartedMembers() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				d.ID, d.Name, d.DepartureDate.Format(time.DateOnly), d.Reason, d.Introduction)
		}
		return w.Flush()
	})
}

type eulogyCmd struct {
	*app
	id string

	introduction, biography, anecdotes string
	legacy, closing, photo             string
}

func (*eulogyCmd) Name() string     { return "eulogy" }
func (*eulogyCmd) Synopsis() string { return "edit the eulogy of a departed member" }
func (*eulogyCmd) Usage() string {
	return `famledger eulogy -id MEMB-NNN [-intro <text>] [-bio <text>] [-anecdotes <text>] [-legacy <text>] [-closing <text>] [-photo <data url>]

  Only the given sections change.
`
}

func (c *eulogyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Departed member id.")
	f.StringVar(&c.introduction, "intro", "", "Introduction.")
	f.StringVar(&c.biography, "bio", "", "Biography.")
	f.StringVar(&c.anecdotes, "anecdotes", "", "Anecdotes.")
	f.StringVar(&c.legacy, "legacy", "", "Legacy.")
	f.StringVar(&c.closing, "closing", "", "Closing words.")
	f.StringVar(&c.photo, "photo", "", "Memorial photo as a data URL.")
}

func (c *eulogyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		return c.usageError("eulogy: -id is required")
	}
	return c.withLedger(ctx, func(s *ledger.Store) error {
		current, ok := s.GetDepartedMember(c.id)
		if !ok {
			return fmt.Errorf("eulogy %s: %w", c.id, core.ErrNotFound)
		}
		e := current.Eulogy
		for _, field := range []struct {
			dst *string
			val string
		}{
			{&e.Introduction, c.introduction},
			{&e.Biography, c.biography},
			{&e.Anecdotes, c.anecdotes},
			{&e.Legacy, c.legacy},
			{&e.Closing, c.closing},
			{&e.Photo, c.photo},
		} {
			if field.val != "" {
				*field.dst = field.val
			}
		}
		if _, err := s.UpdateEulogy(ctx, c.id, e); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "eulogy of %s updated\n", current.Name)
		return nil
	})
}
