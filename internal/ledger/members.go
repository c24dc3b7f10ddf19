package ledger

import (
	"context"
	"fmt"

	"famledger/internal/core"
	applog "famledger/internal/log"
)

// ListActiveMembers returns every member whose status is not departed, in
// insertion order.
func (s *Store) ListActiveMembers() []core.Member {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeMembers()
}

func (s *Store) activeMembers() []core.Member {
	out := make([]core.Member, 0, len(s.members))
	for _, m := range s.members {
		if m.Status != core.StatusDeparted {
			out = append(out, m)
		}
	}
	return out
}

// ListSeniorMembers returns seniors decorated with their years of service.
func (s *Store) ListSeniorMembers() []core.SeniorMember {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	var out []core.SeniorMember
	for _, m := range s.members {
		if m.Status == core.StatusSenior {
			out = append(out, core.SeniorMember{Member: m, YearsOfService: core.YearsOfService(m.JoinDate, now)})
		}
	}
	return out
}

// GetMember looks a member up by exact id, departed members included.
func (s *Store) GetMember(id string) (core.Member, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.memberIndex(id)
	if i < 0 {
		return core.Member{}, false
	}
	return s.members[i], true
}

func (s *Store) memberIndex(id string) int {
	for i, m := range s.members {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// SaveMember inserts or replaces m and returns the stored record.
//
// A missing or malformed id is replaced by the next MEMB-NNN number: the
// highest existing suffix plus one. Because the number is recomputed from the
// records present, it can be reused once the highest-numbered record is gone.
// Members aged SeniorAge or more are saved as senior unless departed. Editing
// an existing member without a status keeps its status, and a departed member
// stays departed whatever status is given.
func (s *Store) SaveMember(ctx context.Context, m core.Member) (core.Member, error) {
	if err := m.Validate(); err != nil {
		return core.Member{}, fmt.Errorf("validate member: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if _, ok := core.ParseMemberID(m.ID); !ok {
		m.ID = core.FormatMemberID(s.nextMemberNumber())
	}
	i := s.memberIndex(m.ID)
	if i >= 0 {
		prev := s.members[i]
		switch {
		case prev.Status == core.StatusDeparted:
			m.Status = core.StatusDeparted
		case m.Status == "":
			m.Status = prev.Status
		}
		if m.JoinDate.IsZero() {
			m.JoinDate = prev.JoinDate
		}
	} else if m.JoinDate.IsZero() {
		m.JoinDate = now
	}
	if m.Status == "" {
		m.Status = core.StatusActive
	}
	if m.Status != core.StatusDeparted && core.Age(m.DateOfBirth, now) >= core.SeniorAge {
		m.Status = core.StatusSenior
	}

	if i >= 0 {
		s.members[i] = m
	} else {
		s.members = append(s.members, m)
	}

	if err := s.persistMembers(ctx); err != nil {
		return core.Member{}, err
	}
	s.logger.DebugContext(ctx, "Member saved",
		applog.FieldMemberID, m.ID,
		"status", m.Status)
	s.notify(ctx, applog.OpUpsert, KeyMembers)
	return m, nil
}

func (s *Store) nextMemberNumber() int {
	highest := 0
	for _, m := range s.members {
		if n, ok := core.ParseMemberID(m.ID); ok && n > highest {
			highest = n
		}
	}
	return highest + 1
}
