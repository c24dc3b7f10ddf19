package ledger

import (
	"context"
	"fmt"

	"famledger/internal/core"
	applog "famledger/internal/log"
)

// DepartMember freezes a copy of the member into the departed collection and
// marks the live record departed. The live record is kept so contributions and
// savings still resolve by id.
//
// Departing an unknown or already departed member returns core.ErrNotFound and
// changes nothing.
func (s *Store) DepartMember(ctx context.Context, id, reason, eulogyText string) (core.DepartedMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.memberIndex(id)
	if i < 0 || s.members[i].Status == core.StatusDeparted {
		return core.DepartedMember{}, fmt.Errorf("depart member %s: %w", id, core.ErrNotFound)
	}

	rec := core.DepartedMember{
		Member:        s.members[i],
		DepartureDate: s.now(),
		Reason:        reason,
		Eulogy:        core.Eulogy{Introduction: eulogyText},
	}
	s.departed = append(s.departed, rec)
	s.members[i].Status = core.StatusDeparted

	if err := s.persistMembers(ctx); err != nil {
		return core.DepartedMember{}, err
	}
	if err := s.persistDeparted(ctx); err != nil {
		return core.DepartedMember{}, err
	}

	s.logger.InfoContext(ctx, "Member departed",
		applog.FieldMemberID, id,
		"reason", reason)
	s.notify(ctx, applog.OpDepart, KeyMembers, KeyDepartedMembers)
	return rec, nil
}

// ListDepartedMembers returns the memorial records in departure order.
func (s *Store) ListDepartedMembers() []core.DepartedMember {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.departed)
}

func (s *Store) GetDepartedMember(id string) (core.DepartedMember, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.departedIndex(id)
	if i < 0 {
		return core.DepartedMember{}, false
	}
	return s.departed[i], true
}

func (s *Store) departedIndex(id string) int {
	for i, d := range s.departed {
		if d.ID == id {
			return i
		}
	}
	return -1
}

// UpdateEulogy replaces the eulogy texts of a departed member. An empty Photo
// keeps the current memorial image.
func (s *Store) UpdateEulogy(ctx context.Context, id string, e core.Eulogy) (core.DepartedMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.departedIndex(id)
	if i < 0 {
		return core.DepartedMember{}, fmt.Errorf("update eulogy %s: %w", id, core.ErrNotFound)
	}
	if e.Photo == "" {
		e.Photo = s.departed[i].Photo
	}
	s.departed[i].Eulogy = e

	if err := s.persistDeparted(ctx); err != nil {
		return core.DepartedMember{}, err
	}
	s.notify(ctx, applog.OpUpdate, KeyDepartedMembers)
	return s.departed[i], nil
}
