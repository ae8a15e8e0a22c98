package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jakechorley/shift-roster/pkg/core/roster"
)

// NewAdoptedRoster snapshots an assignment for storage
func NewAdoptedRoster(periodKey string, category roster.Category, a *roster.Assignment, adoptedAt time.Time) *AdoptedRoster {
	r := &AdoptedRoster{
		ID:              uuid.New(),
		PeriodKey:       periodKey,
		Category:        string(category),
		Signature:       a.Signature(),
		Fingerprint:     a.Fingerprint(),
		Score:           a.Score,
		MinSatisfaction: a.MinSatisfaction,
		Required:        make(map[string]int, len(a.Slots)),
		Assignments:     make(map[string][]string, len(a.Slots)),
		Satisfaction:    make(map[string]float64, len(a.Satisfaction)),
		AdoptedAt:       adoptedAt.UTC(),
	}
	for _, slot := range a.Slots {
		r.Required[slot.ID.String()] = slot.Required
		r.Assignments[slot.ID.String()] = a.Assigned(slot.ID)
	}
	for name, s := range a.Satisfaction {
		r.Satisfaction[name] = s
	}
	return r
}

// Slots returns the stored slots in date order
func (r *AdoptedRoster) Slots() ([]roster.Slot, error) {
	slots := make([]roster.Slot, 0, len(r.Required))
	for key, required := range r.Required {
		id, err := roster.ParseSlotID(key)
		if err != nil {
			return nil, fmt.Errorf("invalid slot in adopted roster %s: %w", r.ID, err)
		}
		slots = append(slots, roster.Slot{ID: id, Required: required})
	}
	roster.SortSlots(slots)
	return slots, nil
}

// Assignment rebuilds the roster against the current members. The stored
// signature is authoritative for who works which slot.
func (r *AdoptedRoster) Assignment(members []roster.Member) (*roster.Assignment, error) {
	slots, err := r.Slots()
	if err != nil {
		return nil, err
	}

	bySlot, err := roster.ParseSignature(r.Signature)
	if err != nil {
		return nil, fmt.Errorf("failed to parse signature of adopted roster %s: %w", r.ID, err)
	}

	a := roster.Restore(members, slots, bySlot)
	if a.Signature() != r.Signature {
		return nil, fmt.Errorf("adopted roster %s does not match its slots", r.ID)
	}
	return a, nil
}
