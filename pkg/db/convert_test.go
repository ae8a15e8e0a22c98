package db

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/shift-roster/pkg/core/roster"
)

func slotID(day int) roster.SlotID {
	return roster.SlotID{Date: roster.NewDate(2025, 1, day), Category: roster.Day}
}

func testRoster() ([]roster.Member, *roster.Assignment) {
	members := []roster.Member{
		roster.NewMember("alice", []roster.SlotID{slotID(1), slotID(2)}, []roster.SlotID{slotID(1)}, map[roster.Category]int{roster.Day: 1}, 3),
		roster.NewMember("bob", []roster.SlotID{slotID(2), slotID(3)}, nil, map[roster.Category]int{roster.Day: 2}, 3),
	}
	slots := []roster.Slot{
		{ID: slotID(3), Required: 2},
		{ID: slotID(1), Required: 1},
		{ID: slotID(2), Required: 1},
	}
	return members, roster.Assign(members, slots, roster.Options{Seed: 1, FairnessBias: 0.5})
}

func TestNewAdoptedRoster(t *testing.T) {
	_, a := testRoster()
	adoptedAt := time.Date(2025, 1, 1, 9, 30, 0, 0, time.FixedZone("BST", 3600))

	r := NewAdoptedRoster("2025-01-H1", roster.Day, a, adoptedAt)

	assert.NotEqual(t, uuid.Nil, r.ID)
	assert.Equal(t, "2025-01-H1", r.PeriodKey)
	assert.Equal(t, "DAY", r.Category)
	assert.Equal(t, a.Signature(), r.Signature)
	assert.Equal(t, a.Fingerprint(), r.Fingerprint)
	assert.Equal(t, a.Score, r.Score)
	assert.Equal(t, time.UTC, r.AdoptedAt.Location())
	assert.True(t, adoptedAt.Equal(r.AdoptedAt))
	assert.Equal(t, map[string]int{
		"2025-01-01_DAY": 1,
		"2025-01-02_DAY": 1,
		"2025-01-03_DAY": 2,
	}, r.Required)
	assert.Equal(t, a.Assigned(slotID(3)), r.Assignments["2025-01-03_DAY"])
	assert.Equal(t, a.Satisfaction, r.Satisfaction)
}

func TestAdoptedRoster_Assignment(t *testing.T) {
	members, a := testRoster()
	r := NewAdoptedRoster("2025-01-H1", roster.Day, a, time.Now())

	slots, err := r.Slots()
	require.NoError(t, err)
	assert.Equal(t, a.Slots, slots)

	restored, err := r.Assignment(members)
	require.NoError(t, err)
	assert.Equal(t, a.Signature(), restored.Signature())
	assert.Equal(t, a.Satisfaction, restored.Satisfaction)
}

func TestAdoptedRoster_AssignmentErrors(t *testing.T) {
	members, a := testRoster()

	badSlot := NewAdoptedRoster("2025-01-H1", roster.Day, a, time.Now())
	badSlot.Required["yesterday"] = 1
	_, err := badSlot.Assignment(members)
	assert.ErrorContains(t, err, "invalid slot")

	badSignature := NewAdoptedRoster("2025-01-H1", roster.Day, a, time.Now())
	badSignature.Signature = "2025-01-01_DAY"
	_, err = badSignature.Assignment(members)
	assert.ErrorContains(t, err, "failed to parse signature")

	mismatch := NewAdoptedRoster("2025-01-H1", roster.Day, a, time.Now())
	delete(mismatch.Required, "2025-01-03_DAY")
	_, err = mismatch.Assignment(members)
	assert.ErrorContains(t, err, "does not match")
}
