package roster

import "fmt"

// SlotValidationError represents a constraint violation in a finished roster
type SlotValidationError struct {
	SlotID        SlotID
	Member        string
	CriterionName string
	Description   string
}

func (e SlotValidationError) String() string {
	return fmt.Sprintf("%s [%s] %s", e.SlotID, e.CriterionName, e.Description)
}

// Criterion defines one term of the greedy pass: a validity veto, a score
// contribution, or both
type Criterion interface {
	// Name returns a human-readable identifier for this criterion
	Name() string

	// IsCandidateValid returns false if assigning member to slot during the
	// given phase would violate this criterion. Any false vetoes the candidate.
	IsCandidateValid(state *PassState, member Member, slot Slot, phase SlotPhase) bool

	// Score returns this criterion's contribution to the candidate's ranking
	// score. Return 0 if the criterion doesn't affect ordering.
	Score(state *PassState, member Member, slot Slot) float64

	// Validate checks a completed pass and returns any violations
	Validate(state *PassState) []SlotValidationError
}

// Criterion weights
const (
	PreferenceBonus = 0.25
	LoadPenalty     = 0.05
	PairingWeight   = 0.3
)

// DefaultCriteria returns the criteria used by Assign when none are given.
// Score contributions are summed in this order.
func DefaultCriteria() []Criterion {
	return []Criterion{
		AvailabilityCriterion{},
		SoftCapCriterion{},
		ConsecutiveDaysCriterion{},
		PreferenceCriterion{Bonus: PreferenceBonus},
		FairnessCriterion{},
		LoadCriterion{Penalty: LoadPenalty},
		PairingCriterion{},
	}
}

// AvailabilityCriterion restricts candidates to members available for the slot
type AvailabilityCriterion struct{}

func (AvailabilityCriterion) Name() string { return "Availability" }

func (AvailabilityCriterion) IsCandidateValid(state *PassState, member Member, slot Slot, phase SlotPhase) bool {
	return member.IsAvailable(slot.ID)
}

func (AvailabilityCriterion) Score(state *PassState, member Member, slot Slot) float64 {
	return 0
}

func (c AvailabilityCriterion) Validate(state *PassState) []SlotValidationError {
	var errors []SlotValidationError
	for _, id := range sortedSlotIDs(state.BySlot) {
		for _, name := range state.BySlot[id] {
			member, ok := state.Members[name]
			if !ok {
				errors = append(errors, SlotValidationError{
					SlotID:        id,
					Member:        name,
					CriterionName: c.Name(),
					Description:   fmt.Sprintf("'%s' is not a known member", name),
				})
				continue
			}
			if !member.IsAvailable(id) {
				errors = append(errors, SlotValidationError{
					SlotID:        id,
					Member:        name,
					CriterionName: c.Name(),
					Description:   fmt.Sprintf("'%s' is assigned but not available", name),
				})
			}
		}
	}
	return errors
}

// SoftCapCriterion allows at most one assignment above the desired count,
// and only while a slot is in its soft pass
type SoftCapCriterion struct{}

func (SoftCapCriterion) Name() string { return "SoftCap" }

func (SoftCapCriterion) IsCandidateValid(state *PassState, member Member, slot Slot, phase SlotPhase) bool {
	if phase != NeedsSoftPass {
		return true
	}
	return state.Count(member.Name) < max(1, state.Desired(member)+1)
}

func (SoftCapCriterion) Score(state *PassState, member Member, slot Slot) float64 {
	return 0
}

func (SoftCapCriterion) Validate(state *PassState) []SlotValidationError {
	// The cap is dropped in the hard pass, so exceeding it is not a violation
	return nil
}

// ConsecutiveDaysCriterion enforces each member's maximum run of working
// days, counting dates from the pairing reference as working days
type ConsecutiveDaysCriterion struct{}

func (ConsecutiveDaysCriterion) Name() string { return "ConsecutiveDays" }

func (ConsecutiveDaysCriterion) IsCandidateValid(state *PassState, member Member, slot Slot, phase SlotPhase) bool {
	return !WouldExceedConsecutive(state.Dates(member.Name), state.External[member.Name], slot.ID.Date, member.maxRun())
}

func (ConsecutiveDaysCriterion) Score(state *PassState, member Member, slot Slot) float64 {
	return 0
}

func (c ConsecutiveDaysCriterion) Validate(state *PassState) []SlotValidationError {
	var errors []SlotValidationError
	for _, name := range sortedNames(state.Members) {
		member := state.Members[name]
		own := datesOf(state.ByMember[name])
		for _, run := range Runs(own, state.External[name]) {
			if len(run) <= member.maxRun() {
				continue
			}
			// Report against the last date in the run this pass assigned
			for i := len(run) - 1; i >= 0; i-- {
				if !own[run[i]] {
					continue
				}
				errors = append(errors, SlotValidationError{
					SlotID:        slotOn(state.ByMember[name], run[i]),
					Member:        name,
					CriterionName: c.Name(),
					Description: fmt.Sprintf("'%s' works %d consecutive days from %s to %s (max %d)",
						name, len(run), run[0], run[len(run)-1], member.maxRun()),
				})
				break
			}
		}
	}
	return errors
}

// PreferenceCriterion favours members who marked the slot as preferred
type PreferenceCriterion struct {
	Bonus float64
}

func (PreferenceCriterion) Name() string { return "Preference" }

func (PreferenceCriterion) IsCandidateValid(state *PassState, member Member, slot Slot, phase SlotPhase) bool {
	return true
}

func (c PreferenceCriterion) Score(state *PassState, member Member, slot Slot) float64 {
	if member.Prefers(slot.ID) {
		return c.Bonus
	}
	return 0
}

func (PreferenceCriterion) Validate(state *PassState) []SlotValidationError { return nil }

// FairnessCriterion pushes members furthest below their desired count to
// the front, scaled by the attempt's fairness bias
type FairnessCriterion struct{}

func (FairnessCriterion) Name() string { return "Fairness" }

func (FairnessCriterion) IsCandidateValid(state *PassState, member Member, slot Slot, phase SlotPhase) bool {
	return true
}

func (FairnessCriterion) Score(state *PassState, member Member, slot Slot) float64 {
	desired := state.Desired(member)
	deficit := max(0, desired-state.Count(member.Name))
	return state.FairnessBias * float64(deficit) / float64(max(1, desired))
}

func (FairnessCriterion) Validate(state *PassState) []SlotValidationError { return nil }

// LoadCriterion discourages concentrating slots on one member
type LoadCriterion struct {
	Penalty float64
}

func (LoadCriterion) Name() string { return "Load" }

func (LoadCriterion) IsCandidateValid(state *PassState, member Member, slot Slot, phase SlotPhase) bool {
	return true
}

func (c LoadCriterion) Score(state *PassState, member Member, slot Slot) float64 {
	return -c.Penalty * float64(state.Count(member.Name))
}

func (LoadCriterion) Validate(state *PassState) []SlotValidationError { return nil }

// PairingCriterion favours members who hold a slot on the same date in the
// pairing reference roster
type PairingCriterion struct{}

func (PairingCriterion) Name() string { return "Pairing" }

func (PairingCriterion) IsCandidateValid(state *PassState, member Member, slot Slot, phase SlotPhase) bool {
	return true
}

func (PairingCriterion) Score(state *PassState, member Member, slot Slot) float64 {
	if state.Pairing == nil || !state.Pairing.Prefers(slot.ID.Date, member.Name) {
		return 0
	}
	return state.Pairing.Bonus
}

func (PairingCriterion) Validate(state *PassState) []SlotValidationError { return nil }

func slotOn(ids []SlotID, date Date) SlotID {
	for _, id := range ids {
		if id.Date == date {
			return id
		}
	}
	return SlotID{Date: date}
}
