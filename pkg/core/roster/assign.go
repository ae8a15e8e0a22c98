package roster

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Options configures a single greedy pass
type Options struct {
	Seed         int32
	FairnessBias float64

	// Pairing biases the pass toward a reference roster of another category
	Pairing *Pairing

	// Criteria defaults to DefaultCriteria
	Criteria []Criterion
}

// SlotStatus is the terminal state of one slot after a pass
type SlotStatus struct {
	Phase    SlotPhase
	Required int
	Assigned int
}

// Assignment is the roster produced by one greedy pass. It is not modified
// after Assign returns.
type Assignment struct {
	Slots        []Slot
	BySlot       map[SlotID][]string
	ByMember     map[string][]SlotID
	Satisfaction map[string]float64
	Status       map[SlotID]SlotStatus

	MinSatisfaction float64
	AvgSatisfaction float64
	Score           float64

	Seed         int32
	FairnessBias float64

	// External holds the pairing reference dates the pass was checked against
	External map[string]DateSet

	signature string
}

// rankedCandidate is a member eligible for a slot with its ranking score
type rankedCandidate struct {
	member Member
	score  float64
}

// Assign runs one greedy pass over slots. Slots are visited in a seeded
// shuffled order; each slot's candidates are ranked once and then walked in
// a soft pass and, if seats remain, a hard pass. Understaffed slots are a
// valid outcome, not an error.
func Assign(members []Member, slots []Slot, opts Options) *Assignment {
	criteria := opts.Criteria
	if criteria == nil {
		criteria = DefaultCriteria()
	}

	rng := NewRand(opts.Seed)
	state := newPassState(members, slots, opts.FairnessBias, opts.Pairing)

	order := make([]Slot, len(slots))
	copy(order, slots)
	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	status := make(map[SlotID]SlotStatus, len(slots))
	for _, slot := range order {
		candidates := rankCandidates(state, members, slot, criteria, rng)

		needed := max(0, slot.Required)
		phase := NeedsSoftPass
		if needed == 0 {
			phase = Filled
		}

		for phase == NeedsSoftPass || phase == NeedsHardPass {
			needed = fillPass(state, slot, candidates, criteria, phase, needed)
			phase = phase.next(needed)
		}

		status[slot.ID] = SlotStatus{
			Phase:    phase,
			Required: slot.Required,
			Assigned: len(state.BySlot[slot.ID]),
		}
	}

	return buildAssignment(state, members, slots, status, opts)
}

// rankCandidates filters members to those available for slot and sorts them
// by descending score. Each score is computed once, in member
// order, so the rng draws are reproducible.
func rankCandidates(state *PassState, members []Member, slot Slot, criteria []Criterion, rng *Rand) []rankedCandidate {
	candidates := make([]rankedCandidate, 0, len(members))
	for _, m := range members {
		if !m.IsAvailable(slot.ID) {
			continue
		}
		candidates = append(candidates, rankedCandidate{
			member: m,
			score:  scoreCandidate(state, m, slot, criteria) + rng.Float64(),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	return candidates
}

func scoreCandidate(state *PassState, member Member, slot Slot, criteria []Criterion) float64 {
	score := 0.0
	for _, criterion := range criteria {
		score += criterion.Score(state, member, slot)
	}
	return score
}

// fillPass walks the ranked candidates once for the given phase and returns
// the seats still open
func fillPass(state *PassState, slot Slot, candidates []rankedCandidate, criteria []Criterion, phase SlotPhase, needed int) int {
	for _, c := range candidates {
		if needed <= 0 {
			break
		}
		if state.IsAssigned(c.member.Name, slot.ID) {
			continue
		}
		if !isCandidateValid(state, c.member, slot, criteria, phase) {
			continue
		}
		state.assign(c.member.Name, slot.ID)
		needed--
	}
	return needed
}

func isCandidateValid(state *PassState, member Member, slot Slot, criteria []Criterion, phase SlotPhase) bool {
	for _, criterion := range criteria {
		if !criterion.IsCandidateValid(state, member, slot, phase) {
			return false
		}
	}
	return true
}

func buildAssignment(state *PassState, members []Member, slots []Slot, status map[SlotID]SlotStatus, opts Options) *Assignment {
	a := &Assignment{
		Slots:        sortedSlots(slots),
		BySlot:       state.BySlot,
		ByMember:     state.ByMember,
		Satisfaction: make(map[string]float64, len(members)),
		Status:       status,
		Seed:         opts.Seed,
		FairnessBias: opts.FairnessBias,
		External:     state.External,
	}

	minSat, total := math.Inf(1), 0.0
	for _, m := range members {
		s := satisfaction(state.scope.desired(m), state.scope.preferred(m), state.ByMember[m.Name])
		a.Satisfaction[m.Name] = s
		minSat = min(minSat, s)
		total += s
	}

	a.MinSatisfaction, a.AvgSatisfaction = 1, 1
	if len(members) > 0 {
		a.MinSatisfaction = minSat
		a.AvgSatisfaction = total / float64(len(members))
	}
	a.Score = 0.4*a.MinSatisfaction + 0.6*a.AvgSatisfaction
	a.signature = signature(a.Slots, a.BySlot)

	return a
}

// Signature returns the canonical encoding of which members hold which slots.
// Two assignments with the same signature are the same roster.
func (a *Assignment) Signature() string {
	return a.signature
}

// Fingerprint returns a short hash of the signature
func (a *Assignment) Fingerprint() string {
	return Fingerprint(a.signature)
}

// Assigned returns the sorted names holding slot id
func (a *Assignment) Assigned(id SlotID) []string {
	names := append([]string(nil), a.BySlot[id]...)
	sort.Strings(names)
	return names
}

// Understaffed returns slots with fewer assignees than required, in date order
func (a *Assignment) Understaffed() []Slot {
	var out []Slot
	for _, slot := range a.Slots {
		if len(a.BySlot[slot.ID]) < slot.Required {
			out = append(out, slot)
		}
	}
	return out
}

// Validate re-checks the finished roster against criteria (DefaultCriteria
// when nil)
func (a *Assignment) Validate(members []Member, criteria []Criterion) []SlotValidationError {
	if criteria == nil {
		criteria = DefaultCriteria()
	}

	state := newPassState(members, a.Slots, a.FairnessBias, nil)
	for name, dates := range a.External {
		state.External[name] = dates
	}
	for _, id := range sortedSlotIDs(a.BySlot) {
		for _, name := range a.BySlot[id] {
			state.assign(name, id)
		}
	}

	var errors []SlotValidationError
	for _, criterion := range criteria {
		errors = append(errors, criterion.Validate(state)...)
	}
	return errors
}

// Summary renders one line per slot, e.g. "2025-01-01_DAY 1/2 Alice"
func (a *Assignment) Summary() string {
	var b strings.Builder
	for _, slot := range a.Slots {
		fmt.Fprintf(&b, "%s %d/%d", slot.ID, len(a.BySlot[slot.ID]), slot.Required)
		for _, name := range a.Assigned(slot.ID) {
			b.WriteString(" " + name)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// SortSlots sorts slots into date order, DAY before NIGHT on the same date
func SortSlots(slots []Slot) {
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].ID.Less(slots[j].ID) })
}

func sortedSlots(slots []Slot) []Slot {
	out := make([]Slot, len(slots))
	copy(out, slots)
	SortSlots(out)
	return out
}

// SortSlotIDs sorts ids into date order, DAY before NIGHT on the same date
func SortSlotIDs(ids []SlotID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
}

func sortedSlotIDs[V any](m map[SlotID]V) []SlotID {
	ids := make([]SlotID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	SortSlotIDs(ids)
	return ids
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
