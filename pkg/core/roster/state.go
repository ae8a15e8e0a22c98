package roster

// SlotPhase tracks a slot through the two fill passes
type SlotPhase int

const (
	// NeedsSoftPass: candidates are walked with the desired-count cap in force
	NeedsSoftPass SlotPhase = iota
	// NeedsHardPass: the cap is dropped, consecutive-day limits still apply
	NeedsHardPass
	Filled
	Understaffed
)

func (p SlotPhase) String() string {
	switch p {
	case NeedsSoftPass:
		return "needs-soft-pass"
	case NeedsHardPass:
		return "needs-hard-pass"
	case Filled:
		return "filled"
	case Understaffed:
		return "understaffed"
	}
	return "unknown"
}

// next returns the phase that follows p once a pass leaves needed open seats
func (p SlotPhase) next(needed int) SlotPhase {
	if needed <= 0 {
		return Filled
	}
	switch p {
	case NeedsSoftPass:
		return NeedsHardPass
	case NeedsHardPass:
		return Understaffed
	}
	return p
}

// PassState is the working state of a single greedy pass. It is owned by
// one Assign call and never shared between attempts.
type PassState struct {
	Members      map[string]Member
	BySlot       map[SlotID][]string
	ByMember     map[string][]SlotID
	External     map[string]DateSet
	FairnessBias float64
	Pairing      *Pairing

	dates map[string]DateSet
	scope scope
}

func newPassState(members []Member, slots []Slot, fairnessBias float64, pairing *Pairing) *PassState {
	state := &PassState{
		Members:      make(map[string]Member, len(members)),
		BySlot:       make(map[SlotID][]string, len(slots)),
		ByMember:     make(map[string][]SlotID, len(members)),
		External:     make(map[string]DateSet),
		FairnessBias: fairnessBias,
		Pairing:      pairing,
		dates:        make(map[string]DateSet, len(members)),
		scope:        scopeOf(slots),
	}
	for _, slot := range slots {
		state.BySlot[slot.ID] = []string{}
	}
	for _, m := range members {
		state.Members[m.Name] = m
		state.ByMember[m.Name] = []SlotID{}
		state.dates[m.Name] = make(DateSet)
	}
	if pairing != nil {
		for name, dates := range pairing.ExternalDates {
			state.External[name] = dates
		}
	}
	return state
}

// Count returns the number of slots assigned to name in this pass
func (s *PassState) Count(name string) int {
	return len(s.ByMember[name])
}

// Desired returns the member's desired count for the categories in this pass
func (s *PassState) Desired(m Member) int {
	return s.scope.desired(m)
}

// Dates returns the dates name is already working in this pass
func (s *PassState) Dates(name string) DateSet {
	return s.dates[name]
}

// IsAssigned reports whether name already holds slot id
func (s *PassState) IsAssigned(name string, id SlotID) bool {
	for _, assigned := range s.BySlot[id] {
		if assigned == name {
			return true
		}
	}
	return false
}

func (s *PassState) assign(name string, id SlotID) {
	s.BySlot[id] = append(s.BySlot[id], name)
	s.ByMember[name] = append(s.ByMember[name], id)
	if s.dates[name] == nil {
		s.dates[name] = make(DateSet)
	}
	s.dates[name][id.Date] = true
}
