package roster

// Restore rebuilds an Assignment from fixed slot assignments, such as an
// adopted roster read back from storage. Names not in members still count
// toward their slot but get no satisfaction score.
func Restore(members []Member, slots []Slot, bySlot map[SlotID][]string) *Assignment {
	state := newPassState(members, slots, 0, nil)

	status := make(map[SlotID]SlotStatus, len(slots))
	for _, slot := range sortedSlots(slots) {
		for _, name := range bySlot[slot.ID] {
			if !state.IsAssigned(name, slot.ID) {
				state.assign(name, slot.ID)
			}
		}

		assigned := len(state.BySlot[slot.ID])
		phase := Filled
		if assigned < slot.Required {
			phase = Understaffed
		}
		status[slot.ID] = SlotStatus{Phase: phase, Required: slot.Required, Assigned: assigned}
	}

	return buildAssignment(state, members, slots, status, Options{})
}
