package planning

import (
	"github.com/jakechorley/shift-roster/pkg/core/roster"
)

// DefaultDesired is the desired count per category when none is configured
const DefaultDesired = 2

// Availability is one person's input for a period
type Availability struct {
	Name           string
	Available      map[roster.Category][]roster.Date
	Preferred      map[roster.Category][]roster.Date
	Desired        map[roster.Category]int
	MaxConsecutive int
}

// BuildMembers converts availability inputs into engine members. Dates
// outside the period are dropped; preferred dates count as available.
func BuildMembers(inputs []Availability, p Period) []roster.Member {
	members := make([]roster.Member, 0, len(inputs))
	for _, in := range inputs {
		var available, preferred []roster.SlotID
		desired := make(map[roster.Category]int, len(roster.Categories))

		for _, cat := range roster.Categories {
			available = append(available, slotIDs(in.Available[cat], cat, p)...)
			preferred = append(preferred, slotIDs(in.Preferred[cat], cat, p)...)

			desired[cat] = DefaultDesired
			if n, ok := in.Desired[cat]; ok {
				desired[cat] = n
			}
		}

		members = append(members, roster.NewMember(in.Name, available, preferred, desired, in.MaxConsecutive))
	}
	return members
}

func slotIDs(dates []roster.Date, cat roster.Category, p Period) []roster.SlotID {
	ids := make([]roster.SlotID, 0, len(dates))
	for _, d := range dates {
		if p.Contains(d) {
			ids = append(ids, roster.SlotID{Date: d, Category: cat})
		}
	}
	return ids
}
