package planning

import (
	"fmt"

	"github.com/teambition/rrule-go"

	"github.com/jakechorley/shift-roster/pkg/core/roster"
)

// DefaultRequired is the headcount for a slot with no configured requirement
const DefaultRequired = 1

// RequirementRule sets the headcount for every date matched by an RRULE.
// An empty Category applies to both categories.
type RequirementRule struct {
	RRule    string
	Category roster.Category
	Required int
}

// Requirements describes per-slot headcounts. Precedence is Dates, then
// the last matching rule, then Default, then DefaultRequired.
type Requirements struct {
	Default map[roster.Category]int
	Rules   []RequirementRule
	Dates   map[roster.SlotID]int
}

// BuildSlots returns one slot per date in the period for category
func BuildSlots(p Period, category roster.Category, req Requirements) ([]roster.Slot, error) {
	base := DefaultRequired
	if n, ok := req.Default[category]; ok {
		base = n
	}
	if base < 0 {
		return nil, fmt.Errorf("default %s headcount must not be negative, got %d", category, base)
	}

	ruleRequired, err := matchRules(p, category, req.Rules)
	if err != nil {
		return nil, err
	}

	dates := p.Dates()
	slots := make([]roster.Slot, 0, len(dates))
	for _, d := range dates {
		id := roster.SlotID{Date: d, Category: category}

		required := base
		if n, ok := ruleRequired[d]; ok {
			required = n
		}
		if n, ok := req.Dates[id]; ok {
			required = n
		}
		if required < 0 {
			return nil, fmt.Errorf("headcount for %s must not be negative, got %d", id, required)
		}

		slots = append(slots, roster.Slot{ID: id, Required: required})
	}

	return slots, nil
}

// matchRules expands the rules over the period, later rules winning
func matchRules(p Period, category roster.Category, rules []RequirementRule) (map[roster.Date]int, error) {
	matched := make(map[roster.Date]int)
	start, end := p.Start().Time(), p.End().Time()

	for i, r := range rules {
		if r.Category != "" && r.Category != category {
			continue
		}

		rule, err := rrule.StrToRRule(r.RRule)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rrule for requirement rule %d: %w", i, err)
		}
		rule.DTStart(start)

		for _, occurrence := range rule.Between(start, end, true) {
			matched[roster.DateOf(occurrence)] = r.Required
		}
	}

	return matched, nil
}
