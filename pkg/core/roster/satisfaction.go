package roster

// Satisfaction scores how well assigned meets the member's desired count and
// preferences, in [0, 1]. Desired counts and preferences are taken from the
// given categories, or from every category when none are given.
func Satisfaction(m Member, assigned []SlotID, categories ...Category) float64 {
	s := make(scope)
	if len(categories) == 0 {
		for _, cat := range Categories {
			s[cat] = true
		}
	}
	for _, cat := range categories {
		s[cat] = true
	}
	return satisfaction(s.desired(m), s.preferred(m), assigned)
}

func satisfaction(desired int, preferred map[SlotID]bool, assigned []SlotID) float64 {
	hits := 0
	for _, id := range assigned {
		if preferred[id] {
			hits++
		}
	}

	if desired <= 0 {
		if len(preferred) == 0 {
			return 1
		}
		return float64(hits) / float64(len(preferred))
	}

	cover := min(1, float64(len(assigned))/float64(desired))
	if len(preferred) == 0 {
		return cover
	}

	// hits can exceed the denominator once a member is assigned past their
	// desired count, so the ratio is capped like cover
	pref := min(1, float64(hits)/float64(max(1, min(desired, len(preferred)))))
	return 0.5*cover + 0.5*pref
}
