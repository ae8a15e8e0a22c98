package roster

import "fmt"

// Pairing couples generation of one category to a reference roster of the
// other: members working a date in the reference get a score bonus for that
// date, and the reference dates count toward their consecutive-day runs.
type Pairing struct {
	Bonus            float64
	PreferenceByDate map[Date]map[string]bool
	ExternalDates    map[string]DateSet
}

// NewPairing derives a Pairing from reference. Strength is clamped to [0, 1]
// and scaled by PairingWeight.
func NewPairing(reference *Assignment, strength float64) *Pairing {
	p := &Pairing{
		Bonus:            PairingWeight * min(1, max(0, strength)),
		PreferenceByDate: make(map[Date]map[string]bool),
		ExternalDates:    make(map[string]DateSet),
	}
	if reference == nil {
		return p
	}

	for id, names := range reference.BySlot {
		if p.PreferenceByDate[id.Date] == nil {
			p.PreferenceByDate[id.Date] = make(map[string]bool)
		}
		for _, name := range names {
			p.PreferenceByDate[id.Date][name] = true
		}
	}

	for name, ids := range reference.ByMember {
		if len(ids) == 0 {
			continue
		}
		p.ExternalDates[name] = datesOf(ids)
	}

	return p
}

// Prefers reports whether name works date in the reference roster
func (p *Pairing) Prefers(date Date, name string) bool {
	return p.PreferenceByDate[date][name]
}

// GeneratePaired generates opts.Count candidates, pairing candidate i with
// references[i] (or references[0] when there are fewer references). Each
// pairing is a single-candidate Generate run. Without references it is the
// same as an unpaired Generate.
func GeneratePaired(members []Member, slots []Slot, references []*Assignment, strength float64, opts GenerateOptions) ([]*Assignment, error) {
	results, _, err := GeneratePairedWithStats(members, slots, references, strength, opts)
	return results, err
}

// GeneratePairedWithStats is GeneratePaired that also reports attempt
// statistics summed over the paired runs
func GeneratePairedWithStats(members []Member, slots []Slot, references []*Assignment, strength float64, opts GenerateOptions) ([]*Assignment, GenerateStats, error) {
	if len(references) == 0 {
		opts.Pairing = nil
		return GenerateWithStats(members, slots, opts)
	}
	if opts.Count < 0 {
		return nil, GenerateStats{}, fmt.Errorf("candidate count must not be negative, got %d", opts.Count)
	}

	var stats GenerateStats
	seen := make(map[string]bool, opts.Count)
	results := make([]*Assignment, 0, opts.Count)
	for i := 0; i < opts.Count; i++ {
		ref := references[0]
		if i < len(references) {
			ref = references[i]
		}

		single := opts
		single.Count = 1
		single.Pairing = NewPairing(ref, strength)

		candidates, runStats, err := GenerateWithStats(members, slots, single)
		if err != nil {
			return nil, GenerateStats{}, fmt.Errorf("failed to generate candidate paired with reference %d: %w", i, err)
		}
		stats.Attempts += runStats.Attempts
		if len(candidates) == 0 {
			continue
		}

		sig := candidates[0].Signature()
		if seen[sig] {
			continue
		}
		seen[sig] = true
		results = append(results, candidates[0])

		if runStats.BestEffort {
			stats.BestSeen++
		} else {
			stats.Accepted++
		}
	}
	stats.BestEffort = len(results) > 0 && stats.Accepted == 0

	return results, stats, nil
}
