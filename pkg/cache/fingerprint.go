package cache

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/jakechorley/shift-roster/pkg/core/roster"
)

// Inputs is everything that determines the output of a generator run
type Inputs struct {
	Members         []roster.Member
	Slots           []roster.Slot
	Count           int
	MinSatisfaction float64
	MaxAttempts     int

	// PairedWith lists the signatures of pairing references in order
	PairedWith      []string
	PairingStrength float64
}

type memberKey struct {
	Name           string
	Available      []string
	Preferred      []string
	Desired        map[roster.Category]int
	MaxConsecutive int
}

type slotKey struct {
	ID       string
	Required int
}

type inputsKey struct {
	Members         []memberKey
	Slots           []slotKey
	Count           int
	MinSatisfaction float64
	MaxAttempts     int
	PairedWith      []string
	PairingStrength float64
}

// Fingerprint hashes a canonical encoding of the inputs. Member and slot
// order is kept since it changes the generated rosters.
func (in Inputs) Fingerprint() string {
	key := inputsKey{
		Count:           in.Count,
		MinSatisfaction: in.MinSatisfaction,
		MaxAttempts:     in.MaxAttempts,
		PairedWith:      in.PairedWith,
		PairingStrength: in.PairingStrength,
	}
	for _, m := range in.Members {
		key.Members = append(key.Members, memberKey{
			Name:           m.Name,
			Available:      slotKeys(m.Available),
			Preferred:      slotKeys(m.Preferred),
			Desired:        m.Desired,
			MaxConsecutive: m.MaxConsecutive,
		})
	}
	for _, s := range in.Slots {
		key.Slots = append(key.Slots, slotKey{ID: s.ID.String(), Required: s.Required})
	}

	// json.Marshal sorts map keys and cannot fail for these types
	data, _ := json.Marshal(key)
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

func slotKeys(set map[roster.SlotID]bool) []string {
	keys := make([]string, 0, len(set))
	for id, ok := range set {
		if ok {
			keys = append(keys, id.String())
		}
	}
	sort.Strings(keys)
	return keys
}
