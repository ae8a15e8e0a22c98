package roster

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// signature encodes slots in date order, each followed by its sorted
// assignee names quoted, e.g.
//
//	2025-01-01_DAY:"Alice","Bob";2025-01-02_DAY:;
//
// Quoting keeps names containing separators unambiguous.
func signature(slots []Slot, bySlot map[SlotID][]string) string {
	var b strings.Builder
	for _, slot := range slots {
		b.WriteString(slot.ID.String())
		b.WriteByte(':')

		names := append([]string(nil), bySlot[slot.ID]...)
		sort.Strings(names)
		for i, name := range names {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Quote(name))
		}
		b.WriteByte(';')
	}
	return b.String()
}

// Fingerprint returns the 64-bit xxhash of a signature as 16 hex digits
func Fingerprint(signature string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(signature))
}

// ParseSignature decodes a signature back into sorted assignee lists
func ParseSignature(sig string) (map[SlotID][]string, error) {
	out := make(map[SlotID][]string)
	rest := sig
	for rest != "" {
		idPart, after, ok := strings.Cut(rest, ":")
		if !ok {
			return nil, fmt.Errorf("invalid signature: missing ':' after %q", idPart)
		}
		id, err := ParseSlotID(idPart)
		if err != nil {
			return nil, fmt.Errorf("invalid signature: %w", err)
		}

		names := []string{}
		for !strings.HasPrefix(after, ";") {
			quoted, err := strconv.QuotedPrefix(after)
			if err != nil {
				return nil, fmt.Errorf("invalid signature: bad name in slot %s: %w", id, err)
			}
			name, _ := strconv.Unquote(quoted)
			names = append(names, name)
			after = strings.TrimPrefix(after[len(quoted):], ",")
			if after == "" {
				return nil, fmt.Errorf("invalid signature: unterminated slot %s", id)
			}
		}

		out[id] = names
		rest = after[1:]
	}
	return out, nil
}
