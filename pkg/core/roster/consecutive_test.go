package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// jan returns the given day of January 2025
func jan(day int) Date {
	return NewDate(2025, 1, day)
}

func dates(days ...int) DateSet {
	set := make(DateSet, len(days))
	for _, d := range days {
		set[jan(d)] = true
	}
	return set
}

func TestWouldExceedConsecutive(t *testing.T) {
	tests := []struct {
		name      string
		assigned  DateSet
		external  DateSet
		candidate int
		maxRun    int
		expected  bool
	}{
		{"never assigned", dates(), nil, 5, 3, false},
		{"never assigned with max below 1", dates(), nil, 5, 0, true},
		{"two before, max 2", dates(1, 2), nil, 3, 2, true},
		{"two before, max 3", dates(1, 2), nil, 3, 3, false},
		{"bridging gap", dates(1, 2, 4, 5), nil, 3, 4, true},
		{"bridging gap allowed", dates(1, 2, 4, 5), nil, 3, 5, false},
		{"gap of one day breaks run", dates(1, 2), nil, 4, 2, false},
		{"after candidate", dates(6, 7), nil, 5, 2, true},
		{"already assigned date", dates(1, 2, 3), nil, 2, 1, false},
		{"external extends run", dates(1), dates(2), 3, 2, true},
		{"external date already working", dates(1), dates(2, 3), 3, 1, false},
		{"external only", nil, dates(3, 4), 5, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := WouldExceedConsecutive(tt.assigned, tt.external, jan(tt.candidate), tt.maxRun)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestWouldExceedConsecutive_AcrossMonthBoundary(t *testing.T) {
	assigned := DateSet{NewDate(2025, 1, 30): true, NewDate(2025, 1, 31): true}

	assert.True(t, WouldExceedConsecutive(assigned, nil, NewDate(2025, 2, 1), 2))
	assert.False(t, WouldExceedConsecutive(assigned, nil, NewDate(2025, 2, 2), 2))
}

func TestRuns(t *testing.T) {
	runs := Runs(dates(1, 2, 5), dates(3, 8, 9))

	assert.Equal(t, [][]Date{
		{jan(1), jan(2), jan(3)},
		{jan(5)},
		{jan(8), jan(9)},
	}, runs)
}

func TestRuns_Empty(t *testing.T) {
	assert.Empty(t, Runs())
	assert.Empty(t, Runs(DateSet{}))
}
