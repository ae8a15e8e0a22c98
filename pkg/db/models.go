package db

import (
	"time"

	"github.com/google/uuid"
)

// AdoptedRoster is the roster chosen for one category of one period. There
// is at most one per (PeriodKey, Category).
type AdoptedRoster struct {
	ID              uuid.UUID
	PeriodKey       string
	Category        string
	Signature       string
	Fingerprint     string
	Score           float64
	MinSatisfaction float64

	// Required maps slot IDs (e.g. "2025-01-01_DAY") to headcount
	Required map[string]int
	// Assignments maps slot IDs to sorted member names
	Assignments  map[string][]string
	Satisfaction map[string]float64

	AdoptedAt time.Time
}
