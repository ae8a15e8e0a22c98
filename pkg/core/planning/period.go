package planning

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jakechorley/shift-roster/pkg/core/roster"
)

// Half selects the first (1st-15th) or second (16th-end) half of a month
type Half string

const (
	FirstHalf  Half = "H1"
	SecondHalf Half = "H2"
)

// Period is one half-month planning period
type Period struct {
	Year  int
	Month time.Month
	Half  Half
}

// ParsePeriod parses a period key such as "2025-01-H1"
func ParsePeriod(key string) (Period, error) {
	parts := strings.Split(key, "-")
	if len(parts) != 3 {
		return Period{}, fmt.Errorf("invalid period %q (expected YYYY-MM-H1 or YYYY-MM-H2)", key)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil || len(parts[0]) != 4 {
		return Period{}, fmt.Errorf("invalid year in period %q", key)
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return Period{}, fmt.Errorf("invalid month in period %q", key)
	}

	half := Half(strings.ToUpper(parts[2]))
	if half != FirstHalf && half != SecondHalf {
		return Period{}, fmt.Errorf("invalid half in period %q (expected H1 or H2)", key)
	}

	return Period{Year: year, Month: time.Month(month), Half: half}, nil
}

// PeriodOf returns the period containing d
func PeriodOf(d roster.Date) Period {
	half := FirstHalf
	if d.Day > 15 {
		half = SecondHalf
	}
	return Period{Year: d.Year, Month: d.Month, Half: half}
}

// Key formats the period as YYYY-MM-H1 or YYYY-MM-H2
func (p Period) Key() string {
	return fmt.Sprintf("%04d-%02d-%s", p.Year, int(p.Month), p.Half)
}

func (p Period) String() string {
	return p.Key()
}

// Start returns the first date in the period
func (p Period) Start() roster.Date {
	if p.Half == SecondHalf {
		return roster.NewDate(p.Year, p.Month, 16)
	}
	return roster.NewDate(p.Year, p.Month, 1)
}

// End returns the last date in the period
func (p Period) End() roster.Date {
	if p.Half == SecondHalf {
		return roster.NewDate(p.Year, p.Month+1, 1).AddDays(-1)
	}
	return roster.NewDate(p.Year, p.Month, 15)
}

// Dates returns every date in the period in order
func (p Period) Dates() []roster.Date {
	var dates []roster.Date
	end := p.End()
	for d := p.Start(); !end.Before(d); d = d.AddDays(1) {
		dates = append(dates, d)
	}
	return dates
}

// Contains reports whether d falls in the period
func (p Period) Contains(d roster.Date) bool {
	return !d.Before(p.Start()) && !p.End().Before(d)
}

// Next returns the following period
func (p Period) Next() Period {
	if p.Half == FirstHalf {
		return Period{Year: p.Year, Month: p.Month, Half: SecondHalf}
	}
	next := roster.NewDate(p.Year, p.Month+1, 1)
	return Period{Year: next.Year, Month: next.Month, Half: FirstHalf}
}

// Title formats the period for display, e.g. "Jan 2025 (1-15)"
func (p Period) Title() string {
	return fmt.Sprintf("%s %d (%d-%d)", p.Month.String()[:3], p.Year, p.Start().Day, p.End().Day)
}
