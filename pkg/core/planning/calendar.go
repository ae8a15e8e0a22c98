package planning

import (
	"time"

	"github.com/jakechorley/shift-roster/pkg/core/roster"
)

// CalendarCell is one category's staffing on one date
type CalendarCell struct {
	Present  bool
	Required int
	Names    []string
}

// Short reports whether the cell has fewer names than required
func (c CalendarCell) Short() bool {
	return c.Present && len(c.Names) < c.Required
}

// CalendarRow is one date of a merged day and night roster
type CalendarRow struct {
	Date    roster.Date
	Weekday time.Weekday
	Day     CalendarCell
	Night   CalendarCell
}

// Short reports whether either category is understaffed on this date
func (r CalendarRow) Short() bool {
	return r.Day.Short() || r.Night.Short()
}

// MergeCalendar lays the day and night rosters side by side for every date
// in the period. Either roster may be nil.
func MergeCalendar(p Period, day, night *roster.Assignment) []CalendarRow {
	dates := p.Dates()
	rows := make([]CalendarRow, 0, len(dates))
	for _, d := range dates {
		rows = append(rows, CalendarRow{
			Date:    d,
			Weekday: d.Weekday(),
			Day:     cellFor(day, roster.SlotID{Date: d, Category: roster.Day}),
			Night:   cellFor(night, roster.SlotID{Date: d, Category: roster.Night}),
		})
	}
	return rows
}

// ShortRows keeps only rows with an understaffed cell
func ShortRows(rows []CalendarRow) []CalendarRow {
	var out []CalendarRow
	for _, r := range rows {
		if r.Short() {
			out = append(out, r)
		}
	}
	return out
}

func cellFor(a *roster.Assignment, id roster.SlotID) CalendarCell {
	if a == nil {
		return CalendarCell{}
	}
	for _, slot := range a.Slots {
		if slot.ID == id {
			return CalendarCell{Present: true, Required: slot.Required, Names: a.Assigned(id)}
		}
	}
	return CalendarCell{}
}
