package roster

import (
	"fmt"
	"strings"
	"time"
)

// DefaultMaxConsecutive is used for members with no configured limit
const DefaultMaxConsecutive = 3

const dateLayout = "2006-01-02"

// Date is a calendar day without a time of day or location
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the normalised date, so NewDate(2025, 1, 32) is 2025-02-01
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t in its own location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Time returns midnight UTC on d
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n calendar days after d (n may be negative)
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// DateSet is a set of calendar dates
type DateSet map[Date]bool

// Category is the shift category of a slot
type Category string

const (
	Day   Category = "DAY"
	Night Category = "NIGHT"
)

// Categories lists every category in display order
var Categories = []Category{Day, Night}

// ParseCategory accepts "day"/"night" in any case
func ParseCategory(s string) (Category, error) {
	switch Category(strings.ToUpper(strings.TrimSpace(s))) {
	case Day:
		return Day, nil
	case Night:
		return Night, nil
	}
	return "", fmt.Errorf("unknown shift category %q (expected day or night)", s)
}

// Other returns the opposite category
func (c Category) Other() Category {
	if c == Day {
		return Night
	}
	return Day
}

// SlotID identifies a slot by date and category
type SlotID struct {
	Date     Date
	Category Category
}

// String formats the ID as YYYY-MM-DD_DAY or YYYY-MM-DD_NIGHT
func (id SlotID) String() string {
	return id.Date.String() + "_" + string(id.Category)
}

// Less orders slot IDs by date, then DAY before NIGHT
func (id SlotID) Less(other SlotID) bool {
	if id.Date != other.Date {
		return id.Date.Before(other.Date)
	}
	return categoryRank(id.Category) < categoryRank(other.Category)
}

func categoryRank(c Category) int {
	for i, cat := range Categories {
		if cat == c {
			return i
		}
	}
	return len(Categories)
}

// ParseSlotID parses the String form of a SlotID
func ParseSlotID(s string) (SlotID, error) {
	datePart, catPart, ok := strings.Cut(s, "_")
	if !ok {
		return SlotID{}, fmt.Errorf("invalid slot id %q", s)
	}
	date, err := ParseDate(datePart)
	if err != nil {
		return SlotID{}, err
	}
	cat, err := ParseCategory(catPart)
	if err != nil {
		return SlotID{}, err
	}
	return SlotID{Date: date, Category: cat}, nil
}

// Slot is one schedulable unit with its required headcount
type Slot struct {
	ID       SlotID
	Required int
}

// Member is a schedulable person. Members are values: NewMember copies its
// inputs and nothing in this package mutates a Member after construction.
type Member struct {
	Name           string
	Available      map[SlotID]bool
	Preferred      map[SlotID]bool
	Desired        map[Category]int
	MaxConsecutive int
}

// NewMember builds a Member. Preferred slots are also added to availability.
// A maxConsecutive below 1 falls back to DefaultMaxConsecutive.
func NewMember(name string, available, preferred []SlotID, desired map[Category]int, maxConsecutive int) Member {
	m := Member{
		Name:           name,
		Available:      make(map[SlotID]bool, len(available)+len(preferred)),
		Preferred:      make(map[SlotID]bool, len(preferred)),
		Desired:        make(map[Category]int, len(desired)),
		MaxConsecutive: maxConsecutive,
	}
	for _, id := range available {
		m.Available[id] = true
	}
	for _, id := range preferred {
		m.Available[id] = true
		m.Preferred[id] = true
	}
	for cat, n := range desired {
		m.Desired[cat] = n
	}
	if m.MaxConsecutive < 1 {
		m.MaxConsecutive = DefaultMaxConsecutive
	}
	return m
}

func (m Member) IsAvailable(id SlotID) bool {
	return m.Available[id]
}

func (m Member) Prefers(id SlotID) bool {
	return m.Preferred[id]
}

// maxRun returns the consecutive-day limit, defaulting members built
// without NewMember
func (m Member) maxRun() int {
	if m.MaxConsecutive == 0 {
		return DefaultMaxConsecutive
	}
	return m.MaxConsecutive
}

// scope is the set of categories covered by one generation run
type scope map[Category]bool

func scopeOf(slots []Slot) scope {
	s := make(scope)
	for _, slot := range slots {
		s[slot.ID.Category] = true
	}
	return s
}

// desired sums the member's desired counts over the categories in scope
func (s scope) desired(m Member) int {
	total := 0
	for cat := range s {
		total += m.Desired[cat]
	}
	return total
}

// preferred returns the member's preferred slots within scope
func (s scope) preferred(m Member) map[SlotID]bool {
	out := make(map[SlotID]bool, len(m.Preferred))
	for id := range m.Preferred {
		if s[id.Category] {
			out[id] = true
		}
	}
	return out
}
