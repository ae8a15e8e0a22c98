package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jakechorley/shift-roster/pkg/core/planning"
	"github.com/jakechorley/shift-roster/pkg/core/roster"
	"github.com/jakechorley/shift-roster/pkg/core/services"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorDim    = "\033[2m"
)

func printGenerateResult(w io.Writer, result *services.GenerateResult, onlyUnderstaffed bool) {
	fmt.Fprintf(w, "\n%s roster candidates for %s", result.Category, result.Period.Title())
	switch result.PairedWith {
	case services.PairedWithAdopted:
		fmt.Fprintf(w, " (paired with the adopted %s roster)", result.Category.Other())
	case services.PairedWithCandidates:
		fmt.Fprintf(w, " (paired with generated %s candidates)", result.Category.Other())
	}
	fmt.Fprintln(w)

	source := fmt.Sprintf("%d attempts", result.Stats.Attempts)
	if result.FromCache {
		source = "from cache"
	}
	fmt.Fprintf(w, "Slots: %d  Members: %d  Candidates: %d (%s)\n", len(result.Slots), len(result.Members), len(result.Candidates), source)
	if result.Stats.BestEffort {
		fmt.Fprintf(w, "%s⚠️  No candidate reached the satisfaction threshold, showing the best found%s\n", colorYellow, colorReset)
	}

	if len(result.Candidates) == 0 {
		fmt.Fprintln(w, "\nNo candidates generated.")
		return
	}

	for _, c := range result.Candidates {
		printCandidate(w, c, onlyUnderstaffed)
	}
}

func printCandidate(w io.Writer, c services.Candidate, onlyUnderstaffed bool) {
	a := c.Assignment
	fmt.Fprintf(w, "\n#%d  %s  score %.3f  min %.2f  avg %.2f\n", c.Index, a.Fingerprint(), a.Score, a.MinSatisfaction, a.AvgSatisfaction)

	fmt.Fprintf(w, "  %-12s %-4s %-9s %s\n", "Date", "Day", "Staffed", "Names")
	fmt.Fprintf(w, "  %s\n", strings.Repeat("-", 50))
	shown := 0
	for _, slot := range a.Slots {
		names := a.Assigned(slot.ID)
		short := len(names) < slot.Required
		if onlyUnderstaffed && !short {
			continue
		}
		shown++
		fmt.Fprintf(w, "  %-12s %-4s %s %s\n",
			slot.ID.Date, weekday(slot.ID.Date), padded(staffing(len(names), slot.Required), 9), joinNames(names))
	}
	if onlyUnderstaffed && shown == 0 {
		fmt.Fprintf(w, "  %sFully staffed%s\n", colorGreen, colorReset)
	}

	if len(c.Understaffed) > 0 {
		fmt.Fprintf(w, "  %sUnderstaffed slots: %d%s\n", colorRed, len(c.Understaffed), colorReset)
	}
	for _, v := range c.Violations {
		fmt.Fprintf(w, "  %s✗ %s%s\n", colorRed, v, colorReset)
	}

	fmt.Fprintf(w, "  Satisfaction:")
	for _, name := range sortedKeys(a.Satisfaction) {
		fmt.Fprintf(w, " %s %.2f", name, a.Satisfaction[name])
	}
	fmt.Fprintln(w)
}

func printCalendar(w io.Writer, rows []planning.CalendarRow) {
	fmt.Fprintf(w, "%-12s %-4s %-9s %-28s %-9s %s\n", "Date", "Day", "Day", "", "Night", "")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, row := range rows {
		fmt.Fprintf(w, "%-12s %-4s %s %-28s %s %s\n",
			row.Date, row.Weekday.String()[:3],
			padded(cellStaffing(row.Day), 9), cellNames(row.Day),
			padded(cellStaffing(row.Night), 9), cellNames(row.Night))
	}
}

func printSlots(w io.Writer, day, night []roster.Slot) {
	required := make(map[roster.SlotID]int, len(day)+len(night))
	seen := make(map[roster.Date]bool)
	var dates []roster.Date
	for _, slots := range [][]roster.Slot{day, night} {
		for _, slot := range slots {
			required[slot.ID] = slot.Required
			if !seen[slot.ID.Date] {
				seen[slot.ID.Date] = true
				dates = append(dates, slot.ID.Date)
			}
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	fmt.Fprintf(w, "%-12s %-4s %5s %5s\n", "Date", "", "Day", "Night")
	fmt.Fprintln(w, strings.Repeat("-", 29))
	totals := map[roster.Category]int{}
	for _, d := range dates {
		dayReq := required[roster.SlotID{Date: d, Category: roster.Day}]
		nightReq := required[roster.SlotID{Date: d, Category: roster.Night}]
		totals[roster.Day] += dayReq
		totals[roster.Night] += nightReq
		fmt.Fprintf(w, "%-12s %-4s %5d %5d\n", d, weekday(d), dayReq, nightReq)
	}
	fmt.Fprintln(w, strings.Repeat("-", 29))
	fmt.Fprintf(w, "%-17s %5d %5d\n", "Total", totals[roster.Day], totals[roster.Night])
}

func staffing(assigned, required int) string {
	s := fmt.Sprintf("%d/%d", assigned, required)
	if assigned < required {
		return colorRed + s + colorReset
	}
	return s
}

func cellStaffing(cell planning.CalendarCell) string {
	if !cell.Present {
		return colorDim + "—" + colorReset
	}
	return staffing(len(cell.Names), cell.Required)
}

func cellNames(cell planning.CalendarCell) string {
	if !cell.Present {
		return ""
	}
	return joinNames(cell.Names)
}

func joinNames(names []string) string {
	if len(names) == 0 {
		return "—"
	}
	return strings.Join(names, ", ")
}

// padded pads s to width visible characters, ignoring colour codes
func padded(s string, width int) string {
	visible := len([]rune(stripColors(s)))
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func stripColors(s string) string {
	for _, code := range []string{colorReset, colorGreen, colorRed, colorYellow, colorDim} {
		s = strings.ReplaceAll(s, code, "")
	}
	return s
}

func weekday(d roster.Date) string {
	return d.Weekday().String()[:3]
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
