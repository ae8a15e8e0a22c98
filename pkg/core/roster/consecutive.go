package roster

import "sort"

// WouldExceedConsecutive reports whether adding candidate to the union of
// assigned and external would create a run of consecutive days longer than
// maxRun. A date already in the union never exceeds: the member is already
// working that day through another shift.
func WouldExceedConsecutive(assigned, external DateSet, candidate Date, maxRun int) bool {
	working := func(d Date) bool {
		return assigned[d] || external[d]
	}

	if working(candidate) {
		return false
	}

	left := 0
	for d := candidate.AddDays(-1); working(d); d = d.AddDays(-1) {
		left++
	}

	right := 0
	for d := candidate.AddDays(1); working(d); d = d.AddDays(1) {
		right++
	}

	return left+1+right > maxRun
}

// Runs splits the union of the given sets into maximal runs of consecutive
// dates, ordered by start date
func Runs(sets ...DateSet) [][]Date {
	union := make(DateSet)
	for _, set := range sets {
		for d, ok := range set {
			if ok {
				union[d] = true
			}
		}
	}

	dates := make([]Date, 0, len(union))
	for d := range union {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	var runs [][]Date
	for _, d := range dates {
		if n := len(runs); n > 0 {
			last := runs[n-1]
			if last[len(last)-1].AddDays(1) == d {
				runs[n-1] = append(last, d)
				continue
			}
		}
		runs = append(runs, []Date{d})
	}
	return runs
}

func datesOf(ids []SlotID) DateSet {
	set := make(DateSet, len(ids))
	for _, id := range ids {
		set[id.Date] = true
	}
	return set
}
