package models

import (
	"sort"
	"time"
)

// SameDay reports whether a and b fall on the same calendar day in b's location
func SameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// StartOfDay truncates t to local midnight
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayKey formats t as YYYY-MM-DD in loc
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// ComputeStreak counts consecutive calendar days with a completion.
// The run ends today, or yesterday when today is not checked off yet.
// Returns the current streak and the longest run found in dates.
func ComputeStreak(dates []time.Time, now time.Time) (current, longest int) {
	if len(dates) == 0 {
		return 0, 0
	}
	loc := now.Location()

	days := make(map[string]bool, len(dates))
	var sorted []time.Time
	for _, d := range dates {
		key := DayKey(d, loc)
		if days[key] {
			continue
		}
		days[key] = true
		sorted = append(sorted, StartOfDay(d.In(loc)))
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Before(sorted[j])
	})

	run := 0
	var prev time.Time
	for i, d := range sorted {
		if i > 0 && prev.AddDate(0, 0, 1).Equal(d) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
		prev = d
	}

	cursor := StartOfDay(now)
	if !days[DayKey(cursor, loc)] {
		cursor = cursor.AddDate(0, 0, -1)
	}
	for days[DayKey(cursor, loc)] {
		current++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return current, longest
}
