package forge

import "time"

const dateLayout = "2006-01-02"

// Streak is the (current, longest) consecutive-day run.
type Streak struct {
	Current int
	Longest int
}

// CalculateStreak computes the current and longest consecutive-day
// streaks from a set of dates (YYYY-MM-DD) each known to have at
// least one review. dates need not be sorted or deduplicated.
// "current" counts consecutive days ending today, or ending yesterday
// if today has no review yet; a one-day gap breaks current but never
// changes longest.
func CalculateStreak(dates []string, today time.Time) Streak {
	seen := make(map[string]bool, len(dates))
	for _, d := range dates {
		seen[d] = true
	}
	if len(seen) == 0 {
		return Streak{}
	}

	todayKey := today.Format(dateLayout)
	yesterdayKey := today.AddDate(0, 0, -1).Format(dateLayout)

	start := today
	if !seen[todayKey] {
		if !seen[yesterdayKey] {
			return Streak{Current: 0, Longest: longestRun(seen)}
		}
		start = today.AddDate(0, 0, -1)
	}

	current := 0
	cursor := start
	for seen[cursor.Format(dateLayout)] {
		current++
		cursor = cursor.AddDate(0, 0, -1)
	}

	return Streak{Current: current, Longest: longestRun(seen)}
}

func longestRun(seen map[string]bool) int {
	parsed := make([]time.Time, 0, len(seen))
	for d := range seen {
		t, err := time.Parse(dateLayout, d)
		if err != nil {
			continue
		}
		parsed = append(parsed, t)
	}
	if len(parsed) == 0 {
		return 0
	}

	set := make(map[int64]bool, len(parsed))
	for _, t := range parsed {
		set[t.Unix()/86400] = true
	}

	longest := 0
	for day := range set {
		if set[day-1] {
			continue // not a run start
		}
		run := 1
		for set[day+int64(run)] {
			run++
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}
