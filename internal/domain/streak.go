package domain

// StreakState is the streak portion of a profile.
type StreakState struct {
	Streak   int
	LastDate string
}

// StreakOf extracts the streak state of a profile. A nil profile has none.
func StreakOf(p *Profile) StreakState {
	if p == nil {
		return StreakState{}
	}
	return StreakState{Streak: p.Streak, LastDate: p.LastDate}
}

// AdvanceStreak applies a newly saved entry on day to the current state.
//
// An exceeded limit resets the streak to zero. Otherwise the streak grows
// when day directly follows LastDate (or nothing was logged yet) and
// restarts at one after a gap. LastDate always becomes day.
func AdvanceStreak(cur StreakState, day string, limitExceeded bool) StreakState {
	next := StreakState{Streak: cur.Streak, LastDate: day}
	if limitExceeded {
		next.Streak = 0
		return next
	}

	switch {
	case cur.LastDate == "" || IsDayBefore(cur.LastDate, day):
		next.Streak = cur.Streak + 1
	case cur.LastDate != day:
		next.Streak = 1
	}
	return next
}

// RebuildStreak derives the streak from entries ordered newest first.
//
// The walk stops at the first exceeded entry, which is not counted, or at
// the first gap between consecutive dates. LastDate is the newest entry's
// date whether or not it counted.
func RebuildStreak(entries []DailyEntry) StreakState {
	if len(entries) == 0 {
		return StreakState{}
	}

	state := StreakState{LastDate: entries[0].Date}
	prev := ""
	for _, e := range entries {
		if e.LimitExceeded {
			break
		}
		if prev == "" {
			state.Streak = 1
			prev = e.Date
			continue
		}
		if !IsDayBefore(e.Date, prev) {
			break
		}
		state.Streak++
		prev = e.Date
	}
	return state
}
