package challenge

import (
	"math"
	"time"

	"weighin/internal/domain/weight"
)

// Window describes where a participant stands inside their personal
// challenge interval [joinDate, joinDate+duration].
type Window struct {
	DaysPassed    int
	DaysRemaining int
	Active        bool
}

// ParticipantWindow computes the day window for one participant as of
// today. The end boundary is inclusive: on joinDate+duration the challenge
// is still active with zero days remaining; one day later it is completed
// and DaysPassed is capped at the duration. A join date in the future
// yields DaysPassed 0, never a negative count.
// PRE: durationDays > 0
// POST: 0 <= DaysPassed <= durationDays, DaysRemaining >= 0
func ParticipantWindow(joinDate, today time.Time, durationDays int) Window {
	join := weight.DateOf(joinDate)
	day := weight.DateOf(today)
	end := join.AddDate(0, 0, durationDays)

	if day.After(end) {
		return Window{DaysPassed: durationDays, DaysRemaining: 0, Active: false}
	}

	passed := int(math.Ceil(day.Sub(join).Hours() / 24))
	if passed < 0 {
		passed = 0
	}
	remaining := durationDays - passed
	if remaining < 0 {
		remaining = 0
	}
	return Window{DaysPassed: passed, DaysRemaining: remaining, Active: true}
}

// DayDate maps a 1-indexed challenge day to its calendar date: day 1 is
// the join date itself, day k is joinDate+(k-1).
func DayDate(joinDate time.Time, day int) time.Time {
	return weight.DateOf(joinDate).AddDate(0, 0, day-1)
}

// FinalWeighIn returns the timestamp the admin final weigh-in is pinned
// to: 17:00 on the last challenge day. The time component is a
// record-keeping annotation only and never feeds back into day math.
func FinalWeighIn(joinDate time.Time, durationDays int) time.Time {
	return DayDate(joinDate, durationDays).Add(17 * time.Hour)
}
