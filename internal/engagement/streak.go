package engagement

import (
	"time"

	"momentum/internal/model"
)

// MonthlyFreezes is the number of streak freezes a premium user gets each month.
const MonthlyFreezes = 2

// StreakCheck is the outcome of ValidateStreak.
type StreakCheck int

const (
	StreakUntouched StreakCheck = iota
	StreakIntact
	StreakFrozen
	StreakBroken
)

func (c StreakCheck) String() string {
	switch c {
	case StreakIntact:
		return "intact"
	case StreakFrozen:
		return "frozen"
	case StreakBroken:
		return "broken"
	default:
		return "untouched"
	}
}

// RecordCompletion updates streak counters for a completion at now.
// Every completion counts toward the total; only the first one of a day
// moves the streak.
func RecordCompletion(s *model.Settings, now time.Time) {
	s.TotalTasksCompleted++

	if s.LastCompletionDate == nil {
		s.CurrentStreak = 1
	} else {
		gap := DaysBetween(*s.LastCompletionDate, now)
		switch {
		case gap <= 0:
			// already counted today; a negative gap means the clock went back
			return
		case gap == 1:
			s.CurrentStreak++
		default:
			s.CurrentStreak = 1
		}
	}

	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}
	today := StartOfDay(now)
	s.LastCompletionDate = &today
}

// RefreshFreezes grants the monthly freeze allowance to premium users and
// clears it for everyone else.
func RefreshFreezes(s *model.Settings, now time.Time) {
	if !s.IsPremium {
		s.FreezeCount = 0
		return
	}
	if s.LastFreezeRefreshDate == nil || laterMonth(now, *s.LastFreezeRefreshDate) {
		s.FreezeCount = MonthlyFreezes
		stamp := now
		s.LastFreezeRefreshDate = &stamp
	}
}

// ValidateStreak runs once per session start, before any completion of that
// session. A freeze bridges exactly one missed day; longer gaps always reset.
func ValidateStreak(s *model.Settings, now time.Time) StreakCheck {
	RefreshFreezes(s, now)

	if s.LastCompletionDate == nil || s.CurrentStreak == 0 {
		return StreakUntouched
	}

	gap := DaysBetween(*s.LastCompletionDate, now)
	switch {
	case gap <= 1:
		return StreakIntact
	case gap == 2 && s.IsPremium && s.FreezeCount > 0 && !frozenDateMissed(s):
		s.FreezeCount--
		used := now
		s.LastFreezeUsedDate = &used
		yesterday := StartOfDay(now).AddDate(0, 0, -1)
		s.LastCompletionDate = &yesterday
		return StreakFrozen
	default:
		s.CurrentStreak = 0
		return StreakBroken
	}
}

// StreakStatus describes the streak from the user's point of view.
type StreakStatus string

const (
	StatusNone   StreakStatus = "none"
	StatusActive StreakStatus = "active"
	StatusAtRisk StreakStatus = "at_risk"
	StatusBroken StreakStatus = "broken"
)

// Status reports whether the streak is safe for today, needs a completion
// today to survive, or is already broken.
func Status(s model.Settings, now time.Time) StreakStatus {
	if s.LastCompletionDate == nil || s.CurrentStreak == 0 {
		return StatusNone
	}
	switch gap := DaysBetween(*s.LastCompletionDate, now); {
	case gap <= 0:
		return StatusActive
	case gap == 1:
		return StatusAtRisk
	default:
		return StatusBroken
	}
}

// frozenDateMissed reports whether LastCompletionDate is still the day a
// freeze moved it to. A gap from that date means the day the freeze was used
// was missed too.
func frozenDateMissed(s *model.Settings) bool {
	if s.LastFreezeUsedDate == nil {
		return false
	}
	return DaysBetween(*s.LastCompletionDate, *s.LastFreezeUsedDate) == 1
}

func laterMonth(now, ref time.Time) bool {
	ref = ref.In(now.Location())
	if now.Year() != ref.Year() {
		return now.Year() > ref.Year()
	}
	return now.Month() > ref.Month()
}
