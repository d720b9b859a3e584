package engagement

import (
	"time"

	"momentum/internal/model"
)

// ForToday picks the challenge for now's calendar day. The same date always
// yields the same type.
func ForToday(now time.Time) model.DailyChallenge {
	idx := (now.YearDay() - 1) % len(model.ChallengeRotation)
	return model.DailyChallenge{
		Type: model.ChallengeRotation[idx],
		Date: StartOfDay(now),
	}
}

// RefreshDailyChallenge replaces a missing or stale challenge with today's,
// discarding yesterday's even when it was not completed. It reports whether
// a new challenge was generated.
func RefreshDailyChallenge(s *model.Settings, now time.Time) bool {
	if s.CurrentChallenge != nil && SameDay(s.CurrentChallenge.Date, now) {
		return false
	}
	c := ForToday(now)
	s.CurrentChallenge = &c
	return true
}

// CheckCompletion recomputes progress for c and marks it completed when the
// goal is reached. It returns true only on the call that completes it.
func CheckCompletion(c *model.DailyChallenge, tasks []model.Task, currentStreak int, now time.Time) bool {
	if c == nil || c.Completed {
		return false
	}

	progress := challengeProgress(c.Type, tasks, currentStreak, now)
	c.Progress = progress
	if progress < c.Type.Target() {
		return false
	}

	c.Completed = true
	at := now
	c.CompletedAt = &at
	return true
}

func challengeProgress(kind model.ChallengeType, tasks []model.Task, currentStreak int, now time.Time) int {
	switch kind {
	case model.ChallengeCompleteTasks:
		n := 0
		for _, t := range tasks {
			if CompletedToday(t, now) {
				n++
			}
		}
		return n
	case model.ChallengeEarlyBird:
		return boolToInt(anyCompletedToday(tasks, now, func(hour int) bool { return hour < 9 }))
	case model.ChallengeNightOwl:
		return boolToInt(anyCompletedToday(tasks, now, func(hour int) bool { return hour >= 20 }))
	case model.ChallengeStreakKeeper:
		return boolToInt(currentStreak > 0)
	case model.ChallengeCategoryFocus:
		perCategory := make(map[string]int)
		best := 0
		for _, t := range tasks {
			if t.CategoryID == nil || !CompletedToday(t, now) {
				continue
			}
			perCategory[*t.CategoryID]++
			best = max(best, perCategory[*t.CategoryID])
		}
		return best
	case model.ChallengeAllDone:
		today := TodayTasks(tasks, now)
		done := 0
		for _, t := range today {
			if !t.Completed {
				return 0
			}
			done++
		}
		return boolToInt(done > 0)
	default:
		return 0
	}
}

func anyCompletedToday(tasks []model.Task, now time.Time, hourMatches func(int) bool) bool {
	for _, t := range tasks {
		if CompletedToday(t, now) && hourMatches(t.CompletedAt.In(now.Location()).Hour()) {
			return true
		}
	}
	return false
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
