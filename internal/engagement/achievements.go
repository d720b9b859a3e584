package engagement

import (
	"slices"

	"momentum/internal/model"
)

// UnlockInput carries the counters achievements are evaluated against.
// CompletionHour is nil when the check is not triggered by a completion.
type UnlockInput struct {
	TotalCompleted int
	CurrentStreak  int
	LongestStreak  int
	CategoryCount  int
	IsPremium      bool
	CompletionHour *int
}

// CheckUnlocks returns the achievements the input qualifies for that are not
// in alreadyUnlocked, in catalog order. It has no side effects.
func CheckUnlocks(in UnlockInput, alreadyUnlocked []string) []model.Achievement {
	streak := max(in.CurrentStreak, in.LongestStreak)

	var out []model.Achievement
	for _, a := range model.Achievements {
		if slices.Contains(alreadyUnlocked, a.ID) {
			continue
		}
		if qualifies(a.ID, in, streak) {
			out = append(out, a)
		}
	}
	return out
}

func qualifies(id string, in UnlockInput, streak int) bool {
	switch id {
	case model.AchievementFirstStep:
		return in.TotalCompleted >= 1
	case model.AchievementHighFive:
		return in.TotalCompleted >= 5
	case model.AchievementTaskMaster:
		return in.TotalCompleted >= 25
	case model.AchievementCenturion:
		return in.TotalCompleted >= 100
	case model.AchievementStreakStarter:
		return streak >= 3
	case model.AchievementWeekWarrior:
		return streak >= 7
	case model.AchievementMonthlyMaster:
		return streak >= 30
	case model.AchievementEarlyBird:
		return in.CompletionHour != nil && *in.CompletionHour < 8
	case model.AchievementNightOwl:
		return in.CompletionHour != nil && *in.CompletionHour >= 22
	case model.AchievementOrganizer:
		return in.CategoryCount > 3
	case model.AchievementPremiumMember:
		return in.IsPremium
	default:
		return false
	}
}

// MergeUnlocked adds the ids of unlocked to the settings' set.
func MergeUnlocked(s *model.Settings, unlocked []model.Achievement) {
	for _, a := range unlocked {
		if !s.HasAchievement(a.ID) {
			s.UnlockedAchievements = append(s.UnlockedAchievements, a.ID)
		}
	}
}

// AchievementProgress pairs a catalog entry with its unlock state.
type AchievementProgress struct {
	Achievement model.Achievement
	Unlocked    bool
}

// Progress lists the whole catalog with unlock flags.
func Progress(s model.Settings) []AchievementProgress {
	out := make([]AchievementProgress, 0, len(model.Achievements))
	for _, a := range model.Achievements {
		out = append(out, AchievementProgress{Achievement: a, Unlocked: s.HasAchievement(a.ID)})
	}
	return out
}
