package model

import (
	"maps"
	"slices"
	"time"
)

// Settings is the single per-installation record holding preferences and
// every engagement counter.
type Settings struct {
	IsPremium            bool   `json:"isPremium"`
	ThemeID              string `json:"themeId,omitempty"`
	NotificationsEnabled bool   `json:"notificationsEnabled"`

	CurrentStreak      int        `json:"currentStreak"`
	LongestStreak      int        `json:"longestStreak"`
	LastCompletionDate *time.Time `json:"lastCompletionDate,omitempty"`

	FreezeCount           int        `json:"freezeCount"`
	LastFreezeRefreshDate *time.Time `json:"lastFreezeRefreshDate,omitempty"`
	LastFreezeUsedDate    *time.Time `json:"lastFreezeUsedDate,omitempty"`

	TotalTasksCompleted  int      `json:"totalTasksCompleted"`
	UnlockedAchievements []string `json:"unlockedAchievements"`

	Productivity             ProductivityData `json:"productivityData"`
	CurrentChallenge         *DailyChallenge  `json:"currentChallenge,omitempty"`
	TotalChallengesCompleted int              `json:"totalChallengesCompleted"`
	Patterns                 TaskPatterns     `json:"taskPatterns"`
}

// DefaultSettings returns the record used on first launch or when the
// stored one cannot be decoded.
func DefaultSettings() Settings {
	return Settings{
		ThemeID:              "default",
		NotificationsEnabled: true,
		UnlockedAchievements: []string{},
		Productivity:         NewProductivityData(),
		Patterns:             NewTaskPatterns(),
	}
}

// Normalize fills nil collections left by records written before a field existed.
func (s *Settings) Normalize() {
	if s.UnlockedAchievements == nil {
		s.UnlockedAchievements = []string{}
	}
	s.Productivity.Normalize()
	s.Patterns.Normalize()
}

// HasAchievement reports whether id is already unlocked.
func (s Settings) HasAchievement(id string) bool {
	return slices.Contains(s.UnlockedAchievements, id)
}

// Clone returns a copy that shares no mutable collections with s.
func (s Settings) Clone() Settings {
	out := s
	out.UnlockedAchievements = slices.Clone(s.UnlockedAchievements)
	if s.CurrentChallenge != nil {
		c := *s.CurrentChallenge
		out.CurrentChallenge = &c
	}

	out.Productivity.DailyLogs = make([]DailyLog, len(s.Productivity.DailyLogs))
	for i, l := range s.Productivity.DailyLogs {
		l.Hours = slices.Clone(l.Hours)
		out.Productivity.DailyLogs[i] = l
	}
	out.Productivity.HourCounts = maps.Clone(s.Productivity.HourCounts)
	out.Productivity.WeekdayCounts = maps.Clone(s.Productivity.WeekdayCounts)

	out.Patterns.TitleCounts = maps.Clone(s.Patterns.TitleCounts)
	out.Patterns.WeekdayTitles = make(map[int][]string, len(s.Patterns.WeekdayTitles))
	for day, titles := range s.Patterns.WeekdayTitles {
		out.Patterns.WeekdayTitles[day] = slices.Clone(titles)
	}
	out.Patterns.WeekdayCategories = make(map[int]map[string]int, len(s.Patterns.WeekdayCategories))
	for day, counts := range s.Patterns.WeekdayCategories {
		out.Patterns.WeekdayCategories[day] = maps.Clone(counts)
	}
	return out
}
