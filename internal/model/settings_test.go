package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	assert.True(t, s.NotificationsEnabled)
	assert.False(t, s.IsPremium)
	assert.Equal(t, "default", s.ThemeID)
	assert.Empty(t, s.UnlockedAchievements)
	assert.NotNil(t, s.Productivity.HourCounts)
	assert.NotNil(t, s.Patterns.WeekdayCategories)
}

func TestSettingsNormalizeFillsMissingCollections(t *testing.T) {
	var s Settings
	require.NoError(t, json.Unmarshal([]byte(`{"currentStreak":3}`), &s))
	s.Normalize()

	assert.Equal(t, 3, s.CurrentStreak)
	assert.NotNil(t, s.UnlockedAchievements)
	assert.NotNil(t, s.Productivity.DailyLogs)
	assert.NotNil(t, s.Productivity.WeekdayCounts)
	assert.NotNil(t, s.Patterns.TitleCounts)
	assert.NotNil(t, s.Patterns.WeekdayTitles)
}

func TestSettingsClone(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := DefaultSettings()
	s.UnlockedAchievements = []string{"first_task"}
	s.CurrentChallenge = &DailyChallenge{Type: ChallengeEarlyBird, Date: day}
	s.Productivity.DailyLogs = []DailyLog{{Date: day, CompletedCount: 1, Hours: []int{9}}}
	s.Productivity.HourCounts[9] = 1
	s.Patterns.TitleCounts["gym"] = 2
	s.Patterns.WeekdayTitles[2] = []string{"gym"}
	s.Patterns.WeekdayCategories[2] = map[string]int{"c1": 1}

	c := s.Clone()
	c.UnlockedAchievements[0] = "changed"
	c.CurrentChallenge.Progress = 5
	c.Productivity.DailyLogs[0].Hours[0] = 23
	c.Productivity.HourCounts[9] = 7
	c.Patterns.TitleCounts["gym"] = 9
	c.Patterns.WeekdayTitles[2][0] = "run"
	c.Patterns.WeekdayCategories[2]["c1"] = 4

	assert.Equal(t, "first_task", s.UnlockedAchievements[0])
	assert.Zero(t, s.CurrentChallenge.Progress)
	assert.Equal(t, 9, s.Productivity.DailyLogs[0].Hours[0])
	assert.Equal(t, 1, s.Productivity.HourCounts[9])
	assert.Equal(t, 2, s.Patterns.TitleCounts["gym"])
	assert.Equal(t, "gym", s.Patterns.WeekdayTitles[2][0])
	assert.Equal(t, 1, s.Patterns.WeekdayCategories[2]["c1"])
}

func TestWeekdayNumber(t *testing.T) {
	assert.Equal(t, 1, WeekdayNumber(time.Sunday))
	assert.Equal(t, 2, WeekdayNumber(time.Monday))
	assert.Equal(t, 7, WeekdayNumber(time.Saturday))
}
