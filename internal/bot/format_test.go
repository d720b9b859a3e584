package bot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"momentum/internal/engagement"
	"momentum/internal/model"
	"momentum/internal/service"
)

func ptr[T any](v T) *T { return &v }

func TestFormatTask(t *testing.T) {
	work := model.Category{ID: "c1", Name: "work"}
	cats := categoryIndex([]model.Category{work})

	tests := []struct {
		name string
		task model.Task
		want []string
	}{
		{
			name: "overdue with category",
			task: model.Task{Title: "report", DueDate: ptr(now.AddDate(0, 0, -1)), CategoryID: ptr("c1")},
			want: []string{iconOverdue, "<b>3.</b> Report", "<i>(work)</i>", "overdue"},
		},
		{
			name: "due today",
			task: model.Task{Title: "call", DueDate: ptr(now)},
			want: []string{iconDue, "Due <b>today</b>"},
		},
		{
			name: "future with escaped notes",
			task: model.Task{Title: "a<b>", Notes: "x & y", DueDate: ptr(now.AddDate(0, 0, 5)), Priority: model.PriorityHigh},
			want: []string{iconDefault, "‼️ A&lt;b&gt;", "in 5 d.", "📝 x &amp; y"},
		},
		{
			name: "done",
			task: model.Task{Title: "done", Completed: true, CompletedAt: ptr(now), DueDate: ptr(now)},
			want: []string{iconDone},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatTask(3, tt.task, cats, now)
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
		})
	}
	assert.NotContains(t, formatTask(1, tests[3].task, cats, now), "Due")
}

func TestFormatTaskListNumbersFollowOrder(t *testing.T) {
	tasks := []model.Task{
		{ID: "1", Title: "open"},
		{ID: "2", Title: "finished", Completed: true, CompletedAt: ptr(now)},
		{ID: "3", Title: "old", Completed: true, CompletedAt: ptr(now.AddDate(0, 0, -3))},
	}

	got := formatTaskList(tasks, nil, now)

	assert.Contains(t, got, "<b>1.</b> Open")
	assert.Contains(t, got, "Done today")
	assert.Contains(t, got, "<b>2.</b> Finished")
	assert.NotContains(t, got, "Old")

	assert.Contains(t, formatTaskList(nil, nil, now), "/newtask")
}

func TestFormatCompletion(t *testing.T) {
	first, _ := model.FindAchievement(model.AchievementFirstStep)
	challenge := &model.DailyChallenge{Type: model.ChallengeCompleteTasks, Completed: true}
	out := service.CompletionOutcome{
		Task:               model.Task{Title: "write tests"},
		NewAchievements:    []model.Achievement{first},
		ChallengeCompleted: true,
	}

	got := formatCompletion(out, model.Settings{CurrentStreak: 4, CurrentChallenge: challenge})

	assert.Contains(t, got, "«Write tests» done.")
	assert.Contains(t, got, "Streak: 4")
	assert.Contains(t, got, first.Name)
	assert.Contains(t, got, model.ChallengeCompleteTasks.Title())
}

func TestFormatStreak(t *testing.T) {
	got := formatStreak(model.Settings{CurrentStreak: 2, LongestStreak: 9}, engagement.StatusAtRisk)
	assert.Contains(t, got, "Current: <b>2</b> · Longest: 9")
	assert.Contains(t, got, "keep it going")
	assert.Contains(t, got, "/premium")

	got = formatStreak(model.Settings{IsPremium: true, FreezeCount: 1}, engagement.StatusNone)
	assert.Contains(t, got, "Freezes left this month: 1")
}

func TestFormatAchievements(t *testing.T) {
	s := model.DefaultSettings()
	s.UnlockedAchievements = []string{model.AchievementFirstStep}

	got := formatAchievements(engagement.Progress(s))

	assert.Contains(t, got, "1/11")
	assert.Equal(t, len(model.Achievements)-1, strings.Count(got, iconLocked))
}

func TestFormatChallenge(t *testing.T) {
	c := model.DailyChallenge{Type: model.ChallengeCompleteTasks, Progress: 5}
	assert.Contains(t, formatChallenge(c, 0), "Progress: 3/3")

	c.Completed = true
	got := formatChallenge(c, 7)
	assert.Contains(t, got, "Completed!")
	assert.Contains(t, got, "Challenges completed so far: 7")
}

func TestBarChart(t *testing.T) {
	days := []engagement.DayCount{
		{Date: now.AddDate(0, 0, -1), Count: 4},
		{Date: now, Count: 1},
	}

	lines := strings.Split(barChart(days), "\n")

	assert.Len(t, lines, 2)
	assert.Equal(t, "Sun "+strings.Repeat(barFull, barWidth)+" 4", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Mon "+strings.Repeat(barFull, 3)+" "))
	assert.True(t, strings.HasSuffix(lines[1], " 1"))
}

func TestFormatPurchase(t *testing.T) {
	assert.Contains(t, formatPurchase(model.PurchaseFailure("No <luck>"), model.Settings{}), "No &lt;luck&gt;")
	assert.Contains(t, formatPurchase(model.PurchaseState{Kind: model.PurchaseRestored}, model.Settings{}), "restored")
	assert.Contains(t, formatPurchase(model.PurchaseState{Kind: model.PurchaseIdle}, model.Settings{IsPremium: true, FreezeCount: 2}), "Freezes left this month: 2")
}

func TestFormatDailyReport(t *testing.T) {
	d := service.Dashboard{
		Settings:  model.Settings{CurrentStreak: 3},
		Streak:    engagement.StatusAtRisk,
		Challenge: model.DailyChallenge{Type: model.ChallengeEarlyBird},
		Due:       []model.Task{{Title: "pay rent", DueDate: ptr(now)}},
		OpenCount: 4,
		Suggestions: []engagement.Suggestion{
			{Kind: engagement.SuggestTitle, Title: "Gym"},
		},
	}

	got := formatDailyReport(d, now)

	assert.Contains(t, got, "Monday, 04 Mar 2024")
	assert.Contains(t, got, "Streak: <b>3</b>")
	assert.Contains(t, got, "Early Bird")
	assert.Contains(t, got, "(0/1)")
	assert.Contains(t, got, "Pay rent")
	assert.Contains(t, got, "Open tasks: 4")
	assert.Contains(t, got, "• Gym")
}

func TestWithNotice(t *testing.T) {
	assert.Equal(t, "hi", withNotice("hi", ""))
	assert.Equal(t, "hi\n\n⚠️ a &amp; b /dismiss", withNotice("hi", "a & b"))
}

func TestShortTitle(t *testing.T) {
	assert.Equal(t, "Buy milk", shortTitle("buy milk", 24))
	assert.Equal(t, "Abcd…", shortTitle("abcdefgh", 5))
}
