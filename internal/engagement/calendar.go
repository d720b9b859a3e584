// Package engagement holds the rules behind streaks, achievements, daily
// challenges, suggestions and productivity insights. Nothing here performs
// I/O: every function works on the snapshot it is handed.
package engagement

import (
	"strings"
	"time"

	"momentum/internal/model"
)

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// DaysBetween counts calendar days from a to b, both read in b's location.
// Daylight saving shifts do not affect the result.
func DaysBetween(a, b time.Time) int {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// SameDay reports whether a falls on the calendar day of b.
func SameDay(a, b time.Time) bool {
	return DaysBetween(a, b) == 0
}

// NormalizeTitle is the comparison key for task titles.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// CompletedToday reports whether the task was completed on now's calendar day.
func CompletedToday(t model.Task, now time.Time) bool {
	return t.Completed && t.CompletedAt != nil && SameDay(*t.CompletedAt, now)
}

// IsTodayTask reports whether a task belongs to today's plan: it is due,
// was created or was completed today.
func IsTodayTask(t model.Task, now time.Time) bool {
	if t.DueDate != nil && SameDay(*t.DueDate, now) {
		return true
	}
	if SameDay(t.CreatedAt, now) {
		return true
	}
	return CompletedToday(t, now)
}

// TodayTasks filters tasks down to today's plan, preserving order.
func TodayTasks(tasks []model.Task, now time.Time) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if IsTodayTask(t, now) {
			out = append(out, t)
		}
	}
	return out
}
