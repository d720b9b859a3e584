package engagement

import (
	"time"

	"momentum/internal/model"
)

// RecordProductivity logs a completion at now and prunes logs that fell out
// of the retention window.
func RecordProductivity(p *model.ProductivityData, now time.Time) {
	p.Normalize()

	hour := now.Hour()
	logged := false
	for i := range p.DailyLogs {
		if SameDay(p.DailyLogs[i].Date, now) {
			p.DailyLogs[i].CompletedCount++
			p.DailyLogs[i].Hours = append(p.DailyLogs[i].Hours, hour)
			logged = true
			break
		}
	}
	if !logged {
		p.DailyLogs = append(p.DailyLogs, model.DailyLog{
			Date:           StartOfDay(now),
			CompletedCount: 1,
			Hours:          []int{hour},
		})
	}

	p.HourCounts[hour]++
	p.WeekdayCounts[model.WeekdayNumber(now.Weekday())]++

	kept := p.DailyLogs[:0]
	for _, l := range p.DailyLogs {
		if DaysBetween(l.Date, now) <= model.ProductivityRetentionDays {
			kept = append(kept, l)
		}
	}
	p.DailyLogs = kept
}

// PeakHour returns the hour with the most completions. Ties go to the
// earliest hour; ok is false when nothing was recorded.
func PeakHour(p model.ProductivityData) (hour int, ok bool) {
	return argmax(p.HourCounts, 0, 23)
}

// MostProductiveWeekday returns the weekday with the most completions.
// Ties go to the earliest day of the Sunday-first week.
func MostProductiveWeekday(p model.ProductivityData) (time.Weekday, bool) {
	day, ok := argmax(p.WeekdayCounts, 1, 7)
	if !ok {
		return time.Sunday, false
	}
	return time.Weekday(day - 1), true
}

func argmax(counts map[int]int, lo, hi int) (int, bool) {
	best, bestCount := lo, 0
	for k := lo; k <= hi; k++ {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best, bestCount > 0
}

// StartOfWeek returns midnight of the Monday starting now's calendar week.
func StartOfWeek(now time.Time) time.Time {
	offset := (int(now.Weekday()) + 6) % 7
	return StartOfDay(now).AddDate(0, 0, -offset)
}

// CompletedThisWeek sums completions in the current Monday-based week.
func CompletedThisWeek(p model.ProductivityData, now time.Time) int {
	start := StartOfWeek(now)
	return sumDays(p, start, start.AddDate(0, 0, 7))
}

// CompletedLastWeek sums completions in the previous calendar week.
func CompletedLastWeek(p model.ProductivityData, now time.Time) int {
	start := StartOfWeek(now)
	return sumDays(p, start.AddDate(0, 0, -7), start)
}

// CompletedThisMonth sums completions in now's calendar month.
func CompletedThisMonth(p model.ProductivityData, now time.Time) int {
	year, month, _ := now.Date()
	start := time.Date(year, month, 1, 0, 0, 0, 0, now.Location())
	return sumDays(p, start, start.AddDate(0, 1, 0))
}

// sumDays adds up logs whose day lies in [from, to).
func sumDays(p model.ProductivityData, from, to time.Time) int {
	total := 0
	for _, l := range p.DailyLogs {
		if DaysBetween(from, l.Date) >= 0 && DaysBetween(l.Date, to) > 0 {
			total += l.CompletedCount
		}
	}
	return total
}

// AveragePerActiveDay divides all logged completions by the number of
// distinct days that have a log.
func AveragePerActiveDay(p model.ProductivityData) float64 {
	days := make(map[string]bool)
	total := 0
	for _, l := range p.DailyLogs {
		days[l.Date.Format(time.DateOnly)] = true
		total += l.CompletedCount
	}
	if len(days) == 0 {
		return 0
	}
	return float64(total) / float64(len(days))
}

// DayCount is one point of a daily series.
type DayCount struct {
	Date  time.Time
	Count int
}

// Last7Days returns exactly seven entries ending with today, zero for days
// without completions.
func Last7Days(p model.ProductivityData, now time.Time) []DayCount {
	today := StartOfDay(now)
	out := make([]DayCount, 7)
	for i := range out {
		day := today.AddDate(0, 0, i-6)
		out[i] = DayCount{Date: day}
		for _, l := range p.DailyLogs {
			if DaysBetween(l.Date, day) == 0 {
				out[i].Count += l.CompletedCount
			}
		}
	}
	return out
}

// Insights bundles every productivity query for presentation.
type Insights struct {
	PeakHour            int
	HasPeakHour         bool
	BestWeekday         time.Weekday
	HasBestWeekday      bool
	ThisWeek            int
	LastWeek            int
	ThisMonth           int
	AveragePerActiveDay float64
	Last7Days           []DayCount
}

func Summarize(p model.ProductivityData, now time.Time) Insights {
	in := Insights{
		ThisWeek:            CompletedThisWeek(p, now),
		LastWeek:            CompletedLastWeek(p, now),
		ThisMonth:           CompletedThisMonth(p, now),
		AveragePerActiveDay: AveragePerActiveDay(p),
		Last7Days:           Last7Days(p, now),
	}
	in.PeakHour, in.HasPeakHour = PeakHour(p)
	in.BestWeekday, in.HasBestWeekday = MostProductiveWeekday(p)
	return in
}
