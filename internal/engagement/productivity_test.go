package engagement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"momentum/internal/model"
)

func TestRecordProductivityUpsertsDailyLog(t *testing.T) {
	p := model.NewProductivityData()
	now := time.Date(2026, time.March, 11, 9, 30, 0, 0, time.UTC)

	RecordProductivity(&p, now)
	RecordProductivity(&p, now.Add(5*time.Hour))

	require.Len(t, p.DailyLogs, 1)
	assert.Equal(t, 2, p.DailyLogs[0].CompletedCount)
	assert.Equal(t, []int{9, 14}, p.DailyLogs[0].Hours)
	assert.Equal(t, 1, p.HourCounts[9])
	assert.Equal(t, 1, p.HourCounts[14])
	assert.Equal(t, 2, p.WeekdayCounts[model.WeekdayNumber(time.Wednesday)])
}

func TestRecordProductivityPrunesOldLogs(t *testing.T) {
	now := time.Date(2026, time.June, 30, 12, 0, 0, 0, time.UTC)
	p := model.NewProductivityData()
	p.DailyLogs = []model.DailyLog{
		{Date: StartOfDay(now.AddDate(0, 0, -91)), CompletedCount: 4},
		{Date: StartOfDay(now.AddDate(0, 0, -90)), CompletedCount: 2},
	}

	RecordProductivity(&p, now)

	require.Len(t, p.DailyLogs, 2)
	assert.Equal(t, StartOfDay(now.AddDate(0, 0, -90)), p.DailyLogs[0].Date)
	assert.Equal(t, StartOfDay(now), p.DailyLogs[1].Date)
}

func TestRecordProductivityOnZeroValue(t *testing.T) {
	var p model.ProductivityData
	RecordProductivity(&p, time.Date(2026, time.March, 11, 9, 0, 0, 0, time.UTC))
	assert.Len(t, p.DailyLogs, 1)
}

func TestPeakHourTieGoesToEarliest(t *testing.T) {
	p := model.NewProductivityData()
	_, ok := PeakHour(p)
	assert.False(t, ok)

	p.HourCounts = map[int]int{21: 3, 7: 3, 12: 1}
	h, ok := PeakHour(p)
	assert.True(t, ok)
	assert.Equal(t, 7, h)
}

func TestMostProductiveWeekdayTieGoesToEarliest(t *testing.T) {
	p := model.NewProductivityData()
	_, ok := MostProductiveWeekday(p)
	assert.False(t, ok)

	p.WeekdayCounts = map[int]int{model.WeekdayNumber(time.Friday): 5, model.WeekdayNumber(time.Tuesday): 5}
	d, ok := MostProductiveWeekday(p)
	assert.True(t, ok)
	assert.Equal(t, time.Tuesday, d)
}

func TestCalendarSums(t *testing.T) {
	// Wednesday 2026-04-01
	now := time.Date(2026, time.April, 1, 18, 0, 0, 0, time.UTC)
	log := func(y int, m time.Month, d, n int) model.DailyLog {
		return model.DailyLog{Date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), CompletedCount: n}
	}
	p := model.NewProductivityData()
	p.DailyLogs = []model.DailyLog{
		log(2026, time.March, 22, 7), // Sunday two weeks back
		log(2026, time.March, 23, 1), // Monday last week
		log(2026, time.March, 29, 2), // Sunday last week
		log(2026, time.March, 30, 3), // Monday this week
		log(2026, time.March, 31, 4),
		log(2026, time.April, 1, 5),
	}

	assert.Equal(t, 12, CompletedThisWeek(p, now))
	assert.Equal(t, 3, CompletedLastWeek(p, now))
	assert.Equal(t, 5, CompletedThisMonth(p, now))
	assert.InDelta(t, 22.0/6.0, AveragePerActiveDay(p), 1e-9)
	assert.Zero(t, AveragePerActiveDay(model.NewProductivityData()))
}

func TestLast7DaysAlwaysSevenEntries(t *testing.T) {
	now := time.Date(2026, time.April, 1, 18, 0, 0, 0, time.UTC)
	p := model.NewProductivityData()
	p.DailyLogs = []model.DailyLog{
		{Date: StartOfDay(now), CompletedCount: 2},
		{Date: StartOfDay(now.AddDate(0, 0, -3)), CompletedCount: 1},
		{Date: StartOfDay(now.AddDate(0, 0, -9)), CompletedCount: 8},
	}

	series := Last7Days(p, now)

	require.Len(t, series, 7)
	assert.Equal(t, StartOfDay(now), series[6].Date)
	assert.Equal(t, []int{0, 0, 0, 1, 0, 0, 2}, counts(series))
	assert.Len(t, Last7Days(model.NewProductivityData(), now), 7)
}

func counts(series []DayCount) []int {
	out := make([]int, len(series))
	for i, d := range series {
		out[i] = d.Count
	}
	return out
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, time.April, 1, 18, 0, 0, 0, time.UTC)
	p := model.NewProductivityData()
	RecordProductivity(&p, now)

	in := Summarize(p, now)

	assert.True(t, in.HasPeakHour)
	assert.Equal(t, 18, in.PeakHour)
	assert.Equal(t, time.Wednesday, in.BestWeekday)
	assert.Equal(t, 1, in.ThisWeek)
	assert.Equal(t, 1, in.ThisMonth)
	assert.Len(t, in.Last7Days, 7)
}
